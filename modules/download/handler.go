package download

import (
	"encoding/json"
	"log"
	"net/http"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/auth"
)

// Handler - POST /api/download-hq
type Handler struct {
	service *Service
}

// NewHandler - Handler 생성
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// DownloadHQ - HQ 다운로드 서명 URL 발급 처리
func (h *Handler) DownloadHQ(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthorized)
		return
	}

	var req struct {
		GenerationID int64 `json:"generationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.GenerationID == 0 {
		http.Error(w, "generationId is required", http.StatusBadRequest)
		return
	}

	signedURL, err := h.service.SignedDownloadURL(r.Context(), userID, req.GenerationID)
	if err != nil {
		log.Printf("❌ HQ download denied: user=%s generation=%d err=%v", userID, req.GenerationID, err)
		apperr.WriteError(w, err)
		return
	}

	apperr.WriteJSON(w, http.StatusOK, map[string]string{"signedUrl": signedURL})
}
