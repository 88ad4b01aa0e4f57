package analyze

import (
	"encoding/json"
	"log"
	"net/http"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/auth"
)

// Handler - POST /api/analyze
type Handler struct {
	service *Service
}

// NewHandler - Handler 생성
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Analyze - 얼굴 분석 요청 처리
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthorized)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.StoragePath == "" {
		http.Error(w, "storagePath is required", http.StatusBadRequest)
		return
	}

	result, err := h.service.Analyze(r.Context(), userID, req.StoragePath)
	if err != nil {
		log.Printf("❌ Analysis failed: user=%s err=%v", userID, err)
		apperr.WriteError(w, err)
		return
	}

	apperr.WriteJSON(w, http.StatusOK, AnalyzeResponse{AnalysisResult: result})
}
