package transform

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/auth"
)

// Handler - POST /api/transform
type Handler struct {
	service *Service
}

// NewHandler - Handler 생성
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Transform - 이미지 변환 요청 처리
func (h *Handler) Transform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthorized)
		return
	}

	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid transform request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Tool.ID == "" || req.StoragePath == "" {
		http.Error(w, "tool.id and storagePath are required", http.StatusBadRequest)
		return
	}

	params, err := ParseParams(req.Tool.ID, req.Params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Process(r.Context(), userID, req.Tool.ID, req.Tool.Name, req.StoragePath, params)
	if err != nil {
		log.Printf("❌ Transform failed: user=%s tool=%s err=%v", userID, req.Tool.ID, err)
		apperr.WriteError(w, err)
		return
	}

	resp := TransformResponse{
		NewImageBase64: "data:image/webp;base64," + base64.StdEncoding.EncodeToString(result.OptimizedImage),
		GenerationID:   result.GenerationID,
	}
	apperr.WriteJSON(w, http.StatusOK, resp)
}
