package history

import (
	"context"
	"log"
	"net/http"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/auth"
	"facelab-server/modules/common/model"
)

// Database - 생성 이력 조회
type Database interface {
	ListGenerations(ctx context.Context, userID string) ([]model.Generation, error)
}

// Handler - GET /api/history
type Handler struct {
	db Database
}

// NewHandler - Handler 생성
func NewHandler(db Database) *Handler {
	return &Handler{db: db}
}

// List - 사용자의 생성 이력 반환 (최신순)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthorized)
		return
	}

	generations, err := h.db.ListGenerations(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to list generations for %s: %v", userID, err)
		apperr.WriteError(w, err)
		return
	}

	if generations == nil {
		generations = []model.Generation{}
	}

	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{"generations": generations})
}
