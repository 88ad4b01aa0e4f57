package upload

import (
	"context"
	"io"
	"log"
	"net/http"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/auth"
	"facelab-server/modules/common/imaging"
)

const maxUploadBytes = 20 << 20 // 20MB

// Stager - 임시 버킷 업로드
type Stager interface {
	Stage(ctx context.Context, image []byte, mimeType, ownerID string) (string, error)
}

// Handler - POST /api/uploads
type Handler struct {
	storage Stager
}

// NewHandler - Handler 생성
func NewHandler(storage Stager) *Handler {
	return &Handler{storage: storage}
}

// Upload - multipart 이미지 수신 후 임시 버킷에 스테이징
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Printf("❌ Failed to parse multipart form: %v", err)
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		log.Printf("❌ Failed to read upload: %v", err)
		http.Error(w, "Failed to read image", http.StatusBadRequest)
		return
	}

	// Content-Type 헤더보다 실제 바이트 검사를 우선
	format, err := imaging.Sniff(imageData)
	if err != nil {
		log.Printf("⚠️  Unrecognized image upload from %s (%s): %v", userID, header.Filename, err)
		http.Error(w, "Unsupported image format", http.StatusBadRequest)
		return
	}
	mimeType := "image/" + format

	storagePath, err := h.storage.Stage(r.Context(), imageData, mimeType, userID)
	if err != nil {
		log.Printf("❌ Failed to stage upload for %s: %v", userID, err)
		apperr.WriteError(w, err)
		return
	}

	apperr.WriteJSON(w, http.StatusOK, map[string]string{"storagePath": storagePath})
}
