package upload

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facelab-server/modules/common/auth"
)

type fakeStager struct {
	stagedMime string
	stagedSize int
	owner      string
}

func (f *fakeStager) Stage(ctx context.Context, imageData []byte, mimeType, ownerID string) (string, error) {
	f.stagedMime = mimeType
	f.stagedSize = len(imageData)
	f.owner = ownerID
	return ownerID + "/123.png", nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUploadStagesImage(t *testing.T) {
	stager := &fakeStager{}
	handler := NewHandler(stager)

	body, contentType := multipartBody(t, "image", pngBytes(t))
	req := httptest.NewRequest("POST", "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))

	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-1/123.png")
	assert.Equal(t, "image/png", stager.stagedMime)
	assert.Equal(t, "user-1", stager.owner)
	assert.Positive(t, stager.stagedSize)
}

func TestUploadRejectsNonImage(t *testing.T) {
	handler := NewHandler(&fakeStager{})

	body, contentType := multipartBody(t, "image", []byte("definitely not an image"))
	req := httptest.NewRequest("POST", "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))

	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresAuth(t *testing.T) {
	handler := NewHandler(&fakeStager{})

	body, contentType := multipartBody(t, "image", pngBytes(t))
	req := httptest.NewRequest("POST", "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadRequiresImageField(t *testing.T) {
	handler := NewHandler(&fakeStager{})

	body, contentType := multipartBody(t, "wrong-field", pngBytes(t))
	req := httptest.NewRequest("POST", "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))

	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
