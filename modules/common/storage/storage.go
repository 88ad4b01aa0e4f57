package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/config"
)

// Client - Supabase Storage 클라이언트 (버킷 3개: 임시/HQ/최적화)
type Client struct {
	httpClient *http.Client
}

// NewClient - Storage 클라이언트 생성
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Stage - 임시 버킷에 사용자 이미지 업로드
// 경로는 {userID}/{unix_ms}.{ext} - 요청 단위 소유, Release와 1:1 쌍을 이룬다.
func (c *Client) Stage(ctx context.Context, image []byte, mimeType, ownerID string) (string, error) {
	cfg := config.GetConfig()

	ext := extensionFor(mimeType)
	path := fmt.Sprintf("%s/%d.%s", ownerID, time.Now().UnixMilli(), ext)

	log.Printf("📤 Staging upload: %s (%d bytes, %s)", path, len(image), mimeType)

	if err := c.upload(ctx, cfg.TempBucket, path, image, mimeType); err != nil {
		return "", &apperr.StorageError{Op: "stage", Err: err}
	}

	log.Printf("✅ Temp object staged: %s", path)
	return path, nil
}

// Release - 임시 객체 삭제 (best-effort)
// 실패는 로그만 남기고 호출자의 응답을 막지 않는다.
func (c *Client) Release(path string) {
	if path == "" {
		return
	}

	cfg := config.GetConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", cfg.SupabaseURL, cfg.TempBucket, path)

	req, err := http.NewRequestWithContext(ctx, "DELETE", deleteURL, nil)
	if err != nil {
		log.Printf("⚠️  Failed to build temp delete request for %s: %v", path, err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️  Failed to delete temp object %s: %v", path, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("⚠️  Temp delete returned status %d for %s: %s", resp.StatusCode, path, string(body))
		return
	}

	log.Printf("🧹 Temp object released: %s", path)
}

// Download - 임시 버킷에서 이미지 다운로드 (mime 타입 포함)
func (c *Client) Download(ctx context.Context, path string) ([]byte, string, error) {
	cfg := config.GetConfig()

	downloadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", cfg.SupabaseURL, cfg.TempBucket, path)
	log.Printf("📥 Downloading temp object: %s", path)

	req, err := http.NewRequestWithContext(ctx, "GET", downloadURL, nil)
	if err != nil {
		return nil, "", &apperr.StorageError{Op: "download", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &apperr.StorageError{Op: "download", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", &apperr.StorageError{
			Op:  "download",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &apperr.StorageError{Op: "download", Err: err}
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}

	log.Printf("✅ Temp object downloaded: %d bytes (%s)", len(imageData), mimeType)
	return imageData, mimeType, nil
}

// UploadHQ - 제한 버킷에 고화질 PNG 저장
func (c *Client) UploadHQ(ctx context.Context, path string, pngData []byte) error {
	cfg := config.GetConfig()

	log.Printf("📤 Uploading HQ image: %s/%s (%d bytes)", cfg.HQBucket, path, len(pngData))

	if err := c.upload(ctx, cfg.HQBucket, path, pngData, "image/png"); err != nil {
		return &apperr.PersistenceError{Step: "hq upload", Err: err}
	}
	return nil
}

// UploadOptimized - 공개 버킷에 최적화 WebP 저장
func (c *Client) UploadOptimized(ctx context.Context, path string, webpData []byte) error {
	cfg := config.GetConfig()

	log.Printf("📤 Uploading optimized image: %s/%s (%d bytes)", cfg.OptimizedBucket, path, len(webpData))

	if err := c.upload(ctx, cfg.OptimizedBucket, path, webpData, "image/webp"); err != nil {
		return &apperr.PersistenceError{Step: "optimized upload", Err: err}
	}
	return nil
}

// PublicURL - 공개 버킷 객체의 영구 URL
func (c *Client) PublicURL(path string) string {
	cfg := config.GetConfig()
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", cfg.SupabaseURL, cfg.OptimizedBucket, path)
}

// SignedURL - HQ 버킷 객체의 시한부 서명 URL (기본 60초)
// 서명 URL은 영구 참조가 아니다 - 만료 후 재발급 필요.
func (c *Client) SignedURL(ctx context.Context, path string, ttlSeconds int) (string, error) {
	cfg := config.GetConfig()

	signURL := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", cfg.SupabaseURL, cfg.HQBucket, path)

	body, err := json.Marshal(map[string]int{"expiresIn": ttlSeconds})
	if err != nil {
		return "", &apperr.StorageError{Op: "sign", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", signURL, bytes.NewReader(body))
	if err != nil {
		return "", &apperr.StorageError{Op: "sign", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &apperr.StorageError{Op: "sign", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &apperr.StorageError{
			Op:  "sign",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", &apperr.StorageError{Op: "sign", Err: err}
	}

	if signed.SignedURL == "" {
		return "", &apperr.StorageError{Op: "sign", Err: fmt.Errorf("empty signed url")}
	}

	// 응답의 signedURL은 /object/sign/... 상대 경로
	fullURL := cfg.SupabaseURL + "/storage/v1" + signed.SignedURL
	log.Printf("🔗 Signed URL created for %s (ttl: %ds)", path, ttlSeconds)
	return fullURL, nil
}

// upload - Supabase Storage API로 객체 업로드
func (c *Client) upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	cfg := config.GetConfig()

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", cfg.SupabaseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// extensionFor - mime 타입에서 파일 확장자 유도 (image/jpeg → jpeg)
func extensionFor(mimeType string) string {
	if idx := strings.Index(mimeType, "/"); idx >= 0 && idx+1 < len(mimeType) {
		return mimeType[idx+1:]
	}
	return "png"
}
