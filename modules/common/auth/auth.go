package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/supabase-community/gotrue-go"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/config"
)

type contextKey string

const userIDKey contextKey = "userID"

// Client - Supabase Auth (GoTrue) 클라이언트
type Client struct {
	gotrue gotrue.Client
}

// extractProjectRef - Supabase URL에서 프로젝트 레퍼런스 추출
// https://abcdefg.supabase.co → abcdefg
func extractProjectRef(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	parts := strings.Split(url, ".")
	return parts[0]
}

// NewClient - Auth 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	apiKey := cfg.SupabaseAnonKey
	if apiKey == "" {
		apiKey = cfg.SupabaseServiceKey
	}

	projectRef := extractProjectRef(cfg.SupabaseURL)
	log.Printf("✅ Auth client initialized (project: %s)", projectRef)

	return &Client{
		gotrue: gotrue.New(projectRef, apiKey),
	}
}

// UserIDFromToken - Bearer 토큰으로 사용자 확인
func (c *Client) UserIDFromToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.ErrUnauthorized
	}

	resp, err := c.gotrue.WithToken(token).GetUser()
	if err != nil {
		log.Printf("⚠️  Token verification failed: %v", err)
		return "", apperr.ErrUnauthorized
	}

	return resp.ID.String(), nil
}

// Middleware - Authorization 헤더 검증 후 userID를 context에 적재
func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		userID, err := c.UserIDFromToken(r.Context(), token)
		if err != nil {
			apperr.WriteError(w, apperr.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID - context에 userID 적재
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID - context에서 userID 추출
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
