package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"

	"github.com/supabase-community/supabase-go"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/config"
	"facelab-server/modules/common/model"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// FetchUserProfile - users 테이블에서 프로필 조회 (plans(name) 조인 포함)
func (c *Client) FetchUserProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profiles []model.UserProfile

	data, _, err := c.supabase.From("users").
		Select("*, plans(name)", "exact", false).
		Eq("id", userID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse user profile: %w", err)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("user not found: %s", userID)
	}

	profile := &profiles[0]
	log.Printf("✅ User profile fetched: %s (plan: %s, credits: %d)",
		profile.ID, profile.PlanName(), profile.Credits)

	return profile, nil
}

// FetchHairstyleByName - hairstyles 카탈로그에서 이름으로 조회
func (c *Client) FetchHairstyleByName(ctx context.Context, name string) (*model.Hairstyle, error) {
	var hairstyles []model.Hairstyle

	data, _, err := c.supabase.From("hairstyles").
		Select("id, name, is_pro, gender, category", "", false).
		Eq("name", name).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query hairstyles: %w", err)
	}

	if err := json.Unmarshal(data, &hairstyles); err != nil {
		return nil, fmt.Errorf("failed to parse hairstyle response: %w", err)
	}

	if len(hairstyles) == 0 {
		return nil, nil
	}

	return &hairstyles[0], nil
}

// InsertGeneration - generations 테이블에 pending 레코드 생성 (Persistence Stage 성공 시에만)
// 정산까지 끝나면 MarkGenerationComplete로 확정한다.
func (c *Client) InsertGeneration(ctx context.Context, userID, toolID, imageURL, imageURLHQ string) (int64, error) {
	insertData := map[string]interface{}{
		"user_id": userID,
		"tool_id": toolID,
		"status":  model.GenerationPending,
	}
	if imageURL != "" {
		insertData["image_url"] = imageURL
	}
	if imageURLHQ != "" {
		insertData["image_url_hq"] = imageURLHQ
	}

	data, _, err := c.supabase.From("generations").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return 0, fmt.Errorf("failed to insert generation record: %w", err)
	}

	var generations []model.Generation
	if err := json.Unmarshal(data, &generations); err != nil {
		return 0, fmt.Errorf("failed to parse generation response: %w", err)
	}

	if len(generations) == 0 {
		return 0, fmt.Errorf("no generation record returned")
	}

	genID := generations[0].ID
	log.Printf("✅ Generation record created: ID=%d (tool: %s)", genID, toolID)

	return genID, nil
}

// MarkGenerationComplete - 정산 완료 후 레코드 확정
// pending으로 남은 행은 정산 직전에 중단된 파이프라인을 뜻하므로
// 사후 점검으로 찾아낼 수 있다.
func (c *Client) MarkGenerationComplete(ctx context.Context, generationID int64) error {
	cfg := config.GetConfig()

	patchURL := fmt.Sprintf("%s/rest/v1/generations?id=eq.%d", cfg.SupabaseURL, generationID)

	body, err := json.Marshal(map[string]string{"status": model.GenerationComplete})
	if err != nil {
		return fmt.Errorf("failed to encode status update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "PATCH", patchURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create status update request: %w", err)
	}

	req.Header.Set("apikey", cfg.SupabaseServiceKey)
	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	httpClient := &http.Client{}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update generation status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status update failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// FetchGeneration - generations 테이블에서 ID로 조회
func (c *Client) FetchGeneration(ctx context.Context, generationID int64) (*model.Generation, error) {
	var generations []model.Generation

	data, _, err := c.supabase.From("generations").
		Select("id, user_id, tool_id, image_url, image_url_hq, status, created_at", "", false).
		Eq("id", fmt.Sprintf("%d", generationID)).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query generations: %w", err)
	}

	if err := json.Unmarshal(data, &generations); err != nil {
		return nil, fmt.Errorf("failed to parse generation response: %w", err)
	}

	if len(generations) == 0 {
		return nil, apperr.ErrNotFound
	}

	return &generations[0], nil
}

// ListGenerations - 사용자의 생성 이력 조회 (최신순)
func (c *Client) ListGenerations(ctx context.Context, userID string) ([]model.Generation, error) {
	var generations []model.Generation

	data, _, err := c.supabase.From("generations").
		Select("id, user_id, tool_id, image_url, image_url_hq, status, created_at", "", false).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}

	if err := json.Unmarshal(data, &generations); err != nil {
		return nil, fmt.Errorf("failed to parse generations: %w", err)
	}

	// 최신순 정렬
	sort.Slice(generations, func(i, j int) bool {
		return generations[i].CreatedAt.After(generations[j].CreatedAt)
	})

	return generations, nil
}

// InsertCreditUsage - credit_usage 원장에 사용 기록 추가
func (c *Client) InsertCreditUsage(ctx context.Context, userID, toolID string, creditsUsed int) error {
	insertData := map[string]interface{}{
		"user_id":      userID,
		"tool_id":      toolID,
		"credits_used": creditsUsed,
	}

	_, _, err := c.supabase.From("credit_usage").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert credit usage: %w", err)
	}

	log.Printf("✅ Credit usage recorded: user=%s tool=%s credits=%d", userID, toolID, creditsUsed)
	return nil
}

// InsertNotification - notifications 테이블에 알림 생성
func (c *Client) InsertNotification(ctx context.Context, userID, title, message, notifType string) error {
	insertData := map[string]interface{}{
		"user_id": userID,
		"title":   title,
		"message": message,
		"type":    notifType,
		"read":    false,
	}

	_, _, err := c.supabase.From("notifications").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// DeductCredit - 크레딧 1개 원자적 차감
// decrement_credit RPC는 UPDATE users SET credits = credits - 1
// WHERE id = p_user_id AND credits >= 1 을 수행하고 새 잔액을 반환한다.
// 조건 불충족이면 null 반환 → ErrInsufficientCredits.
// read-then-write 경쟁을 막기 위해 잔액 변경 경로는 이 RPC 하나뿐이다.
func (c *Client) DeductCredit(ctx context.Context, userID string) (int, error) {
	cfg := config.GetConfig()

	rpcURL := fmt.Sprintf("%s/rest/v1/rpc/decrement_credit", cfg.SupabaseURL)

	body, err := json.Marshal(map[string]string{"p_user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to encode rpc body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", rpcURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create rpc request: %w", err)
	}

	req.Header.Set("apikey", cfg.SupabaseServiceKey)
	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call decrement_credit: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read rpc response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("decrement_credit failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var newBalance *int
	if err := json.Unmarshal(respBody, &newBalance); err != nil {
		return 0, fmt.Errorf("failed to parse rpc response: %w", err)
	}

	if newBalance == nil {
		log.Printf("⚠️  Credit deduction rejected for user %s (balance below 1)", userID)
		return 0, apperr.ErrInsufficientCredits
	}

	log.Printf("💰 Credit deducted: user=%s balance=%d", userID, *newBalance)
	return *newBalance, nil
}
