package credit

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/model"
)

// HairstyleSource - pro 여부 조회용 카탈로그 인터페이스
type HairstyleSource interface {
	FetchHairstyleByName(ctx context.Context, name string) (*model.Hairstyle, error)
}

// Settler - 원자적 차감 + 사용 원장 기록 인터페이스
type Settler interface {
	DeductCredit(ctx context.Context, userID string) (int, error)
	InsertCreditUsage(ctx context.Context, userID, toolID string, creditsUsed int) error
}

// Gate - Entitlement Gate
// Generation Stage 이전에 실행되어 비싼 모델 호출 없이 fail-fast 한다.
type Gate struct {
	catalog HairstyleSource
	settler Settler
	rdb     *redis.Client
}

// NewGate - Gate 생성 (rdb는 nil 허용 - 캐시 생략)
func NewGate(catalog HairstyleSource, settler Settler, rdb *redis.Client) *Gate {
	return &Gate{
		catalog: catalog,
		settler: settler,
		rdb:     rdb,
	}
}

// CheckCredits - 잔액 검사. 플랜과 무관하게 balance < 1 이면 거부.
func (g *Gate) CheckCredits(profile *model.UserProfile) error {
	if profile.Credits < 1 {
		return apperr.ErrInsufficientCredits
	}
	return nil
}

// hairstyle pro 플래그 캐시 TTL
const proFlagCacheTTL = 10 * time.Minute

// CheckFeatureTier - 선택된 헤어스타일이 pro 전용인데 Free 플랜이면 거부.
// styleName이 비어 있으면 티어 게이트 대상 아님.
func (g *Gate) CheckFeatureTier(ctx context.Context, toolID, styleName string, profile *model.UserProfile) error {
	if toolID != "hairstyle" || styleName == "" {
		return nil
	}

	isPro, err := g.isProHairstyle(ctx, styleName)
	if err != nil {
		// 카탈로그 조회 실패는 게이트를 막지 않음 (원본 동작과 동일)
		log.Printf("⚠️  Hairstyle lookup failed for %q: %v", styleName, err)
		return nil
	}

	if isPro && profile.PlanName() == model.PlanFree {
		log.Printf("🛑 Pro hairstyle %q rejected for Free-plan user %s", styleName, profile.ID)
		return apperr.ErrUpgradeRequired
	}

	return nil
}

// isProHairstyle - pro 플래그 조회 (Redis 캐시 → DB)
func (g *Gate) isProHairstyle(ctx context.Context, styleName string) (bool, error) {
	cacheKey := "hairstyle:pro:" + styleName

	if g.rdb != nil {
		if cached, err := g.rdb.Get(ctx, cacheKey).Result(); err == nil {
			return cached == "1", nil
		}
	}

	hs, err := g.catalog.FetchHairstyleByName(ctx, styleName)
	if err != nil {
		return false, err
	}

	isPro := hs != nil && hs.IsPro

	if g.rdb != nil {
		value := "0"
		if isPro {
			value = "1"
		}
		if err := g.rdb.Set(ctx, cacheKey, value, proFlagCacheTTL).Err(); err != nil {
			log.Printf("⚠️  Failed to cache pro flag for %q: %v", styleName, err)
		}
	}

	return isPro, nil
}

// Settle - Settlement Stage: 원자적 차감 후 사용 원장 기록.
// 차감은 DB의 decrement_credit RPC 하나로만 일어난다 (read-then-write 금지).
// 원장 기록 실패는 잔액에 영향을 주지 않으므로 로그만 남긴다.
func (g *Gate) Settle(ctx context.Context, userID, toolID string) (int, error) {
	newBalance, err := g.settler.DeductCredit(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := g.settler.InsertCreditUsage(ctx, userID, toolID, 1); err != nil {
		log.Printf("⚠️  Failed to record credit usage for user %s: %v", userID, err)
	}

	return newBalance, nil
}
