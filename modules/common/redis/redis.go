package redis

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/config"
)

// Connect - Redis 연결 생성
func Connect(cfg *config.Config) *redis.Client {
	log.Printf("🔌 Connecting to Redis: %s", cfg.GetRedisAddr())

	// TLS 설정
	var tlsConfig *tls.Config
	if cfg.RedisUseTLS {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		TLSConfig:    tlsConfig,
		DB:           0,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// 연결 테스트
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Redis ping failed: %v", err)
		return nil
	}

	log.Println("✅ Redis connected successfully")
	return rdb
}

// 같은 사용자의 동시 Generate 요청 직렬화용 잠금 TTL.
// 파이프라인 전체(업로드 다운로드 → Gemini → 저장 → 정산)보다 넉넉하게 잡는다.
const generationLockTTL = 3 * time.Minute

// Locker - 사용자 단위 in-flight 잠금
type Locker struct {
	rdb *redis.Client
}

// NewLocker - Locker 생성 (rdb nil이면 잠금 없이 통과)
func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{rdb: rdb}
}

// Acquire - 사용자 잠금 획득. 이미 잡혀 있으면 ErrGenerationBusy.
// 반환된 release 함수는 항상 호출되어야 한다.
func (l *Locker) Acquire(ctx context.Context, userID string) (func(), error) {
	if l.rdb == nil {
		return func() {}, nil
	}

	key := "generation:inflight:" + userID

	ok, err := l.rdb.SetNX(ctx, key, "1", generationLockTTL).Result()
	if err != nil {
		// Redis 장애가 파이프라인을 막으면 안 됨 - 잠금 없이 진행
		log.Printf("⚠️  Generation lock unavailable for %s: %v", userID, err)
		return func() {}, nil
	}

	if !ok {
		log.Printf("🛑 Concurrent generation rejected for user %s", userID)
		return nil, apperr.ErrGenerationBusy
	}

	return func() {
		if err := l.rdb.Del(context.Background(), key).Err(); err != nil {
			log.Printf("⚠️  Failed to release generation lock for %s: %v", userID, err)
		}
	}, nil
}
