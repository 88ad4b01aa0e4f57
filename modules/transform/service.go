package transform

import (
	"context"
	"fmt"
	"log"
	"time"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/model"
	"facelab-server/modules/tools"
)

// Storage - 임시 객체 수명주기 + 이중 사본 저장
type Storage interface {
	Download(ctx context.Context, path string) ([]byte, string, error)
	Release(path string)
	UploadHQ(ctx context.Context, path string, pngData []byte) error
	UploadOptimized(ctx context.Context, path string, webpData []byte) error
	PublicURL(path string) string
}

// Database - 프로필 조회 + 생성 레코드 기록/확정
type Database interface {
	FetchUserProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	InsertGeneration(ctx context.Context, userID, toolID, imageURL, imageURLHQ string) (int64, error)
	MarkGenerationComplete(ctx context.Context, generationID int64) error
}

// Gate - 크레딧/플랜 게이트와 정산
type Gate interface {
	CheckCredits(profile *model.UserProfile) error
	CheckFeatureTier(ctx context.Context, toolID, styleName string, profile *model.UserProfile) error
	Settle(ctx context.Context, userID, toolID string) (int, error)
}

// Generator - 외부 생성 모델 호출
type Generator interface {
	EditImage(ctx context.Context, imageData []byte, mimeType, instruction string) ([]byte, error)
}

// Locker - 사용자 단위 동시 실행 잠금
type Locker interface {
	Acquire(ctx context.Context, userID string) (func(), error)
}

// Notifier - 생성 완료/저잔액 알림
type Notifier interface {
	GenerationComplete(ctx context.Context, userID, toolName string)
	LowCredits(ctx context.Context, userID string, balance int)
}

// Optimizer - PNG → 최적화 사본 변환 함수
type Optimizer func(pngData []byte, quality float32) ([]byte, error)

// Service - 크레딧 게이트 이미지 변환 파이프라인.
// 단계는 엄격히 순차 실행: 다운로드 → 게이트 → 생성 → 이중 저장 →
// 레코드 → 정산 → 임시 정리. 임시 객체는 성공/실패 무관하게 정확히
// 한 번 Release 된다.
type Service struct {
	storage      Storage
	db           Database
	gate         Gate
	generator    Generator
	locker       Locker
	notifier     Notifier
	optimize     Optimizer
	webpQuality  float32
	lowThreshold int
}

// NewService - Service 생성
func NewService(storage Storage, db Database, gate Gate, generator Generator,
	locker Locker, notifier Notifier, optimize Optimizer, webpQuality float32, lowThreshold int) *Service {
	return &Service{
		storage:      storage,
		db:           db,
		gate:         gate,
		generator:    generator,
		locker:       locker,
		notifier:     notifier,
		optimize:     optimize,
		webpQuality:  webpQuality,
		lowThreshold: lowThreshold,
	}
}

// Process - 업로드된 임시 객체에 대해 변환 파이프라인 전체 실행
func (s *Service) Process(ctx context.Context, userID, toolID, toolName, storagePath string, params ToolParams) (*Result, error) {
	if storagePath == "" {
		return nil, fmt.Errorf("missing storage path")
	}

	// 임시 객체는 모든 종료 경로에서 정리
	defer s.storage.Release(storagePath)

	// 같은 사용자의 동시 Generate 직렬화
	release, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	log.Printf("🚀 Transform pipeline started: user=%s tool=%s path=%s", userID, toolID, storagePath)

	// 1. 임시 스토리지에서 원본 다운로드
	imageData, mimeType, err := s.storage.Download(ctx, storagePath)
	if err != nil {
		return nil, err
	}

	// 2. Entitlement Check - 모델 호출 전에 fail-fast
	profile, err := s.db.FetchUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.gate.CheckCredits(profile); err != nil {
		return nil, err
	}

	if err := s.gate.CheckFeatureTier(ctx, toolID, SelectedStyle(params), profile); err != nil {
		return nil, err
	}

	// 3. Generation Stage
	displayName := toolName
	if tool, ok := tools.Lookup(toolID); ok {
		displayName = tool.Name
	}
	instruction := BuildPrompt(toolID, displayName, params)

	pngData, err := s.generator.EditImage(ctx, imageData, mimeType, instruction)
	if err != nil {
		return nil, err
	}

	// 4. Persistence Stage - HQ → 최적화 → 레코드 순서, 롤백 없음
	webpData, err := s.optimize(pngData, s.webpQuality)
	if err != nil {
		return nil, &apperr.PersistenceError{Step: "optimize", Err: err}
	}

	filenameBase := fmt.Sprintf("%s/%s-%d", userID, toolID, time.Now().UnixMilli())
	hqPath := filenameBase + ".png"
	optimizedPath := filenameBase + ".webp"

	if err := s.storage.UploadHQ(ctx, hqPath, pngData); err != nil {
		return nil, err
	}

	if err := s.storage.UploadOptimized(ctx, optimizedPath, webpData); err != nil {
		return nil, err
	}

	publicURL := s.storage.PublicURL(optimizedPath)

	generationID, err := s.db.InsertGeneration(ctx, userID, toolID, publicURL, hqPath)
	if err != nil {
		return nil, &apperr.PersistenceError{Step: "generation insert", Err: err}
	}

	// 5. Settlement Stage - 원자적 차감 + 원장 기록
	newBalance, err := s.gate.Settle(ctx, userID, toolID)
	if err != nil {
		return nil, err
	}

	// 정산까지 끝났을 때만 레코드 확정. 실패하면 pending으로 남아
	// 사후 점검 대상이 된다 - 사용자 응답은 막지 않는다.
	if err := s.db.MarkGenerationComplete(ctx, generationID); err != nil {
		log.Printf("⚠️  Failed to finalize generation %d: %v", generationID, err)
	}

	// 6. 알림 (best-effort)
	s.notifier.GenerationComplete(ctx, userID, displayName)
	if newBalance <= s.lowThreshold {
		s.notifier.LowCredits(ctx, userID, newBalance)
	}

	log.Printf("✅ Transform pipeline completed: user=%s tool=%s generation=%d balance=%d",
		userID, toolID, generationID, newBalance)

	return &Result{
		OptimizedImage: webpData,
		GenerationID:   generationID,
	}, nil
}
