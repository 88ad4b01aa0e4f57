package download

import (
	"context"
	"log"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/config"
	"facelab-server/modules/common/model"
)

// Storage - 서명 URL 발급
type Storage interface {
	SignedURL(ctx context.Context, path string, ttlSeconds int) (string, error)
}

// Database - 프로필/생성 레코드 조회
type Database interface {
	FetchUserProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	FetchGeneration(ctx context.Context, generationID int64) (*model.Generation, error)
}

// Service - HQ 다운로드 게이트 (Pro 전용, 소유권 검증, 60초 서명 URL)
type Service struct {
	storage Storage
	db      Database
}

// NewService - Service 생성
func NewService(storage Storage, db Database) *Service {
	return &Service{storage: storage, db: db}
}

// SignedDownloadURL - 소유한 생성 결과의 HQ 사본에 대한 시한부 URL 발급
func (s *Service) SignedDownloadURL(ctx context.Context, userID string, generationID int64) (string, error) {
	profile, err := s.db.FetchUserProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	// HQ 다운로드는 유료 플랜 전용
	if profile.PlanName() == model.PlanFree {
		return "", apperr.ErrUpgradeRequired
	}

	generation, err := s.db.FetchGeneration(ctx, generationID)
	if err != nil {
		return "", err
	}

	if generation.UserID != userID {
		return "", apperr.ErrForbidden
	}

	if generation.ImageURLHQ == "" {
		return "", apperr.ErrNotFound
	}

	cfg := config.GetConfig()
	signedURL, err := s.storage.SignedURL(ctx, generation.ImageURLHQ, cfg.SignedURLTTLSeconds)
	if err != nil {
		return "", err
	}

	log.Printf("💾 HQ download authorized: user=%s generation=%d", userID, generationID)
	return signedURL, nil
}
