package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/model"
)

const analysisToolID = "analysis"

const analysisInstruction = "Analyze the facial features in this image and provide a detailed report according to the provided JSON schema."

// Storage - 임시 객체 다운로드/정리
type Storage interface {
	Download(ctx context.Context, path string) ([]byte, string, error)
	Release(path string)
}

// Database - 프로필 조회 + 분석 레코드 기록/확정
type Database interface {
	FetchUserProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	InsertGeneration(ctx context.Context, userID, toolID, imageURL, imageURLHQ string) (int64, error)
	MarkGenerationComplete(ctx context.Context, generationID int64) error
}

// Gate - 크레딧 게이트와 정산
type Gate interface {
	CheckCredits(profile *model.UserProfile) error
	Settle(ctx context.Context, userID, toolID string) (int, error)
}

// Analyzer - 구조화 출력 모델 호출
type Analyzer interface {
	GenerateJSON(ctx context.Context, imageData []byte, mimeType, instruction string, schema *genai.Schema) (string, error)
}

// Service - 얼굴 분석 파이프라인 (1 크레딧 소모, 이미지 저장 없음)
type Service struct {
	storage  Storage
	db       Database
	gate     Gate
	analyzer Analyzer
}

// NewService - Service 생성
func NewService(storage Storage, db Database, gate Gate, analyzer Analyzer) *Service {
	return &Service{storage: storage, db: db, gate: gate, analyzer: analyzer}
}

// Analyze - 스테이징된 이미지에 대해 구조화 분석 실행
func (s *Service) Analyze(ctx context.Context, userID, storagePath string) (*FacialAnalysisResult, error) {
	if storagePath == "" {
		return nil, fmt.Errorf("missing storage path")
	}

	defer s.storage.Release(storagePath)

	imageData, mimeType, err := s.storage.Download(ctx, storagePath)
	if err != nil {
		return nil, err
	}

	profile, err := s.db.FetchUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.CheckCredits(profile); err != nil {
		return nil, err
	}

	jsonText, err := s.analyzer.GenerateJSON(ctx, imageData, mimeType, analysisInstruction, analysisSchema)
	if err != nil {
		return nil, err
	}

	result, err := parseAnalysis(jsonText)
	if err != nil {
		return nil, err
	}

	// 분석은 결과 이미지가 없으므로 레코드만 남긴다
	generationID, err := s.db.InsertGeneration(ctx, userID, analysisToolID, "", "")
	if err != nil {
		log.Printf("⚠️  Failed to record analysis generation for %s: %v", userID, err)
	}

	if _, err := s.gate.Settle(ctx, userID, analysisToolID); err != nil {
		return nil, err
	}

	if generationID != 0 {
		if err := s.db.MarkGenerationComplete(ctx, generationID); err != nil {
			log.Printf("⚠️  Failed to finalize analysis generation %d: %v", generationID, err)
		}
	}

	log.Printf("✅ Facial analysis completed: user=%s perceivedAge=%d", userID, result.PerceivedAge)
	return result, nil
}

// parseAnalysis - 모델 응답 JSON 파싱 (```json 펜스 제거 포함)
func parseAnalysis(jsonText string) (*FacialAnalysisResult, error) {
	trimmed := strings.TrimSpace(jsonText)
	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}

	var result FacialAnalysisResult
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return nil, apperr.GenerationFailed(fmt.Sprintf("invalid analysis JSON: %v", err))
	}
	return &result, nil
}
