package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// 파이프라인 전역 에러 분류
var (
	ErrUnauthorized        = errors.New("Unauthorized")
	ErrInsufficientCredits = errors.New("Insufficient credits.")
	ErrUpgradeRequired     = errors.New("This is a Pro feature. Please upgrade.")
	ErrGenerationBusy      = errors.New("Another generation is already in progress.")
	ErrNotFound            = errors.New("Not found.")
	ErrForbidden           = errors.New("Forbidden: You do not own this generation.")
)

// GenerationError - 외부 모델 호출 실패 (안전 필터 차단, API 에러, 빈 응답)
type GenerationError struct {
	Reason string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("API call failed: %s", e.Reason)
}

// GenerationFailed - GenerationError 생성 헬퍼
func GenerationFailed(reason string) error {
	return &GenerationError{Reason: reason}
}

// StorageError - 업로드/다운로드/삭제 실패
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError - 생성 성공 이후의 DB/스토리지 기록 실패
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed at %s: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// StatusFor - 에러 분류를 HTTP 상태코드로 매핑
func StatusFor(err error) int {
	var genErr *GenerationError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInsufficientCredits), errors.Is(err, ErrUpgradeRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrGenerationBusy):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &genErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteError - 단일 에러 메시지 JSON 응답 (부분 성공 상태 없음)
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// WriteJSON - 성공 응답 JSON 인코딩
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
