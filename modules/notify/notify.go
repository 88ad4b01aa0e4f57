package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"facelab-server/modules/common/model"
)

// Database - 알림 레코드 기록
type Database interface {
	InsertNotification(ctx context.Context, userID, title, message, notifType string) error
}

// Service - 알림 생성 + 실시간 푸시
// 알림 실패는 파이프라인 결과에 영향을 주지 않는다 (best-effort).
type Service struct {
	db  Database
	hub *Hub
}

// NewService - Service 생성
func NewService(db Database, hub *Hub) *Service {
	return &Service{db: db, hub: hub}
}

// GenerationComplete - 변환 완료 알림
func (s *Service) GenerationComplete(ctx context.Context, userID, toolName string) {
	s.notify(ctx, userID,
		"Generation Complete",
		fmt.Sprintf("Your %s transformation is ready!", toolName),
		model.NotificationSuccess)
}

// LowCredits - 저잔액 경고 알림
func (s *Service) LowCredits(ctx context.Context, userID string, balance int) {
	s.notify(ctx, userID,
		"Low Credits",
		fmt.Sprintf("You have %d credits remaining. Consider upgrading your plan.", balance),
		model.NotificationWarning)
}

func (s *Service) notify(ctx context.Context, userID, title, message, notifType string) {
	if err := s.db.InsertNotification(ctx, userID, title, message, notifType); err != nil {
		log.Printf("⚠️  Failed to insert notification for %s: %v", userID, err)
	}

	payload, err := json.Marshal(map[string]string{
		"type":    notifType,
		"title":   title,
		"message": message,
	})
	if err != nil {
		return
	}
	s.hub.Push(userID, payload)

	log.Printf("🔔 Notification sent: user=%s title=%q", userID, title)
}
