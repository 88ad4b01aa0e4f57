package editor

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session - 편집 세션 하나 (이력 + 소유자)
type Session struct {
	ID           string
	UserID       string
	history      *History
	mutex        sync.Mutex
	createdAt    time.Time
	lastActivity time.Time
}

// SessionManager - 메모리 내 편집 세션 레지스트리
// 세션은 프로세스 재시작 시 사라진다 - 영속화하지 않는다.
type SessionManager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

// NewSessionManager - SessionManager 생성 후 정리 루틴 시작
func NewSessionManager() *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*Session),
	}
	sm.startCleanupRoutine()
	return sm
}

// CreateSession - 새 편집 세션 생성
func (sm *SessionManager) CreateSession(userID string) *Session {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	session := &Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		history:      NewHistory(),
		createdAt:    time.Now(),
		lastActivity: time.Now(),
	}
	sm.sessions[session.ID] = session

	log.Printf("✅ Editor session created: %s (user: %s)", session.ID, userID)
	return session
}

// GetSession - 소유자 검증 포함 세션 조회
func (sm *SessionManager) GetSession(sessionID, userID string) (*Session, bool) {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	session, ok := sm.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, false
	}
	return session, true
}

// Apply - 세션 이력에 새 편집 결과 추가
func (s *Session) Apply(entry string) State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.history.Apply(entry)
	s.lastActivity = time.Now()
	return s.stateLocked()
}

// Undo - 한 단계 되돌리기
func (s *Session) Undo() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.history.Undo()
	s.lastActivity = time.Now()
	return s.stateLocked()
}

// Redo - 한 단계 다시 적용
func (s *Session) Redo() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.history.Redo()
	s.lastActivity = time.Now()
	return s.stateLocked()
}

// State - 현재 세션 상태 스냅샷
func (s *Session) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	current, _ := s.history.Current()
	return State{
		SessionID: s.ID,
		Current:   current,
		Index:     s.history.Index(),
		Count:     len(s.history.Entries()),
		CanUndo:   s.history.CanUndo(),
		CanRedo:   s.history.CanRedo(),
	}
}

// 만료된 세션 정리 (24시간 후, 또는 2시간 비활성)
func (sm *SessionManager) cleanupExpiredSessions() {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	now := time.Now()
	expiredThreshold := 24 * time.Hour
	inactiveThreshold := 2 * time.Hour

	cleaned := 0
	for sessionID, session := range sm.sessions {
		session.mutex.Lock()
		isExpired := now.Sub(session.createdAt) > expiredThreshold
		isInactive := now.Sub(session.lastActivity) > inactiveThreshold
		session.mutex.Unlock()

		if isExpired || isInactive {
			delete(sm.sessions, sessionID)
			cleaned++
			log.Printf("🧹 Cleaned up editor session: %s", sessionID)
		}
	}

	if cleaned > 0 {
		log.Printf("🗑️  Cleaned up %d editor sessions (Active: %d)", cleaned, len(sm.sessions))
	}
}

// 정기적 정리 작업 시작
func (sm *SessionManager) startCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			sm.cleanupExpiredSessions()
		}
	}()
}
