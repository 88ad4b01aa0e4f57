package editor

import (
	"encoding/json"
	"net/http"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/auth"
)

// State - 클라이언트에 내려주는 세션 상태
type State struct {
	SessionID string `json:"sessionId"`
	Current   string `json:"current"`
	Index     int    `json:"index"`
	Count     int    `json:"count"`
	CanUndo   bool   `json:"canUndo"`
	CanRedo   bool   `json:"canRedo"`
}

// Handler - /api/editor/* 편집 세션 핸들러
type Handler struct {
	sessions *SessionManager
}

// NewHandler - Handler 생성
func NewHandler(sessions *SessionManager) *Handler {
	return &Handler{sessions: sessions}
}

type applyRequest struct {
	SessionID string `json:"sessionId"`
	Entry     string `json:"entry"`
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

// Apply - 편집 결과를 세션 이력에 추가
// sessionId가 비어 있으면 새 세션을 만든다.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthorized)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Entry == "" {
		http.Error(w, "entry is required", http.StatusBadRequest)
		return
	}

	var session *Session
	if req.SessionID == "" {
		session = h.sessions.CreateSession(userID)
	} else {
		session, ok = h.sessions.GetSession(req.SessionID, userID)
		if !ok {
			apperr.WriteError(w, apperr.ErrNotFound)
			return
		}
	}

	apperr.WriteJSON(w, http.StatusOK, session.Apply(req.Entry))
}

// Undo - 한 단계 되돌리기
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(s *Session) State { return s.Undo() })
}

// Redo - 한 단계 다시 적용
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(s *Session) State { return s.Redo() })
}

// GetState - 현재 세션 상태 조회
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthorized)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	session, ok := h.sessions.GetSession(sessionID, userID)
	if !ok {
		apperr.WriteError(w, apperr.ErrNotFound)
		return
	}

	apperr.WriteJSON(w, http.StatusOK, session.State())
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request, op func(*Session) State) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthorized)
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, ok := h.sessions.GetSession(req.SessionID, userID)
	if !ok {
		apperr.WriteError(w, apperr.ErrNotFound)
		return
	}

	apperr.WriteJSON(w, http.StatusOK, op(session))
}
