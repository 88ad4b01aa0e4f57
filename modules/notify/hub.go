package notify

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"facelab-server/modules/common/auth"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 개발용 - 모든 origin 허용
		// 프로덕션에서는 특정 도메인만 허용하도록 수정
		return true
	},
}

// 연결된 클라이언트 정보
type client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub - 사용자별 알림 푸시 허브
// 한 사용자가 여러 탭으로 붙을 수 있으므로 userID 당 클라이언트 목록을 유지한다.
type Hub struct {
	clients map[string][]*client
	mutex   sync.RWMutex
}

// NewHub - Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string][]*client),
	}
}

// HandleWS - GET /ws 웹소켓 연결 처리
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 256),
	}

	h.mutex.Lock()
	h.clients[userID] = append(h.clients[userID], c)
	h.mutex.Unlock()

	log.Printf("🔍 New WebSocket connection - User: %s", userID)

	go c.writePump()
	go h.readPump(c)
}

// Push - 해당 사용자의 모든 연결에 메시지 전송
// 버퍼가 가득 찬 연결은 메시지를 버린다 (느린 클라이언트가 허브를 막지 않도록).
func (h *Hub) Push(userID string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, c := range h.clients[userID] {
		select {
		case c.send <- message:
		default:
			log.Printf("⚠️  Dropping notification for slow client (user: %s)", userID)
		}
	}
}

// readPump - 연결 유지용 읽기 루프 (클라이언트 메시지는 무시)
func (h *Hub) readPump(c *client) {
	defer func() {
		h.removeClient(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump - 전송 채널의 메시지를 연결로 흘려보내기
func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// removeClient - 연결 해제된 클라이언트 제거
func (h *Hub) removeClient(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conns := h.clients[c.userID]
	for i, existing := range conns {
		if existing == c {
			h.clients[c.userID] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			break
		}
	}
	if len(h.clients[c.userID]) == 0 {
		delete(h.clients, c.userID)
	}

	log.Printf("🔌 WebSocket disconnected - User: %s", c.userID)
}
