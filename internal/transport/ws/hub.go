package ws

import (
	"net/http"
	"sync"
	"time"

	dto "guardianearth/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// PaymentEvent is what dashboard clients receive whenever a record is
// created, reviewed or deleted.
type PaymentEvent struct {
	Kind    string       `json:"kind"`
	Payment *dto.Payment `json:"payment"`
	At      time.Time    `json:"at"`
}

// Hub fans payment events out to every connected dashboard client.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan PaymentEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan PaymentEvent, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     logger.With(zap.String("component", "dashboard_hub")),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					h.logger.Warn("ws write error", zap.Error(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishPayment implements service.Publisher. Events are dropped rather than
// blocking intake when the buffer is full.
func (h *Hub) PublishPayment(kind string, payment *dto.Payment) {
	event := PaymentEvent{Kind: kind, Payment: payment, At: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("dashboard event dropped", zap.String("kind", kind))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleDashboard upgrades the connection and keeps it registered until the
// client goes away. Clients only listen; inbound frames are discarded.
func (h *Hub) HandleDashboard(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	h.register <- conn

	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
