package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/events"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Connection one event stream subscriber. A non-empty Mint narrows the
// stream to that NFT.
type Connection struct {
	ID       string          `json:"id"`
	Mint     string          `json:"mint,omitempty"`
	Conn     *websocket.Conn `json:"-"`
	Send     chan []byte     `json:"-"`
	LastPing time.Time       `json:"last_ping"`
}

// WebSocketPushService streams bridge events to websocket clients. It is
// an events.Emitter.
type WebSocketPushService struct {
	connections map[string]*Connection
	hub         chan events.Event
	register    chan *Connection
	unregister  chan *Connection
	mutex       sync.RWMutex
	logger      *logrus.Logger
}

func NewWebSocketPushService(logger *logrus.Logger) *WebSocketPushService {
	service := &WebSocketPushService{
		connections: make(map[string]*Connection),
		hub:         make(chan events.Event, 256),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger,
	}

	go service.run()
	return service
}

func (s *WebSocketPushService) run() {
	for {
		select {
		case conn := <-s.register:
			s.handleRegister(conn)

		case conn := <-s.unregister:
			s.handleUnregister(conn)

		case evt := <-s.hub:
			s.handleBroadcast(evt)
		}
	}
}

// Emit queues evt for every matching subscriber. A full queue drops the
// event rather than block the caller.
func (s *WebSocketPushService) Emit(_ context.Context, evt events.Event) error {
	select {
	case s.hub <- evt:
	default:
		s.logger.WithField("event_type", evt.Type).Warn("WebSocket hub full, dropping event")
	}
	return nil
}

func (s *WebSocketPushService) RegisterConnection(conn *Connection) {
	s.register <- conn
}

func (s *WebSocketPushService) UnregisterConnection(conn *Connection) {
	s.unregister <- conn
}

func (s *WebSocketPushService) handleRegister(conn *Connection) {
	s.mutex.Lock()
	s.connections[conn.ID] = conn
	count := len(s.connections)
	s.mutex.Unlock()

	metrics.WebSocketConnections.Set(float64(count))
	s.logger.WithFields(logrus.Fields{"conn_id": conn.ID, "mint": conn.Mint}).Info("WebSocket connection registered")
}

func (s *WebSocketPushService) handleUnregister(conn *Connection) {
	s.mutex.Lock()
	if _, ok := s.connections[conn.ID]; !ok {
		s.mutex.Unlock()
		return
	}
	delete(s.connections, conn.ID)
	count := len(s.connections)
	s.mutex.Unlock()

	close(conn.Send)
	metrics.WebSocketConnections.Set(float64(count))
	s.logger.WithField("conn_id", conn.ID).Info("WebSocket connection unregistered")
}

func (s *WebSocketPushService) handleBroadcast(evt events.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		s.logger.WithError(err).Error("Failed to marshal event")
		return
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, conn := range s.connections {
		if conn.Mint != "" && conn.Mint != evt.Mint {
			continue
		}
		select {
		case conn.Send <- data:
		default:
			s.logger.WithField("conn_id", conn.ID).Warn("WebSocket send buffer full, dropping event")
		}
	}
}

// HandleWebSocket upgrades the request and streams events until the
// client goes away.
func (s *WebSocketPushService) HandleWebSocket(w http.ResponseWriter, r *http.Request, mint string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	connection := &Connection{
		ID:       uuid.New().String(),
		Mint:     mint,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		LastPing: time.Now(),
	}
	s.register <- connection

	go s.handleConnectionWrite(connection)
	go s.handleConnectionRead(connection)
}

func (s *WebSocketPushService) handleConnectionWrite(conn *Connection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.WithError(err).Debug("WebSocket write failed")
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *WebSocketPushService) handleConnectionRead(conn *Connection) {
	defer func() {
		s.unregister <- conn
	}()

	conn.Conn.SetReadLimit(512)
	conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.WithError(err).Warn("WebSocket read error")
			}
			return
		}
	}
}

func (s *WebSocketPushService) GetActiveConnections() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.connections)
}
