package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/signme/signme-backend/pkg/logger"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub хранит и управляет всеми активными WebSocket соединениями.
// Соединения ключуются по идентификатору сессии вождения.
type ConnectionHub struct {
	clients map[string]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[string]*Conn),
		l:       l,
	}
}

// Add добавляет новое соединение в хаб.
// Если соединение с этим sessionID уже существует — оно закрывается.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "add_ws_connection")

	if existing, ok := h.clients[newConn.sessionID]; ok {
		h.l.Warn(ctx,
			"replacing existing connection",
			"session_id", existing.sessionID,
		)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx,
				"failed to close existing conn",
				"session_id", existing.sessionID,
				"err", err.Error(),
			)
		}
	}

	h.clients[newConn.sessionID] = newConn

	return nil
}

// Delete удаляет и закрывает соединение по ID сессии
func (h *ConnectionHub) Delete(sessionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "ws_connection_delete")

	conn, ok := h.clients[sessionID]
	if !ok {
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		h.l.Warn(ctx,
			"failed to close conn",
			"session_id", conn.sessionID,
			"err", err.Error(),
		)
	}

	delete(h.clients, sessionID)

	return nil
}

// SendTo отправляет сообщение наблюдателю сессии.
// Возвращает ErrConnIsNotFound, если за сессией никто не наблюдает.
func (h *ConnectionHub) SendTo(sessionID string, msg map[string]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.clients[sessionID]; ok {
		return conn.Send(msg)
	}
	return ErrConnIsNotFound
}

// Len возвращает количество активных соединений
func (h *ConnectionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close закрывает каждое websocket соединение
func (h *ConnectionHub) Close() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		_ = h.Delete(id)
	}
}
