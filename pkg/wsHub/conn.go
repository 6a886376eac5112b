package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Conn struct {
	conn      *websocket.Conn
	sessionID string
	doneCtx   context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
}

func NewConn(ctx context.Context, sessionID string, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:      conn,
		sessionID: sessionID,
		doneCtx:   ctx,
		cancel:    cancel,
	}
}

func (c *Conn) SessionID() string {
	return c.sessionID
}

func (c *Conn) health() error {
	if c.conn == nil {
		return errors.New("connection is nil")
	}

	select {
	case <-c.doneCtx.Done():
		return errors.New("connection context cancelled")
	default:
	}

	if err := c.conn.WriteControl(
		websocket.PingMessage,
		[]byte("ping"),
		time.Now().Add(3*time.Second),
	); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	return nil
}

func (c *Conn) Send(msg map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.health(); err != nil {
		return fmt.Errorf("send failed: connection not healthy: %w", err)
	}
	return c.conn.WriteJSON(msg)
}

// WaitClosed blocks until the peer closes the socket or the connection is
// cancelled. Incoming frames are drained and ignored; the session WS channel
// is push-only.
func (c *Conn) WaitClosed() {
	for {
		select {
		case <-c.doneCtx.Done():
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func (c *Conn) Close() error {
	c.cancel()
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
