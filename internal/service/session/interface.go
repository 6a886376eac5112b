package session

import (
	"context"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
)

// SessionRepo reads and writes the account's own drives. Session ids are not
// unique across accounts, so every id-based operation is also keyed by email.
type SessionRepo interface {
	Insert(ctx context.Context, s *models.Session) error
	UpdateEnd(ctx context.Context, email string, sessionID types.SessionID, endTime string) error
	GetBySessionID(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error)
}

// EventsPublisher pushes drive lifecycle events to the message broker.
// Publishing is best-effort: a broker outage never fails the drive itself.
type EventsPublisher interface {
	PublishSessionStarted(ctx context.Context, msg models.SessionStartedMessage) error
	PublishSessionEnded(ctx context.Context, msg models.SessionEndedMessage) error
}

// LiveHub notifies WebSocket subscribers of a session.
type LiveHub interface {
	SendTo(sessionID string, msg map[string]any) error
	Delete(sessionID string) error
}
