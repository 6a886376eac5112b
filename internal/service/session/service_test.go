package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/logger"
	"github.com/signme/signme-backend/pkg/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSessionRepo struct {
	insertFn    func(ctx context.Context, s *models.Session) error
	updateEndFn func(ctx context.Context, email string, sessionID types.SessionID, endTime string) error
	getFn       func(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error)
}

func (m *mockSessionRepo) Insert(ctx context.Context, s *models.Session) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, s)
	}
	s.ID = 1
	return nil
}

func (m *mockSessionRepo) UpdateEnd(ctx context.Context, email string, sessionID types.SessionID, endTime string) error {
	if m.updateEndFn != nil {
		return m.updateEndFn(ctx, email, sessionID, endTime)
	}
	return nil
}

func (m *mockSessionRepo) GetBySessionID(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error) {
	if m.getFn != nil {
		return m.getFn(ctx, email, sessionID)
	}
	return nil, nil
}

type mockEvents struct {
	started []models.SessionStartedMessage
	ended   []models.SessionEndedMessage
}

func (m *mockEvents) PublishSessionStarted(ctx context.Context, msg models.SessionStartedMessage) error {
	m.started = append(m.started, msg)
	return nil
}

func (m *mockEvents) PublishSessionEnded(ctx context.Context, msg models.SessionEndedMessage) error {
	m.ended = append(m.ended, msg)
	return nil
}

type mockHub struct {
	sent    []map[string]any
	deleted []string
}

func (m *mockHub) SendTo(sessionID string, msg map[string]any) error {
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockHub) Delete(sessionID string) error {
	m.deleted = append(m.deleted, sessionID)
	return nil
}

func newTestService(t *testing.T, repo SessionRepo, events EventsPublisher, hub LiveHub, at time.Time) *Service {
	t.Helper()

	pool := workerpool.New(2)
	t.Cleanup(pool.Close)

	svc := NewService(repo, events, hub, workerpool.NewGuard(pool, "session_test", time.Second), logger.NewDiscard())
	svc.now = func() time.Time { return at }
	return svc
}

// --- tests ---

func TestService_Start(t *testing.T) {
	startedAt := time.Date(2023, 12, 1, 12, 23, 0, 0, time.UTC)

	var inserted *models.Session
	repo := &mockSessionRepo{
		insertFn: func(ctx context.Context, s *models.Session) error {
			inserted = s
			s.ID = 10
			return nil
		},
	}
	events := &mockEvents{}

	svc := newTestService(t, repo, events, nil, startedAt)

	drive, err := svc.Start(context.Background(), "nimal@example.com", "Colombo", "Kandy", "")
	require.NoError(t, err)
	require.NotNil(t, drive)

	assert.Equal(t, types.SessionID("01122023-122300"), drive.SessionID)
	assert.Equal(t, "01-12-2023 12:23:00", drive.StartTime)
	assert.Equal(t, "Car", drive.VehicleType, "empty vehicle type falls back to the default")
	assert.Nil(t, drive.EndTime)
	require.NotNil(t, inserted)
	assert.Equal(t, int64(10), drive.ID)

	require.Len(t, events.started, 1)
	assert.Equal(t, drive.SessionID, events.started[0].SessionID)
}

func TestService_Start_EmptyLocation(t *testing.T) {
	tests := []struct {
		name        string
		start, dest string
	}{
		{"empty start", "   ", "Kandy"},
		{"empty destination", "Colombo", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSessionRepo{
				insertFn: func(ctx context.Context, s *models.Session) error {
					t.Fatal("Insert must not be called for empty locations")
					return nil
				},
			}

			svc := newTestService(t, repo, nil, nil, time.Now())

			_, err := svc.Start(context.Background(), "nimal@example.com", tt.start, tt.dest, "Car")
			assert.ErrorIs(t, err, types.ErrEmptyLocation)
		})
	}
}

func TestService_Start_KeepsChosenVehicle(t *testing.T) {
	svc := newTestService(t, &mockSessionRepo{}, nil, nil, time.Now())

	drive, err := svc.Start(context.Background(), "nimal@example.com", "Colombo", "Galle", "Three Wheeler")
	require.NoError(t, err)
	assert.Equal(t, "Three Wheeler", drive.VehicleType)
}

func TestService_End(t *testing.T) {
	endedAt := time.Date(2023, 12, 1, 13, 53, 0, 0, time.UTC)
	id := types.SessionID("01122023-122300")

	var gotEnd, getEmail, updateEmail string
	repo := &mockSessionRepo{
		getFn: func(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error) {
			getEmail = email
			return &models.Session{Email: email, SessionID: sessionID, StartTime: "01-12-2023 12:23:00"}, nil
		},
		updateEndFn: func(ctx context.Context, email string, sessionID types.SessionID, endTime string) error {
			updateEmail = email
			gotEnd = endTime
			return nil
		},
	}
	events := &mockEvents{}
	hub := &mockHub{}

	svc := newTestService(t, repo, events, hub, endedAt)

	endTime, err := svc.End(context.Background(), "nimal@example.com", id)
	require.NoError(t, err)
	assert.Equal(t, "01-12-2023 13:53:00", endTime)
	assert.Equal(t, endTime, gotEnd)
	assert.Equal(t, "nimal@example.com", getEmail, "lookup must be scoped to the caller")
	assert.Equal(t, "nimal@example.com", updateEmail, "update must be scoped to the caller")

	require.Len(t, events.ended, 1)
	assert.Equal(t, id, events.ended[0].SessionID)

	require.Len(t, hub.sent, 1)
	assert.Equal(t, "session_ended", hub.sent[0]["type"])
	assert.Equal(t, []string{id.String()}, hub.deleted)
}

func TestService_End_NotFound(t *testing.T) {
	svc := newTestService(t, &mockSessionRepo{}, nil, nil, time.Now())

	_, err := svc.End(context.Background(), "nimal@example.com", types.SessionID("01122023-122300"))
	assert.ErrorIs(t, err, types.ErrSessionNotFound)
}

// Session ids are second-resolution timestamps, so two accounts starting a
// drive in the same second share one id. Ending a drive must only touch
// rows of the calling account.
func TestService_End_CollidingSessionID(t *testing.T) {
	endedAt := time.Date(2023, 12, 1, 13, 53, 0, 0, time.UTC)
	id := types.SessionID("01122023-122300")

	// Keyed store: same session id under two accounts.
	drives := map[string]*models.Session{
		"nimal@example.com": {ID: 1, Email: "nimal@example.com", SessionID: id},
		"kamal@example.com": {ID: 2, Email: "kamal@example.com", SessionID: id},
	}
	repo := &mockSessionRepo{
		getFn: func(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error) {
			d, ok := drives[strings.ToLower(email)]
			if !ok || d.SessionID != sessionID {
				return nil, nil
			}
			return d, nil
		},
		updateEndFn: func(ctx context.Context, email string, sessionID types.SessionID, endTime string) error {
			d, ok := drives[strings.ToLower(email)]
			if !ok || d.SessionID != sessionID {
				return types.ErrSessionNotFound
			}
			d.EndTime = &endTime
			return nil
		},
	}

	svc := newTestService(t, repo, nil, nil, endedAt)

	_, err := svc.End(context.Background(), "nimal@example.com", id)
	require.NoError(t, err)

	require.NotNil(t, drives["nimal@example.com"].EndTime)
	assert.Nil(t, drives["kamal@example.com"].EndTime, "the other account's drive must stay open")
}

// An id that only exists under another account reads as not found.
func TestService_End_ForeignSession(t *testing.T) {
	repo := &mockSessionRepo{
		getFn: func(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error) {
			if strings.EqualFold(email, "other@example.com") {
				return &models.Session{Email: "other@example.com", SessionID: sessionID}, nil
			}
			return nil, nil
		},
		updateEndFn: func(ctx context.Context, email string, sessionID types.SessionID, endTime string) error {
			t.Fatal("UpdateEnd must not be called for a foreign session")
			return nil
		},
	}

	svc := newTestService(t, repo, nil, nil, time.Now())

	_, err := svc.End(context.Background(), "nimal@example.com", types.SessionID("01122023-122300"))
	assert.ErrorIs(t, err, types.ErrSessionNotFound)
}
