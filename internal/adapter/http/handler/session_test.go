package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/logger"
)

type mockSessionService struct {
	startFn func(ctx context.Context, email, startLocation, destination, vehicleType string) (*models.Session, error)
	endFn   func(ctx context.Context, email string, sessionID types.SessionID) (string, error)
	getFn   func(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error)
}

func (m *mockSessionService) Start(ctx context.Context, email, startLocation, destination, vehicleType string) (*models.Session, error) {
	return m.startFn(ctx, email, startLocation, destination, vehicleType)
}

func (m *mockSessionService) End(ctx context.Context, email string, sessionID types.SessionID) (string, error) {
	return m.endFn(ctx, email, sessionID)
}

func (m *mockSessionService) Get(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error) {
	return m.getFn(ctx, email, sessionID)
}

func TestSessionHandler_Start(t *testing.T) {
	svc := &mockSessionService{
		startFn: func(_ context.Context, email, startLocation, destination, vehicleType string) (*models.Session, error) {
			return &models.Session{
				ID:            1,
				Email:         email,
				SessionID:     "01122023-122300",
				StartLocation: startLocation,
				Destination:   destination,
				VehicleType:   vehicleType,
				StartTime:     "01-12-2023 12:23:00",
			}, nil
		},
	}
	h := NewSession(svc, nil, logger.NewDiscard())

	payload := `{"start_location": "Colombo", "destination": "Kandy", "vehicle_type": "Van"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(payload)), "nimal@example.com")
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	drive, ok := body["session"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "01122023-122300", drive["session_id"])
	assert.Equal(t, "Van", drive["vehicle_type"])
}

func TestSessionHandler_Start_Validation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing destination", `{"start_location": "Colombo"}`},
		{"unknown vehicle", `{"start_location": "Colombo", "destination": "Kandy", "vehicle_type": "Boat"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSession(&mockSessionService{}, nil, logger.NewDiscard())

			req := authed(httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(tt.payload)), "nimal@example.com")
			rec := httptest.NewRecorder()

			h.Start(rec, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestSessionHandler_Start_Anonymous(t *testing.T) {
	h := NewSession(&mockSessionService{}, nil, logger.NewDiscard())

	payload := `{"start_location": "Colombo", "destination": "Kandy"}`
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionHandler_End(t *testing.T) {
	svc := &mockSessionService{
		endFn: func(_ context.Context, email string, sessionID types.SessionID) (string, error) {
			assert.Equal(t, "nimal@example.com", email)
			assert.Equal(t, types.SessionID("01122023-122300"), sessionID)
			return "01-12-2023 13:53:00", nil
		},
	}
	h := NewSession(svc, nil, logger.NewDiscard())

	req := authed(httptest.NewRequest(http.MethodPost, "/sessions/01122023-122300/end", nil), "nimal@example.com")
	req.SetPathValue("session_id", "01122023-122300")
	rec := httptest.NewRecorder()

	h.End(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "01-12-2023 13:53:00", body["end_time"])
	assert.Equal(t, "01122023-122300", body["session_id"])
}

func TestSessionHandler_End_BadSessionID(t *testing.T) {
	h := NewSession(&mockSessionService{}, nil, logger.NewDiscard())

	req := authed(httptest.NewRequest(http.MethodPost, "/sessions/not-an-id/end", nil), "nimal@example.com")
	req.SetPathValue("session_id", "not-an-id")
	rec := httptest.NewRecorder()

	h.End(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_End_NotFound(t *testing.T) {
	svc := &mockSessionService{
		endFn: func(context.Context, string, types.SessionID) (string, error) {
			return "", types.ErrSessionNotFound
		},
	}
	h := NewSession(svc, nil, logger.NewDiscard())

	req := authed(httptest.NewRequest(http.MethodPost, "/sessions/01122023-122300/end", nil), "nimal@example.com")
	req.SetPathValue("session_id", "01122023-122300")
	rec := httptest.NewRecorder()

	h.End(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
