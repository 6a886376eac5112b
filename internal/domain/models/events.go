package models

import "github.com/signme/signme-backend/internal/domain/types"

// SessionStartedMessage is published when a drive starts.
type SessionStartedMessage struct {
	SessionID     types.SessionID `json:"session_id"`
	Email         string          `json:"email"`
	StartLocation string          `json:"start_location"`
	Destination   string          `json:"destination"`
	VehicleType   string          `json:"vehicle_type"`
	StartTime     string          `json:"start_time"`
	CorrelationID string          `json:"correlation_id"`
}

// SessionEndedMessage is published when a drive ends.
type SessionEndedMessage struct {
	SessionID     types.SessionID `json:"session_id"`
	EndTime       string          `json:"end_time"`
	CorrelationID string          `json:"correlation_id"`
}
