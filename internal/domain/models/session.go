package models

import (
	"github.com/signme/signme-backend/internal/domain/types"
)

// Session is one recorded drive. Timestamps are carried in the persisted
// dd-MM-yyyy HH:mm:ss form; EndTime is nil for a drive still in progress.
type Session struct {
	ID            int64           `json:"ID"`
	Email         string          `json:"email"`
	SessionID     types.SessionID `json:"session_id"`
	StartLocation string          `json:"start_location"`
	Destination   string          `json:"destination"`
	VehicleType   string          `json:"vehicle_type"`
	StartTime     string          `json:"start_time"`
	EndTime       *string         `json:"end_time,omitempty"`
}

// InProgress reports whether the drive has not ended yet.
func (s *Session) InProgress() bool {
	return s.EndTime == nil || *s.EndTime == ""
}
