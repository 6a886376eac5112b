package models

import "github.com/signme/signme-backend/internal/domain/types"

// SessionSummary is the display form of one drive inside a history bucket.
// Duration and EndTime are empty for a drive still in progress.
type SessionSummary struct {
	SessionID     types.SessionID `json:"session_id"`
	StartLocation string          `json:"start_location"`
	Destination   string          `json:"destination"`
	StartTime     string          `json:"start_time"` // HH:mm
	EndTime       string          `json:"end_time"`   // HH:mm or empty
	Duration      string          `json:"duration"`   // "1 hour 30 minutes drive"
}

// HistoryBucket groups the drives of one calendar day. Label is "Today",
// "Yesterday" or the literal dd-MM-yyyy date. Recomputed on every fetch,
// never persisted.
type HistoryBucket struct {
	Label    string           `json:"label"`
	Sessions []SessionSummary `json:"sessions"`
}
