package types

import (
	"errors"
	"time"
)

// SessionID identifies one recorded drive. It is derived from the creation
// instant formatted as ddMMyyyy-HHmmss, so two drives started within the same
// second produce equal IDs; the store accepts them as distinct rows.
type SessionID string

const sessionIDLayout = "02012006-150405"

var ErrInvalidSessionID = errors.New("invalid session id format: ddMMyyyy-HHmmss")

// NewSessionID formats the creation instant into a session ID.
func NewSessionID(t time.Time) SessionID {
	return SessionID(t.Format(sessionIDLayout))
}

// ParseSessionID validates the wire representation of a session ID.
func ParseSessionID(s string) (SessionID, error) {
	if _, err := time.Parse(sessionIDLayout, s); err != nil {
		return "", ErrInvalidSessionID
	}
	return SessionID(s), nil
}

func (id SessionID) String() string {
	return string(id)
}
