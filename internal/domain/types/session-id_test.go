package types

import (
	"testing"
	"time"
)

func TestNewSessionID_KnownInstant(t *testing.T) {
	instant := time.Date(2023, time.December, 1, 12, 23, 0, 0, time.Local)
	if got := NewSessionID(instant); got != "01122023-122300" {
		t.Fatalf("got %q, want %q", got, "01122023-122300")
	}
}

func TestNewSessionID_ZeroPadding(t *testing.T) {
	instant := time.Date(2024, time.January, 5, 8, 7, 6, 0, time.Local)
	if got := NewSessionID(instant); got != "05012024-080706" {
		t.Fatalf("got %q, want %q", got, "05012024-080706")
	}
}

func TestNewSessionID_SameSecondCollides(t *testing.T) {
	a := time.Date(2023, time.December, 1, 12, 23, 0, 100, time.Local)
	b := time.Date(2023, time.December, 1, 12, 23, 0, 999, time.Local)
	if NewSessionID(a) != NewSessionID(b) {
		t.Fatal("IDs within the same second must be equal")
	}
}

func TestParseSessionID(t *testing.T) {
	if _, err := ParseSessionID("01122023-122300"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	for _, bad := range []string{"", "not-an-id", "32132023-122300", "01122023122300"} {
		if _, err := ParseSessionID(bad); err == nil {
			t.Fatalf("invalid id %q accepted", bad)
		}
	}
}
