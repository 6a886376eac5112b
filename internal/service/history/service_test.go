package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/logger"
	"github.com/signme/signme-backend/pkg/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	listFn func(ctx context.Context, email string) ([]models.Session, error)
}

func (m *mockLister) ListByEmail(ctx context.Context, email string) ([]models.Session, error) {
	return m.listFn(ctx, email)
}

func newTestService(t *testing.T, lister SessionLister, at time.Time) *Service {
	t.Helper()

	pool := workerpool.New(2)
	t.Cleanup(pool.Close)

	svc := NewService(lister, workerpool.NewGuard(pool, "history_test", time.Second), logger.NewDiscard())
	svc.now = func() time.Time { return at }
	return svc
}

func endTime(s string) *string {
	return &s
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Minute, "1 hour 30 minutes drive"},
		{45 * time.Minute, "45 minutes drive"},
		{60 * time.Minute, "1 hour 0 minutes drive"},
		{2*time.Hour + 5*time.Minute, "2 hour 5 minutes drive"},
		{0, "0 minutes drive"},
		{30 * time.Second, "0 minutes drive"}, // whole minutes only
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func TestService_Fetch_Buckets(t *testing.T) {
	// "now" is 01-12-2023; list comes back newest first, like the store.
	now := time.Date(2023, 12, 1, 18, 0, 0, 0, time.UTC)

	lister := &mockLister{
		listFn: func(ctx context.Context, email string) ([]models.Session, error) {
			return []models.Session{
				{
					SessionID:     "01122023-140000",
					StartLocation: "Colombo",
					Destination:   "Kandy",
					StartTime:     "01-12-2023 14:00:00",
					EndTime:       endTime("01-12-2023 15:30:00"),
				},
				{
					SessionID:     "01122023-090000",
					StartLocation: "Galle",
					Destination:   "Colombo",
					StartTime:     "01-12-2023 09:00:00",
					EndTime:       endTime("01-12-2023 09:45:00"),
				},
				{
					SessionID:     "30112023-100000",
					StartLocation: "Kandy",
					Destination:   "Jaffna",
					StartTime:     "30-11-2023 10:00:00",
					EndTime:       endTime("30-11-2023 12:00:00"),
				},
				{
					SessionID:     "15102023-080000",
					StartLocation: "Matara",
					Destination:   "Galle",
					StartTime:     "15-10-2023 08:00:00",
					EndTime:       endTime("15-10-2023 08:20:00"),
				},
			}, nil
		},
	}

	svc := newTestService(t, lister, now)

	buckets, err := svc.Fetch(context.Background(), "nimal@example.com")
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	assert.Equal(t, "Today", buckets[0].Label)
	assert.Equal(t, "Yesterday", buckets[1].Label)
	assert.Equal(t, "15-10-2023", buckets[2].Label)

	require.Len(t, buckets[0].Sessions, 2)
	first := buckets[0].Sessions[0]
	assert.Equal(t, "14:00", first.StartTime)
	assert.Equal(t, "15:30", first.EndTime)
	assert.Equal(t, "1 hour 30 minutes drive", first.Duration)

	second := buckets[0].Sessions[1]
	assert.Equal(t, "45 minutes drive", second.Duration)

	assert.Equal(t, "2 hour 0 minutes drive", buckets[1].Sessions[0].Duration)
	assert.Equal(t, "20 minutes drive", buckets[2].Sessions[0].Duration)
}

func TestService_Fetch_InProgress(t *testing.T) {
	now := time.Date(2023, 12, 1, 18, 0, 0, 0, time.UTC)

	lister := &mockLister{
		listFn: func(ctx context.Context, email string) ([]models.Session, error) {
			return []models.Session{
				{
					SessionID:     "01122023-170000",
					StartLocation: "Colombo",
					Destination:   "Negombo",
					StartTime:     "01-12-2023 17:00:00",
				},
			}, nil
		},
	}

	svc := newTestService(t, lister, now)

	buckets, err := svc.Fetch(context.Background(), "nimal@example.com")
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Sessions, 1)

	got := buckets[0].Sessions[0]
	assert.Equal(t, "17:00", got.StartTime)
	assert.Empty(t, got.EndTime, "in-progress drive has no end time")
	assert.Empty(t, got.Duration, "in-progress drive has no duration")
}

func TestService_Fetch_SkipsUnparseableRows(t *testing.T) {
	now := time.Date(2023, 12, 1, 18, 0, 0, 0, time.UTC)

	lister := &mockLister{
		listFn: func(ctx context.Context, email string) ([]models.Session, error) {
			return []models.Session{
				{SessionID: "bad", StartTime: "2023-12-01T14:00:00Z"},
				{
					SessionID: "01122023-090000",
					StartTime: "01-12-2023 09:00:00",
					EndTime:   endTime("garbage"),
				},
				{
					SessionID: "01122023-080000",
					StartTime: "01-12-2023 08:00:00",
					EndTime:   endTime("01-12-2023 08:30:00"),
				},
			}, nil
		},
	}

	svc := newTestService(t, lister, now)

	buckets, err := svc.Fetch(context.Background(), "nimal@example.com")
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Sessions, 1, "rows that fail to parse are skipped, not fatal")
	assert.Equal(t, types.SessionID("01122023-080000"), buckets[0].Sessions[0].SessionID)
}

func TestService_Fetch_Empty(t *testing.T) {
	lister := &mockLister{
		listFn: func(ctx context.Context, email string) ([]models.Session, error) {
			return nil, nil
		},
	}

	svc := newTestService(t, lister, time.Now())

	buckets, err := svc.Fetch(context.Background(), "nimal@example.com")
	require.NoError(t, err)
	assert.Empty(t, buckets)
	assert.NotNil(t, buckets, "empty history is an empty list, not null")
}

func TestService_Fetch_StoreError(t *testing.T) {
	boom := errors.New("connection refused")
	lister := &mockLister{
		listFn: func(ctx context.Context, email string) ([]models.Session, error) {
			return nil, boom
		},
	}

	svc := newTestService(t, lister, time.Now())

	_, err := svc.Fetch(context.Background(), "nimal@example.com")
	assert.ErrorIs(t, err, boom)
}
