package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/logger"
)

type mockHistoryService struct {
	fetchFn func(ctx context.Context, email string) ([]models.HistoryBucket, error)
}

func (m *mockHistoryService) Fetch(ctx context.Context, email string) ([]models.HistoryBucket, error) {
	return m.fetchFn(ctx, email)
}

func TestHistoryHandler_Fetch(t *testing.T) {
	svc := &mockHistoryService{
		fetchFn: func(_ context.Context, email string) ([]models.HistoryBucket, error) {
			assert.Equal(t, "nimal@example.com", email)
			return []models.HistoryBucket{
				{
					Label: "Today",
					Sessions: []models.SessionSummary{
						{
							SessionID:     "01122023-122300",
							StartLocation: "Colombo",
							Destination:   "Kandy",
							StartTime:     "12:23",
							EndTime:       "13:53",
							Duration:      "1 hour 30 minutes drive",
						},
					},
				},
			}, nil
		},
	}
	h := NewHistory(svc, logger.NewDiscard())

	req := authed(httptest.NewRequest(http.MethodGet, "/history", nil), "nimal@example.com")
	rec := httptest.NewRecorder()

	h.Fetch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	buckets, ok := body["history"].([]any)
	require.True(t, ok)
	require.Len(t, buckets, 1)

	bucket := buckets[0].(map[string]any)
	assert.Equal(t, "Today", bucket["label"])
}

func TestHistoryHandler_Fetch_Empty(t *testing.T) {
	svc := &mockHistoryService{
		fetchFn: func(context.Context, string) ([]models.HistoryBucket, error) {
			return []models.HistoryBucket{}, nil
		},
	}
	h := NewHistory(svc, logger.NewDiscard())

	req := authed(httptest.NewRequest(http.MethodGet, "/history", nil), "nimal@example.com")
	rec := httptest.NewRecorder()

	h.Fetch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	buckets, ok := body["history"].([]any)
	require.True(t, ok)
	assert.Empty(t, buckets)
}

func TestHistoryHandler_Fetch_StoreTimeout(t *testing.T) {
	svc := &mockHistoryService{
		fetchFn: func(context.Context, string) ([]models.HistoryBucket, error) {
			return nil, types.ErrStoreTimeout
		},
	}
	h := NewHistory(svc, logger.NewDiscard())

	req := authed(httptest.NewRequest(http.MethodGet, "/history", nil), "nimal@example.com")
	rec := httptest.NewRecorder()

	h.Fetch(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestHistoryHandler_Fetch_Anonymous(t *testing.T) {
	h := NewHistory(&mockHistoryService{}, logger.NewDiscard())

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()

	h.Fetch(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
