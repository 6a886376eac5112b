package history

import (
	"context"
	"fmt"
	"time"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/logger"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
	"github.com/signme/signme-backend/pkg/metrics"
	"github.com/signme/signme-backend/pkg/workerpool"
)

const serviceName = "history"

type SessionLister interface {
	ListByEmail(ctx context.Context, email string) ([]models.Session, error)
}

type Service struct {
	sessions SessionLister
	guard    *workerpool.Guard
	log      logger.Logger

	// заменяется в тестах
	now func() time.Time
}

func NewService(sessions SessionLister, guard *workerpool.Guard, log logger.Logger) *Service {
	return &Service{
		sessions: sessions,
		guard:    guard,
		log:      log,
		now:      time.Now,
	}
}

// Fetch returns the account's drives grouped by calendar day, newest day
// first. The grouping is recomputed on every call; rows with a timestamp
// that no longer parses are logged and skipped rather than failing the
// whole view.
func (s *Service) Fetch(ctx context.Context, email string) ([]models.HistoryBucket, error) {
	ctx = wrap.WithAction(ctx, "history_fetch")
	ctx = wrap.WithEmail(ctx, email)

	if email == "" {
		return nil, types.ErrMissingField
	}

	var sessions []models.Session
	err := s.guard.Run(ctx, "session_list", func(ctx context.Context) error {
		list, err := s.sessions.ListByEmail(ctx, email)
		if err != nil {
			return err
		}
		sessions = list
		return nil
	})
	if err != nil {
		metrics.HistoryFetchesTotal.WithLabelValues(serviceName, "error").Inc()
		s.log.Error(ctx, "failed to list drives", err)
		return nil, wrap.Error(ctx, err)
	}

	now := s.now()
	today := now.Format(types.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(types.DateLayout)

	buckets := make([]models.HistoryBucket, 0)
	index := make(map[string]int)

	for i := range sessions {
		drive := &sessions[i]

		start, err := time.Parse(types.TimestampLayout, drive.StartTime)
		if err != nil {
			s.log.Warn(ctx, "skipping drive with unparseable start time",
				"session_id", drive.SessionID.String(), "start_time", drive.StartTime)
			continue
		}

		summary := models.SessionSummary{
			SessionID:     drive.SessionID,
			StartLocation: drive.StartLocation,
			Destination:   drive.Destination,
			StartTime:     start.Format(types.ClockLayout),
		}

		if !drive.InProgress() {
			end, err := time.Parse(types.TimestampLayout, *drive.EndTime)
			if err != nil {
				s.log.Warn(ctx, "skipping drive with unparseable end time",
					"session_id", drive.SessionID.String(), "end_time", *drive.EndTime)
				continue
			}
			summary.EndTime = end.Format(types.ClockLayout)
			summary.Duration = formatDuration(end.Sub(start))
		}

		label := start.Format(types.DateLayout)
		switch label {
		case today:
			label = "Today"
		case yesterday:
			label = "Yesterday"
		}

		pos, ok := index[label]
		if !ok {
			pos = len(buckets)
			index[label] = pos
			buckets = append(buckets, models.HistoryBucket{Label: label})
		}
		buckets[pos].Sessions = append(buckets[pos].Sessions, summary)
	}

	metrics.HistoryFetchesTotal.WithLabelValues(serviceName, "success").Inc()
	return buckets, nil
}

// formatDuration renders a completed drive's length in whole minutes,
// e.g. "1 hour 30 minutes drive" or "45 minutes drive".
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d.Minutes())
	hours := total / 60
	mins := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d hour %d minutes drive", hours, mins)
	}
	return fmt.Sprintf("%d minutes drive", mins)
}
