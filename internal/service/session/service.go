package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/logger"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
	"github.com/signme/signme-backend/pkg/metrics"
	"github.com/signme/signme-backend/pkg/workerpool"
)

const serviceName = "session"

type Service struct {
	sessionRepo SessionRepo
	events      EventsPublisher
	hub         LiveHub
	guard       *workerpool.Guard
	log         logger.Logger

	// заменяется в тестах
	now func() time.Time
}

func NewService(sessionRepo SessionRepo, events EventsPublisher, hub LiveHub, guard *workerpool.Guard, log logger.Logger) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		events:      events,
		hub:         hub,
		guard:       guard,
		log:         log,
		now:         time.Now,
	}
}

// Start begins a new drive for the account. The session ID and the stored
// start time both come from the same creation instant, so the ID always
// matches the timestamp shown in history.
func (s *Service) Start(ctx context.Context, email, startLocation, destination, vehicleType string) (*models.Session, error) {
	ctx = wrap.WithAction(ctx, "session_start")
	ctx = wrap.WithEmail(ctx, email)

	if email == "" {
		return nil, types.ErrMissingField
	}

	startLocation = strings.TrimSpace(startLocation)
	destination = strings.TrimSpace(destination)
	if startLocation == "" || destination == "" {
		return nil, types.ErrEmptyLocation
	}

	vehicleType = strings.TrimSpace(vehicleType)
	if vehicleType == "" {
		vehicleType = types.DefaultVehicleType.String()
	}

	startedAt := s.now()
	drive := &models.Session{
		Email:         email,
		SessionID:     types.NewSessionID(startedAt),
		StartLocation: startLocation,
		Destination:   destination,
		VehicleType:   vehicleType,
		StartTime:     startedAt.Format(types.TimestampLayout),
	}

	ctx = wrap.WithSessionID(ctx, drive.SessionID.String())

	err := s.guard.Run(ctx, "session_insert", func(ctx context.Context) error {
		return s.sessionRepo.Insert(ctx, drive)
	})
	if err != nil {
		metrics.DriveSessionsTotal.WithLabelValues(serviceName, "error").Inc()
		s.log.Error(ctx, "failed to start drive", err)
		return nil, wrap.Error(ctx, err)
	}

	metrics.DriveSessionsTotal.WithLabelValues(serviceName, "success").Inc()
	metrics.ActiveSessionsGauge.WithLabelValues(serviceName).Inc()
	s.log.Info(ctx, "drive started")

	if s.events != nil {
		s.publishStarted(ctx, drive)
	}

	return drive, nil
}

// End stamps the end time on an open drive. The drive must belong to the
// calling account; a foreign or unknown session id reads as not found.
func (s *Service) End(ctx context.Context, email string, sessionID types.SessionID) (string, error) {
	ctx = wrap.WithAction(ctx, "session_end")
	ctx = wrap.WithEmail(ctx, email)
	ctx = wrap.WithSessionID(ctx, sessionID.String())

	var drive *models.Session
	err := s.guard.Run(ctx, "session_get", func(ctx context.Context) error {
		d, err := s.sessionRepo.GetBySessionID(ctx, email, sessionID)
		if err != nil {
			return err
		}
		drive = d
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to load drive", err)
		return "", wrap.Error(ctx, err)
	}
	if drive == nil {
		return "", types.ErrSessionNotFound
	}

	endTime := s.now().Format(types.TimestampLayout)

	err = s.guard.Run(ctx, "session_update_end", func(ctx context.Context) error {
		return s.sessionRepo.UpdateEnd(ctx, email, sessionID, endTime)
	})
	if err != nil {
		if !errors.Is(err, types.ErrSessionNotFound) {
			s.log.Error(ctx, "failed to end drive", err)
		}
		return "", wrap.Error(ctx, err)
	}

	metrics.ActiveSessionsGauge.WithLabelValues(serviceName).Dec()
	s.log.Info(ctx, "drive ended")

	s.notifyEnded(ctx, sessionID, endTime)

	return endTime, nil
}

// Get returns the drive with the given id when it belongs to the account.
func (s *Service) Get(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error) {
	ctx = wrap.WithAction(ctx, "session_get")

	var drive *models.Session
	err := s.guard.Run(ctx, "session_get", func(ctx context.Context) error {
		d, err := s.sessionRepo.GetBySessionID(ctx, email, sessionID)
		if err != nil {
			return err
		}
		drive = d
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if drive == nil {
		return nil, types.ErrSessionNotFound
	}
	return drive, nil
}

func (s *Service) publishStarted(ctx context.Context, drive *models.Session) {
	msg := models.SessionStartedMessage{
		SessionID:     drive.SessionID,
		Email:         drive.Email,
		StartLocation: drive.StartLocation,
		Destination:   drive.Destination,
		VehicleType:   drive.VehicleType,
		StartTime:     drive.StartTime,
		CorrelationID: types.RequestIDFromContext(ctx),
	}
	if err := s.events.PublishSessionStarted(ctx, msg); err != nil {
		s.log.Error(ctx, "failed to publish drive started event", err)
	}
}

func (s *Service) notifyEnded(ctx context.Context, sessionID types.SessionID, endTime string) {
	if s.events != nil {
		msg := models.SessionEndedMessage{
			SessionID:     sessionID,
			EndTime:       endTime,
			CorrelationID: types.RequestIDFromContext(ctx),
		}
		if err := s.events.PublishSessionEnded(ctx, msg); err != nil {
			s.log.Error(ctx, "failed to publish drive ended event", err)
		}
	}

	if s.hub != nil {
		err := s.hub.SendTo(sessionID.String(), map[string]any{
			"type":       "session_ended",
			"session_id": sessionID.String(),
			"end_time":   endTime,
		})
		if err != nil {
			s.log.Warn(ctx, "failed to notify live subscriber", "error", err.Error())
		}
		if err := s.hub.Delete(sessionID.String()); err != nil {
			s.log.Warn(ctx, "failed to drop live subscriber", "error", err.Error())
		}
	}
}
