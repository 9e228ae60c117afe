package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"controlling_led/internal/logger"
	"controlling_led/internal/models"
	"controlling_led/internal/repository"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type EventLogService struct {
	eventRepo repository.EventRepo
	clock     clockwork.Clock
	log       *logger.Logger
}

func NewEventLogService(eventRepo repository.EventRepo, clock clockwork.Clock, log *logger.Logger) *EventLogService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &EventLogService{eventRepo: eventRepo, clock: clock, log: logger.OrNop(log)}
}

// ErrInvalidTimeRange is returned by List when From is after To.
var ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	return from, to, eventType, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.LedEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}

// Record appends e to the log, filling in the id and timestamp when missing.
// The audit trail never blocks control: failures are logged and dropped.
func (s *EventLogService) Record(ctx context.Context, e models.LedEvent) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.clock.Now().UTC()
	}
	e.Type = normalizeEventType(e.Type)

	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Warnw("event_append_failed", "event_id", e.EventID, "type", e.Type, "err", err)
	}
}
