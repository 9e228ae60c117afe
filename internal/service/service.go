package service

import (
	"context"

	"controlling_led/internal/actuator"
	"controlling_led/internal/logger"
	"controlling_led/internal/models"
	"controlling_led/internal/repository"

	"github.com/jonboulle/clockwork"
)

// Led exposes the single control operation: drive the LED on or off.
type Led interface {
	SetState(ctx context.Context, desired models.OnOff, origin Origin) (models.OnOff, error)
}

// Monitoring exposes the last commanded LED state.
type Monitoring interface {
	GetState(ctx context.Context) models.OnOff
}

// EventLog exposes the append-only audit trail with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.LedEvent, error)
	Record(ctx context.Context, e models.LedEvent)
}

// Service aggregates all sub-services.
type Service struct {
	Led
	Monitoring
	EventLog
}

// NewService wires the actuator cell and the repository layer into concrete services.
func NewService(repos *repository.Repository, state *actuator.State, clock clockwork.Clock, log *logger.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	events := NewEventLogService(repos.EventRepo, clock, log)
	return &Service{
		Led:        NewLedService(state, events, log),
		Monitoring: NewMonitoringService(state),
		EventLog:   events,
	}
}
