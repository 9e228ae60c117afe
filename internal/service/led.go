package service

import (
	"context"
	"errors"
	"fmt"

	"controlling_led/internal/actuator"
	"controlling_led/internal/logger"
	"controlling_led/internal/models"
)

type eventRecorder interface {
	Record(ctx context.Context, e models.LedEvent)
}

type LedService struct {
	state  *actuator.State
	events eventRecorder
	log    *logger.Logger
}

func NewLedService(state *actuator.State, events eventRecorder, log *logger.Logger) *LedService {
	return &LedService{state: state, events: events, log: logger.OrNop(log)}
}

// SetState drives the pin to desired and returns the state it applied.
// On a hardware failure the previous state stays in place and the error wraps
// *actuator.HardwareError.
func (s *LedService) SetState(ctx context.Context, desired models.OnOff, origin Origin) (models.OnOff, error) {
	previous, err := s.state.SetState(desired)
	if err != nil {
		var hwErr *actuator.HardwareError
		if errors.As(err, &hwErr) {
			s.log.Errorw("led_hardware_error", "origin", origin.String(), "desired", desired, "err", err)
			s.events.Record(ctx, models.LedEvent{
				Type:        models.EventHardwareError,
				Description: fmt.Sprintf("failed to turn LED %s", desired),
				Metadata: map[string]any{
					"origin":  origin.String(),
					"pin":     hwErr.Pin,
					"op":      hwErr.Op,
					"desired": string(desired),
					"error":   hwErr.Error(),
				},
			})
		}
		return previous, fmt.Errorf("set led %s: %w", desired, err)
	}

	s.log.Infow("led_state_set", "origin", origin.String(), "from", previous, "to", desired)
	s.events.Record(ctx, models.LedEvent{
		Type:        models.EventStateChange,
		Description: fmt.Sprintf("LED turned %s", desired),
		Metadata: map[string]any{
			"origin": origin.String(),
			"from":   string(previous),
			"to":     string(desired),
		},
	})
	return desired, nil
}
