// Package actuator owns the LED's on/off state and the pin driver behind it.
package actuator

import (
	"fmt"
	"sync"

	"controlling_led/internal/models"
)

// Actuator is the hardware collaborator: a single digital output.
type Actuator interface {
	SetLevel(level bool) error
	GetLevel() bool
}

// HardwareError reports a pin that failed to transition.
type HardwareError struct {
	Pin int
	Op  string
	Err error
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("led pin %d: %s: %v", e.Pin, e.Op, e.Err)
}

func (e *HardwareError) Unwrap() error { return e.Err }

// State is the shared LED cell. One mutex spans the physical write and the
// cell update, so concurrent SetState calls serialize and the last one wins.
type State struct {
	mu      sync.Mutex
	pin     Actuator
	current models.OnOff
}

// NewState drives the pin to initial and returns the cell.
func NewState(pin Actuator, initial models.OnOff) (*State, error) {
	s := &State{pin: pin, current: models.Off}
	if _, err := s.SetState(initial); err != nil {
		return nil, err
	}
	return s, nil
}

// SetState commands the pin and returns the value the cell held before,
// read under the same lock. On failure the cell keeps that value.
func (s *State) SetState(desired models.OnOff) (models.OnOff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.current
	if !desired.Valid() {
		return previous, fmt.Errorf("invalid led state %q", desired)
	}
	if err := s.pin.SetLevel(desired.Level()); err != nil {
		return previous, err
	}
	s.current = desired
	return previous, nil
}

// GetState returns the last commanded value.
func (s *State) GetState() models.OnOff {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
