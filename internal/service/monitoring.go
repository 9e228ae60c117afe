package service

import (
	"context"

	"controlling_led/internal/actuator"
	"controlling_led/internal/models"
)

type MonitoringService struct {
	state *actuator.State
}

func NewMonitoringService(state *actuator.State) *MonitoringService {
	return &MonitoringService{state: state}
}

// GetState returns the last successfully commanded state. It never touches the pin.
func (s *MonitoringService) GetState(_ context.Context) models.OnOff {
	return s.state.GetState()
}
