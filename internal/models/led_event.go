package models

import "time"

// Event types recorded in the LED event log.
const (
	EventStateChange        = "STATE_CHANGE"
	EventHardwareError      = "HARDWARE_ERROR"
	EventClientConnected    = "CLIENT_CONNECTED"
	EventClientDisconnected = "CLIENT_DISCONNECTED"
)

// LedEvent is a single log entry.
type LedEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // STATE_CHANGE | HARDWARE_ERROR | CLIENT_CONNECTED | CLIENT_DISCONNECTED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
