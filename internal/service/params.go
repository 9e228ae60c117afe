package service

import (
	"fmt"
	"time"
)

// Transports a control request can arrive on.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// Origin identifies who asked for a state change.
type Origin struct {
	Transport string
	ClientID  int64 // zero for HTTP
	Remote    string
}

func (o Origin) String() string {
	if o.ClientID != 0 {
		return fmt.Sprintf("%s#%d", o.Transport, o.ClientID)
	}
	return o.Transport
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "STATE_CHANGE", "HARDWARE_ERROR", "CLIENT_CONNECTED", "CLIENT_DISCONNECTED"
}
