package models

// OnOff is the two-valued LED command and state.
type OnOff string

const (
	On  OnOff = "on"
	Off OnOff = "off"
)

// Valid reports whether s is one of the two accepted wire values.
func (s OnOff) Valid() bool {
	return s == On || s == Off
}

// Level maps the state to a logic level (on = true).
func (s OnOff) Level() bool {
	return s == On
}

// ErrorPayload is the uniform failure body for HTTP and WebSocket.
// Field order matches the documented wire examples.
type ErrorPayload struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusPayload is the success body: {"status":"on"}.
type StatusPayload struct {
	Status OnOff `json:"status"`
}
