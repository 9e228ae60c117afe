// Package codec implements the JSON wire contract of the LED control
// endpoint, independent of the transport it arrives on.
//
// Requests look like {"state":"on"} and successful answers like
// {"status":"on"}. Every rejection uses the uniform error payload
// {"status":400,"error":"Bad Request","message":"..."}.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"controlling_led/internal/models"
)

// stateField is the only member a control request must carry.
const stateField = "state"

// Kind classifies why a control request could not be decoded.
type Kind int

const (
	NotWellFormed Kind = iota + 1
	MissingField
	WrongType
	InvalidValue
)

func (k Kind) String() string {
	switch k {
	case NotWellFormed:
		return "not_well_formed"
	case MissingField:
		return "missing_field"
	case WrongType:
		return "wrong_type"
	case InvalidValue:
		return "invalid_value"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Messages reused verbatim in error payloads.
const (
	msgNotWellFormed = "The request message must be a valid json"
	msgMissingField  = `Must contain member "state"`
	msgWrongType     = `Member "state" must be a string`
	msgInvalidValue  = "State doesn't contain the correct command"
)

// DecodeError describes a rejected control request.
type DecodeError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	return e.Message
}

func (e *DecodeError) Unwrap() error { return e.Err }

func newDecodeError(kind Kind, err error) *DecodeError {
	var msg string
	switch kind {
	case NotWellFormed:
		msg = msgNotWellFormed
	case MissingField:
		msg = msgMissingField
	case WrongType:
		msg = msgWrongType
	default:
		msg = msgInvalidValue
	}
	return &DecodeError{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the decode kind from err, or 0 when err is not a DecodeError.
func KindOf(err error) Kind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// DecodeControlRequest parses body into the desired LED state. Every error
// it returns is a *DecodeError whose Error() is the client-facing message.
// The value must be exactly "on" or "off"; no trimming, no case folding.
func DecodeControlRequest(body []byte) (models.OnOff, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", newDecodeError(NotWellFormed, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return "", newDecodeError(MissingField, nil)
	}

	raw, ok := obj[stateField]
	if !ok {
		return "", newDecodeError(MissingField, nil)
	}

	s, ok := raw.(string)
	if !ok {
		return "", newDecodeError(WrongType, fmt.Errorf("state has type %T", raw))
	}

	state := models.OnOff(s)
	if !state.Valid() {
		return "", newDecodeError(InvalidValue, fmt.Errorf("state %q", s))
	}
	return state, nil
}

// EncodeSuccess renders {"status":"<state>"}.
func EncodeSuccess(state models.OnOff) []byte {
	return mustMarshal(models.StatusPayload{Status: state})
}

// EncodeError renders the uniform error payload.
func EncodeError(code int, category, message string) []byte {
	return mustMarshal(models.ErrorPayload{
		Status:  code,
		Error:   category,
		Message: message,
	})
}

// ErrorFor renders the error payload using the standard status text as
// category, e.g. 400 -> "Bad Request".
func ErrorFor(code int, message string) []byte {
	return EncodeError(code, http.StatusText(code), message)
}

// mustMarshal encodes payload types that contain only strings and ints, so
// json.Marshal cannot fail on them. HTML escaping is disabled so messages
// such as `Must contain member "state"` travel unchanged.
func mustMarshal(v any) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		panic(fmt.Sprintf("codec: encode %T: %v", v, err))
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}
