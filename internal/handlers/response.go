package handlers

import (
	"net/http"

	"controlling_led/internal/codec"

	"github.com/gin-gonic/gin"
)

const jsonContentType = "application/json; charset=utf-8"

// Messages returned in error payloads.
const (
	msgMissingContentType = "Must have header Content-Type"
	msgWrongContentType   = "Type must be application json"
	msgReadFailed         = "Internal Server Error"
	msgBodyTooLarge       = "The request body is too large"
	msgEmptyBody          = "The request body cannot be empty"
	msgEmptyMessage       = "The message cannot be empty"
	msgNotText            = "The message type must be text"
	msgSetStateFailed     = "Failed to set the LED state"
	msgNotFound           = "The requested resource was not found on this server."
	msgLoadLogsFailed     = "Failed to load logs"
)

// writePayload writes an already encoded JSON body.
func writePayload(c *gin.Context, code int, payload []byte) {
	c.Data(code, jsonContentType, payload)
}

// respondError logs err (when present) and writes the uniform error payload.
func (h *Handler) respondError(c *gin.Context, code int, message, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err, "status", code}, kv...)
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.Abort()
	writePayload(c, code, codec.ErrorFor(code, message))
}

// notFound answers every unregistered route and method.
func (h *Handler) notFound(c *gin.Context) {
	h.log.Debugw("route_not_found", "method", c.Request.Method, "path", c.Request.URL.Path)
	writePayload(c, http.StatusNotFound, codec.ErrorFor(http.StatusNotFound, msgNotFound))
}
