package handlers

import (
	"errors"
	"io"
	"net/http"

	"controlling_led/internal/codec"
	"controlling_led/internal/service"

	"github.com/gin-gonic/gin"
)

const requiredContentType = "application/json"

// SetLedRequest is the control body accepted by POST /led and /wsled frames.
type SetLedRequest struct {
	// Desired state. Allowed: on, off
	State string `json:"state" example:"on"`
}

// @Summary      Set LED state
// @Description  Drives the LED on or off. On success every connected WebSocket client is notified.
// @Tags         led
// @Accept       json
// @Produce      json
// @Param        body  body      SetLedRequest  true  "Desired state"
// @Success      200   {object}  models.StatusPayload
// @Failure      400   {object}  models.ErrorPayload
// @Failure      500   {object}  models.ErrorPayload
// @Router       /led [post]
func (h *Handler) postLed(c *gin.Context) {
	ctx := c.Request.Context()

	contentType := c.GetHeader("Content-Type")
	if contentType == "" {
		h.respondError(c, http.StatusBadRequest, msgMissingContentType, "led_request_rejected", errors.New("missing content type"))
		return
	}
	if contentType != requiredContentType {
		h.respondError(c, http.StatusBadRequest, msgWrongContentType, "led_request_rejected", errors.New("wrong content type"), "content_type", contentType)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(c, http.StatusRequestEntityTooLarge, msgBodyTooLarge, "led_request_rejected", err)
			return
		}
		h.respondError(c, http.StatusInternalServerError, msgReadFailed, "led_body_read_failed", err)
		return
	}
	if len(body) == 0 {
		h.respondError(c, http.StatusBadRequest, msgEmptyBody, "led_request_rejected", errors.New("empty body"))
		return
	}

	desired, err := codec.DecodeControlRequest(body)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error(), "led_request_rejected", err, "kind", codec.KindOf(err).String())
		return
	}

	applied, err := h.services.Led.SetState(ctx, desired, service.Origin{
		Transport: service.TransportHTTP,
		Remote:    c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, msgSetStateFailed, "led_set_state_failed", err, "desired", desired)
		return
	}

	payload := codec.EncodeSuccess(applied)
	writePayload(c, http.StatusOK, payload)
	// The caller gets its reply before any WebSocket write can stall.
	c.Writer.Flush()

	rep := h.dispatcher.Broadcast(ctx, payload)
	h.log.Debugw("led_http_broadcast", "attempted", rep.Attempted, "failed", rep.Failed)
}

// @Summary      Get LED state
// @Description  Returns the last commanded state without touching the pin.
// @Tags         led
// @Produce      json
// @Success      200  {object}  models.StatusPayload
// @Router       /api/v1/led [get]
func (h *Handler) getLed(c *gin.Context) {
	writePayload(c, http.StatusOK, codec.EncodeSuccess(h.services.Monitoring.GetState(c.Request.Context())))
}
