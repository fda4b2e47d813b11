package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"telemed-app-server/internal/models"
	"telemed-app-server/internal/services"
	"telemed-app-server/internal/utils"
)

// SignalHandler handles the in-call signaling channel.
type SignalHandler struct {
	Signals services.InterfaceSignalService
}

// NewSignalHandler creates a new SignalHandler.
func NewSignalHandler(signals services.InterfaceSignalService) *SignalHandler {
	return &SignalHandler{Signals: signals}
}

// SendSignalRequest represents the request body for relaying a message.
// Payload is passed through to the other participant untouched.
type SendSignalRequest struct {
	Type    models.SignalType `json:"type" binding:"required"`
	Payload json.RawMessage   `json:"payload" binding:"required"`
}

// SendSignal appends a message to the appointment's signaling channel.
func (h *SignalHandler) SendSignal(c *gin.Context) {
	var req SendSignalRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	message, err := h.Signals.Send(c.Param("appointmentId"), caller.ID, req.Type, req.Payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Created(c, "Signal sent successfully", message)
}

// PollSignals returns messages on the channel created after the `after`
// cursor (RFC3339Nano; omitted means all time) that the caller did not author.
func (h *SignalHandler) PollSignals(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	var after time.Time
	if afterStr := c.Query("after"); afterStr != "" {
		var err error
		after, err = time.Parse(time.RFC3339Nano, afterStr)
		if err != nil {
			utils.BadRequest(c, "Invalid 'after' timestamp. Use RFC3339 format (e.g., 2006-01-02T15:04:05.000Z)")
			return
		}
	}

	messages, err := h.Signals.Poll(c.Param("appointmentId"), caller.ID, after)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Signals fetched successfully", messages)
}
