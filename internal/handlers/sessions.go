package handlers

import (
	"github.com/gin-gonic/gin"

	"telemed-app-server/internal/services"
	"telemed-app-server/internal/utils"
)

// SessionHandler handles live consultation session requests.
type SessionHandler struct {
	Sessions services.InterfaceSessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions services.InterfaceSessionService) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

// StartSessionRequest represents the request body for starting a session.
type StartSessionRequest struct {
	MeetingLink string `json:"meetingLink" binding:"required"`
}

// StartSession begins the live session for an appointment. Doctor only.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	status, recording, err := h.Sessions.StartSession(c.Param("appointmentId"), caller.ID, req.MeetingLink)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Session started successfully", gin.H{
		"session":   status,
		"recording": recording,
	})
}

// ExtendSession removes the session's auto-end deadline. Doctor only.
func (h *SessionHandler) ExtendSession(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	status, err := h.Sessions.ExtendSession(c.Param("appointmentId"), caller.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Session extended successfully", status)
}

// EndSession terminates the live session. Either participant.
func (h *SessionHandler) EndSession(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	status, err := h.Sessions.EndSession(c.Param("appointmentId"), caller.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Session ended successfully", status)
}

// GetSessionStatus returns the session fields for either participant. Clients
// call this each poll cycle to decide whether to keep the call UI active.
func (h *SessionHandler) GetSessionStatus(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	status, err := h.Sessions.GetSessionStatus(c.Param("appointmentId"), caller.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Session status fetched successfully", status)
}

// GetAvailableSessions lists today's startable sessions for the doctor.
func (h *SessionHandler) GetAvailableSessions(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	sessions, err := h.Sessions.GetAvailableSessions(caller.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Available sessions fetched successfully", sessions)
}
