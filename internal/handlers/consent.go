package handlers

import (
	"github.com/gin-gonic/gin"

	"telemed-app-server/internal/services"
	"telemed-app-server/internal/utils"
)

// ConsentHandler handles recording-consent requests.
type ConsentHandler struct {
	Consent services.InterfaceConsentService
}

// NewConsentHandler creates a new ConsentHandler.
func NewConsentHandler(consent services.InterfaceConsentService) *ConsentHandler {
	return &ConsentHandler{Consent: consent}
}

// GiveConsentRequest represents the request body for recording a consent decision.
type GiveConsentRequest struct {
	ConsentGiven *bool `json:"consentGiven" binding:"required"`
}

// GiveConsent records the patient's yes/no decision to be recorded. The
// originating IP is taken from the connection, not the body.
func (h *ConsentHandler) GiveConsent(c *gin.Context) {
	var req GiveConsentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	recording, err := h.Consent.Give(c.Param("appointmentId"), caller.ID, *req.ConsentGiven, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Consent recorded successfully", gin.H{
		"recordingId":  recording.ID,
		"consentGiven": recording.ConsentGiven,
		"consentDate":  recording.ConsentDate,
	})
}

// GetConsentStatus returns the patient's current decision or "no decision yet".
func (h *ConsentHandler) GetConsentStatus(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	status, err := h.Consent.Status(c.Param("appointmentId"), caller.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Consent status fetched successfully", status)
}
