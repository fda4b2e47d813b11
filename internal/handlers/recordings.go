package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"telemed-app-server/internal/services"
	"telemed-app-server/internal/utils"
)

// RecordingHandler handles recording upload and retrieval requests.
type RecordingHandler struct {
	Recordings services.InterfaceRecordingService
}

// NewRecordingHandler creates a new RecordingHandler.
func NewRecordingHandler(recordings services.InterfaceRecordingService) *RecordingHandler {
	return &RecordingHandler{Recordings: recordings}
}

// UploadRecordingFile attaches an out-of-band recording upload (multipart
// field "file", optional "duration" in seconds) to the appointment's
// canonical recording. Doctor of the appointment or admin only.
func (h *RecordingHandler) UploadRecordingFile(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "Error retrieving file from form: "+err.Error())
		return
	}
	defer file.Close()

	durationSeconds := 0
	if durationStr := c.PostForm("duration"); durationStr != "" {
		durationSeconds, err = strconv.Atoi(durationStr)
		if err != nil || durationSeconds < 0 {
			utils.BadRequest(c, "Invalid duration: must be a non-negative number of seconds")
			return
		}
	}

	recording, err := h.Recordings.UploadRecordingFile(c.Param("appointmentId"), caller, header.Filename, file, durationSeconds)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Recording file uploaded successfully", gin.H{
		"recordingId":      recording.ID,
		"recordingFileUrl": recording.RecordingFileURL,
		"duration":         recording.Duration,
	})
}

// GetRecording returns the canonical recording row for an appointment.
func (h *RecordingHandler) GetRecording(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	recording, err := h.Recordings.GetRecording(c.Param("appointmentId"), caller)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Recording fetched successfully", recording)
}
