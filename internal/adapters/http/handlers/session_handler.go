package handlers

import (
	"fmt"

	"carepath-api/internal/core/services"
	"carepath-api/internal/pkg/pagination"
	"carepath-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SessionHandler handles program session and attendance endpoints
type SessionHandler struct {
	sessionService *services.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSession adds a session to a program
// @Summary Create session
// @Description The session date must fall within the program's start and end dates
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateSessionInput true "Session data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sessions/program [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req services.CreateSessionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	session, err := h.sessionService.CreateSession(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create session")
	}

	return response.Created(c, "Session created successfully", session)
}

// CreateSessions adds a batch of sessions, all or nothing
// @Summary Bulk create sessions
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BulkCreateSessionsInput true "Sessions"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sessions/program/bulk [post]
func (h *SessionHandler) CreateSessions(c *fiber.Ctx) error {
	var req services.BulkCreateSessionsInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.sessionService.CreateSessions(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create sessions")
	}

	return response.Created(c, fmt.Sprintf("%d sessions created successfully", result.Count), result)
}

// ListSessions returns every session
// @Summary List sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	sessions, err := h.sessionService.ListSessions(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to get sessions")
	}

	return response.Success(c, "Sessions retrieved successfully", sessions)
}

// ListProgramSessions returns the sessions of a program
// @Summary List sessions of a program
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {object} response.Response
// @Router /sessions/program/{programId} [get]
func (h *SessionHandler) ListProgramSessions(c *fiber.Ctx) error {
	sessions, err := h.sessionService.ListProgramSessions(c.Context(), c.Params("programId"))
	if err != nil {
		return respondError(c, err, "Failed to get program sessions")
	}

	return response.Success(c, "Program sessions retrieved successfully", sessions)
}

// GetSession returns one session
// @Summary Get session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sessions/{sessionId} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.sessionService.GetSession(c.Context(), c.Params("sessionId"))
	if err != nil {
		return respondError(c, err, "Failed to get session")
	}

	return response.Success(c, "Session retrieved successfully", session)
}

// RecordAttendance marks a patient's attendance
// @Summary Record attendance
// @Description The patient must be enrolled in the session's program; one record per patient and session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordAttendanceInput true "Attendance"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /sessions/patient [post]
func (h *SessionHandler) RecordAttendance(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.RecordAttendanceInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	attendance, err := h.sessionService.RecordAttendance(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err, "Failed to record attendance")
	}

	return response.Created(c, "Attendance recorded successfully", attendance)
}

// ListAttendance returns a page of attendance records
// @Summary List attendance records
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /sessions/patient [get]
func (h *SessionHandler) ListAttendance(c *fiber.Ctx) error {
	result, err := h.sessionService.ListAttendance(c.Context(), pagination.GetParams(c))
	if err != nil {
		return respondError(c, err, "Failed to get attendance records")
	}

	return response.Success(c, "Attendance records retrieved successfully", result)
}

// ExportAttendance downloads attendance records as a spreadsheet
// @Summary Export attendance
// @Tags Sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /sessions/patient/export [get]
func (h *SessionHandler) ExportAttendance(c *fiber.Ctx) error {
	buf, err := h.sessionService.ExportAttendance(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to export attendance records")
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="attendance.xlsx"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// ListPatientAttendance returns the attendance history of a patient
// @Summary List attendance of a patient
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param patientId path string true "Patient ID"
// @Success 200 {object} response.Response
// @Router /sessions/patient/{patientId} [get]
func (h *SessionHandler) ListPatientAttendance(c *fiber.Ctx) error {
	records, err := h.sessionService.ListPatientAttendance(c.Context(), c.Params("patientId"))
	if err != nil {
		return respondError(c, err, "Failed to get patient attendance")
	}

	return response.Success(c, "Patient attendance retrieved successfully", records)
}

// CancelAttendance marks an attendance record as canceled
// @Summary Cancel attendance
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attendanceId path string true "Attendance ID"
// @Param body body services.CancelAttendanceInput false "Reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sessions/cancel/{attendanceId} [patch]
func (h *SessionHandler) CancelAttendance(c *fiber.Ctx) error {
	var req services.CancelAttendanceInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	attendance, err := h.sessionService.CancelAttendance(c.Context(), c.Params("attendanceId"), &req)
	if err != nil {
		return respondError(c, err, "Failed to cancel attendance")
	}

	return response.Success(c, "Attendance canceled successfully", attendance)
}
