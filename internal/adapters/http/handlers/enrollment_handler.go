package handlers

import (
	"carepath-api/internal/core/services"
	"carepath-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentHandler handles enrollment endpoints
type EnrollmentHandler struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Enroll enrolls a patient into a program
// @Summary Enroll patient
// @Description A patient can be enrolled in a program only once
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.EnrollInput true "Enrollment"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.EnrollInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	enrollment, err := h.enrollmentService.Enroll(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err, "Failed to enroll patient")
	}

	return response.Created(c, "Patient enrolled successfully", enrollment)
}

// ListMyEnrollments returns the enrollments created by the requester
// @Summary List my enrollments
// @Description Enrollments created by the requester, each with attendance stats
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListMyEnrollments(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	enrollments, err := h.enrollmentService.ListForUser(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to get enrollments")
	}

	return response.Success(c, "Enrollments retrieved successfully", enrollments)
}

// ListProgramEnrollments returns the enrollments of a program
// @Summary List enrollments of a program
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param programId path string true "Program ID"
// @Success 200 {object} response.Response
// @Router /enrollments/program/{programId} [get]
func (h *EnrollmentHandler) ListProgramEnrollments(c *fiber.Ctx) error {
	enrollments, err := h.enrollmentService.ListByProgram(c.Context(), c.Params("programId"))
	if err != nil {
		return respondError(c, err, "Failed to get program enrollments")
	}

	return response.Success(c, "Program enrollments retrieved successfully", enrollments)
}
