package handlers

import (
	"carepath-api/internal/core/services"
	"carepath-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProgramHandler handles program endpoints
type ProgramHandler struct {
	programService *services.ProgramService
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(programService *services.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// CreateProgram creates a program
// @Summary Create program
// @Description Create a program. Without a status it is derived from the dates. (Admin only)
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProgramInput true "Program data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /program [post]
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var req services.CreateProgramInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	program, err := h.programService.Create(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create program")
	}

	return response.Created(c, "Program created successfully", program)
}

// UpdateProgram applies a partial update
// @Summary Update program
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param body body services.UpdateProgramInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /program/{id} [patch]
func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	var req services.UpdateProgramInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	program, err := h.programService.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err, "Failed to update program")
	}

	return response.Success(c, "Program updated successfully", program)
}

// ListPrograms returns every program
// @Summary List programs
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Response
// @Router /program [get]
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	programs, err := h.programService.List(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to get programs")
	}

	return response.Success(c, "Programs retrieved successfully", programs)
}

// ListUpcomingPrograms returns programs that have not ended
// @Summary List upcoming programs
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Response
// @Router /program/upcoming [get]
func (h *ProgramHandler) ListUpcomingPrograms(c *fiber.Ctx) error {
	programs, err := h.programService.ListUpcoming(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to get upcoming programs")
	}

	return response.Success(c, "Upcoming programs retrieved successfully", programs)
}

// GetProgram returns one program
// @Summary Get program
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /program/{id} [get]
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	program, err := h.programService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get program")
	}

	return response.Success(c, "Program retrieved successfully", program)
}
