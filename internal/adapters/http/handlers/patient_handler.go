package handlers

import (
	"carepath-api/internal/core/services"
	"carepath-api/internal/pkg/pagination"
	"carepath-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PatientHandler handles patient endpoints
type PatientHandler struct {
	patientService *services.PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patientService *services.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// CreatePatient registers a patient
// @Summary Create patient
// @Tags Patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePatientInput true "Patient data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patient [post]
func (h *PatientHandler) CreatePatient(c *fiber.Ctx) error {
	var req services.CreatePatientInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	patient, err := h.patientService.Create(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create patient")
	}

	return response.Created(c, "Patient created successfully", patient)
}

// ListPatients returns a page of patients
// @Summary List patients
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /patient [get]
func (h *PatientHandler) ListPatients(c *fiber.Ctx) error {
	result, err := h.patientService.List(c.Context(), pagination.GetParams(c))
	if err != nil {
		return respondError(c, err, "Failed to get patients")
	}

	return response.Success(c, "Patients retrieved successfully", result)
}

// GetPatient returns one patient
// @Summary Get patient
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param patientId path string true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patient/{patientId} [get]
func (h *PatientHandler) GetPatient(c *fiber.Ctx) error {
	patient, err := h.patientService.GetByID(c.Context(), c.Params("patientId"))
	if err != nil {
		return respondError(c, err, "Failed to get patient")
	}

	return response.Success(c, "Patient retrieved successfully", patient)
}

// ListAssignedPatients returns the patients assigned to a user
// @Summary List patients assigned to a user
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param assignedToId path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patient/assigned-to/{assignedToId} [get]
func (h *PatientHandler) ListAssignedPatients(c *fiber.Ctx) error {
	patients, err := h.patientService.ListAssignedTo(c.Context(), c.Params("assignedToId"))
	if err != nil {
		return respondError(c, err, "Failed to get assigned patients")
	}

	return response.Success(c, "Assigned patients retrieved successfully", patients)
}
