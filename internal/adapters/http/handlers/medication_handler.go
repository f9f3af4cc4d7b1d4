package handlers

import (
	"carepath-api/internal/core/services"
	"carepath-api/internal/pkg/pagination"
	"carepath-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MedicationHandler handles medication, prescription and dispense endpoints
type MedicationHandler struct {
	medicationService *services.MedicationService
}

// NewMedicationHandler creates a new medication handler
func NewMedicationHandler(medicationService *services.MedicationService) *MedicationHandler {
	return &MedicationHandler{medicationService: medicationService}
}

// CreateMedication adds a medication
// @Summary Create medication
// @Tags Medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateMedicationInput true "Medication"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /medications [post]
func (h *MedicationHandler) CreateMedication(c *fiber.Ctx) error {
	var req services.CreateMedicationInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	medication, err := h.medicationService.CreateMedication(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create medication")
	}

	return response.Created(c, "Medication created successfully", medication)
}

// CreateMedications adds a batch of medications, skipping existing names
// @Summary Bulk create medications
// @Tags Medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BulkCreateMedicationsInput true "Medications"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /medications/bulk [post]
func (h *MedicationHandler) CreateMedications(c *fiber.Ctx) error {
	var req services.BulkCreateMedicationsInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.medicationService.CreateMedications(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create medications")
	}

	return response.Created(c, "Medications created successfully", result)
}

// ListMedications returns all medications
// @Summary List medications
// @Tags Medications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /medications [get]
func (h *MedicationHandler) ListMedications(c *fiber.Ctx) error {
	medications, err := h.medicationService.ListMedications(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to get medications")
	}

	return response.Success(c, "Medications retrieved successfully", medications)
}

// Prescribe assigns a medication to a patient
// @Summary Prescribe medication
// @Tags Medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PrescribeInput true "Prescription"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /medications/patient/prescribe [post]
func (h *MedicationHandler) Prescribe(c *fiber.Ctx) error {
	var req services.PrescribeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	prescription, err := h.medicationService.Prescribe(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to prescribe medication")
	}

	return response.Created(c, "Medication prescribed successfully", prescription)
}

// ListPrescriptions returns every prescription
// @Summary List prescriptions
// @Tags Medications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /medications/prescriptions [get]
func (h *MedicationHandler) ListPrescriptions(c *fiber.Ctx) error {
	prescriptions, err := h.medicationService.ListPrescriptions(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to get prescriptions")
	}

	return response.Success(c, "Prescriptions retrieved successfully", prescriptions)
}

// Dispense records a collection of a prescription
// @Summary Dispense medication
// @Description At most one collection per day, ISO week or month depending on the prescription frequency
// @Tags Medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DispenseInput true "Dispense"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /medications/patient/dispense [post]
func (h *MedicationHandler) Dispense(c *fiber.Ctx) error {
	var req services.DispenseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, err := h.medicationService.Dispense(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to dispense medication")
	}

	return response.Created(c, "Medication dispensed successfully", record)
}

// ListDispenseHistory returns a page of dispense records
// @Summary Dispense history
// @Tags Medications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /medications/dispense/history [get]
func (h *MedicationHandler) ListDispenseHistory(c *fiber.Ctx) error {
	result, err := h.medicationService.ListDispenseHistory(c.Context(), pagination.GetParams(c))
	if err != nil {
		return respondError(c, err, "Failed to get dispense history")
	}

	return response.Success(c, "Dispense history retrieved successfully", result)
}
