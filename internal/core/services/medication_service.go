package services

import (
	"context"
	"strings"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/adapters/persistence/repositories"
	"carepath-api/internal/config"
	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/metrics"
	"carepath-api/internal/pkg/pagination"
	"carepath-api/internal/pkg/period"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Medication errors
var (
	ErrMedicationNotFound         = domain.NewError(domain.ErrNotFound, "medication not found")
	ErrMedicationNameRequired     = domain.NewError(domain.ErrInvalidInput, "medication name is required")
	ErrMedicationExists           = domain.NewError(domain.ErrConflict, "a medication with this name already exists")
	ErrAllMedicationsExist        = domain.NewError(domain.ErrConflict, "all medications already exist")
	ErrEmptyMedicationBatch       = domain.NewError(domain.ErrInvalidInput, "medications must not be empty")
	ErrPrescriptionFieldsMissing  = domain.NewError(domain.ErrInvalidInput, "medicationId, patientId, dosage and frequency are required")
	ErrInvalidMedicationFrequency = domain.NewError(domain.ErrInvalidInput, "frequency must be one of DAILY, WEEKLY, MONTHLY")
	ErrPrescriptionExists         = domain.NewError(domain.ErrConflict, "this medication is already prescribed to the patient")
	ErrPrescriptionNotFound       = domain.NewError(domain.ErrNotFound, "prescription not found")
	ErrDispenseFieldsMissing      = domain.NewError(domain.ErrInvalidInput, "assignmentId and patientId are required")
	ErrDispensePatientMismatch    = domain.NewError(domain.ErrInvalidInput, "prescription does not belong to this patient")
	ErrAlreadyDispensed           = domain.NewError(domain.ErrConflict, "medication already dispensed for the current period")
)

// MedicationService handles medications, prescriptions and dispensing
type MedicationService struct {
	medicationRepo   repositories.MedicationRepository
	prescriptionRepo repositories.PrescriptionRepository
	dispenseRepo     repositories.DispenseRepository
	patientRepo      repositories.PatientRepository
	cfg              *config.Config
	now              func() time.Time
}

// NewMedicationService creates a new medication service
func NewMedicationService(
	medicationRepo repositories.MedicationRepository,
	prescriptionRepo repositories.PrescriptionRepository,
	dispenseRepo repositories.DispenseRepository,
	patientRepo repositories.PatientRepository,
	cfg *config.Config,
) *MedicationService {
	return &MedicationService{
		medicationRepo:   medicationRepo,
		prescriptionRepo: prescriptionRepo,
		dispenseRepo:     dispenseRepo,
		patientRepo:      patientRepo,
		cfg:              cfg,
		now:              systemClock,
	}
}

// CreateMedicationInput represents create medication input
type CreateMedicationInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BulkCreateMedicationsInput wraps a batch of medications
type BulkCreateMedicationsInput struct {
	Medications []CreateMedicationInput `json:"medications"`
}

// BulkMedicationResult lists what was inserted and what was skipped
type BulkMedicationResult struct {
	Created []*models.Medication `json:"created"`
	Skipped []string             `json:"skipped"`
}

// PrescribeInput assigns a medication to a patient
type PrescribeInput struct {
	MedicationID string `json:"medicationId"`
	PatientID    string `json:"patientId"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
}

// DispenseInput records a collection of a prescription
type DispenseInput struct {
	AssignmentID string `json:"assignmentId"`
	PatientID    string `json:"patientId"`
}

// CreateMedication adds a medication with a unique name
func (s *MedicationService) CreateMedication(ctx context.Context, input *CreateMedicationInput) (*models.Medication, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrMedicationNameRequired
	}

	exists, err := s.medicationRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMedicationExists
	}

	medication := &models.Medication{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.medicationRepo.Create(ctx, medication); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, ErrMedicationExists
		}
		return nil, err
	}

	log.Info().Str("medication_id", medication.ID).Msg("✅ Medication created")
	return medication, nil
}

// CreateMedications inserts the medications whose names are new and skips
// the rest. It fails with a conflict only when every name already exists.
func (s *MedicationService) CreateMedications(ctx context.Context, input *BulkCreateMedicationsInput) (*BulkMedicationResult, error) {
	if len(input.Medications) == 0 {
		return nil, ErrEmptyMedicationBatch
	}

	inputs := lo.UniqBy(input.Medications, func(m CreateMedicationInput) string {
		return strings.TrimSpace(m.Name)
	})
	names := make([]string, 0, len(inputs))
	for _, m := range inputs {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, ErrMedicationNameRequired
		}
		names = append(names, name)
	}

	existing, err := s.medicationRepo.ExistingNames(ctx, names)
	if err != nil {
		return nil, err
	}
	taken := lo.SliceToMap(existing, func(name string) (string, struct{}) { return name, struct{}{} })

	result := &BulkMedicationResult{Skipped: existing}
	for _, m := range inputs {
		name := strings.TrimSpace(m.Name)
		if _, ok := taken[name]; ok {
			continue
		}
		result.Created = append(result.Created, &models.Medication{Name: name, Description: strings.TrimSpace(m.Description)})
	}
	if len(result.Created) == 0 {
		return nil, ErrAllMedicationsExist
	}

	if err := s.medicationRepo.CreateBatch(ctx, result.Created); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, ErrMedicationExists
		}
		return nil, err
	}

	log.Info().Int("created", len(result.Created)).Int("skipped", len(result.Skipped)).Msg("✅ Medications created")
	return result, nil
}

// ListMedications returns all medications by name
func (s *MedicationService) ListMedications(ctx context.Context) ([]*models.Medication, error) {
	return s.medicationRepo.List(ctx)
}

// Prescribe assigns a medication to a patient, once per pair
func (s *MedicationService) Prescribe(ctx context.Context, input *PrescribeInput) (*models.Prescription, error) {
	if input.MedicationID == "" || input.PatientID == "" || strings.TrimSpace(input.Dosage) == "" || input.Frequency == "" {
		return nil, ErrPrescriptionFieldsMissing
	}
	frequency := domain.MedicationFrequency(strings.ToUpper(input.Frequency))
	if !frequency.Valid() {
		return nil, ErrInvalidMedicationFrequency
	}

	patientExists, err := s.patientRepo.Exists(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if !patientExists {
		return nil, ErrPatientNotFound
	}

	if _, err := s.medicationRepo.GetByID(ctx, input.MedicationID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrMedicationNotFound
		}
		return nil, err
	}

	exists, err := s.prescriptionRepo.Exists(ctx, input.MedicationID, input.PatientID)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.RuleRejections.WithLabelValues("prescription_duplicate").Inc()
		return nil, ErrPrescriptionExists
	}

	prescription := &models.Prescription{
		MedicationID: input.MedicationID,
		PatientID:    input.PatientID,
		Dosage:       strings.TrimSpace(input.Dosage),
		Frequency:    string(frequency),
	}
	if err := s.prescriptionRepo.Create(ctx, prescription); err != nil {
		if repositories.IsDuplicateKey(err) {
			metrics.RuleRejections.WithLabelValues("prescription_duplicate").Inc()
			return nil, ErrPrescriptionExists
		}
		return nil, err
	}

	log.Info().Str("prescription_id", prescription.ID).Msg("✅ Medication prescribed")
	return prescription, nil
}

// ListPrescriptions returns every prescription with patient and medication
func (s *MedicationService) ListPrescriptions(ctx context.Context) ([]*models.Prescription, error) {
	return s.prescriptionRepo.List(ctx)
}

// Dispense records a collection unless the prescription was already
// collected in the current day, ISO week or month (per its frequency) in the
// clinic time zone
func (s *MedicationService) Dispense(ctx context.Context, input *DispenseInput) (*models.DispenseRecord, error) {
	if input.AssignmentID == "" || input.PatientID == "" {
		return nil, ErrDispenseFieldsMissing
	}

	prescription, err := s.prescriptionRepo.GetByID(ctx, input.AssignmentID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, err
	}
	if prescription.PatientID != input.PatientID {
		return nil, ErrDispensePatientMismatch
	}

	now := s.now()
	window := dispenseWindow(domain.MedicationFrequency(prescription.Frequency), now.In(s.cfg.Location())).UTC()

	collected, err := s.dispenseRepo.ExistsInWindow(ctx, prescription.ID, input.PatientID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	if collected {
		metrics.RuleRejections.WithLabelValues("dispense_window").Inc()
		return nil, ErrAlreadyDispensed
	}

	record := &models.DispenseRecord{
		AssignmentID: prescription.ID,
		PatientID:    input.PatientID,
		CollectedAt:  now.UTC(),
	}
	if err := s.dispenseRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	log.Info().
		Str("dispense_id", record.ID).
		Str("prescription_id", prescription.ID).
		Str("frequency", prescription.Frequency).
		Msg("💊 Medication dispensed")
	return record, nil
}

// ListDispenseHistory returns a page of dispense records, newest first
func (s *MedicationService) ListDispenseHistory(ctx context.Context, params *pagination.Params) (*pagination.Response, error) {
	records, total, err := s.dispenseRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(records, params, total), nil
}

func dispenseWindow(frequency domain.MedicationFrequency, t time.Time) period.Window {
	switch frequency {
	case domain.MedicationWeekly:
		return period.Week(t)
	case domain.MedicationMonthly:
		return period.Month(t)
	default:
		return period.Day(t)
	}
}
