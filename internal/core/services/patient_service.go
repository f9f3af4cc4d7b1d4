package services

import (
	"context"
	"strings"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/adapters/persistence/repositories"
	"carepath-api/internal/config"
	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/pagination"
	"carepath-api/internal/pkg/period"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Patient errors
var (
	ErrPatientNotFound     = domain.NewError(domain.ErrNotFound, "patient not found")
	ErrPatientNameRequired = domain.NewError(domain.ErrInvalidInput, "firstName and lastName are required")
	ErrInvalidDateOfBirth  = domain.NewError(domain.ErrInvalidInput, "dateOfBirth must be a past date (YYYY-MM-DD)")
	ErrInvalidGender       = domain.NewError(domain.ErrInvalidInput, "gender must be MALE or FEMALE")
	ErrAssigneeNotFound    = domain.NewError(domain.ErrNotFound, "assigned user not found")
)

// PatientService handles patient records
type PatientService struct {
	patientRepo repositories.PatientRepository
	userRepo    repositories.UserRepository
	cfg         *config.Config
	now         func() time.Time
}

// NewPatientService creates a new patient service
func NewPatientService(patientRepo repositories.PatientRepository, userRepo repositories.UserRepository, cfg *config.Config) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		now:         systemClock,
	}
}

// CreatePatientInput represents create patient input
type CreatePatientInput struct {
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	DateOfBirth  string  `json:"dateOfBirth"`
	Gender       *string `json:"gender"`
	AssignedToID *string `json:"assignedToId"`
}

// Create registers a patient
func (s *PatientService) Create(ctx context.Context, input *CreatePatientInput) (*models.Patient, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, ErrPatientNameRequired
	}

	loc := s.cfg.Location()
	dob, err := period.ParseDate(input.DateOfBirth, loc)
	if err != nil || dob.After(s.now()) {
		return nil, ErrInvalidDateOfBirth
	}
	y, m, d := dob.In(loc).Date()

	patient := &models.Patient{
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)),
	}

	if input.Gender != nil && *input.Gender != "" {
		gender := domain.Gender(strings.ToUpper(*input.Gender))
		if !gender.Valid() {
			return nil, ErrInvalidGender
		}
		g := string(gender)
		patient.Gender = &g
	}

	if input.AssignedToID != nil && *input.AssignedToID != "" {
		exists, err := s.userRepo.ExistsByID(ctx, *input.AssignedToID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrAssigneeNotFound
		}
		patient.AssignedToID = input.AssignedToID
	}

	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}

	log.Info().Str("patient_id", patient.ID).Msg("✅ Patient created")
	return patient, nil
}

// GetByID returns a patient
func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return patient, nil
}

// List returns a page of patients
func (s *PatientService) List(ctx context.Context, params *pagination.Params) (*pagination.Response, error) {
	patients, total, err := s.patientRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(patients, params, total), nil
}

// ListAssignedTo returns the patients assigned to a user
func (s *PatientService) ListAssignedTo(ctx context.Context, userID string) ([]*models.Patient, error) {
	exists, err := s.userRepo.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	return s.patientRepo.ListByAssignedTo(ctx, userID)
}
