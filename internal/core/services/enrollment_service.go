package services

import (
	"context"
	"math"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/adapters/persistence/repositories"
	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/metrics"

	"github.com/rs/zerolog/log"
)

// Enrollment errors
var (
	ErrEnrollmentFieldsMissing = domain.NewError(domain.ErrInvalidInput, "patientId and programId are required")
	ErrAlreadyEnrolled         = domain.NewError(domain.ErrConflict, "patient is already enrolled in this program")
)

// EnrollmentService enrolls patients into programs
type EnrollmentService struct {
	enrollmentRepo repositories.EnrollmentRepository
	patientRepo    repositories.PatientRepository
	programRepo    repositories.ProgramRepository
	sessionRepo    repositories.SessionRepository
	attendanceRepo repositories.AttendanceRepository
	now            func() time.Time
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	enrollmentRepo repositories.EnrollmentRepository,
	patientRepo repositories.PatientRepository,
	programRepo repositories.ProgramRepository,
	sessionRepo repositories.SessionRepository,
	attendanceRepo repositories.AttendanceRepository,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		patientRepo:    patientRepo,
		programRepo:    programRepo,
		sessionRepo:    sessionRepo,
		attendanceRepo: attendanceRepo,
		now:            systemClock,
	}
}

// EnrollInput represents enrollment input
type EnrollInput struct {
	PatientID string `json:"patientId"`
	ProgramID string `json:"programId"`
}

// EnrollmentStats summarizes attendance of an enrolled patient
type EnrollmentStats struct {
	TotalSessions    int64   `json:"totalSessions"`
	AttendedSessions int64   `json:"attendedSessions"`
	AttendanceRate   float64 `json:"attendanceRate"`
}

// EnrollmentWithStats is an enrollment plus its attendance stats
type EnrollmentWithStats struct {
	*models.Enrollment
	Stats EnrollmentStats `json:"stats"`
}

// Enroll adds a patient to a program, once per pair
func (s *EnrollmentService) Enroll(ctx context.Context, enrolledByID string, input *EnrollInput) (*models.Enrollment, error) {
	if input.PatientID == "" || input.ProgramID == "" {
		return nil, ErrEnrollmentFieldsMissing
	}

	patientExists, err := s.patientRepo.Exists(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if !patientExists {
		return nil, ErrPatientNotFound
	}

	if _, err := s.programRepo.GetByID(ctx, input.ProgramID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	exists, err := s.enrollmentRepo.Exists(ctx, input.PatientID, input.ProgramID)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.RuleRejections.WithLabelValues("enrollment_duplicate").Inc()
		return nil, ErrAlreadyEnrolled
	}

	enrollment := &models.Enrollment{
		PatientID:    input.PatientID,
		ProgramID:    input.ProgramID,
		EnrolledByID: enrolledByID,
		EnrolledAt:   s.now(),
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if repositories.IsDuplicateKey(err) {
			metrics.RuleRejections.WithLabelValues("enrollment_duplicate").Inc()
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	log.Info().
		Str("enrollment_id", enrollment.ID).
		Str("patient_id", enrollment.PatientID).
		Str("program_id", enrollment.ProgramID).
		Msg("✅ Patient enrolled")
	return enrollment, nil
}

// ListForUser returns the enrollments created by userID with attendance stats
func (s *EnrollmentService) ListForUser(ctx context.Context, userID string) ([]*EnrollmentWithStats, error) {
	enrollments, err := s.enrollmentRepo.ListByEnrolledBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*EnrollmentWithStats, 0, len(enrollments))
	for _, e := range enrollments {
		stats, err := s.Stats(ctx, e.PatientID, e.ProgramID)
		if err != nil {
			return nil, err
		}
		out = append(out, &EnrollmentWithStats{Enrollment: e, Stats: *stats})
	}
	return out, nil
}

// ListByProgram returns the enrollments of one program
func (s *EnrollmentService) ListByProgram(ctx context.Context, programID string) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.ListByProgram(ctx, programID)
}

// Stats computes attended/total sessions for a patient in a program. The
// rate is a percentage rounded to two decimals, 0 when the program has no
// sessions.
func (s *EnrollmentService) Stats(ctx context.Context, patientID, programID string) (*EnrollmentStats, error) {
	total, err := s.sessionRepo.CountByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	attended, err := s.attendanceRepo.CountAttendedInProgram(ctx, patientID, programID)
	if err != nil {
		return nil, err
	}

	stats := &EnrollmentStats{TotalSessions: total, AttendedSessions: attended}
	if total > 0 {
		stats.AttendanceRate = math.Round(float64(attended)/float64(total)*10000) / 100
	}
	return stats, nil
}
