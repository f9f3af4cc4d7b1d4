package repositories

import (
	"context"
	"time"

	"carepath-api/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	ListNonAdmin(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// PatientRepository defines patient repository interface
type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.Patient, int64, error)
	ListByAssignedTo(ctx context.Context, userID string) ([]*models.Patient, error)
	Count(ctx context.Context) (int64, error)
}

// ProgramRepository defines program repository interface
type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id string) (*models.Program, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Program, error)
	Update(ctx context.Context, program *models.Program) error
	List(ctx context.Context) ([]*models.Program, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]*models.Program, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	SweepStatuses(ctx context.Context, now time.Time) (*SweepResult, error)
}

// SessionRepository defines program session repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.ProgramSession) error
	CreateBatch(ctx context.Context, sessions []*models.ProgramSession) error
	GetByID(ctx context.Context, id string) (*models.ProgramSession, error)
	List(ctx context.Context) ([]*models.ProgramSession, error)
	ListByProgram(ctx context.Context, programID string) ([]*models.ProgramSession, error)
	CountByProgram(ctx context.Context, programID string) (int64, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// EnrollmentRepository defines enrollment repository interface
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Exists(ctx context.Context, patientID, programID string) (bool, error)
	ListByEnrolledBy(ctx context.Context, userID string) ([]*models.Enrollment, error)
	ListByProgram(ctx context.Context, programID string) ([]*models.Enrollment, error)
	Count(ctx context.Context) (int64, error)
	CountByEnrolledBy(ctx context.Context, userID string) (int64, error)
}

// AttendanceRepository defines session attendance repository interface
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *models.SessionAttendance) error
	GetByID(ctx context.Context, id string) (*models.SessionAttendance, error)
	Exists(ctx context.Context, patientID, sessionID string) (bool, error)
	Update(ctx context.Context, attendance *models.SessionAttendance) error
	ListByPatient(ctx context.Context, patientID string) ([]*models.SessionAttendance, error)
	ListDetailed(ctx context.Context, offset, limit int) ([]*models.SessionAttendance, int64, error)
	CountAttendedInProgram(ctx context.Context, patientID, programID string) (int64, error)
	CountByStatusBetween(ctx context.Context, from, to time.Time) (map[string]int64, error)
}

// MedicationRepository defines medication repository interface
type MedicationRepository interface {
	Create(ctx context.Context, medication *models.Medication) error
	CreateBatch(ctx context.Context, medications []*models.Medication) error
	GetByID(ctx context.Context, id string) (*models.Medication, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistingNames(ctx context.Context, names []string) ([]string, error)
	List(ctx context.Context) ([]*models.Medication, error)
}

// PrescriptionRepository defines prescription repository interface
type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *models.Prescription) error
	GetByID(ctx context.Context, id string) (*models.Prescription, error)
	Exists(ctx context.Context, medicationID, patientID string) (bool, error)
	List(ctx context.Context) ([]*models.Prescription, error)
}

// DispenseRepository defines dispense record repository interface
type DispenseRepository interface {
	Create(ctx context.Context, record *models.DispenseRecord) error
	ExistsInWindow(ctx context.Context, assignmentID, patientID string, from, to time.Time) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.DispenseRecord, int64, error)
}
