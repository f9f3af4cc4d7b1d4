package services

import (
	"context"
	"testing"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/adapters/persistence/repositories"
	"carepath-api/internal/config"
	"carepath-api/internal/pkg/cache"
	"carepath-api/internal/pkg/password"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fixture wires every repository against a private in-memory sqlite
// database and a controllable clock
type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	cfg *config.Config
	now time.Time

	users         repositories.UserRepository
	patients      repositories.PatientRepository
	programs      repositories.ProgramRepository
	sessions      repositories.SessionRepository
	enrollments   repositories.EnrollmentRepository
	attendance    repositories.AttendanceRepository
	medications   repositories.MedicationRepository
	prescriptions repositories.PrescriptionRepository
	dispenses     repositories.DispenseRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	password.Cost = bcrypt.MinCost

	cfg := &config.Config{
		AppMode:  "test",
		TimeZone: "UTC",
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		},
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cache:     config.CacheConfig{Driver: "memory", TTL: time.Minute},
		Admin:     config.AdminConfig{CreateCode: "let-me-in"},
		Reset:     config.ResetConfig{URLBase: "http://clinic.test", TokenTTL: time.Hour},
		Scheduler: config.SchedulerConfig{ProgramSweepSpec: "@every 1m"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		t.Fatalf("ConnectDatabase: %v", err)
	}
	t.Cleanup(func() { _ = config.CloseDatabase(db) })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	return &fixture{
		t:             t,
		ctx:           context.Background(),
		db:            db,
		cfg:           cfg,
		now:           time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		users:         repositories.NewUserRepository(db),
		patients:      repositories.NewPatientRepository(db),
		programs:      repositories.NewProgramRepository(db),
		sessions:      repositories.NewSessionRepository(db),
		enrollments:   repositories.NewEnrollmentRepository(db),
		attendance:    repositories.NewAttendanceRepository(db),
		medications:   repositories.NewMedicationRepository(db),
		prescriptions: repositories.NewPrescriptionRepository(db),
		dispenses:     repositories.NewDispenseRepository(db),
	}
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fixture) programService() *ProgramService {
	c := cache.NewMemoryCache()
	f.t.Cleanup(func() { _ = c.Close() })
	svc := NewProgramService(f.programs, c, f.cfg)
	svc.now = f.clock
	return svc
}

func (f *fixture) sessionService() *SessionService {
	svc := NewSessionService(f.sessions, f.programs, f.patients, f.enrollments, f.attendance, f.cfg)
	svc.now = f.clock
	return svc
}

func (f *fixture) enrollmentService() *EnrollmentService {
	svc := NewEnrollmentService(f.enrollments, f.patients, f.programs, f.sessions, f.attendance)
	svc.now = f.clock
	return svc
}

func (f *fixture) medicationService() *MedicationService {
	svc := NewMedicationService(f.medications, f.prescriptions, f.dispenses, f.patients, f.cfg)
	svc.now = f.clock
	return svc
}

func (f *fixture) createUser(email, role, plain string) *models.User {
	f.t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		f.t.Fatalf("hash: %v", err)
	}
	user := &models.User{Name: "User " + role, Email: email, Password: hash, Role: role}
	if err := f.users.Create(f.ctx, user); err != nil {
		f.t.Fatalf("create user: %v", err)
	}
	return user
}

func (f *fixture) createPatient(first, last string) *models.Patient {
	f.t.Helper()
	patient := &models.Patient{
		FirstName:   first,
		LastName:    last,
		DateOfBirth: datatypes.Date(time.Date(1980, 3, 4, 0, 0, 0, 0, time.UTC)),
	}
	if err := f.patients.Create(f.ctx, patient); err != nil {
		f.t.Fatalf("create patient: %v", err)
	}
	return patient
}

func (f *fixture) createProgram(name string, start, end time.Time, status string) *models.Program {
	f.t.Helper()
	program := &models.Program{Name: name, Description: name, StartDate: start, EndDate: end, Status: status}
	if err := f.programs.Create(f.ctx, program); err != nil {
		f.t.Fatalf("create program: %v", err)
	}
	return program
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
