package services

import (
	"context"
	"time"

	"carepath-api/internal/adapters/persistence/repositories"
	"carepath-api/internal/config"
	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/period"
)

// DashboardService aggregates counters for the admin and staff dashboards
type DashboardService struct {
	userRepo       repositories.UserRepository
	patientRepo    repositories.PatientRepository
	programRepo    repositories.ProgramRepository
	sessionRepo    repositories.SessionRepository
	enrollmentRepo repositories.EnrollmentRepository
	attendanceRepo repositories.AttendanceRepository
	cfg            *config.Config
	now            func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	userRepo repositories.UserRepository,
	patientRepo repositories.PatientRepository,
	programRepo repositories.ProgramRepository,
	sessionRepo repositories.SessionRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	attendanceRepo repositories.AttendanceRepository,
	cfg *config.Config,
) *DashboardService {
	return &DashboardService{
		userRepo:       userRepo,
		patientRepo:    patientRepo,
		programRepo:    programRepo,
		sessionRepo:    sessionRepo,
		enrollmentRepo: enrollmentRepo,
		attendanceRepo: attendanceRepo,
		cfg:            cfg,
		now:            systemClock,
	}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	TotalUsers        int64            `json:"totalUsers"`
	StaffUsers        int64            `json:"staffUsers"`
	TotalPatients     int64            `json:"totalPatients"`
	TotalPrograms     int64            `json:"totalPrograms"`
	TotalEnrollments  int64            `json:"totalEnrollments"`
	ActivePrograms    int64            `json:"activePrograms"`
	CompletedPrograms int64            `json:"completedPrograms"`
	UpcomingPrograms  int64            `json:"upcomingPrograms"`
	ProgramsByStatus  map[string]int64 `json:"programsByStatus"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	var err error

	if data.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if data.StaffUsers, err = s.userRepo.CountByRole(ctx, string(domain.RoleStaff)); err != nil {
		return nil, err
	}
	if data.TotalPatients, err = s.patientRepo.Count(ctx); err != nil {
		return nil, err
	}
	if data.TotalPrograms, err = s.programRepo.Count(ctx); err != nil {
		return nil, err
	}
	if data.TotalEnrollments, err = s.enrollmentRepo.Count(ctx); err != nil {
		return nil, err
	}
	if data.ProgramsByStatus, err = s.programRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}

	data.ActivePrograms = data.ProgramsByStatus[string(domain.ProgramOngoing)]
	data.CompletedPrograms = data.ProgramsByStatus[string(domain.ProgramCompleted)]
	data.UpcomingPrograms = data.ProgramsByStatus[string(domain.ProgramUpcoming)]

	return data, nil
}

// ============================================================
// Staff Dashboard
// ============================================================

// StaffDashboardData represents the day view of a staff member
type StaffDashboardData struct {
	TodaySessions    int64 `json:"todaySessions"`
	Attended         int64 `json:"attended"`
	Missed           int64 `json:"missed"`
	Canceled         int64 `json:"canceled"`
	UpcomingSessions int64 `json:"upcomingSessions"`
	MyEnrollments    int64 `json:"myEnrollments"`
	AssignedPatients int   `json:"assignedPatients"`
}

// GetStaffDashboard returns today's counters (clinic time zone) for userID
func (s *DashboardService) GetStaffDashboard(ctx context.Context, userID string) (*StaffDashboardData, error) {
	today := period.Day(s.now().In(s.cfg.Location())).UTC()
	data := &StaffDashboardData{}
	var err error

	if data.TodaySessions, err = s.sessionRepo.CountBetween(ctx, today.Start, today.End); err != nil {
		return nil, err
	}
	if data.UpcomingSessions, err = s.sessionRepo.CountBetween(ctx, today.End, time.Time{}); err != nil {
		return nil, err
	}

	byStatus, err := s.attendanceRepo.CountByStatusBetween(ctx, today.Start, today.End)
	if err != nil {
		return nil, err
	}
	data.Attended = byStatus[string(domain.AttendanceAttended)]
	data.Missed = byStatus[string(domain.AttendanceMissed)]
	data.Canceled = byStatus[string(domain.AttendanceCanceled)]

	if data.MyEnrollments, err = s.enrollmentRepo.CountByEnrolledBy(ctx, userID); err != nil {
		return nil, err
	}
	patients, err := s.patientRepo.ListByAssignedTo(ctx, userID)
	if err != nil {
		return nil, err
	}
	data.AssignedPatients = len(patients)

	return data, nil
}
