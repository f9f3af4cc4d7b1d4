package services

import (
	"context"
	"fmt"
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

// Session and attendance errors
var (
	ErrSessionNotFound         = domain.NewError(domain.ErrNotFound, "session not found")
	ErrSessionFieldsMissing    = domain.NewError(domain.ErrInvalidInput, "programId, title, description, date and sessionType are required")
	ErrInvalidSessionDate      = domain.NewError(domain.ErrInvalidInput, "date must be a valid date")
	ErrInvalidSessionType      = domain.NewError(domain.ErrInvalidInput, "sessionType must be one of ONE_ON_ONE, GROUP, CONSULTATION")
	ErrInvalidSessionFrequency = domain.NewError(domain.ErrInvalidInput, "frequency must be one of ONCE, DAILY, WEEKLY, MONTHLY")
	ErrSessionOutsideProgram   = domain.NewError(domain.ErrInvalidInput, "session date must fall within the program's start and end dates")
	ErrEmptySessionBatch       = domain.NewError(domain.ErrInvalidInput, "sessions must not be empty")
	ErrAttendanceFieldsMissing = domain.NewError(domain.ErrInvalidInput, "patientId and sessionId are required")
	ErrInvalidAttendanceStatus = domain.NewError(domain.ErrInvalidInput, "status must be one of ATTENDED, MISSED, CANCELED")
	ErrPatientNotEnrolled      = domain.NewError(domain.ErrInvalidInput, "patient is not enrolled in this session's program")
	ErrAttendanceExists        = domain.NewError(domain.ErrConflict, "attendance already recorded for this patient and session")
	ErrAttendanceNotFound      = domain.NewError(domain.ErrNotFound, "attendance record not found")
)

// SessionService handles program sessions and attendance
type SessionService struct {
	sessionRepo    repositories.SessionRepository
	programRepo    repositories.ProgramRepository
	patientRepo    repositories.PatientRepository
	enrollmentRepo repositories.EnrollmentRepository
	attendanceRepo repositories.AttendanceRepository
	cfg            *config.Config
	now            func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repositories.SessionRepository,
	programRepo repositories.ProgramRepository,
	patientRepo repositories.PatientRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	attendanceRepo repositories.AttendanceRepository,
	cfg *config.Config,
) *SessionService {
	return &SessionService{
		sessionRepo:    sessionRepo,
		programRepo:    programRepo,
		patientRepo:    patientRepo,
		enrollmentRepo: enrollmentRepo,
		attendanceRepo: attendanceRepo,
		cfg:            cfg,
		now:            systemClock,
	}
}

// CreateSessionInput represents create session input
type CreateSessionInput struct {
	ProgramID   string `json:"programId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Frequency   string `json:"frequency"`
	SessionType string `json:"sessionType"`
}

// BulkCreateSessionsInput wraps a batch of sessions
type BulkCreateSessionsInput struct {
	Sessions []CreateSessionInput `json:"sessions"`
}

// BulkCreateResult reports how many sessions were inserted
type BulkCreateResult struct {
	Count int `json:"count"`
}

// RecordAttendanceInput represents attendance input
type RecordAttendanceInput struct {
	PatientID string `json:"patientId"`
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

// CancelAttendanceInput carries the cancellation reason
type CancelAttendanceInput struct {
	Reason string `json:"reason"`
}

// AttendanceView is the flattened attendance row used by listings and export
type AttendanceView struct {
	ID                 string     `json:"id"`
	SessionStatus      string     `json:"sessionStatus"`
	CancelReason       *string    `json:"cancelReason"`
	AttendedAt         time.Time  `json:"attendedAt"`
	PatientName        string     `json:"patientName"`
	ProgramName        *string    `json:"programName"`
	SessionType        *string    `json:"sessionType"`
	ScheduledDate      *time.Time `json:"scheduledDate"`
	AttendanceMarkedBy *string    `json:"attendanceMarkedBy"`
}

// CreateSession adds one session to a program
func (s *SessionService) CreateSession(ctx context.Context, input *CreateSessionInput) (*models.ProgramSession, error) {
	session, err := s.buildSession(input)
	if err != nil {
		return nil, err
	}

	program, err := s.programRepo.GetByID(ctx, session.ProgramID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if !s.withinProgram(program, session.Date) {
		return nil, ErrSessionOutsideProgram
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Info().Str("session_id", session.ID).Str("program_id", program.ID).Msg("✅ Session created")
	return session, nil
}

// CreateSessions validates a whole batch against its programs with a single
// lookup and inserts all of it or nothing
func (s *SessionService) CreateSessions(ctx context.Context, input *BulkCreateSessionsInput) (*BulkCreateResult, error) {
	if len(input.Sessions) == 0 {
		return nil, ErrEmptySessionBatch
	}

	sessions := make([]*models.ProgramSession, 0, len(input.Sessions))
	for i := range input.Sessions {
		session, err := s.buildSession(&input.Sessions[i])
		if err != nil {
			return nil, domain.Invalid(fmt.Sprintf("session %d: %s", i+1, err.Error()))
		}
		sessions = append(sessions, session)
	}

	programIDs := lo.Uniq(lo.Map(sessions, func(ps *models.ProgramSession, _ int) string {
		return ps.ProgramID
	}))
	programs, err := s.programRepo.GetByIDs(ctx, programIDs)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(programs, func(p *models.Program) string { return p.ID })

	missing := lo.Filter(programIDs, func(id string, _ int) bool {
		_, ok := byID[id]
		return !ok
	})
	if len(missing) > 0 {
		return nil, domain.NotFound("programs not found: " + strings.Join(missing, ", "))
	}

	loc := s.cfg.Location()
	var outOfRange []string
	for _, session := range sessions {
		program := byID[session.ProgramID]
		if !s.withinProgram(program, session.Date) {
			outOfRange = append(outOfRange, fmt.Sprintf("%q on %s is outside %q (%s to %s)",
				session.Title,
				session.Date.In(loc).Format("2006-01-02"),
				program.Name,
				program.StartDate.In(loc).Format("2006-01-02"),
				program.EndDate.In(loc).Format("2006-01-02"),
			))
		}
	}
	if len(outOfRange) > 0 {
		return nil, domain.Invalid("sessions outside their program dates: " + strings.Join(outOfRange, "; "))
	}

	if err := s.sessionRepo.CreateBatch(ctx, sessions); err != nil {
		return nil, err
	}

	log.Info().Int("count", len(sessions)).Msg("✅ Sessions created")
	return &BulkCreateResult{Count: len(sessions)}, nil
}

// ListSessions returns every session with its program
func (s *SessionService) ListSessions(ctx context.Context) ([]*models.ProgramSession, error) {
	return s.sessionRepo.List(ctx)
}

// ListProgramSessions returns the sessions of one program
func (s *SessionService) ListProgramSessions(ctx context.Context, programID string) ([]*models.ProgramSession, error) {
	return s.sessionRepo.ListByProgram(ctx, programID)
}

// GetSession returns a session
func (s *SessionService) GetSession(ctx context.Context, id string) (*models.ProgramSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// RecordAttendance marks a patient's attendance at a session. The patient
// must be enrolled in the session's program and may be recorded only once.
func (s *SessionService) RecordAttendance(ctx context.Context, markedByID string, input *RecordAttendanceInput) (*models.SessionAttendance, error) {
	if input.PatientID == "" || input.SessionID == "" {
		return nil, ErrAttendanceFieldsMissing
	}
	status := domain.AttendanceAttended
	if input.Status != "" {
		status = domain.AttendanceStatus(strings.ToUpper(input.Status))
		if !status.Valid() {
			return nil, ErrInvalidAttendanceStatus
		}
	}

	session, err := s.sessionRepo.GetByID(ctx, input.SessionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	patientExists, err := s.patientRepo.Exists(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if !patientExists {
		return nil, ErrPatientNotFound
	}

	enrolled, err := s.enrollmentRepo.Exists(ctx, input.PatientID, session.ProgramID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		metrics.RuleRejections.WithLabelValues("attendance_not_enrolled").Inc()
		return nil, ErrPatientNotEnrolled
	}

	exists, err := s.attendanceRepo.Exists(ctx, input.PatientID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.RuleRejections.WithLabelValues("attendance_duplicate").Inc()
		return nil, ErrAttendanceExists
	}

	attendance := &models.SessionAttendance{
		PatientID:  input.PatientID,
		SessionID:  input.SessionID,
		Status:     string(status),
		AttendedAt: s.now(),
	}
	if markedByID != "" {
		attendance.AttendanceMarkedByID = &markedByID
	}

	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		if repositories.IsDuplicateKey(err) {
			metrics.RuleRejections.WithLabelValues("attendance_duplicate").Inc()
			return nil, ErrAttendanceExists
		}
		return nil, err
	}

	log.Info().
		Str("attendance_id", attendance.ID).
		Str("session_id", attendance.SessionID).
		Str("status", attendance.Status).
		Msg("✅ Attendance recorded")
	return attendance, nil
}

// CancelAttendance marks an attendance record as CANCELED with a reason
func (s *SessionService) CancelAttendance(ctx context.Context, attendanceID string, input *CancelAttendanceInput) (*models.SessionAttendance, error) {
	attendance, err := s.attendanceRepo.GetByID(ctx, attendanceID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}

	attendance.Status = string(domain.AttendanceCanceled)
	if reason := strings.TrimSpace(input.Reason); reason != "" {
		attendance.CancelReason = &reason
	}

	if err := s.attendanceRepo.Update(ctx, attendance); err != nil {
		return nil, err
	}

	log.Info().Str("attendance_id", attendance.ID).Msg("✅ Attendance canceled")
	return attendance, nil
}

// ListPatientAttendance returns one patient's attendance history
func (s *SessionService) ListPatientAttendance(ctx context.Context, patientID string) ([]*models.SessionAttendance, error) {
	return s.attendanceRepo.ListByPatient(ctx, patientID)
}

// ListAttendance returns a page of flattened attendance rows
func (s *SessionService) ListAttendance(ctx context.Context, params *pagination.Params) (*pagination.Response, error) {
	records, total, err := s.attendanceRepo.ListDetailed(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(toAttendanceViews(records), params, total), nil
}

// AllAttendance returns every flattened attendance row
func (s *SessionService) AllAttendance(ctx context.Context) ([]*AttendanceView, error) {
	records, _, err := s.attendanceRepo.ListDetailed(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	return toAttendanceViews(records), nil
}

func (s *SessionService) buildSession(input *CreateSessionInput) (*models.ProgramSession, error) {
	if strings.TrimSpace(input.ProgramID) == "" || strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" || input.Date == "" || input.SessionType == "" {
		return nil, ErrSessionFieldsMissing
	}

	date, err := period.ParseDate(input.Date, s.cfg.Location())
	if err != nil {
		return nil, ErrInvalidSessionDate
	}

	sessionType := domain.SessionType(strings.ToUpper(input.SessionType))
	if !sessionType.Valid() {
		return nil, ErrInvalidSessionType
	}

	frequency := domain.SessionOnce
	if input.Frequency != "" {
		frequency = domain.SessionFrequency(strings.ToUpper(input.Frequency))
		if !frequency.Valid() {
			return nil, ErrInvalidSessionFrequency
		}
	}

	return &models.ProgramSession{
		ProgramID:   strings.TrimSpace(input.ProgramID),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Date:        date.UTC(),
		Frequency:   string(frequency),
		SessionType: string(sessionType),
	}, nil
}

// withinProgram compares calendar days in the clinic time zone, both ends
// inclusive
func (s *SessionService) withinProgram(program *models.Program, date time.Time) bool {
	loc := s.cfg.Location()
	return period.SameOrBeforeDay(program.StartDate, date, loc) &&
		period.SameOrBeforeDay(date, program.EndDate, loc)
}

func toAttendanceViews(records []*models.SessionAttendance) []*AttendanceView {
	return lo.Map(records, func(a *models.SessionAttendance, _ int) *AttendanceView {
		view := &AttendanceView{
			ID:            a.ID,
			SessionStatus: a.Status,
			CancelReason:  a.CancelReason,
			AttendedAt:    a.AttendedAt,
		}
		if a.Patient != nil {
			view.PatientName = a.Patient.FullName()
		}
		if a.Session != nil {
			view.SessionType = lo.ToPtr(a.Session.SessionType)
			view.ScheduledDate = lo.ToPtr(a.Session.Date)
			if a.Session.Program != nil {
				view.ProgramName = lo.ToPtr(a.Session.Program.Name)
			}
		}
		if a.AttendanceMarkedBy != nil {
			view.AttendanceMarkedBy = lo.ToPtr(a.AttendanceMarkedBy.Name)
		}
		return view
	})
}
