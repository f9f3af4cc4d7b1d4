package services

import (
	"errors"
	"testing"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/pagination"
)

func yearProgram(f *fixture) *models.Program {
	return f.createProgram("Wellness 2025", date(2025, 1, 1), date(2025, 12, 31), "ONGOING")
}

func sessionInput(programID, day string) CreateSessionInput {
	return CreateSessionInput{
		ProgramID:   programID,
		Title:       "Session " + day,
		Description: "group check-in",
		Date:        day,
		SessionType: "group",
	}
}

func TestSessionService_CreateSessionRange(t *testing.T) {
	f := newFixture(t)
	svc := f.sessionService()
	program := yearProgram(f)

	for _, day := range []string{"2025-01-01", "2025-06-01", "2025-12-31"} {
		in := sessionInput(program.ID, day)
		s, err := svc.CreateSession(f.ctx, &in)
		if err != nil {
			t.Fatalf("CreateSession(%s): %v", day, err)
		}
		if s.SessionType != "GROUP" || s.Frequency != "ONCE" {
			t.Errorf("session = %+v", s)
		}
	}

	for _, day := range []string{"2024-12-31", "2026-01-01"} {
		in := sessionInput(program.ID, day)
		_, err := svc.CreateSession(f.ctx, &in)
		if !errors.Is(err, ErrSessionOutsideProgram) || !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("CreateSession(%s) error = %v, want ErrSessionOutsideProgram", day, err)
		}
	}

	in := sessionInput("no-such-program", "2025-06-01")
	if _, err := svc.CreateSession(f.ctx, &in); !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("unknown program error = %v", err)
	}

	in = sessionInput(program.ID, "2025-06-01")
	in.SessionType = "WEBINAR"
	if _, err := svc.CreateSession(f.ctx, &in); !errors.Is(err, ErrInvalidSessionType) {
		t.Errorf("bad type error = %v", err)
	}
}

func TestSessionService_RangeUsesClinicTimeZone(t *testing.T) {
	f := newFixture(t)
	f.cfg.TimeZone = "Africa/Nairobi"
	if err := f.cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	svc := f.sessionService()

	// 2025-12-31 00:00 in Nairobi is 2025-12-30 21:00 UTC
	loc := f.cfg.Location()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).UTC()
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, loc).UTC()
	program := f.createProgram("Nairobi", start, end, "ONGOING")

	in := sessionInput(program.ID, "2025-12-31T22:00:00+03:00")
	if _, err := svc.CreateSession(f.ctx, &in); err != nil {
		t.Errorf("last local day rejected: %v", err)
	}
	in = sessionInput(program.ID, "2025-12-31T22:00:00Z")
	if _, err := svc.CreateSession(f.ctx, &in); !errors.Is(err, ErrSessionOutsideProgram) {
		t.Errorf("next local day error = %v, want ErrSessionOutsideProgram", err)
	}
}

func TestSessionService_CreateSessionsBatch(t *testing.T) {
	f := newFixture(t)
	svc := f.sessionService()
	program := yearProgram(f)

	if _, err := svc.CreateSessions(f.ctx, &BulkCreateSessionsInput{}); !errors.Is(err, ErrEmptySessionBatch) {
		t.Errorf("empty batch error = %v", err)
	}

	_, err := svc.CreateSessions(f.ctx, &BulkCreateSessionsInput{Sessions: []CreateSessionInput{
		sessionInput(program.ID, "2025-03-01"),
		sessionInput("ghost", "2025-03-01"),
	}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing program error = %v, want not found", err)
	}

	_, err = svc.CreateSessions(f.ctx, &BulkCreateSessionsInput{Sessions: []CreateSessionInput{
		sessionInput(program.ID, "2025-03-01"),
		sessionInput(program.ID, "2026-01-01"),
	}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("out of range batch error = %v, want invalid input", err)
	}

	all, _ := svc.ListProgramSessions(f.ctx, program.ID)
	if len(all) != 0 {
		t.Fatalf("rejected batches inserted %d sessions", len(all))
	}

	result, err := svc.CreateSessions(f.ctx, &BulkCreateSessionsInput{Sessions: []CreateSessionInput{
		sessionInput(program.ID, "2025-03-01"),
		sessionInput(program.ID, "2025-04-01"),
		sessionInput(program.ID, "2025-05-01"),
	}})
	if err != nil {
		t.Fatalf("CreateSessions: %v", err)
	}
	if result.Count != 3 {
		t.Errorf("Count = %d", result.Count)
	}
	all, _ = svc.ListProgramSessions(f.ctx, program.ID)
	if len(all) != 3 {
		t.Errorf("ListProgramSessions = %d, want 3", len(all))
	}
}

func TestSessionService_Attendance(t *testing.T) {
	f := newFixture(t)
	svc := f.sessionService()
	enrollments := f.enrollmentService()
	staff := f.createUser("staff@clinic.test", "STAFF", "password123")
	patient := f.createPatient("Jane", "Doe")
	program := yearProgram(f)

	in := sessionInput(program.ID, "2025-06-01")
	session, err := svc.CreateSession(f.ctx, &in)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	record := &RecordAttendanceInput{PatientID: patient.ID, SessionID: session.ID}
	if _, err := svc.RecordAttendance(f.ctx, staff.ID, record); !errors.Is(err, ErrPatientNotEnrolled) {
		t.Errorf("not enrolled error = %v, want ErrPatientNotEnrolled", err)
	}

	if _, err := enrollments.Enroll(f.ctx, staff.ID, &EnrollInput{PatientID: patient.ID, ProgramID: program.ID}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	attendance, err := svc.RecordAttendance(f.ctx, staff.ID, record)
	if err != nil {
		t.Fatalf("RecordAttendance: %v", err)
	}
	if attendance.Status != "ATTENDED" || !attendance.AttendedAt.Equal(f.now) {
		t.Errorf("attendance = %+v", attendance)
	}
	if attendance.AttendanceMarkedByID == nil || *attendance.AttendanceMarkedByID != staff.ID {
		t.Errorf("markedBy = %v", attendance.AttendanceMarkedByID)
	}

	if _, err := svc.RecordAttendance(f.ctx, staff.ID, record); !errors.Is(err, ErrAttendanceExists) || !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate error = %v, want ErrAttendanceExists", err)
	}

	bad := &RecordAttendanceInput{PatientID: patient.ID, SessionID: session.ID, Status: "LATE"}
	if _, err := svc.RecordAttendance(f.ctx, staff.ID, bad); !errors.Is(err, ErrInvalidAttendanceStatus) {
		t.Errorf("bad status error = %v", err)
	}

	canceled, err := svc.CancelAttendance(f.ctx, attendance.ID, &CancelAttendanceInput{Reason: " patient ill "})
	if err != nil {
		t.Fatalf("CancelAttendance: %v", err)
	}
	if canceled.Status != "CANCELED" || canceled.CancelReason == nil || *canceled.CancelReason != "patient ill" {
		t.Errorf("canceled = %+v", canceled)
	}
	if _, err := svc.CancelAttendance(f.ctx, "missing", &CancelAttendanceInput{}); !errors.Is(err, ErrAttendanceNotFound) {
		t.Errorf("cancel missing error = %v", err)
	}

	page, err := svc.ListAttendance(f.ctx, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("ListAttendance: %v", err)
	}
	views, ok := page.Items.([]*AttendanceView)
	if !ok || len(views) != 1 {
		t.Fatalf("ListAttendance items = %#v", page.Items)
	}
	v := views[0]
	if v.PatientName != "Jane Doe" || v.SessionStatus != "CANCELED" || v.ProgramName == nil || *v.ProgramName != program.Name {
		t.Errorf("view = %+v", v)
	}
	if v.AttendanceMarkedBy == nil || *v.AttendanceMarkedBy != staff.Name {
		t.Errorf("markedBy = %v", v.AttendanceMarkedBy)
	}
	if page.Meta.Total != 1 {
		t.Errorf("total = %d", page.Meta.Total)
	}

	history, err := svc.ListPatientAttendance(f.ctx, patient.ID)
	if err != nil || len(history) != 1 {
		t.Errorf("ListPatientAttendance = %d, %v", len(history), err)
	}
}

func TestSessionService_ExportAttendance(t *testing.T) {
	f := newFixture(t)
	svc := f.sessionService()

	buf, err := svc.ExportAttendance(f.ctx)
	if err != nil {
		t.Fatalf("ExportAttendance: %v", err)
	}
	// xlsx files are zip archives
	if buf.Len() < 4 || string(buf.Bytes()[:2]) != "PK" {
		t.Errorf("export is not an xlsx archive (%d bytes)", buf.Len())
	}
}
