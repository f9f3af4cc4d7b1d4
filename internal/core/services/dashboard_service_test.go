package services

import (
	"testing"

	"carepath-api/internal/adapters/persistence/models"

	"gorm.io/datatypes"
)

func TestDashboardService_Admin(t *testing.T) {
	f := newFixture(t)
	svc := NewDashboardService(f.users, f.patients, f.programs, f.sessions, f.enrollments, f.attendance, f.cfg)
	svc.now = f.clock

	f.createUser("admin@clinic.test", "ADMIN", "password123")
	staff := f.createUser("staff@clinic.test", "STAFF", "password123")
	patient := f.createPatient("Jane", "Doe")
	ongoing := yearProgram(f)
	f.createProgram("Old", date(2024, 1, 1), date(2024, 6, 1), "COMPLETED")
	f.createProgram("Next", date(2026, 1, 1), date(2026, 6, 1), "UPCOMING")

	if _, err := f.enrollmentService().Enroll(f.ctx, staff.ID, &EnrollInput{PatientID: patient.ID, ProgramID: ongoing.ID}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	data, err := svc.GetAdminDashboard(f.ctx)
	if err != nil {
		t.Fatalf("GetAdminDashboard: %v", err)
	}
	if data.TotalUsers != 2 || data.StaffUsers != 1 || data.TotalPatients != 1 || data.TotalEnrollments != 1 {
		t.Errorf("counts = %+v", data)
	}
	if data.TotalPrograms != 3 || data.ActivePrograms != 1 || data.CompletedPrograms != 1 || data.UpcomingPrograms != 1 {
		t.Errorf("program counts = %+v", data)
	}
}

func TestDashboardService_Staff(t *testing.T) {
	f := newFixture(t)
	svc := NewDashboardService(f.users, f.patients, f.programs, f.sessions, f.enrollments, f.attendance, f.cfg)
	svc.now = f.clock
	sessions := f.sessionService()

	staff := f.createUser("staff@clinic.test", "STAFF", "password123")
	patient := &models.Patient{
		FirstName:    "Jane",
		LastName:     "Doe",
		DateOfBirth:  datatypes.Date(date(1985, 2, 3)),
		AssignedToID: &staff.ID,
	}
	if err := f.patients.Create(f.ctx, patient); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	program := yearProgram(f)
	if _, err := f.enrollmentService().Enroll(f.ctx, staff.ID, &EnrollInput{PatientID: patient.ID, ProgramID: program.ID}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	var todayID string
	for _, day := range []string{"2025-06-14", "2025-06-15", "2025-06-20", "2025-07-01"} {
		in := sessionInput(program.ID, day)
		s, err := sessions.CreateSession(f.ctx, &in)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if day == "2025-06-15" {
			todayID = s.ID
		}
	}
	if _, err := sessions.RecordAttendance(f.ctx, staff.ID, &RecordAttendanceInput{PatientID: patient.ID, SessionID: todayID}); err != nil {
		t.Fatalf("RecordAttendance: %v", err)
	}

	data, err := svc.GetStaffDashboard(f.ctx, staff.ID)
	if err != nil {
		t.Fatalf("GetStaffDashboard: %v", err)
	}
	if data.TodaySessions != 1 || data.UpcomingSessions != 2 {
		t.Errorf("sessions today=%d upcoming=%d", data.TodaySessions, data.UpcomingSessions)
	}
	if data.Attended != 1 || data.Missed != 0 || data.Canceled != 0 {
		t.Errorf("attendance = %+v", data)
	}
	if data.MyEnrollments != 1 || data.AssignedPatients != 1 {
		t.Errorf("enrollments=%d assigned=%d", data.MyEnrollments, data.AssignedPatients)
	}
}
