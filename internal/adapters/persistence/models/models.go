package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Identity
// ============================================================

// User represents users table
type User struct {
	ID               string     `gorm:"type:char(36);primaryKey" json:"id"`
	Name             string     `gorm:"size:100;not null" json:"name"`
	Email            string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password         string     `gorm:"size:255;not null" json:"-"`
	Role             string     `gorm:"size:20;not null;default:'STAFF';index" json:"role"`
	RefreshTokenHash *string    `gorm:"size:64" json:"-"`
	ResetToken       *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	AssignedPatients []Patient `gorm:"foreignKey:AssignedToID" json:"assignedPatients,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = ensureID(u.ID)
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ============================================================
// Patients
// ============================================================

// Patient represents patients table
type Patient struct {
	ID           string         `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName    string         `gorm:"size:100;not null" json:"firstName"`
	LastName     string         `gorm:"size:100;not null" json:"lastName"`
	DateOfBirth  datatypes.Date `gorm:"not null" json:"dateOfBirth"`
	Gender       *string        `gorm:"size:10" json:"gender"`
	AssignedToID *string        `gorm:"type:char(36);index" json:"assignedToId"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`

	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

// FullName returns "First Last"
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ============================================================
// Programs & Sessions
// ============================================================

// Program represents programs table
type Program struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   time.Time `gorm:"not null;index" json:"startDate"`
	EndDate     time.Time `gorm:"not null;index" json:"endDate"`
	Status      string    `gorm:"size:20;not null;default:'UPCOMING';index" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Sessions []ProgramSession `gorm:"foreignKey:ProgramID" json:"sessions,omitempty"`
}

func (Program) TableName() string {
	return "programs"
}

func (p *Program) BeforeCreate(tx *gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

// ProgramSession represents program_sessions table
type ProgramSession struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	ProgramID   string    `gorm:"type:char(36);not null;index" json:"programId"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Frequency   string    `gorm:"size:20;not null;default:'ONCE'" json:"frequency"`
	SessionType string    `gorm:"size:20;not null" json:"sessionType"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

func (ProgramSession) TableName() string {
	return "program_sessions"
}

func (s *ProgramSession) BeforeCreate(tx *gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

// ============================================================
// Enrollment & Attendance
// ============================================================

// Enrollment represents enrollments table. One row per (patient, program).
type Enrollment struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	PatientID    string    `gorm:"type:char(36);not null;uniqueIndex:idx_enrollment_patient_program" json:"patientId"`
	ProgramID    string    `gorm:"type:char(36);not null;uniqueIndex:idx_enrollment_patient_program;index" json:"programId"`
	EnrolledByID string    `gorm:"type:char(36);not null;index" json:"enrolledById"`
	EnrolledAt   time.Time `gorm:"not null" json:"enrolledAt"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Patient    *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Program    *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	EnrolledBy *User    `gorm:"foreignKey:EnrolledByID" json:"enrolledBy,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	e.ID = ensureID(e.ID)
	return nil
}

// SessionAttendance represents session_attendances table. One row per
// (patient, session).
type SessionAttendance struct {
	ID                   string    `gorm:"type:char(36);primaryKey" json:"id"`
	PatientID            string    `gorm:"type:char(36);not null;uniqueIndex:idx_attendance_patient_session" json:"patientId"`
	SessionID            string    `gorm:"type:char(36);not null;uniqueIndex:idx_attendance_patient_session;index" json:"sessionId"`
	Status               string    `gorm:"size:20;not null;index" json:"sessionStatus"`
	CancelReason         *string   `gorm:"size:255" json:"cancelReason"`
	AttendedAt           time.Time `gorm:"not null" json:"attendedAt"`
	AttendanceMarkedByID *string   `gorm:"type:char(36);index" json:"attendanceMarkedById"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Patient            *Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Session            *ProgramSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	AttendanceMarkedBy *User           `gorm:"foreignKey:AttendanceMarkedByID" json:"attendanceMarkedBy,omitempty"`
}

func (SessionAttendance) TableName() string {
	return "session_attendances"
}

func (a *SessionAttendance) BeforeCreate(tx *gorm.DB) error {
	a.ID = ensureID(a.ID)
	return nil
}

// ============================================================
// Medication
// ============================================================

// Medication represents medications table
type Medication struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:150;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Medication) TableName() string {
	return "medications"
}

func (m *Medication) BeforeCreate(tx *gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

// Prescription represents prescriptions table (a medication assigned to a
// patient). One row per (medication, patient).
type Prescription struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	MedicationID string    `gorm:"type:char(36);not null;uniqueIndex:idx_prescription_medication_patient" json:"medicationId"`
	PatientID    string    `gorm:"type:char(36);not null;uniqueIndex:idx_prescription_medication_patient;index" json:"patientId"`
	Dosage       string    `gorm:"size:100;not null" json:"dosage"`
	Frequency    string    `gorm:"size:20;not null" json:"frequency"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Medication *Medication `gorm:"foreignKey:MedicationID" json:"medication,omitempty"`
	Patient    *Patient    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

// DispenseRecord represents dispense_records table
type DispenseRecord struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	AssignmentID string    `gorm:"type:char(36);not null;index:idx_dispense_assignment_collected" json:"assignmentId"`
	PatientID    string    `gorm:"type:char(36);not null;index" json:"patientId"`
	CollectedAt  time.Time `gorm:"not null;index:idx_dispense_assignment_collected" json:"collectedAt"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Assignment *Prescription `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
	Patient    *Patient      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (DispenseRecord) TableName() string {
	return "dispense_records"
}

func (d *DispenseRecord) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Patient{},
		&Program{},
		&ProgramSession{},
		&Enrollment{},
		&SessionAttendance{},
		&Medication{},
		&Prescription{},
		&DispenseRecord{},
	)
}
