package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
	RoleGuest Role = "GUEST"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleGuest:
		return true
	}
	return false
}

// ProgramStatus is the lifecycle state of a program
type ProgramStatus string

const (
	ProgramUpcoming  ProgramStatus = "UPCOMING"
	ProgramOngoing   ProgramStatus = "ONGOING"
	ProgramCompleted ProgramStatus = "COMPLETED"
	ProgramArchived  ProgramStatus = "ARCHIVED"
)

func (s ProgramStatus) Valid() bool {
	switch s {
	case ProgramUpcoming, ProgramOngoing, ProgramCompleted, ProgramArchived:
		return true
	}
	return false
}

// DeriveProgramStatus applies the sweep rule to a single program: past end
// is COMPLETED, future start is UPCOMING, anything else is ONGOING.
func DeriveProgramStatus(start, end, now time.Time) ProgramStatus {
	switch {
	case end.Before(now):
		return ProgramCompleted
	case start.After(now):
		return ProgramUpcoming
	default:
		return ProgramOngoing
	}
}

// SessionType describes how a program session is run
type SessionType string

const (
	SessionOneOnOne     SessionType = "ONE_ON_ONE"
	SessionGroup        SessionType = "GROUP"
	SessionConsultation SessionType = "CONSULTATION"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionOneOnOne, SessionGroup, SessionConsultation:
		return true
	}
	return false
}

// SessionFrequency is how often a program session repeats
type SessionFrequency string

const (
	SessionOnce    SessionFrequency = "ONCE"
	SessionDaily   SessionFrequency = "DAILY"
	SessionWeekly  SessionFrequency = "WEEKLY"
	SessionMonthly SessionFrequency = "MONTHLY"
)

func (f SessionFrequency) Valid() bool {
	switch f {
	case SessionOnce, SessionDaily, SessionWeekly, SessionMonthly:
		return true
	}
	return false
}

// AttendanceStatus is the outcome recorded for a patient at a session
type AttendanceStatus string

const (
	AttendanceAttended AttendanceStatus = "ATTENDED"
	AttendanceMissed   AttendanceStatus = "MISSED"
	AttendanceCanceled AttendanceStatus = "CANCELED"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceAttended, AttendanceMissed, AttendanceCanceled:
		return true
	}
	return false
}

// MedicationFrequency defines the dispense window of a prescription
type MedicationFrequency string

const (
	MedicationDaily   MedicationFrequency = "DAILY"
	MedicationWeekly  MedicationFrequency = "WEEKLY"
	MedicationMonthly MedicationFrequency = "MONTHLY"
)

func (f MedicationFrequency) Valid() bool {
	switch f {
	case MedicationDaily, MedicationWeekly, MedicationMonthly:
		return true
	}
	return false
}

// Gender of a patient
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}
