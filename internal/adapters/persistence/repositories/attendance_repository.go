package repositories

import (
	"context"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/core/domain"

	"gorm.io/gorm"
)

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new session attendance repository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *models.SessionAttendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*models.SessionAttendance, error) {
	var attendance models.SessionAttendance
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepository) Exists(ctx context.Context, patientID, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionAttendance{}).
		Where("patient_id = ? AND session_id = ?", patientID, sessionID).
		Count(&count).Error
	return count > 0, err
}

func (r *attendanceRepository) Update(ctx context.Context, attendance *models.SessionAttendance) error {
	return r.db.WithContext(ctx).Save(attendance).Error
}

func (r *attendanceRepository) ListByPatient(ctx context.Context, patientID string) ([]*models.SessionAttendance, error) {
	var records []*models.SessionAttendance
	err := r.db.WithContext(ctx).
		Preload("Session.Program").
		Where("patient_id = ?", patientID).
		Order("attended_at DESC").
		Find(&records).Error
	return records, err
}

// ListDetailed returns attendance rows with patient, session, program and
// marker loaded. limit <= 0 returns every row.
func (r *attendanceRepository) ListDetailed(ctx context.Context, offset, limit int) ([]*models.SessionAttendance, int64, error) {
	var records []*models.SessionAttendance
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.SessionAttendance{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Session.Program").
		Preload("AttendanceMarkedBy", selectUserSummary).
		Order("attended_at DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// CountAttendedInProgram counts ATTENDED rows of a patient across the
// sessions of one program
func (r *attendanceRepository) CountAttendedInProgram(ctx context.Context, patientID, programID string) (int64, error) {
	var count int64
	sessions := r.db.WithContext(ctx).Model(&models.ProgramSession{}).Select("id").Where("program_id = ?", programID)
	err := r.db.WithContext(ctx).
		Model(&models.SessionAttendance{}).
		Where("patient_id = ? AND status = ?", patientID, string(domain.AttendanceAttended)).
		Where("session_id IN (?)", sessions).
		Count(&count).Error
	return count, err
}

// CountByStatusBetween groups attendance by status for sessions scheduled in [from, to)
func (r *attendanceRepository) CountByStatusBetween(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.SessionAttendance{}).
		Select("session_attendances.status AS status, COUNT(*) AS count").
		Joins("JOIN program_sessions ON program_sessions.id = session_attendances.session_id").
		Where("program_sessions.date >= ? AND program_sessions.date < ?", from, to).
		Group("session_attendances.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
