package repositories

import (
	"context"

	"carepath-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Exists(ctx context.Context, patientID, programID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("patient_id = ? AND program_id = ?", patientID, programID).
		Count(&count).Error
	return count > 0, err
}

// ListByEnrolledBy lists enrollments created by a user with patient and program
func (r *enrollmentRepository) ListByEnrolledBy(ctx context.Context, userID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Program").
		Where("enrolled_by_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) ListByProgram(ctx context.Context, programID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("EnrolledBy", selectUserSummary).
		Where("program_id = ?", programID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) CountByEnrolledBy(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("enrolled_by_id = ?", userID).Count(&count).Error
	return count, err
}
