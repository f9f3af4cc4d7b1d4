package repositories

import (
	"context"

	"carepath-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).
		Preload("AssignedTo", selectUserSummary).
		Where("id = ?", id).
		First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List lists patients with pagination, newest first
func (r *patientRepository) List(ctx context.Context, offset, limit int) ([]*models.Patient, int64, error) {
	var patients []*models.Patient
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("AssignedTo", selectUserSummary).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, 0, err
	}

	return patients, total, nil
}

func (r *patientRepository) ListByAssignedTo(ctx context.Context, userID string) ([]*models.Patient, error) {
	var patients []*models.Patient
	err := r.db.WithContext(ctx).
		Where("assigned_to_id = ?", userID).
		Order("last_name ASC, first_name ASC").
		Find(&patients).Error
	return patients, err
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&count).Error
	return count, err
}

// selectUserSummary limits a preloaded user to id and name
func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}
