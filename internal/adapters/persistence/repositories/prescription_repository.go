package repositories

import (
	"context"

	"carepath-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type prescriptionRepository struct {
	db *gorm.DB
}

// NewPrescriptionRepository creates a new prescription repository
func NewPrescriptionRepository(db *gorm.DB) PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	return r.db.WithContext(ctx).Create(prescription).Error
}

func (r *prescriptionRepository) GetByID(ctx context.Context, id string) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.WithContext(ctx).Preload("Medication").Where("id = ?", id).First(&prescription).Error
	if err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) Exists(ctx context.Context, medicationID, patientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Prescription{}).
		Where("medication_id = ? AND patient_id = ?", medicationID, patientID).
		Count(&count).Error
	return count > 0, err
}

func (r *prescriptionRepository) List(ctx context.Context) ([]*models.Prescription, error) {
	var prescriptions []*models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Medication").
		Order("created_at DESC").
		Find(&prescriptions).Error
	return prescriptions, err
}
