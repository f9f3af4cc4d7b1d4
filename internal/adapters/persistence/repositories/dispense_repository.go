package repositories

import (
	"context"
	"time"

	"carepath-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type dispenseRepository struct {
	db *gorm.DB
}

// NewDispenseRepository creates a new dispense record repository
func NewDispenseRepository(db *gorm.DB) DispenseRepository {
	return &dispenseRepository{db: db}
}

func (r *dispenseRepository) Create(ctx context.Context, record *models.DispenseRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ExistsInWindow reports whether the prescription was collected in [from, to)
func (r *dispenseRepository) ExistsInWindow(ctx context.Context, assignmentID, patientID string, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DispenseRecord{}).
		Where("assignment_id = ? AND patient_id = ?", assignmentID, patientID).
		Where("collected_at >= ? AND collected_at < ?", from, to).
		Count(&count).Error
	return count > 0, err
}

func (r *dispenseRepository) List(ctx context.Context, offset, limit int) ([]*models.DispenseRecord, int64, error) {
	var records []*models.DispenseRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.DispenseRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Assignment.Medication").
		Order("collected_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
