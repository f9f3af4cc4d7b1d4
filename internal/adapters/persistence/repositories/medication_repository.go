package repositories

import (
	"context"

	"carepath-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type medicationRepository struct {
	db *gorm.DB
}

// NewMedicationRepository creates a new medication repository
func NewMedicationRepository(db *gorm.DB) MedicationRepository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) Create(ctx context.Context, medication *models.Medication) error {
	return r.db.WithContext(ctx).Create(medication).Error
}

func (r *medicationRepository) CreateBatch(ctx context.Context, medications []*models.Medication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&medications, insertBatchSize).Error
	})
}

func (r *medicationRepository) GetByID(ctx context.Context, id string) (*models.Medication, error) {
	var medication models.Medication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&medication).Error
	if err != nil {
		return nil, err
	}
	return &medication, nil
}

func (r *medicationRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Medication{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// ExistingNames returns the subset of names already stored
func (r *medicationRepository) ExistingNames(ctx context.Context, names []string) ([]string, error) {
	var existing []string
	if len(names) == 0 {
		return existing, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Medication{}).Where("name IN ?", names).Pluck("name", &existing).Error
	return existing, err
}

func (r *medicationRepository) List(ctx context.Context) ([]*models.Medication, error) {
	var medications []*models.Medication
	err := r.db.WithContext(ctx).Order("name ASC").Find(&medications).Error
	return medications, err
}
