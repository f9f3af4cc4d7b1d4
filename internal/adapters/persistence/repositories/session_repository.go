package repositories

import (
	"context"
	"time"

	"carepath-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

const insertBatchSize = 100

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new program session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.ProgramSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// CreateBatch inserts all sessions or none
func (r *sessionRepository) CreateBatch(ctx context.Context, sessions []*models.ProgramSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&sessions, insertBatchSize).Error
	})
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*models.ProgramSession, error) {
	var session models.ProgramSession
	err := r.db.WithContext(ctx).Preload("Program").Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) List(ctx context.Context) ([]*models.ProgramSession, error) {
	var sessions []*models.ProgramSession
	err := r.db.WithContext(ctx).Preload("Program").Order("date ASC").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) ListByProgram(ctx context.Context, programID string) ([]*models.ProgramSession, error) {
	var sessions []*models.ProgramSession
	err := r.db.WithContext(ctx).Where("program_id = ?", programID).Order("date ASC").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) CountByProgram(ctx context.Context, programID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProgramSession{}).Where("program_id = ?", programID).Count(&count).Error
	return count, err
}

// CountBetween counts sessions scheduled in [from, to); a zero to means open ended
func (r *sessionRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProgramSession{}).Where("date >= ?", from)
	if !to.IsZero() {
		query = query.Where("date < ?", to)
	}
	err := query.Count(&count).Error
	return count, err
}
