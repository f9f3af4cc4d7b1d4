package repositories

import (
	"context"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/core/domain"

	"gorm.io/gorm"
)

// SweepResult counts the programs moved into each status by one sweep
type SweepResult struct {
	Completed int64 `json:"completed"`
	Ongoing   int64 `json:"ongoing"`
	Upcoming  int64 `json:"upcoming"`
}

// Total returns the number of rows changed
func (s *SweepResult) Total() int64 {
	return s.Completed + s.Ongoing + s.Upcoming
}

type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepository) GetByID(ctx context.Context, id string) (*models.Program, error) {
	var program models.Program
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// GetByIDs loads every program whose id is in ids with a single query
func (r *programRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Program, error) {
	var programs []*models.Program
	if len(ids) == 0 {
		return programs, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&programs).Error
	return programs, err
}

func (r *programRepository) Update(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Save(program).Error
}

// List returns all programs, newest first
func (r *programRepository) List(ctx context.Context) ([]*models.Program, error) {
	var programs []*models.Program
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&programs).Error
	return programs, err
}

// ListUpcoming returns programs that have not finished, soonest first
func (r *programRepository) ListUpcoming(ctx context.Context, now time.Time) ([]*models.Program, error) {
	var programs []*models.Program
	err := r.db.WithContext(ctx).
		Where("start_date >= ? OR end_date >= ?", now, now).
		Order("start_date ASC").
		Find(&programs).Error
	return programs, err
}

func (r *programRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Program{}).Count(&count).Error
	return count, err
}

func (r *programRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Program{}).
		Select("status, COUNT(*) AS count").
		Group("status").
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

// SweepStatuses recomputes program status with three set-based updates.
// Each statement only touches rows whose status differs from the target, so
// a second run at the same instant changes nothing.
func (r *programRepository) SweepStatuses(ctx context.Context, now time.Time) (*SweepResult, error) {
	result := &SweepResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		completed := tx.Model(&models.Program{}).
			Where("end_date < ?", now).
			Where("status <> ?", string(domain.ProgramCompleted)).
			Update("status", string(domain.ProgramCompleted))
		if completed.Error != nil {
			return completed.Error
		}
		result.Completed = completed.RowsAffected

		ongoing := tx.Model(&models.Program{}).
			Where("start_date <= ? AND end_date >= ?", now, now).
			Where("status <> ?", string(domain.ProgramOngoing)).
			Update("status", string(domain.ProgramOngoing))
		if ongoing.Error != nil {
			return ongoing.Error
		}
		result.Ongoing = ongoing.RowsAffected

		upcoming := tx.Model(&models.Program{}).
			Where("start_date > ?", now).
			Where("status <> ?", string(domain.ProgramUpcoming)).
			Update("status", string(domain.ProgramUpcoming))
		if upcoming.Error != nil {
			return upcoming.Error
		}
		result.Upcoming = upcoming.RowsAffected

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
