package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/adapters/persistence/repositories"
	"carepath-api/internal/config"
	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/cache"
	"carepath-api/internal/pkg/metrics"
	"carepath-api/internal/pkg/period"

	"github.com/rs/zerolog/log"
)

// Program errors
var (
	ErrProgramNotFound      = domain.NewError(domain.ErrNotFound, "program not found")
	ErrProgramFieldsMissing = domain.NewError(domain.ErrInvalidInput, "name, description, startDate and endDate are required")
	ErrInvalidProgramDates  = domain.NewError(domain.ErrInvalidInput, "startDate and endDate must be valid dates")
	ErrProgramDateOrder     = domain.NewError(domain.ErrInvalidInput, "endDate must not be before startDate")
	ErrInvalidProgramStatus = domain.NewError(domain.ErrInvalidInput, "status must be one of ONGOING, COMPLETED, ARCHIVED, UPCOMING")
)

var (
	programsAllKey      = cache.Key("programs", "all")
	programsUpcomingKey = cache.Key("programs", "upcoming")
)

// ProgramService handles programs and their status lifecycle
type ProgramService struct {
	programRepo repositories.ProgramRepository
	cache       cache.Cache
	cfg         *config.Config
	now         func() time.Time
}

// NewProgramService creates a new program service
func NewProgramService(programRepo repositories.ProgramRepository, c cache.Cache, cfg *config.Config) *ProgramService {
	return &ProgramService{
		programRepo: programRepo,
		cache:       c,
		cfg:         cfg,
		now:         systemClock,
	}
}

// CreateProgramInput represents create program input
type CreateProgramInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Status      *string `json:"status"`
}

// UpdateProgramInput is a partial update; empty fields are left unchanged
type UpdateProgramInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Status      *string `json:"status"`
}

// Create adds a program. Without an explicit status it gets the one the
// sweep would assign.
func (s *ProgramService) Create(ctx context.Context, input *CreateProgramInput) (*models.Program, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || strings.TrimSpace(input.Description) == "" || input.StartDate == "" || input.EndDate == "" {
		return nil, ErrProgramFieldsMissing
	}

	start, end, err := s.parseRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	status := domain.DeriveProgramStatus(start, end, s.now())
	if input.Status != nil && *input.Status != "" {
		if status, err = parseProgramStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	program := &models.Program{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		StartDate:   start,
		EndDate:     end,
		Status:      string(status),
	}
	if err := s.programRepo.Create(ctx, program); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("program_id", program.ID).Str("status", program.Status).Msg("✅ Program created")
	return program, nil
}

// Update applies a partial update
func (s *ProgramService) Update(ctx context.Context, id string, input *UpdateProgramInput) (*models.Program, error) {
	program, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := trimmed(input.Name); v != "" {
		program.Name = v
	}
	if v := trimmed(input.Description); v != "" {
		program.Description = v
	}
	loc := s.cfg.Location()
	if v := trimmed(input.StartDate); v != "" {
		if program.StartDate, err = period.ParseDate(v, loc); err != nil {
			return nil, ErrInvalidProgramDates
		}
	}
	if v := trimmed(input.EndDate); v != "" {
		if program.EndDate, err = period.ParseDate(v, loc); err != nil {
			return nil, ErrInvalidProgramDates
		}
	}
	program.StartDate = program.StartDate.UTC()
	program.EndDate = program.EndDate.UTC()
	if program.EndDate.Before(program.StartDate) {
		return nil, ErrProgramDateOrder
	}
	if v := trimmed(input.Status); v != "" {
		status, err := parseProgramStatus(v)
		if err != nil {
			return nil, err
		}
		program.Status = string(status)
	}

	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("program_id", program.ID).Msg("✅ Program updated")
	return program, nil
}

// GetByID returns a program
func (s *ProgramService) GetByID(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

// List returns every program, newest first
func (s *ProgramService) List(ctx context.Context) ([]*models.Program, error) {
	return s.cached(ctx, programsAllKey, s.programRepo.List)
}

// ListUpcoming returns programs that have not yet ended, by start date
func (s *ProgramService) ListUpcoming(ctx context.Context) ([]*models.Program, error) {
	return s.cached(ctx, programsUpcomingKey, func(ctx context.Context) ([]*models.Program, error) {
		return s.programRepo.ListUpcoming(ctx, s.now())
	})
}

// SweepStatuses moves programs into COMPLETED, ONGOING or UPCOMING based on
// the current time
func (s *ProgramService) SweepStatuses(ctx context.Context) (*repositories.SweepResult, error) {
	result, err := s.programRepo.SweepStatuses(ctx, s.now())
	if err != nil {
		metrics.ProgramSweeps.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ProgramSweeps.WithLabelValues("ok").Inc()

	if result.Total() > 0 {
		metrics.ProgramTransitions.WithLabelValues(string(domain.ProgramCompleted)).Add(float64(result.Completed))
		metrics.ProgramTransitions.WithLabelValues(string(domain.ProgramOngoing)).Add(float64(result.Ongoing))
		metrics.ProgramTransitions.WithLabelValues(string(domain.ProgramUpcoming)).Add(float64(result.Upcoming))
		s.invalidate(ctx)
	}
	return result, nil
}

func (s *ProgramService) parseRange(startValue, endValue string) (time.Time, time.Time, error) {
	loc := s.cfg.Location()
	start, err := period.ParseDate(startValue, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidProgramDates
	}
	end, err := period.ParseDate(endValue, loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidProgramDates
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrProgramDateOrder
	}
	return start.UTC(), end.UTC(), nil
}

// cached reads through the listing cache; cache failures fall back to the
// database
func (s *ProgramService) cached(ctx context.Context, key string, load func(context.Context) ([]*models.Program, error)) ([]*models.Program, error) {
	if s.cache != nil {
		var programs []*models.Program
		err := cache.GetJSON(ctx, s.cache, key, &programs)
		if err == nil {
			return programs, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("⚠️ Program cache read failed")
		}
	}

	programs, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, programs, s.cacheTTL()); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("⚠️ Program cache write failed")
		}
	}
	return programs, nil
}

func (s *ProgramService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx, "programs:*"); err != nil {
		log.Warn().Err(err).Msg("⚠️ Program cache invalidation failed")
	}
}

func (s *ProgramService) cacheTTL() time.Duration {
	if s.cfg.Cache.TTL > 0 {
		return s.cfg.Cache.TTL
	}
	return time.Minute
}

func parseProgramStatus(value string) (domain.ProgramStatus, error) {
	status := domain.ProgramStatus(strings.ToUpper(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", ErrInvalidProgramStatus
	}
	return status, nil
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
