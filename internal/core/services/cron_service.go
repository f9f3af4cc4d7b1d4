package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const sweepTimeout = 30 * time.Second

// CronService runs scheduled jobs. Today that is the program status sweep.
type CronService struct {
	cron           *cron.Cron
	programService *ProgramService
	sweepSpec      string
}

// NewCronService creates a new cron service
func NewCronService(programService *ProgramService, sweepSpec string, loc *time.Location) *CronService {
	if loc == nil {
		loc = time.UTC
	}
	return &CronService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		programService: programService,
		sweepSpec:      sweepSpec,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.sweepSpec, s.runProgramSweep); err != nil {
		return fmt.Errorf("invalid program sweep schedule %q: %w", s.sweepSpec, err)
	}
	s.cron.Start()

	log.Info().Str("spec", s.sweepSpec).Msg("⏰ Cron service started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("🛑 Cron service stopped")
}

func (s *CronService) runProgramSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	result, err := s.programService.SweepStatuses(ctx)
	if err != nil {
		// the next tick retries
		log.Error().Err(err).Msg("❌ Program status sweep failed")
		return
	}
	if result.Total() > 0 {
		log.Info().
			Int64("completed", result.Completed).
			Int64("ongoing", result.Ongoing).
			Int64("upcoming", result.Upcoming).
			Msg("✅ Program statuses updated")
	}
}
