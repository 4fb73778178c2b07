package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/models"
)

// MessageSource returns the latest stored chat messages, oldest first
type MessageSource interface {
	RecentMessages(ctx context.Context, limit int) ([]models.InboundMessage, error)
}

// BatchRunner runs one update cycle over a set of messages
type BatchRunner interface {
	ProcessBatch(ctx context.Context, msgs []models.InboundMessage) (*models.CycleResult, error)
}

// Config holds the replay schedule
type Config struct {
	Cron  string
	Limit int
}

// Scheduler periodically replays recent messages so predictions whose matchup
// column was added to the sheet after they were sent still get written
type Scheduler struct {
	cfg    Config
	source MessageSource
	runner BatchRunner
	cron   *cron.Cron

	mu      sync.Mutex
	lastRun time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg Config, source MessageSource, runner BatchRunner) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		source: source,
		runner: runner,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
	}
}

// Start schedules the replay job
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.Cron, func() {
		if _, err := s.Replay(ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled replay failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule replay: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.Cron).
		Int("limit", s.cfg.Limit).
		Msg("Message replay scheduled")

	return nil
}

// Stop stops the scheduler and waits for a running replay to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

// Replay runs one cycle over the most recent stored messages
func (s *Scheduler) Replay(ctx context.Context) (*models.CycleResult, error) {
	start := time.Now()

	msgs, err := s.source.RecentMessages(ctx, s.cfg.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent messages: %w", err)
	}

	if len(msgs) == 0 {
		log.Debug().Msg("No stored messages to replay")
		return &models.CycleResult{}, nil
	}

	result, err := s.runner.ProcessBatch(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to replay %d messages: %w", len(msgs), err)
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.mu.Unlock()

	log.Info().
		Int("messages", len(msgs)).
		Int("written", result.Written).
		Dur("duration", time.Since(start)).
		Msg("Replay complete")

	return result, nil
}

// LastRun returns when the last successful replay finished
func (s *Scheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
