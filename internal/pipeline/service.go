// Package pipeline runs update cycles: parse chat messages, resolve the
// predictions against the live sheet and write them in one batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/metrics"
	"scoresheet/ingestion/internal/models"
	"scoresheet/ingestion/internal/parser"
	"scoresheet/ingestion/internal/sheet"
)

// Cycle triggers used in logs and metrics
const (
	TriggerMessage = "message"
	TriggerBatch   = "batch"
)

// ErrDuplicate is returned by Process for a message that was already delivered
var ErrDuplicate = errors.New("message already processed")

// Deduper remembers delivered message ids
type Deduper interface {
	MarkSeen(ctx context.Context, messageID string) (bool, error)
	Forget(ctx context.Context, messageID string) error
}

// Recorder stores messages and cycle outcomes
type Recorder interface {
	RecordMessage(ctx context.Context, msg models.InboundMessage) error
	RecordCycle(ctx context.Context, cycleID string, resolutions []models.Resolution) error
}

// Service runs update cycles against one grid
type Service struct {
	extractor *parser.Extractor
	grid      sheet.Grid
	layout    sheet.Layout
	writer    *sheet.Writer

	deduper  Deduper
	recorder Recorder
	dryRun   bool
}

// NewService creates a cycle service
func NewService(extractor *parser.Extractor, grid sheet.Grid, layout sheet.Layout) *Service {
	return &Service{
		extractor: extractor,
		grid:      grid,
		layout:    layout,
		writer:    sheet.NewWriter(grid),
	}
}

// WithDeduper enables the duplicate delivery guard of Process
func (s *Service) WithDeduper(d Deduper) *Service {
	s.deduper = d
	return s
}

// WithRecorder enables the message and entry ledger
func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

// WithDryRun resolves cells without writing them or touching the ledger
func (s *Service) WithDryRun(dryRun bool) *Service {
	s.dryRun = dryRun
	return s
}

// Process runs one cycle for a single delivered message
func (s *Service) Process(ctx context.Context, msg models.InboundMessage) (*models.CycleResult, error) {
	if s.deduper != nil && !s.dryRun {
		fresh, err := s.deduper.MarkSeen(ctx, msg.MessageID)
		if err != nil {
			// Without the cache a duplicate only rewrites the same values
			log.Warn().
				Err(err).
				Str("message_id", msg.MessageID).
				Msg("Delivery guard unavailable, processing anyway")
		} else if !fresh {
			return nil, ErrDuplicate
		}
	}

	if s.recorder != nil && !s.dryRun {
		if err := s.recorder.RecordMessage(ctx, msg); err != nil {
			metrics.RecordError("pipeline", "record_message")
			log.Error().
				Err(err).
				Str("message_id", msg.MessageID).
				Msg("Failed to store message")
		}
	}

	result, err := s.run(ctx, TriggerMessage, []models.InboundMessage{msg})
	if err != nil && s.deduper != nil && !s.dryRun {
		// Let the chat bridge redeliver it
		if ferr := s.deduper.Forget(ctx, msg.MessageID); ferr != nil {
			log.Warn().Err(ferr).Str("message_id", msg.MessageID).Msg("Failed to release message id")
		}
	}
	return result, err
}

// ProcessBatch runs one cycle over the predictions of all messages. There is
// no delivery guard; replaying a message writes the same values again.
func (s *Service) ProcessBatch(ctx context.Context, msgs []models.InboundMessage) (*models.CycleResult, error) {
	return s.run(ctx, TriggerBatch, msgs)
}

func (s *Service) run(ctx context.Context, trigger string, msgs []models.InboundMessage) (*models.CycleResult, error) {
	start := time.Now()
	result := &models.CycleResult{
		CycleID:  uuid.NewString(),
		Messages: len(msgs),
	}

	logger := log.With().
		Str("cycle_id", result.CycleID).
		Str("trigger", trigger).
		Logger()

	var entries []models.PredictionEntry
	for _, msg := range msgs {
		parsed := s.extractor.Extract(msg.Body, msg.Author)
		metrics.RecordParse(len(parsed.Entries), reasonCounts(parsed.Malformed))

		result.Lines += parsed.Lines
		result.Malformed += parsed.MalformedCount()
		entries = append(entries, parsed.Entries...)

		if n := parsed.MalformedCount(); n > 0 {
			logger.Debug().
				Str("message_id", msg.MessageID).
				Int("malformed", n).
				Msg("Dropped malformed lines")
		}
	}
	result.Entries = len(entries)

	if len(entries) == 0 {
		logger.Debug().Int("lines", result.Lines).Msg("No predictions found, skipping sheet")
		metrics.RecordCycle(trigger, "success", 0, time.Since(start).Seconds())
		return result, nil
	}

	schema, err := sheet.ReadSchema(ctx, s.grid, s.layout)
	if err != nil {
		metrics.RecordCycle(trigger, "error", 0, time.Since(start).Seconds())
		metrics.RecordError("pipeline", "schema")
		return nil, fmt.Errorf("failed to read sheet schema: %w", err)
	}

	resolutions := sheet.Resolve(entries, schema)
	for _, res := range resolutions {
		metrics.RecordResolution(res.Outcome)
		switch res.Outcome {
		case models.OutcomeUnknownIdentity, models.OutcomeUnknownMatchup:
			result.Unresolved++
		case models.OutcomeRejected:
			result.Rejected++
		}
	}
	result.Resolutions = resolutions

	if s.dryRun {
		logger.Info().
			Int("entries", result.Entries).
			Int("updates", len(sheet.Updates(resolutions))).
			Msg("Dry run, skipping batch write")
		return result, nil
	}

	written, err := s.writer.Write(ctx, sheet.Updates(resolutions))
	if err != nil {
		metrics.RecordCycle(trigger, "error", 0, time.Since(start).Seconds())
		metrics.RecordError("pipeline", "write")
		return nil, fmt.Errorf("failed to write predictions: %w", err)
	}
	result.Written = written

	if s.recorder != nil {
		if err := s.recorder.RecordCycle(ctx, result.CycleID, resolutions); err != nil {
			metrics.RecordError("pipeline", "record_cycle")
			logger.Error().Err(err).Msg("Failed to store cycle entries")
		}
	}

	duration := time.Since(start)
	metrics.RecordCycle(trigger, "success", written, duration.Seconds())

	logger.Info().
		Int("messages", result.Messages).
		Int("entries", result.Entries).
		Int("unresolved", result.Unresolved).
		Int("rejected", result.Rejected).
		Int("written", result.Written).
		Dur("duration", duration).
		Msg("Cycle complete")

	return result, nil
}

func reasonCounts(malformed map[parser.Reason]int) map[string]int {
	out := make(map[string]int, len(malformed))
	for reason, n := range malformed {
		out[string(reason)] = n
	}
	return out
}
