package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoresheet/ingestion/internal/models"
)

type fakeSource struct {
	msgs  []models.InboundMessage
	err   error
	limit int
}

func (f *fakeSource) RecentMessages(ctx context.Context, limit int) ([]models.InboundMessage, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.msgs, nil
}

type fakeRunner struct {
	batches [][]models.InboundMessage
	err     error
}

func (f *fakeRunner) ProcessBatch(ctx context.Context, msgs []models.InboundMessage) (*models.CycleResult, error) {
	f.batches = append(f.batches, msgs)
	if f.err != nil {
		return nil, f.err
	}
	return &models.CycleResult{Messages: len(msgs), Written: len(msgs)}, nil
}

func TestReplay(t *testing.T) {
	source := &fakeSource{msgs: []models.InboundMessage{
		{MessageID: "m1", Body: "GER:ESP 1:0"},
		{MessageID: "m2", Body: "FRA:ITA 2:2"},
	}}
	runner := &fakeRunner{}
	s := NewScheduler(Config{Cron: "*/15 * * * *", Limit: 10}, source, runner)

	result, err := s.Replay(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, source.limit)
	require.Len(t, runner.batches, 1)
	assert.Len(t, runner.batches[0], 2, "All recent messages run as one cycle")
	assert.Equal(t, 2, result.Written)
	assert.False(t, s.LastRun().IsZero())
}

func TestReplay_NoMessages(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(Config{Cron: "@hourly", Limit: 5}, &fakeSource{}, runner)

	result, err := s.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Messages)
	assert.Empty(t, runner.batches)
	assert.True(t, s.LastRun().IsZero())
}

func TestReplay_Errors(t *testing.T) {
	s := NewScheduler(Config{Limit: 5}, &fakeSource{err: errors.New("db down")}, &fakeRunner{})
	_, err := s.Replay(context.Background())
	assert.ErrorContains(t, err, "failed to load recent messages")

	source := &fakeSource{msgs: []models.InboundMessage{{MessageID: "m1"}}}
	s = NewScheduler(Config{Limit: 5}, source, &fakeRunner{err: errors.New("quota exceeded")})
	_, err = s.Replay(context.Background())
	assert.ErrorContains(t, err, "failed to replay 1 messages")
}

func TestStart_InvalidCron(t *testing.T) {
	s := NewScheduler(Config{Cron: "every now and then", Limit: 5}, &fakeSource{}, &fakeRunner{})
	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "failed to schedule replay")
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(Config{Cron: "*/15 * * * *", Limit: 5}, &fakeSource{}, &fakeRunner{})
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
