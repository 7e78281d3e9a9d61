package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (p *fakePruner) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoff)
	return p.deleted, p.err
}

func (p *fakePruner) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

func newTestRetentionScheduler(t *testing.T, pruner HistoryPruner, cfg RetentionSchedulerConfig) *RetentionScheduler {
	t.Helper()
	s, err := NewRetentionScheduler(pruner, zaptest.NewLogger(t), cfg)
	require.NoError(t, err)
	return s
}

func TestRetentionSchedulerConfig_Validate(t *testing.T) {
	valid := DefaultRetentionSchedulerConfig()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*RetentionSchedulerConfig)
	}{
		{"zero retention", func(c *RetentionSchedulerConfig) { c.Retention = 0 }},
		{"hour too large", func(c *RetentionSchedulerConfig) { c.CleanupHour = 24 }},
		{"negative hour", func(c *RetentionSchedulerConfig) { c.CleanupHour = -1 }},
		{"zero timeout", func(c *RetentionSchedulerConfig) { c.CleanupTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRetentionSchedulerConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

			cfg.Enabled = false
			assert.NoError(t, cfg.Validate(), "disabled configs are not checked")
		})
	}
}

func TestRetentionScheduler_RunOnce(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	pruner := &fakePruner{deleted: 7}
	cfg := DefaultRetentionSchedulerConfig()
	cfg.Retention = 30 * 24 * time.Hour
	s := newTestRetentionScheduler(t, pruner, cfg)
	s.now = func() time.Time { return now }

	deleted, err := s.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), pruner.cutoffs[0])
}

func TestRetentionScheduler_RunOnceError(t *testing.T) {
	pruner := &fakePruner{err: errors.New("db down")}
	s := newTestRetentionScheduler(t, pruner, DefaultRetentionSchedulerConfig())

	deleted, err := s.RunOnce(context.Background())

	assert.EqualError(t, err, "db down")
	assert.Zero(t, deleted)
}

func TestRetentionScheduler_Lifecycle(t *testing.T) {
	pruner := &fakePruner{}
	s := newTestRetentionScheduler(t, pruner, DefaultRetentionSchedulerConfig())
	ctx := context.Background()

	assert.ErrorIs(t, s.TriggerImmediateCleanup(ctx), ErrSchedulerNotRunning)

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start(ctx), "starting twice is a no-op")

	require.NoError(t, s.TriggerImmediateCleanup(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	assert.False(t, s.IsRunning())
	assert.Equal(t, 1, pruner.calls(), "stop waits for the triggered run")
	require.NoError(t, s.Stop(stopCtx), "stopping twice is a no-op")
}

func TestRetentionScheduler_Disabled(t *testing.T) {
	cfg := DefaultRetentionSchedulerConfig()
	cfg.Enabled = false
	s := newTestRetentionScheduler(t, &fakePruner{}, cfg)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestRetentionScheduler_UntilNextRun(t *testing.T) {
	cfg := DefaultRetentionSchedulerConfig()
	cfg.CleanupHour = 3
	s := newTestRetentionScheduler(t, &fakePruner{}, cfg)

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"before the slot", time.Date(2026, 3, 1, 1, 30, 0, 0, time.UTC), 90 * time.Minute},
		{"exactly at the slot", time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC), 24 * time.Hour},
		{"after the slot", time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC), 23 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.now = func() time.Time { return tt.now }
			assert.Equal(t, tt.want, s.untilNextRun())
		})
	}
}
