package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HistoryPruner deletes quote snapshots created before cutoff and reports how many were removed
type HistoryPruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionSchedulerConfig holds configuration for the quote history retention scheduler
type RetentionSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Retention is how long quote snapshots are kept
	Retention time.Duration

	// CleanupHour is the hour (0-23) when the daily cleanup runs
	CleanupHour int

	// CleanupTimeout is the maximum time for a cleanup run
	CleanupTimeout time.Duration
}

// DefaultRetentionSchedulerConfig returns default configuration
func DefaultRetentionSchedulerConfig() RetentionSchedulerConfig {
	return RetentionSchedulerConfig{
		Enabled:        true,
		Retention:      90 * 24 * time.Hour,
		CleanupHour:    3,
		CleanupTimeout: 5 * time.Minute,
	}
}

// Validate checks the configuration
func (c RetentionSchedulerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Retention <= 0 {
		return fmt.Errorf("%w: retention must be positive", ErrInvalidConfig)
	}
	if c.CleanupHour < 0 || c.CleanupHour > 23 {
		return fmt.Errorf("%w: cleanup hour must be between 0 and 23, got %d", ErrInvalidConfig, c.CleanupHour)
	}
	if c.CleanupTimeout <= 0 {
		return fmt.Errorf("%w: cleanup timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// RetentionScheduler prunes old quote history once per day
type RetentionScheduler struct {
	pruner    HistoryPruner
	logger    *zap.Logger
	config    RetentionSchedulerConfig
	now       func() time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewRetentionScheduler creates a new retention scheduler
func NewRetentionScheduler(pruner HistoryPruner, logger *zap.Logger, config RetentionSchedulerConfig) (*RetentionScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionScheduler{
		pruner: pruner,
		logger: logger,
		config: config,
		now:    time.Now,
	}, nil
}

// Start starts the daily cleanup loop
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Quote history retention is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runDailyCleanup(ctx)

	s.logger.Info("Quote history retention scheduler started",
		zap.Duration("retention", s.config.Retention),
		zap.Int("cleanup_hour", s.config.CleanupHour),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *RetentionScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Quote history retention scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Quote history retention scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scheduler is running
func (s *RetentionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// TriggerImmediateCleanup runs a cleanup in the background without waiting for the daily slot
func (s *RetentionScheduler) TriggerImmediateCleanup(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate quote history cleanup")

	go func() {
		defer s.wg.Done()
		_, _ = s.RunOnce(ctx)
	}()
	return nil
}

// RunOnce deletes every snapshot older than the retention window
func (s *RetentionScheduler) RunOnce(ctx context.Context) (int64, error) {
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.CleanupTimeout)
	defer cancel()

	cutoff := s.now().Add(-s.config.Retention)
	startTime := time.Now()
	deleted, err := s.pruner.DeleteBefore(cleanupCtx, cutoff)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Quote history cleanup failed",
			zap.Time("cutoff", cutoff),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return 0, err
	}

	s.logger.Info("Quote history cleanup completed",
		zap.Time("cutoff", cutoff),
		zap.Duration("duration", duration),
		zap.Int64("deleted_count", deleted),
	)
	return deleted, nil
}

func (s *RetentionScheduler) runDailyCleanup(ctx context.Context) {
	defer s.wg.Done()

	for {
		delay := s.untilNextRun()

		s.logger.Debug("Quote history cleanup scheduled", zap.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

func (s *RetentionScheduler) untilNextRun() time.Duration {
	now := s.now()
	nextRun := time.Date(now.Year(), now.Month(), now.Day(), s.config.CleanupHour, 0, 0, 0, now.Location())
	if !nextRun.After(now) {
		nextRun = nextRun.Add(24 * time.Hour)
	}
	return nextRun.Sub(now)
}
