// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ad-query-service/pkg/locker"
)

// Warmer primes a cache. Implemented by the cached directory.
type Warmer interface {
	Warm(ctx context.Context) error
}

// WarmScheduler periodically re-primes the directory cache so browse pages
// never block on cold taxonomy lookups. A distributed lock keeps the warm
// pass on a single instance per interval.
type WarmScheduler struct {
	warmer   Warmer
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WarmConfig holds warm scheduler configuration.
type WarmConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewWarmScheduler creates a scheduler over the given warmer.
func NewWarmScheduler(warmer Warmer, cfg WarmConfig, logger *zap.Logger, locker locker.DistributedLocker) *WarmScheduler {
	return &WarmScheduler{
		warmer:   warmer,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   locker,
	}
}

// Start begins the background warm job.
func (s *WarmScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting directory warm scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *WarmScheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("directory warm scheduler stopped")
}

func (s *WarmScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeWarm()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeWarm()
		}
	}
}

// executeWarm runs one warm pass under the distributed lock. On success the
// lock is held for the full interval as a cooldown; on failure it is
// released immediately so another instance can retry.
func (s *WarmScheduler) executeWarm() {
	const lockKey = "directory:warm:lock"

	acquired, err := s.locker.Acquire(s.ctx, lockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire warm lock", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("another instance is warming the directory, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	if err := s.warmer.Warm(ctx); err != nil {
		if rerr := s.locker.Release(s.ctx, lockKey); rerr != nil {
			s.logger.Error("failed to release warm lock after error", zap.Error(rerr))
		}
		s.logger.Warn("directory warm pass failed, lock released for retry", zap.Error(err))
		return
	}

	s.logger.Info("directory warm pass completed", zap.Duration("cooldown", s.interval))
}
