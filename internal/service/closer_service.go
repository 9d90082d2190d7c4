package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"expvote/internal/clock"
	"expvote/internal/domain"
	"expvote/internal/metrics"
	"expvote/internal/repository"
	"expvote/pkg/logger"

	"go.uber.org/zap"
)

// CloserService periodically ends votes whose window has elapsed
type CloserService struct {
	engine   VotingEngine
	votes    repository.VoteRepository
	clock    clock.Clock
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *logger.Logger

	mu        sync.Mutex
	isRunning bool
	stop      chan struct{}
	wg        sync.WaitGroup
}

// NewCloserService creates a closer. An interval of 0 makes Start a no-op.
func NewCloserService(engine VotingEngine, votes repository.VoteRepository, clk clock.Clock, interval time.Duration, m *metrics.Metrics, log *logger.Logger) *CloserService {
	if clk == nil {
		clk = clock.System()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &CloserService{
		engine:   engine,
		votes:    votes,
		clock:    clk,
		interval: interval,
		metrics:  m,
		logger:   log.Named("closer"),
	}
}

// Start begins the sweep loop
func (s *CloserService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.interval <= 0 {
		s.logger.Info("Vote closer disabled")
		return nil
	}

	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run(ctx, s.stop)

	s.isRunning = true
	s.logger.Info("Vote closer started", zap.Duration("interval", s.interval))
	return nil
}

// Stop ends the sweep loop and waits for an in-flight sweep to finish
func (s *CloserService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	close(s.stop)
	s.isRunning = false
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Vote closer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CloserService) run(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.WithError(err).Error("Vote sweep failed")
			}
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Sweep ends every expired active vote and returns how many it finalized.
// Votes ended concurrently by someone else are skipped.
func (s *CloserService) Sweep(ctx context.Context) (int, error) {
	s.metrics.CloserSweeps.Inc()

	expired, err := s.votes.ListExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired votes: %w", err)
	}

	ended := 0
	for _, vote := range expired {
		if ctx.Err() != nil {
			return ended, ctx.Err()
		}

		status, err := s.engine.EndVote(ctx, vote.ID)
		switch {
		case err == nil:
			ended++
			s.logger.Debug("Expired vote ended", zap.Uint64("vote_id", vote.ID), zap.String("status", status.String()))
		case errors.Is(err, domain.ErrInvalidStatus):
			// already ended
		default:
			s.logger.Warn("Failed to end expired vote", zap.Uint64("vote_id", vote.ID), zap.Error(err))
		}
	}

	return ended, nil
}
