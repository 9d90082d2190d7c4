package service

import (
	"context"
	"fmt"
	"time"

	"expvote/internal/clock"
	"expvote/internal/domain"
	"expvote/internal/metrics"
	"expvote/internal/repository"
	apperrors "expvote/pkg/errors"
	"expvote/pkg/logger"

	"go.uber.org/zap"
)

// VotingService runs the vote state machine: active, then approved or rejected.
type VotingService struct {
	store   repository.Transactor
	clock   clock.Clock
	window  time.Duration
	locks   *voteLocks
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewVotingService creates the engine. A non-positive window falls back to
// domain.DefaultVoteWindow; nil metrics and logger are replaced with no-ops.
func NewVotingService(store repository.Transactor, clk clock.Clock, window time.Duration, m *metrics.Metrics, log *logger.Logger) *VotingService {
	if window <= 0 {
		window = domain.DefaultVoteWindow
	}
	if clk == nil {
		clk = clock.System()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &VotingService{
		store:   store,
		clock:   clk,
		window:  window,
		locks:   newVoteLocks(),
		metrics: m,
		logger:  log.Named("voting"),
	}
}

// Window returns the voting window applied to new votes
func (s *VotingService) Window() time.Duration {
	return s.window
}

// CreateVote opens a vote starting now. Proposer is recorded, not checked.
func (s *VotingService) CreateVote(ctx context.Context, subjectID, proposer string) (*domain.Vote, error) {
	start := s.clock.Now()

	vote, err := s.store.Votes().Create(ctx, subjectID, proposer, start, start.Add(s.window))
	if err != nil {
		return nil, fmt.Errorf("failed to create vote: %w", err)
	}

	s.metrics.VotesCreated.Inc()
	s.logger.Info("Vote created",
		zap.Uint64("vote_id", vote.ID),
		zap.String("subject_id", subjectID),
		zap.String("proposer", proposer),
		zap.Time("end_time", vote.EndTime))

	return vote, nil
}

// CastVote stakes amount on choice. The debit, ballot and tally update
// either all happen or none do.
func (s *VotingService) CastVote(ctx context.Context, voteID uint64, amount int64, choice domain.Choice, voter string) (domain.Ballot, error) {
	unlock := s.locks.Lock(voteID)
	defer unlock()

	now := s.clock.Now()
	ballot := domain.Ballot{
		VoteID: voteID,
		Voter:  voter,
		Amount: amount,
		Choice: choice,
		CastAt: now,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		vote, err := tx.Votes().Get(ctx, voteID)
		if err != nil {
			return err
		}
		if err := checkBallot(vote, now, choice, amount); err != nil {
			return err
		}

		// nothing after the debit can fail on the in-memory store
		if err := tx.Ledger().TryDebit(ctx, voter, amount); err != nil {
			return err
		}

		err = tx.Votes().Update(ctx, voteID, func(v *domain.Vote) error {
			if err := v.CheckCastable(now); err != nil {
				return err
			}
			return v.AddWeight(choice, amount)
		})
		if err != nil {
			return err
		}

		return tx.Ballots().Append(ctx, ballot)
	})
	if err != nil {
		s.rejectBallot(voteID, voter, err)
		return domain.Ballot{}, err
	}

	s.metrics.BallotsAccepted.WithLabelValues(choice.String()).Inc()
	s.metrics.StakeAccepted.WithLabelValues(choice.String()).Add(float64(amount))
	s.logger.Info("Ballot accepted",
		zap.Uint64("vote_id", voteID),
		zap.String("voter", voter),
		zap.Int64("amount", amount),
		zap.String("choice", choice.String()))

	return ballot, nil
}

// checkBallot applies the cast preconditions in reporting order. The balance
// check is left to the ledger's atomic debit.
func checkBallot(vote *domain.Vote, now time.Time, choice domain.Choice, amount int64) error {
	if err := vote.CheckCastable(now); err != nil {
		return err
	}
	if !choice.Valid() {
		return domain.ErrInvalidChoice
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if !vote.CanAdd(choice, amount) {
		return domain.ErrTallyOverflow
	}
	return nil
}

func (s *VotingService) rejectBallot(voteID uint64, voter string, err error) {
	appErr := ToAppError(err)
	s.metrics.BallotsRejected.WithLabelValues(string(appErr.Type)).Inc()

	fields := []zap.Field{
		zap.Uint64("vote_id", voteID),
		zap.String("voter", voter),
		zap.Error(err),
	}
	if appErr.Type == apperrors.ErrorTypeInternal {
		s.logger.Error("Ballot failed", fields...)
		return
	}
	s.logger.Debug("Ballot rejected", fields...)
}

// EndVote finalizes a vote once its window has elapsed. Ties are rejected.
func (s *VotingService) EndVote(ctx context.Context, voteID uint64) (domain.Status, error) {
	unlock := s.locks.Lock(voteID)
	defer unlock()

	now := s.clock.Now()
	var final domain.Vote

	err := s.store.Votes().Update(ctx, voteID, func(v *domain.Vote) error {
		if err := v.CheckEndable(now); err != nil {
			return err
		}
		if _, err := v.Finish(); err != nil {
			return err
		}
		final = *v
		return nil
	})
	if err != nil {
		s.logger.Debug("End vote rejected", zap.Uint64("vote_id", voteID), zap.Error(err))
		return "", err
	}

	s.metrics.VotesEnded.WithLabelValues(final.Status.String()).Inc()
	s.logger.Info("Vote ended",
		zap.Uint64("vote_id", voteID),
		zap.String("status", final.Status.String()),
		zap.Int64("yes_weight", final.YesWeight),
		zap.Int64("no_weight", final.NoWeight))

	return final.Status, nil
}

// GetVote returns a snapshot of the vote
func (s *VotingService) GetVote(ctx context.Context, voteID uint64) (*domain.Vote, error) {
	return s.store.Votes().Get(ctx, voteID)
}

// ListBallots returns the ballots of an existing vote
func (s *VotingService) ListBallots(ctx context.Context, voteID uint64) ([]domain.Ballot, error) {
	if _, err := s.store.Votes().Get(ctx, voteID); err != nil {
		return nil, err
	}
	return s.store.Ballots().ListByVote(ctx, voteID)
}
