package repository

import (
	"context"
	"math"
	"time"

	"expvote/internal/domain"
)

// VoteRepository stores votes and owns id allocation. It performs no business validation.
type VoteRepository interface {
	// Create allocates the next id (starting at 1, never reused) and stores an active vote
	Create(ctx context.Context, subjectID, proposer string, start, end time.Time) (*domain.Vote, error)

	// Get returns a copy of the vote or domain.ErrNotFound
	Get(ctx context.Context, id uint64) (*domain.Vote, error)

	// Update applies mutate to the stored vote. Nothing is stored if mutate fails.
	Update(ctx context.Context, id uint64, mutate func(*domain.Vote) error) error

	// ListExpired returns active votes whose end time is at or before now
	ListExpired(ctx context.Context, now time.Time) ([]*domain.Vote, error)
}

// BallotRepository is the append-only audit trail of accepted ballots
type BallotRepository interface {
	// Append records an accepted ballot
	Append(ctx context.Context, ballot domain.Ballot) error

	// ListByVote returns the ballots of a vote in cast order
	ListByVote(ctx context.Context, voteID uint64) ([]domain.Ballot, error)
}

// TokenLedger is the balance store the voting core debits
type TokenLedger interface {
	// BalanceOf returns the balance of account; unknown accounts hold 0
	BalanceOf(ctx context.Context, account string) (int64, error)

	// TryDebit removes amount iff the balance covers it, else domain.ErrInsufficientBalance
	TryDebit(ctx context.Context, account string, amount int64) error
}

// FundingLedger adds credits on top of TokenLedger. Only the account service uses it.
type FundingLedger interface {
	TokenLedger

	// Credit adds amount to account
	Credit(ctx context.Context, account string, amount int64) error
}

// Store groups the repositories that take part in one transaction
type Store interface {
	Votes() VoteRepository
	Ballots() BallotRepository
	Ledger() FundingLedger
}

// Transactor runs fn with a Store whose writes commit or roll back together
type Transactor interface {
	Store

	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

const maxBalance = math.MaxInt64

// checkDebitAmount is shared validation for every ledger backend
func checkDebitAmount(amount int64) error {
	if amount < 0 {
		return domain.ErrInvalidAmount
	}
	return nil
}
