package service

import (
	"context"

	"expvote/internal/domain"
)

// VotingEngine defines the vote lifecycle operations
type VotingEngine interface {
	// CreateVote opens a vote on subjectID for the configured window
	CreateVote(ctx context.Context, subjectID, proposer string) (*domain.Vote, error)

	// CastVote debits amount from voter and adds it to the chosen side
	CastVote(ctx context.Context, voteID uint64, amount int64, choice domain.Choice, voter string) (domain.Ballot, error)

	// EndVote finalizes a vote whose window has elapsed
	EndVote(ctx context.Context, voteID uint64) (domain.Status, error)

	// GetVote returns the current state of a vote
	GetVote(ctx context.Context, voteID uint64) (*domain.Vote, error)

	// ListBallots returns the accepted ballots of a vote in cast order
	ListBallots(ctx context.Context, voteID uint64) ([]domain.Ballot, error)
}

// AccountManager defines balance queries and policy-gated funding
type AccountManager interface {
	// BalanceOf returns the token balance of account
	BalanceOf(ctx context.Context, account string) (int64, error)

	// Credit adds amount to account on behalf of actor
	Credit(ctx context.Context, actor, account string, amount int64) error
}

// Services aggregates all service interfaces
type Services struct {
	Voting   VotingEngine
	Accounts AccountManager
	Closer   *CloserService
}
