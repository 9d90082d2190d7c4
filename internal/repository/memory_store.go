package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"expvote/internal/domain"
)

// MemoryStore keeps votes and ballots in process memory.
// The ledger is pluggable so balances can live in Redis while votes stay local.
type MemoryStore struct {
	votes   *memoryVotes
	ballots *memoryBallots
	ledger  FundingLedger
}

// NewMemoryStore creates an empty store. A nil ledger defaults to MemoryLedger.
func NewMemoryStore(ledger FundingLedger) *MemoryStore {
	if ledger == nil {
		ledger = NewMemoryLedger(nil)
	}
	return &MemoryStore{
		votes:   &memoryVotes{votes: make(map[uint64]*domain.Vote)},
		ballots: &memoryBallots{ballots: make(map[uint64][]domain.Ballot)},
		ledger:  ledger,
	}
}

func (s *MemoryStore) Votes() VoteRepository     { return s.votes }
func (s *MemoryStore) Ballots() BallotRepository { return s.ballots }
func (s *MemoryStore) Ledger() FundingLedger     { return s.ledger }

// WithinTx runs fn directly. Callers check every precondition before the first
// write and debit first, so no later step can fail and leave partial state.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	return fn(ctx, s)
}

type memoryVotes struct {
	mu     sync.RWMutex
	votes  map[uint64]*domain.Vote
	lastID uint64
}

func (r *memoryVotes) Create(_ context.Context, subjectID, proposer string, start, end time.Time) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	vote := domain.NewVote(subjectID, proposer, start, end.Sub(start))
	vote.ID = r.lastID
	r.votes[vote.ID] = vote

	clone := *vote
	return &clone, nil
}

func (r *memoryVotes) Get(_ context.Context, id uint64) (*domain.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vote, ok := r.votes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *vote
	return &clone, nil
}

func (r *memoryVotes) Update(_ context.Context, id uint64, mutate func(*domain.Vote) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vote, ok := r.votes[id]
	if !ok {
		return domain.ErrNotFound
	}

	draft := *vote
	if err := mutate(&draft); err != nil {
		return err
	}
	*vote = draft
	return nil
}

func (r *memoryVotes) ListExpired(_ context.Context, now time.Time) ([]*domain.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	expired := make([]*domain.Vote, 0)
	for _, vote := range r.votes {
		if vote.Status == domain.StatusActive && !now.Before(vote.EndTime) {
			clone := *vote
			expired = append(expired, &clone)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	return expired, nil
}

type memoryBallots struct {
	mu      sync.RWMutex
	ballots map[uint64][]domain.Ballot
}

func (r *memoryBallots) Append(_ context.Context, ballot domain.Ballot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ballots[ballot.VoteID] = append(r.ballots[ballot.VoteID], ballot)
	return nil
}

func (r *memoryBallots) ListByVote(_ context.Context, voteID uint64) ([]domain.Ballot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.ballots[voteID]
	out := make([]domain.Ballot, len(stored))
	copy(out, stored)
	return out, nil
}

// MemoryLedger is a mutex-guarded balance map
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
}

// NewMemoryLedger creates a ledger seeded with initial balances
func NewMemoryLedger(initial map[string]int64) *MemoryLedger {
	balances := make(map[string]int64, len(initial))
	for account, amount := range initial {
		balances[account] = amount
	}
	return &MemoryLedger{balances: balances}
}

func (l *MemoryLedger) BalanceOf(_ context.Context, account string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

func (l *MemoryLedger) TryDebit(_ context.Context, account string, amount int64) error {
	if err := checkDebitAmount(amount); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[account] < amount {
		return domain.ErrInsufficientBalance
	}
	l.balances[account] -= amount
	return nil
}

func (l *MemoryLedger) Credit(_ context.Context, account string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[account] > maxBalance-amount {
		return domain.ErrBalanceOverflow
	}
	l.balances[account] += amount
	return nil
}
