package repository

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"expvote/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryVotes_CreateAssignsSequentialIDs(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	for want := uint64(1); want <= 3; want++ {
		vote, err := store.Votes().Create(ctx, "subject", "proposer", testStart, testStart.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, want, vote.ID)
		assert.Equal(t, domain.StatusActive, vote.Status)
		assert.Zero(t, vote.YesWeight)
		assert.Zero(t, vote.NoWeight)
		assert.Equal(t, testStart, vote.StartTime)
		assert.Equal(t, testStart.Add(time.Hour), vote.EndTime)
		assert.Equal(t, "subject", vote.SubjectID)
		assert.Equal(t, "proposer", vote.Proposer)
	}
}

func TestMemoryVotes_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	created, err := store.Votes().Create(ctx, "subject", "proposer", testStart, testStart.Add(time.Hour))
	require.NoError(t, err)

	created.YesWeight = 999

	got, err := store.Votes().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, got.YesWeight)

	_, err = store.Votes().Get(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryVotes_UpdateDiscardsFailedMutation(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	vote, err := store.Votes().Create(ctx, "subject", "proposer", testStart, testStart.Add(time.Hour))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Votes().Update(ctx, vote.ID, func(v *domain.Vote) error {
		v.YesWeight = 10
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Votes().Get(ctx, vote.ID)
	require.NoError(t, err)
	assert.Zero(t, got.YesWeight)

	require.NoError(t, store.Votes().Update(ctx, vote.ID, func(v *domain.Vote) error {
		return v.AddWeight(domain.ChoiceNo, 7)
	}))
	got, err = store.Votes().Get(ctx, vote.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.NoWeight)

	assert.ErrorIs(t, store.Votes().Update(ctx, 99, func(*domain.Vote) error { return nil }), domain.ErrNotFound)
}

func TestMemoryVotes_ListExpired(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	short, err := store.Votes().Create(ctx, "a", "p", testStart, testStart.Add(time.Minute))
	require.NoError(t, err)
	_, err = store.Votes().Create(ctx, "b", "p", testStart, testStart.Add(time.Hour))
	require.NoError(t, err)
	closed, err := store.Votes().Create(ctx, "c", "p", testStart, testStart.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, store.Votes().Update(ctx, closed.ID, func(v *domain.Vote) error {
		_, err := v.Finish()
		return err
	}))

	expired, err := store.Votes().ListExpired(ctx, testStart.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, short.ID, expired[0].ID)

	expired, err = store.Votes().ListExpired(ctx, testStart.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Less(t, expired[0].ID, expired[1].ID)
}

func TestMemoryBallots_AppendAndList(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Ballots().Append(ctx, domain.Ballot{VoteID: 1, Voter: "alice", Amount: 5, Choice: domain.ChoiceYes}))
	require.NoError(t, store.Ballots().Append(ctx, domain.Ballot{VoteID: 1, Voter: "alice", Amount: 3, Choice: domain.ChoiceNo}))
	require.NoError(t, store.Ballots().Append(ctx, domain.Ballot{VoteID: 2, Voter: "bob", Amount: 1, Choice: domain.ChoiceYes}))

	ballots, err := store.Ballots().ListByVote(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ballots, 2)
	assert.Equal(t, int64(5), ballots[0].Amount)
	assert.Equal(t, int64(3), ballots[1].Amount)

	ballots[0].Amount = 1000
	again, err := store.Ballots().ListByVote(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), again[0].Amount)

	empty, err := store.Ballots().ListByVote(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	seed := map[string]int64{"alice": 100}
	ledger := NewMemoryLedger(seed)

	seed["alice"] = 1
	balance, err := ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	assert.ErrorIs(t, ledger.TryDebit(ctx, "alice", -1), domain.ErrInvalidAmount)
	assert.NoError(t, ledger.TryDebit(ctx, "alice", 0))
	assert.ErrorIs(t, ledger.TryDebit(ctx, "alice", 101), domain.ErrInsufficientBalance)
	assert.NoError(t, ledger.TryDebit(ctx, "alice", 100))
	assert.ErrorIs(t, ledger.TryDebit(ctx, "alice", 1), domain.ErrInsufficientBalance)

	assert.ErrorIs(t, ledger.Credit(ctx, "bob", 0), domain.ErrInvalidAmount)
	require.NoError(t, ledger.Credit(ctx, "bob", math.MaxInt64))
	assert.ErrorIs(t, ledger.Credit(ctx, "bob", 1), domain.ErrBalanceOverflow)

	balance, err = ledger.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), balance)
}

func TestMemoryLedger_ConcurrentDebits(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(map[string]int64{"alice": 1000})

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.TryDebit(ctx, "alice", 7)
		}()
	}
	wg.Wait()

	// 142 debits of 7 fit into 1000
	balance, err := ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000-142*7), balance)
}

func TestMemoryStore_WithinTx(t *testing.T) {
	store := NewMemoryStore(NewMemoryLedger(map[string]int64{"alice": 10}))
	ctx := context.Background()

	var seen Store
	err := store.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		seen = tx
		return tx.Ledger().TryDebit(ctx, "alice", 4)
	})
	require.NoError(t, err)
	assert.Same(t, store, seen)

	balance, err := store.Ledger().BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance)
}
