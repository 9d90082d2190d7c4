package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"expvote/internal/domain"
	"expvote/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPostgresStore needs a disposable database in TEST_DATABASE_URL.
// The tables are dropped and recreated for every test.
func setupPostgresStore(t *testing.T) *PostgresStore {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Apply(ctx, db.Pool, database.DropStatements))
	require.NoError(t, db.Migrate(ctx))

	return NewPostgresStore(db)
}

func TestPostgresStore_VoteLifecycle(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	vote, err := store.Votes().Create(ctx, "exp-1", "alice", testStart, testStart.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), vote.ID)
	assert.Equal(t, domain.StatusActive, vote.Status)
	assert.True(t, vote.EndTime.Equal(testStart.Add(time.Hour)))

	require.NoError(t, store.Votes().Update(ctx, vote.ID, func(v *domain.Vote) error {
		return v.AddWeight(domain.ChoiceYes, 30)
	}))

	got, err := store.Votes().Get(ctx, vote.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.YesWeight)

	_, err = store.Votes().Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	expired, err := store.Votes().ListExpired(ctx, testStart.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)

	require.NoError(t, store.Votes().Update(ctx, vote.ID, func(v *domain.Vote) error {
		_, err := v.Finish()
		return err
	}))
	expired, err = store.Votes().ListExpired(ctx, testStart.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestPostgresStore_Ledger(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()
	ledger := store.Ledger()

	balance, err := ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, balance)

	require.NoError(t, ledger.Credit(ctx, "alice", 100))
	assert.ErrorIs(t, ledger.TryDebit(ctx, "alice", 101), domain.ErrInsufficientBalance)
	require.NoError(t, ledger.TryDebit(ctx, "alice", 60))

	balance, err = ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)
}

func TestPostgresStore_WithinTxRollsBack(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ledger().Credit(ctx, "alice", 50))
	vote, err := store.Votes().Create(ctx, "exp-1", "alice", testStart, testStart.Add(time.Hour))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Ledger().TryDebit(ctx, "alice", 50); err != nil {
			return err
		}
		if err := tx.Ballots().Append(ctx, domain.Ballot{VoteID: vote.ID, Voter: "alice", Amount: 50, Choice: domain.ChoiceNo, CastAt: testStart}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	balance, err := store.Ledger().BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)

	ballots, err := store.Ballots().ListByVote(ctx, vote.ID)
	require.NoError(t, err)
	assert.Empty(t, ballots)
}
