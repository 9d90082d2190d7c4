package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expvote/internal/domain"
	"expvote/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgErrNumericOutOfRange is raised when a BIGINT sum overflows
const pgErrNumericOutOfRange = "22003"

// querier is the subset shared by *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps votes, ballots and balances in PostgreSQL.
// WithinTx runs every repository call on one transaction.
type PostgresStore struct {
	db   *database.PostgresDB
	repo pgRepos
}

// NewPostgresStore creates a store over an open pool
func NewPostgresStore(db *database.PostgresDB) *PostgresStore {
	return &PostgresStore{db: db, repo: pgRepos{q: db.Pool, pool: db.Pool}}
}

func (s *PostgresStore) Votes() VoteRepository     { return pgVotes{s.repo} }
func (s *PostgresStore) Ballots() BallotRepository { return pgBallots{s.repo} }
func (s *PostgresStore) Ledger() FundingLedger     { return pgLedger{s.repo} }

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	return pgx.BeginFunc(ctx, s.db.Pool, func(tx pgx.Tx) error {
		return fn(ctx, pgTxStore{repo: pgRepos{q: tx}})
	})
}

type pgTxStore struct {
	repo pgRepos
}

func (s pgTxStore) Votes() VoteRepository     { return pgVotes{s.repo} }
func (s pgTxStore) Ballots() BallotRepository { return pgBallots{s.repo} }
func (s pgTxStore) Ledger() FundingLedger     { return pgLedger{s.repo} }

// pgRepos carries the querier. pool is set only outside a transaction so
// read-modify-write operations can open their own.
type pgRepos struct {
	q    querier
	pool *pgxpool.Pool
}

func (r pgRepos) inTx(ctx context.Context, fn func(q querier) error) error {
	if r.pool == nil {
		return fn(r.q)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(tx)
	})
}

type pgVotes struct{ pgRepos }

const voteColumns = `id, subject_id, proposer, start_time, end_time, yes_weight, no_weight, status`

func scanVote(row pgx.Row) (*domain.Vote, error) {
	var vote domain.Vote
	err := row.Scan(
		&vote.ID,
		&vote.SubjectID,
		&vote.Proposer,
		&vote.StartTime,
		&vote.EndTime,
		&vote.YesWeight,
		&vote.NoWeight,
		&vote.Status,
	)
	if err != nil {
		return nil, err
	}
	vote.StartTime = vote.StartTime.UTC()
	vote.EndTime = vote.EndTime.UTC()
	return &vote, nil
}

func (r pgVotes) Create(ctx context.Context, subjectID, proposer string, start, end time.Time) (*domain.Vote, error) {
	query := `
		INSERT INTO votes (subject_id, proposer, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + voteColumns

	vote, err := scanVote(r.q.QueryRow(ctx, query, subjectID, proposer, start, end))
	if err != nil {
		return nil, fmt.Errorf("failed to create vote: %w", err)
	}
	return vote, nil
}

func (r pgVotes) Get(ctx context.Context, id uint64) (*domain.Vote, error) {
	return r.get(ctx, r.q, id, false)
}

func (r pgVotes) get(ctx context.Context, q querier, id uint64, forUpdate bool) (*domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	vote, err := scanVote(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return vote, nil
}

func (r pgVotes) Update(ctx context.Context, id uint64, mutate func(*domain.Vote) error) error {
	return r.inTx(ctx, func(q querier) error {
		vote, err := r.get(ctx, q, id, true)
		if err != nil {
			return err
		}
		if err := mutate(vote); err != nil {
			return err
		}

		query := `
			UPDATE votes
			SET yes_weight = $2, no_weight = $3, status = $4
			WHERE id = $1
		`
		if _, err := q.Exec(ctx, query, vote.ID, vote.YesWeight, vote.NoWeight, vote.Status); err != nil {
			return fmt.Errorf("failed to update vote: %w", err)
		}
		return nil
	})
}

func (r pgVotes) ListExpired(ctx context.Context, now time.Time) ([]*domain.Vote, error) {
	query := `
		SELECT ` + voteColumns + `
		FROM votes
		WHERE status = 'active' AND end_time <= $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired votes: %w", err)
	}
	defer rows.Close()

	votes := make([]*domain.Vote, 0)
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	return votes, rows.Err()
}

type pgBallots struct{ pgRepos }

func (r pgBallots) Append(ctx context.Context, ballot domain.Ballot) error {
	query := `
		INSERT INTO ballots (vote_id, voter, amount, choice, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.Exec(ctx, query, ballot.VoteID, ballot.Voter, ballot.Amount, ballot.Choice, ballot.CastAt)
	if err != nil {
		return fmt.Errorf("failed to append ballot: %w", err)
	}
	return nil
}

func (r pgBallots) ListByVote(ctx context.Context, voteID uint64) ([]domain.Ballot, error) {
	query := `
		SELECT vote_id, voter, amount, choice, cast_at
		FROM ballots
		WHERE vote_id = $1
		ORDER BY seq
	`

	rows, err := r.q.Query(ctx, query, voteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ballots: %w", err)
	}
	defer rows.Close()

	ballots := make([]domain.Ballot, 0)
	for rows.Next() {
		var b domain.Ballot
		if err := rows.Scan(&b.VoteID, &b.Voter, &b.Amount, &b.Choice, &b.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		b.CastAt = b.CastAt.UTC()
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}

type pgLedger struct{ pgRepos }

func (r pgLedger) BalanceOf(ctx context.Context, account string) (int64, error) {
	var amount int64
	err := r.q.QueryRow(ctx, `SELECT amount FROM balances WHERE account = $1`, account).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return amount, nil
}

// TryDebit relies on the conditional UPDATE taking the row lock, so two
// concurrent debits can never both pass the balance check.
func (r pgLedger) TryDebit(ctx context.Context, account string, amount int64) error {
	if err := checkDebitAmount(amount); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	query := `
		UPDATE balances
		SET amount = amount - $2
		WHERE account = $1 AND amount >= $2
	`
	tag, err := r.q.Exec(ctx, query, account, amount)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (r pgLedger) Credit(ctx context.Context, account string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	query := `
		INSERT INTO balances (account, amount)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET amount = balances.amount + EXCLUDED.amount
	`
	if _, err := r.q.Exec(ctx, query, account, amount); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrNumericOutOfRange {
			return domain.ErrBalanceOverflow
		}
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	return nil
}
