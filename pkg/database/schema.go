package database

import "strings"

// SchemaStatements create the voting tables. Amounts are BIGINT to match int64 balances.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS votes (
		id BIGSERIAL PRIMARY KEY,
		subject_id TEXT NOT NULL,
		proposer TEXT NOT NULL,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		yes_weight BIGINT NOT NULL DEFAULT 0 CHECK (yes_weight >= 0),
		no_weight BIGINT NOT NULL DEFAULT 0 CHECK (no_weight >= 0),
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'approved', 'rejected'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_active_end ON votes (end_time) WHERE status = 'active'`,
	`CREATE TABLE IF NOT EXISTS ballots (
		seq BIGSERIAL PRIMARY KEY,
		vote_id BIGINT NOT NULL REFERENCES votes(id),
		voter TEXT NOT NULL,
		amount BIGINT NOT NULL CHECK (amount > 0),
		choice TEXT NOT NULL CHECK (choice IN ('yes', 'no')),
		cast_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ballots_vote ON ballots (vote_id, seq)`,
	`CREATE TABLE IF NOT EXISTS balances (
		account TEXT PRIMARY KEY,
		amount BIGINT NOT NULL DEFAULT 0 CHECK (amount >= 0)
	)`,
}

// DropStatements remove the voting tables
var DropStatements = []string{
	`DROP TABLE IF EXISTS ballots CASCADE`,
	`DROP TABLE IF EXISTS votes CASCADE`,
	`DROP TABLE IF EXISTS balances CASCADE`,
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(stmt), "\n")
	return line
}
