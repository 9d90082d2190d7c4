package domain

import (
	"math"
	"time"
)

// DefaultVoteWindow is how long a vote accepts ballots after creation
const DefaultVoteWindow = 24 * time.Hour

// Status is the lifecycle state of a vote
type Status string

const (
	StatusActive   Status = "active"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Choice is the side a ballot stakes on
type Choice string

const (
	ChoiceYes Choice = "yes"
	ChoiceNo  Choice = "no"
)

func (c Choice) String() string {
	return string(c)
}

// Valid reports whether c is one of yes or no
func (c Choice) Valid() bool {
	return c == ChoiceYes || c == ChoiceNo
}

// Vote is a time-bounded, stake-weighted ballot collection for one subject
type Vote struct {
	ID        uint64    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Proposer  string    `json:"proposer"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	YesWeight int64     `json:"yes_weight"`
	NoWeight  int64     `json:"no_weight"`
	Status    Status    `json:"status"`
}

// NewVote builds an active vote with zero tallies. The id is assigned by the registry.
func NewVote(subjectID, proposer string, start time.Time, window time.Duration) *Vote {
	return &Vote{
		SubjectID: subjectID,
		Proposer:  proposer,
		StartTime: start,
		EndTime:   start.Add(window),
		Status:    StatusActive,
	}
}

// TotalWeight is the stake accumulated on both sides
func (v *Vote) TotalWeight() int64 {
	return v.YesWeight + v.NoWeight
}

// CheckCastable validates the window and lifecycle for a ballot at now.
// The boundary is inclusive: a ballot at exactly EndTime is accepted.
func (v *Vote) CheckCastable(now time.Time) error {
	if now.After(v.EndTime) {
		return ErrVotingPeriodEnded
	}
	if v.Status != StatusActive {
		return ErrInvalidStatus
	}
	return nil
}

// CheckEndable validates that the window has elapsed and the vote is still open
func (v *Vote) CheckEndable(now time.Time) error {
	if now.Before(v.EndTime) {
		return ErrVotingPeriodNotEnded
	}
	if v.Status != StatusActive {
		return ErrInvalidStatus
	}
	return nil
}

// CanAdd reports whether amount fits into the tally for choice without overflowing
func (v *Vote) CanAdd(choice Choice, amount int64) bool {
	current := v.NoWeight
	if choice == ChoiceYes {
		current = v.YesWeight
	}
	return amount <= math.MaxInt64-current && amount <= math.MaxInt64-v.TotalWeight()
}

// AddWeight adds a staked amount to the chosen side of an active vote
func (v *Vote) AddWeight(choice Choice, amount int64) error {
	if v.Status != StatusActive {
		return ErrInvalidStatus
	}
	if !choice.Valid() {
		return ErrInvalidChoice
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !v.CanAdd(choice, amount) {
		return ErrTallyOverflow
	}

	if choice == ChoiceYes {
		v.YesWeight += amount
	} else {
		v.NoWeight += amount
	}
	return nil
}

// Outcome is approved only when yes strictly outweighs no; ties reject
func (v *Vote) Outcome() Status {
	if v.YesWeight > v.NoWeight {
		return StatusApproved
	}
	return StatusRejected
}

// Finish moves an active vote to its outcome
func (v *Vote) Finish() (Status, error) {
	if v.Status != StatusActive {
		return v.Status, ErrInvalidStatus
	}
	v.Status = v.Outcome()
	return v.Status, nil
}

// Ballot is the append-only audit record of one accepted stake
type Ballot struct {
	VoteID uint64    `json:"vote_id"`
	Voter  string    `json:"voter"`
	Amount int64     `json:"amount"`
	Choice Choice    `json:"choice"`
	CastAt time.Time `json:"cast_at"`
}

// CreateVoteRequest is the body of POST /api/v1/votes
type CreateVoteRequest struct {
	SubjectID string `json:"subject_id"`
}

// CreateVoteResponse is returned after a vote is opened
type CreateVoteResponse struct {
	VoteID  uint64    `json:"vote_id"`
	EndTime time.Time `json:"end_time"`
}

// CastVoteRequest is the body of POST /api/v1/votes/{voteId}/ballots
type CastVoteRequest struct {
	Amount int64  `json:"amount"`
	Choice Choice `json:"choice"`
}

// CastVoteResponse reports the accepted ballot and, when readable, the voter's remaining balance
type CastVoteResponse struct {
	Ballot  Ballot `json:"ballot"`
	Balance *int64 `json:"balance,omitempty"`
}

// EndVoteResponse reports the final outcome of a vote
type EndVoteResponse struct {
	VoteID    uint64 `json:"vote_id"`
	Status    Status `json:"status"`
	YesWeight int64  `json:"yes_weight"`
	NoWeight  int64  `json:"no_weight"`
}

// BalanceResponse is the body of GET /api/v1/accounts/{account}/balance
type BalanceResponse struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

// CreditRequest is the body of POST /api/v1/admin/accounts/{account}/credit
type CreditRequest struct {
	Amount int64 `json:"amount"`
}
