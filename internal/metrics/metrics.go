package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the voting counters. A nil registerer yields working but
// unregistered collectors, which is what tests want.
type Metrics struct {
	VotesCreated     prometheus.Counter
	BallotsAccepted  *prometheus.CounterVec
	BallotsRejected  *prometheus.CounterVec
	StakeAccepted    *prometheus.CounterVec
	VotesEnded       *prometheus.CounterVec
	CloserSweeps     prometheus.Counter
	AccountsCredited prometheus.Counter
}

// New creates the voting metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		VotesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "expvote_votes_created_total",
			Help: "Total number of votes opened",
		}),
		BallotsAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expvote_ballots_accepted_total",
			Help: "Total number of accepted ballots by choice",
		}, []string{"choice"}),
		BallotsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expvote_ballots_rejected_total",
			Help: "Total number of rejected ballots by reason",
		}, []string{"reason"}),
		StakeAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expvote_stake_accepted_total",
			Help: "Total tokens staked by choice",
		}, []string{"choice"}),
		VotesEnded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "expvote_votes_ended_total",
			Help: "Total number of finalized votes by outcome",
		}, []string{"outcome"}),
		CloserSweeps: factory.NewCounter(prometheus.CounterOpts{
			Name: "expvote_closer_sweeps_total",
			Help: "Total number of closer sweeps run",
		}),
		AccountsCredited: factory.NewCounter(prometheus.CounterOpts{
			Name: "expvote_account_credits_total",
			Help: "Total number of successful account credits",
		}),
	}
}
