package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.VotesCreated.Inc()
	m.BallotsAccepted.WithLabelValues("yes").Inc()
	m.BallotsRejected.WithLabelValues("insufficient_balance").Inc()
	m.StakeAccepted.WithLabelValues("yes").Add(500)
	m.VotesEnded.WithLabelValues("approved").Inc()
	m.CloserSweeps.Inc()
	m.AccountsCredited.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)

	assert.Equal(t, float64(500), testutil.ToFloat64(m.StakeAccepted.WithLabelValues("yes")))
}

func TestNew_NilRegisterer(t *testing.T) {
	m := New(nil)
	m.VotesCreated.Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.VotesCreated))
}

func TestNew_TwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
