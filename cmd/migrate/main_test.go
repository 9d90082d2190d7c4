package main

import (
	"context"
	"testing"

	"expvote/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrants(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		want      []grant
		expectErr bool
	}{
		{
			name: "Pairs",
			args: []string{"alice=1000", " bob = 25"},
			want: []grant{{"alice", 1000}, {"bob", 25}},
		},
		{name: "No arguments", args: nil, expectErr: true},
		{name: "Missing separator", args: []string{"alice"}, expectErr: true},
		{name: "Missing account", args: []string{"=10"}, expectErr: true},
		{name: "Zero amount", args: []string{"alice=0"}, expectErr: true},
		{name: "Negative amount", args: []string{"alice=-5"}, expectErr: true},
		{name: "Not a number", args: []string{"alice=lots"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGrants(tt.args)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeedBalances(t *testing.T) {
	ledger := repository.NewMemoryLedger(map[string]int64{"alice": 5})
	store := repository.NewMemoryStore(ledger)
	ctx := context.Background()

	require.NoError(t, seedBalances(ctx, store, []grant{{"alice", 10}, {"bob", 3}}))

	alice, err := ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(15), alice)

	bob, err := ledger.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(3), bob)
}
