package service

import (
	"context"
	"testing"

	"expvote/internal/domain"
	"expvote/internal/metrics"
	"expvote/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerPolicy(t *testing.T) {
	policy := NewOwnerPolicy([]string{" admin ", "", "ops"})

	assert.True(t, policy.Allows("admin"))
	assert.True(t, policy.Allows("ops"))
	assert.False(t, policy.Allows(""))
	assert.False(t, policy.Allows("alice"))
}

func TestAccountService_Credit(t *testing.T) {
	tests := []struct {
		name        string
		actor       string
		amount      int64
		expectedErr error
		balance     int64
	}{
		{"Owner credits", "admin", 250, nil, 350},
		{"Non-owner denied", "alice", 250, domain.ErrNotAuthorized, 100},
		{"Denied before amount check", "alice", 0, domain.ErrNotAuthorized, 100},
		{"Zero amount", "admin", 0, domain.ErrInvalidAmount, 100},
		{"Negative amount", "admin", -1, domain.ErrInvalidAmount, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(nil)
			svc := NewAccountService(
				repository.NewMemoryLedger(map[string]int64{"bob": 100}),
				NewOwnerPolicy([]string{"admin"}),
				m,
				nil,
			)
			ctx := context.Background()

			err := svc.Credit(ctx, tt.actor, "bob", tt.amount)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Zero(t, testutil.ToFloat64(m.AccountsCredited))
			} else {
				require.NoError(t, err)
				assert.Equal(t, float64(1), testutil.ToFloat64(m.AccountsCredited))
			}

			balance, err := svc.BalanceOf(ctx, "bob")
			require.NoError(t, err)
			assert.Equal(t, tt.balance, balance)
		})
	}
}

func TestAccountService_NilPolicyDeniesAll(t *testing.T) {
	svc := NewAccountService(repository.NewMemoryLedger(nil), nil, nil, nil)
	assert.ErrorIs(t, svc.Credit(context.Background(), "admin", "bob", 1), domain.ErrNotAuthorized)
}

func TestAccountService_BalanceOfUnknownAccount(t *testing.T) {
	svc := NewAccountService(repository.NewMemoryLedger(nil), NewOwnerPolicy(nil), nil, nil)
	balance, err := svc.BalanceOf(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, balance)
}
