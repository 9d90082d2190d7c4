package service

import (
	"context"
	"fmt"

	"expvote/internal/domain"
	"expvote/internal/metrics"
	"expvote/internal/repository"
	"expvote/pkg/logger"

	"go.uber.org/zap"
)

// AccountService exposes balances and lets owners fund accounts.
// The voting engine never credits; this is the only way tokens enter.
type AccountService struct {
	ledger  repository.FundingLedger
	policy  AuthorizationPolicy
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewAccountService creates an account service
func NewAccountService(ledger repository.FundingLedger, policy AuthorizationPolicy, m *metrics.Metrics, log *logger.Logger) *AccountService {
	if m == nil {
		m = metrics.New(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AccountService{
		ledger:  ledger,
		policy:  policy,
		metrics: m,
		logger:  log.Named("accounts"),
	}
}

func (s *AccountService) BalanceOf(ctx context.Context, account string) (int64, error) {
	balance, err := s.ledger.BalanceOf(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Credit adds amount to account if actor passes the policy
func (s *AccountService) Credit(ctx context.Context, actor, account string, amount int64) error {
	if s.policy == nil || !s.policy.Allows(actor) {
		s.logger.Warn("Credit denied", zap.String("actor", actor), zap.String("account", account))
		return domain.ErrNotAuthorized
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	if err := s.ledger.Credit(ctx, account, amount); err != nil {
		return err
	}

	s.metrics.AccountsCredited.Inc()
	s.logger.Info("Account credited",
		zap.String("actor", actor),
		zap.String("account", account),
		zap.Int64("amount", amount))
	return nil
}
