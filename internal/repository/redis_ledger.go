package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"expvote/internal/domain"
	"expvote/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// debitScript removes ARGV[1] from KEYS[1] only when the balance covers it.
// Returns 1 on success and 0 when the balance is short. Redis does the
// arithmetic on int64 and only the sign of the result reaches Lua.
var debitScript = goredis.NewScript(`
local remaining = redis.call("DECRBY", KEYS[1], ARGV[1])
if remaining < 0 then
	redis.call("INCRBY", KEYS[1], ARGV[1])
	return 0
end
return 1
`)

// RedisLedger keeps balances as integer keys so several API instances can share them
type RedisLedger struct {
	client *redis.Client
}

// NewRedisLedger creates a ledger over an existing client
func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) BalanceOf(ctx context.Context, account string) (int64, error) {
	raw, err := l.client.Get(ctx, l.client.KeyBuilder.KeyLedgerBalance(account))
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}

	balance, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt balance for account: %w", err)
	}
	return balance, nil
}

func (l *RedisLedger) TryDebit(ctx context.Context, account string, amount int64) error {
	if err := checkDebitAmount(amount); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	key := l.client.KeyBuilder.KeyLedgerBalance(account)
	res, err := l.client.RunScript(ctx, debitScript, []string{key}, amount)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}

	ok, _ := res.(int64)
	if ok != 1 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (l *RedisLedger) Credit(ctx context.Context, account string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	_, err := l.client.IncrBy(ctx, l.client.KeyBuilder.KeyLedgerBalance(account), amount)
	if err != nil {
		if strings.Contains(err.Error(), "overflow") {
			return domain.ErrBalanceOverflow
		}
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	return nil
}
