package bank

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

// DefaultMaxBalance is the ceiling used when none is configured
const DefaultMaxBalance int64 = 100_000_000

// redisLedger implements Ledger with one integer key per owner.
// Read-check-write sequences rely on the caller's per-owner serialization,
// the same discipline the collection store demands.
type redisLedger struct {
	client     redis.UniversalClient
	maxBalance int64
}

// RedisLedgerConfig holds configuration for the Redis ledger
type RedisLedgerConfig struct {
	Client     redis.UniversalClient
	MaxBalance int64 // zero means DefaultMaxBalance
}

// NewRedisLedger creates a new Redis-backed currency ledger
func NewRedisLedger(cfg *RedisLedgerConfig) Ledger {
	if cfg == nil {
		panic("RedisLedgerConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	max := cfg.MaxBalance
	if max <= 0 {
		max = DefaultMaxBalance
	}
	return &redisLedger{
		client:     cfg.Client,
		maxBalance: max,
	}
}

func (l *redisLedger) key(ownerID string) string {
	return fmt.Sprintf("bank:%s", ownerID)
}

// Balance returns the owner's current balance
func (l *redisLedger) Balance(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, pokerr.InvalidArgument("owner ID is required")
	}

	balance, err := l.client.Get(ctx, l.key(ownerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to get balance")
	}
	return balance, nil
}

// CanAfford reports whether the owner can cover the amount
func (l *redisLedger) CanAfford(ctx context.Context, ownerID string, amount int64) (bool, error) {
	if amount < 0 {
		return false, pokerr.InvalidArgument("amount cannot be negative")
	}
	balance, err := l.Balance(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

// Withdraw removes the amount from the owner's balance
func (l *redisLedger) Withdraw(ctx context.Context, ownerID string, amount int64) error {
	if amount < 0 {
		return pokerr.InvalidArgument("amount cannot be negative")
	}

	balance, err := l.Balance(ctx, ownerID)
	if err != nil {
		return err
	}
	if balance < amount {
		return pokerr.InsufficientFundsf("balance %d cannot cover %d", balance, amount).
			WithMeta("balance", balance).
			WithMeta("amount", amount)
	}

	if err := l.client.DecrBy(ctx, l.key(ownerID), amount).Err(); err != nil {
		return pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to withdraw")
	}
	return nil
}

// Deposit adds up to amount, capped at MaxBalance
func (l *redisLedger) Deposit(ctx context.Context, ownerID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, pokerr.InvalidArgument("amount cannot be negative")
	}

	balance, err := l.Balance(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	credited := amount
	if balance+amount > l.maxBalance {
		credited = l.maxBalance - balance
	}
	if credited <= 0 {
		return 0, nil
	}

	if err := l.client.IncrBy(ctx, l.key(ownerID), credited).Err(); err != nil {
		return 0, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to deposit")
	}
	return credited, nil
}

// MaxBalance returns the balance ceiling
func (l *redisLedger) MaxBalance() int64 {
	return l.maxBalance
}
