package bank

import (
	"context"
	"sync"

	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

// InMemoryLedger is an in-memory implementation of the currency ledger,
// used for tests and redis-less development
type InMemoryLedger struct {
	mu         sync.Mutex
	balances   map[string]int64
	maxBalance int64
}

// NewInMemoryLedger creates an in-memory ledger with the given ceiling
// (zero means DefaultMaxBalance)
func NewInMemoryLedger(maxBalance int64) *InMemoryLedger {
	if maxBalance <= 0 {
		maxBalance = DefaultMaxBalance
	}
	return &InMemoryLedger{
		balances:   make(map[string]int64),
		maxBalance: maxBalance,
	}
}

// SetBalance pins an owner's balance, for test setup
func (l *InMemoryLedger) SetBalance(ownerID string, balance int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[ownerID] = balance
}

// Balance returns the owner's current balance
func (l *InMemoryLedger) Balance(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, pokerr.InvalidArgument("owner ID is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[ownerID], nil
}

// CanAfford reports whether the owner can cover the amount
func (l *InMemoryLedger) CanAfford(ctx context.Context, ownerID string, amount int64) (bool, error) {
	if amount < 0 {
		return false, pokerr.InvalidArgument("amount cannot be negative")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[ownerID] >= amount, nil
}

// Withdraw removes the amount from the owner's balance
func (l *InMemoryLedger) Withdraw(ctx context.Context, ownerID string, amount int64) error {
	if amount < 0 {
		return pokerr.InvalidArgument("amount cannot be negative")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balances[ownerID]
	if balance < amount {
		return pokerr.InsufficientFundsf("balance %d cannot cover %d", balance, amount).
			WithMeta("balance", balance).
			WithMeta("amount", amount)
	}
	l.balances[ownerID] = balance - amount
	return nil
}

// Deposit adds up to amount, capped at MaxBalance
func (l *InMemoryLedger) Deposit(ctx context.Context, ownerID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, pokerr.InvalidArgument("amount cannot be negative")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balances[ownerID]
	credited := amount
	if balance+amount > l.maxBalance {
		credited = l.maxBalance - balance
	}
	if credited <= 0 {
		return 0, nil
	}
	l.balances[ownerID] = balance + credited
	return credited, nil
}

// MaxBalance returns the balance ceiling
func (l *InMemoryLedger) MaxBalance() int64 {
	return l.maxBalance
}
