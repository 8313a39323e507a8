package bank

//go:generate mockgen -destination=mock/mock.go -package=mockbank -source=interface.go

import "context"

// Ledger is the currency store trades settle against. Balances never go
// negative and never exceed MaxBalance.
//
// Deposit returns the amount actually credited: crediting past the ceiling
// caps at MaxBalance and the shortfall is the caller's to report.
type Ledger interface {
	// Balance returns the owner's current balance
	Balance(ctx context.Context, ownerID string) (int64, error)

	// CanAfford reports whether the owner can cover the amount
	CanAfford(ctx context.Context, ownerID string, amount int64) (bool, error)

	// Withdraw removes the amount, failing with InsufficientFunds if the
	// balance cannot cover it
	Withdraw(ctx context.Context, ownerID string, amount int64) error

	// Deposit adds up to amount, capped at MaxBalance, and returns the
	// amount actually credited
	Deposit(ctx context.Context, ownerID string, amount int64) (int64, error)

	// MaxBalance returns the balance ceiling
	MaxBalance() int64
}
