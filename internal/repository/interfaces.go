package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mesobgames/crash-backend/internal/models"
)

var (
	// ErrInsufficientFunds: the conditional debit found less balance than the stake.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrWagerNotActive covers not-found, wrong owner, and already-settled alike,
	// so callers cannot probe which case occurred.
	ErrWagerNotActive = errors.New("wager not active")
	ErrNotFound       = errors.New("not found")
)

type Accounts interface {
	// GetOrCreate returns the account, creating it with the seed balance
	// on first contact. Concurrent creation of the same account is safe.
	GetOrCreate(ctx context.Context, userID int64, seed int64) (models.Account, error)
	Get(ctx context.Context, userID int64) (models.Account, error)
}

// Ledger is the engine's only synchronization primitive. Every mutating
// operation is an atomic conditional read-modify-write: it applies fully
// when its precondition holds and has no observable effect otherwise.
// Balances returned alongside a mutation are the post-mutation values
// from the same atomic unit, never a subsequent read.
type Ledger interface {
	// PlaceWager debits bet from the balance iff balance >= bet and, in the
	// same unit, creates an ACTIVE wager with the given start time.
	// Fails with ErrInsufficientFunds, leaving both records untouched.
	PlaceWager(ctx context.Context, userID int64, bet int64, startTime time.Time) (models.Wager, int64, error)

	// SettleWin transitions ACTIVE -> PAID iff the wager is ACTIVE and owned
	// by userID and, in the same unit, credits winnings to the balance.
	// Fails with ErrWagerNotActive.
	SettleWin(ctx context.Context, userID int64, wagerID string, multiplier float64, winnings int64) (models.Wager, int64, error)

	// SettleLoss transitions ACTIVE -> LOST. No balance change.
	SettleLoss(ctx context.Context, userID int64, wagerID string) (models.Wager, error)

	// VoidFraud transitions ACTIVE -> FRAUD, recording the claimed
	// multiplier. No balance change.
	VoidFraud(ctx context.Context, userID int64, wagerID string, claimed float64) (models.Wager, error)

	GetWager(ctx context.Context, wagerID string) (models.Wager, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Wager, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
