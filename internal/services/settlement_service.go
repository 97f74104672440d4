package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mesobgames/crash-backend/internal/game"
	"github.com/mesobgames/crash-backend/internal/metrics"
	"github.com/mesobgames/crash-backend/internal/models"
	"github.com/mesobgames/crash-backend/internal/notify"
	repo "github.com/mesobgames/crash-backend/internal/repository"
	"github.com/mesobgames/crash-backend/internal/worker"
)

var (
	ErrInvalidAmount     = errors.New("invalid bet amount")
	ErrInvalidMultiplier = errors.New("invalid multiplier")
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidWager covers not-found, wrong owner and already-settled;
	// retried settlement calls land here, which makes retries safe.
	ErrInvalidWager  = errors.New("invalid wager")
	ErrFraudDetected = errors.New("fraud detected")
)

// Notifier is the outbound settlement channel. Best effort only.
type Notifier interface {
	Publish(ctx context.Context, ev notify.Settlement) error
}

// SettlementService drives the per-wager state machine
// ACTIVE -> {PAID, LOST, FRAUD} using the ledger's atomic conditional
// operations as its sole synchronization primitive. It never trusts a
// client-reported elapsed time: the expected multiplier is recomputed
// from the server-assigned start time.
type SettlementService struct {
	ledger    repo.Ledger
	audit     repo.AuditLogs
	oracle    game.Oracle
	notifier  Notifier
	wp        *worker.Pool
	tolerance float64
	maxMult   float64
}

func NewSettlementService(l repo.Ledger, a repo.AuditLogs, o game.Oracle, n Notifier, wp *worker.Pool, tolerance, maxMultiplier float64) *SettlementService {
	return &SettlementService{
		ledger:    l,
		audit:     a,
		oracle:    o,
		notifier:  n,
		wp:        wp,
		tolerance: tolerance,
		maxMult:   maxMultiplier,
	}
}

type CashOutResult struct {
	Wager      models.Wager
	Winnings   int64
	NewBalance int64
}

// PlaceWager debits the stake and creates an ACTIVE wager in one atomic
// unit. The returned balance is the post-debit value from that unit.
func (s *SettlementService) PlaceWager(ctx context.Context, userID int64, bet int64) (models.Wager, int64, error) {
	if bet <= 0 {
		return models.Wager{}, 0, ErrInvalidAmount
	}
	w, balance, err := s.ledger.PlaceWager(ctx, userID, bet, time.Now())
	if errors.Is(err, repo.ErrInsufficientFunds) {
		return models.Wager{}, 0, ErrInsufficientFunds
	}
	if err != nil {
		return models.Wager{}, 0, err
	}
	metrics.WagersPlaced.Inc()
	s.auditAsync(w.ID, "placed", map[string]any{"bet_amount": bet})
	return w, balance, nil
}

// CashOut settles a win. The claimed multiplier is only a bounded hint:
// it is checked against the multiplier the server's own clock justifies,
// and a claim beyond tolerance voids the wager as FRAUD instead.
func (s *SettlementService) CashOut(ctx context.Context, userID int64, wagerID string, claimed float64, now time.Time) (CashOutResult, error) {
	if err := validWagerID(wagerID); err != nil {
		return CashOutResult{}, err
	}
	if math.IsNaN(claimed) || math.IsInf(claimed, 0) || claimed < 1 {
		return CashOutResult{}, ErrInvalidMultiplier
	}
	if claimed > s.maxMult {
		claimed = s.maxMult
	}

	w, err := s.ledger.GetWager(ctx, wagerID)
	if errors.Is(err, repo.ErrNotFound) {
		return CashOutResult{}, ErrInvalidWager
	}
	if err != nil {
		return CashOutResult{}, err
	}
	if w.UserID != userID || w.Status != models.WagerActive {
		return CashOutResult{}, ErrInvalidWager
	}

	elapsed := now.Sub(w.StartTime).Seconds()
	expected := s.oracle.Expected(elapsed)
	if claimed > expected*(1+s.tolerance) {
		return CashOutResult{}, s.voidFraud(ctx, userID, w, claimed, elapsed, expected)
	}

	winnings := int64(math.Round(float64(w.BetAmount) * claimed))
	w, balance, err := s.ledger.SettleWin(ctx, userID, wagerID, claimed, winnings)
	if errors.Is(err, repo.ErrWagerNotActive) {
		// Lost the race against a concurrent settlement of the same wager.
		return CashOutResult{}, ErrInvalidWager
	}
	if err != nil {
		return CashOutResult{}, err
	}

	metrics.Settlements.WithLabelValues("paid").Inc()
	s.auditAsync(w.ID, "paid", map[string]any{"multiplier": claimed, "winnings": winnings})
	s.notifyAsync(notify.Settlement{
		WagerID:         w.ID,
		UserID:          userID,
		Outcome:         notify.OutcomePaid,
		BetAmount:       w.BetAmount,
		Winnings:        winnings,
		FinalMultiplier: claimed,
	})
	return CashOutResult{Wager: w, Winnings: winnings, NewBalance: balance}, nil
}

// voidFraud records the exactly-once ACTIVE -> FRAUD transition. If the
// transition loses a race the wager is no longer ACTIVE and the caller
// gets the undifferentiated ErrInvalidWager.
func (s *SettlementService) voidFraud(ctx context.Context, userID int64, w models.Wager, claimed, elapsed, expected float64) error {
	fw, err := s.ledger.VoidFraud(ctx, userID, w.ID, claimed)
	if errors.Is(err, repo.ErrWagerNotActive) {
		return ErrInvalidWager
	}
	if err != nil {
		return err
	}
	metrics.Settlements.WithLabelValues("fraud").Inc()
	slog.Warn("fraudulent cashout voided",
		"wager_id", fw.ID,
		"user_id", userID,
		"claimed", claimed,
		"expected", expected,
		"elapsed_s", elapsed,
	)
	s.auditAsync(fw.ID, "fraud", map[string]any{
		"claimed":   claimed,
		"expected":  expected,
		"elapsed_s": elapsed,
	})
	return ErrFraudDetected
}

// Crash settles a loss. The stake was debited at placement; nothing is
// credited back.
func (s *SettlementService) Crash(ctx context.Context, userID int64, wagerID string) (models.Wager, error) {
	if err := validWagerID(wagerID); err != nil {
		return models.Wager{}, err
	}
	w, err := s.ledger.SettleLoss(ctx, userID, wagerID)
	if errors.Is(err, repo.ErrWagerNotActive) {
		return models.Wager{}, ErrInvalidWager
	}
	if err != nil {
		return models.Wager{}, err
	}
	metrics.Settlements.WithLabelValues("lost").Inc()
	s.auditAsync(w.ID, "lost", nil)
	s.notifyAsync(notify.Settlement{
		WagerID:   w.ID,
		UserID:    userID,
		Outcome:   notify.OutcomeLost,
		BetAmount: w.BetAmount,
	})
	return w, nil
}

func (s *SettlementService) ListWagers(ctx context.Context, userID int64, limit, offset int) ([]models.Wager, error) {
	return s.ledger.ListByUser(ctx, userID, limit, offset)
}

func validWagerID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidWager
	}
	return nil
}

func (s *SettlementService) auditAsync(wagerID, action string, details map[string]any) {
	s.wp.Submit(func() {
		id := wagerID
		err := s.audit.Create(context.Background(), models.AuditLog{
			EntityType: "wager",
			EntityID:   &id,
			Action:     action,
			Details:    details,
		})
		if err != nil {
			slog.Warn("audit write failed", "wager_id", wagerID, "action", action, "err", err)
		}
	})
}

func (s *SettlementService) notifyAsync(ev notify.Settlement) {
	s.wp.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.Publish(ctx, ev); err != nil {
			metrics.NotifyFailed.Inc()
			slog.Warn("settlement notification failed", "wager_id", ev.WagerID, "outcome", ev.Outcome, "err", err)
		}
	})
}
