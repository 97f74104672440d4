// Package memory implements the ledger contract with an in-process map.
// Mutating operations hold one mutex for their whole read-check-write,
// giving the same atomic conditional semantics as the SQL implementation.
// Used by tests and as an executable description of the contract.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mesobgames/crash-backend/internal/models"
	repo "github.com/mesobgames/crash-backend/internal/repository"
)

type Store struct {
	mu       sync.Mutex
	accounts map[int64]*models.Account
	wagers   map[string]*models.Wager
	audit    []models.AuditLog
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[int64]*models.Account),
		wagers:   make(map[string]*models.Wager),
	}
}

func (s *Store) GetOrCreate(_ context.Context, userID int64, seed int64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok {
		now := time.Now()
		a = &models.Account{UserID: userID, Balance: seed, CreatedAt: now, UpdatedAt: now}
		s.accounts[userID] = a
	}
	return *a, nil
}

func (s *Store) Get(_ context.Context, userID int64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok {
		return models.Account{}, repo.ErrNotFound
	}
	return *a, nil
}

func (s *Store) PlaceWager(_ context.Context, userID int64, bet int64, startTime time.Time) (models.Wager, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok || a.Balance < bet {
		return models.Wager{}, 0, repo.ErrInsufficientFunds
	}
	a.Balance -= bet
	a.UpdatedAt = time.Now()
	w := &models.Wager{
		ID:        uuid.NewString(),
		UserID:    userID,
		BetAmount: bet,
		Status:    models.WagerActive,
		StartTime: startTime,
		CreatedAt: time.Now(),
	}
	s.wagers[w.ID] = w
	return *w, a.Balance, nil
}

func (s *Store) SettleWin(_ context.Context, userID int64, wagerID string, multiplier float64, winnings int64) (models.Wager, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.activeLocked(userID, wagerID)
	if err != nil {
		return models.Wager{}, 0, err
	}
	now := time.Now()
	w.Status = models.WagerPaid
	w.FinalMultiplier = &multiplier
	w.SettledAt = &now
	a := s.accounts[userID]
	a.Balance += winnings
	a.UpdatedAt = now
	return *w, a.Balance, nil
}

func (s *Store) SettleLoss(_ context.Context, userID int64, wagerID string) (models.Wager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.activeLocked(userID, wagerID)
	if err != nil {
		return models.Wager{}, err
	}
	now := time.Now()
	w.Status = models.WagerLost
	w.SettledAt = &now
	return *w, nil
}

func (s *Store) VoidFraud(_ context.Context, userID int64, wagerID string, claimed float64) (models.Wager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.activeLocked(userID, wagerID)
	if err != nil {
		return models.Wager{}, err
	}
	now := time.Now()
	w.Status = models.WagerFraud
	w.FinalMultiplier = &claimed
	w.SettledAt = &now
	return *w, nil
}

// activeLocked enforces the exists/owner/ACTIVE precondition under s.mu.
func (s *Store) activeLocked(userID int64, wagerID string) (*models.Wager, error) {
	w, ok := s.wagers[wagerID]
	if !ok || w.UserID != userID || w.Status != models.WagerActive {
		return nil, repo.ErrWagerNotActive
	}
	return w, nil
}

func (s *Store) GetWager(_ context.Context, wagerID string) (models.Wager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wagers[wagerID]
	if !ok {
		return models.Wager{}, repo.ErrNotFound
	}
	return *w, nil
}

func (s *Store) ListByUser(_ context.Context, userID int64, limit, offset int) ([]models.Wager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Wager
	for _, w := range s.wagers {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, l models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.CreatedAt = time.Now()
	s.audit = append(s.audit, l)
	return nil
}

// AuditEntries returns a copy of the recorded audit trail.
func (s *Store) AuditEntries() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog(nil), s.audit...)
}
