package services

import (
	"context"

	"github.com/mesobgames/crash-backend/internal/models"
	repo "github.com/mesobgames/crash-backend/internal/repository"
)

// AccountService creates accounts lazily on first authenticated contact.
type AccountService struct {
	r    repo.Accounts
	seed int64
}

func NewAccountService(r repo.Accounts, seedBalance int64) *AccountService {
	return &AccountService{r: r, seed: seedBalance}
}

func (s *AccountService) GetOrCreate(ctx context.Context, userID int64) (models.Account, error) {
	return s.r.GetOrCreate(ctx, userID, s.seed)
}

func (s *AccountService) Get(ctx context.Context, userID int64) (models.Account, error) {
	return s.r.Get(ctx, userID)
}
