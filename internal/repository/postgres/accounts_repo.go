package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mesobgames/crash-backend/internal/models"
	repo "github.com/mesobgames/crash-backend/internal/repository"
)

type accountsRepo struct{ pool *pgxpool.Pool }

func (r *accountsRepo) GetOrCreate(ctx context.Context, userID int64, seed int64) (models.Account, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts(user_id, balance)
		 VALUES($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, seed,
	)
	if err != nil {
		return models.Account{}, err
	}
	return r.Get(ctx, userID)
}

func (r *accountsRepo) Get(ctx context.Context, userID int64) (models.Account, error) {
	var a models.Account
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, balance, created_at, updated_at
		   FROM accounts
		  WHERE user_id=$1`,
		userID,
	).Scan(&a.UserID, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repo.ErrNotFound
	}
	return a, err
}
