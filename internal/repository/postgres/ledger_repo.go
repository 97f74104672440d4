package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mesobgames/crash-backend/internal/models"
	repo "github.com/mesobgames/crash-backend/internal/repository"
)

type ledgerRepo struct{ pool *pgxpool.Pool }

const wagerCols = `id, user_id, bet_amount, status, final_multiplier, start_time, created_at, settled_at`

func scanWager(row pgx.Row) (models.Wager, error) {
	var w models.Wager
	err := row.Scan(&w.ID, &w.UserID, &w.BetAmount, &w.Status, &w.FinalMultiplier, &w.StartTime, &w.CreatedAt, &w.SettledAt)
	return w, err
}

// withTx runs fn inside a single transaction at the default READ
// COMMITTED level. The conditional UPDATEs are the atomic primitive
// here: a statement blocked on a row lock re-evaluates its WHERE clause
// after the peer commits, so the loser of a race sees zero rows and
// gets the mapped sentinel. Stricter isolation would instead abort the
// loser with a serialization failure and turn it into a spurious 500.
func (r *ledgerRepo) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (r *ledgerRepo) PlaceWager(ctx context.Context, userID int64, bet int64, startTime time.Time) (models.Wager, int64, error) {
	var (
		w       models.Wager
		balance int64
	)
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		// Conditional debit: the balance guard is part of the UPDATE itself,
		// not a prior read, so a concurrent debit cannot slip between.
		err := tx.QueryRow(ctx,
			`UPDATE accounts
			    SET balance = balance - $2,
			        updated_at = now()
			  WHERE user_id = $1 AND balance >= $2
			  RETURNING balance`,
			userID, bet,
		).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrInsufficientFunds
		}
		if err != nil {
			return err
		}

		w, err = scanWager(tx.QueryRow(ctx,
			`INSERT INTO wagers (id, user_id, bet_amount, status, start_time)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING `+wagerCols,
			uuid.NewString(), userID, bet, models.WagerActive, startTime,
		))
		return err
	})
	if err != nil {
		return models.Wager{}, 0, err
	}
	return w, balance, nil
}

func (r *ledgerRepo) SettleWin(ctx context.Context, userID int64, wagerID string, multiplier float64, winnings int64) (models.Wager, int64, error) {
	var (
		w       models.Wager
		balance int64
	)
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		w, err = scanWager(tx.QueryRow(ctx,
			`UPDATE wagers
			    SET status = $3,
			        final_multiplier = $4,
			        settled_at = now()
			  WHERE id = $1 AND user_id = $2 AND status = $5
			  RETURNING `+wagerCols,
			wagerID, userID, models.WagerPaid, multiplier, models.WagerActive,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrWagerNotActive
		}
		if err != nil {
			return err
		}

		return tx.QueryRow(ctx,
			`UPDATE accounts
			    SET balance = balance + $2,
			        updated_at = now()
			  WHERE user_id = $1
			  RETURNING balance`,
			userID, winnings,
		).Scan(&balance)
	})
	if err != nil {
		return models.Wager{}, 0, err
	}
	return w, balance, nil
}

func (r *ledgerRepo) SettleLoss(ctx context.Context, userID int64, wagerID string) (models.Wager, error) {
	w, err := scanWager(r.pool.QueryRow(ctx,
		`UPDATE wagers
		    SET status = $3,
		        settled_at = now()
		  WHERE id = $1 AND user_id = $2 AND status = $4
		  RETURNING `+wagerCols,
		wagerID, userID, models.WagerLost, models.WagerActive,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Wager{}, repo.ErrWagerNotActive
	}
	return w, err
}

func (r *ledgerRepo) VoidFraud(ctx context.Context, userID int64, wagerID string, claimed float64) (models.Wager, error) {
	w, err := scanWager(r.pool.QueryRow(ctx,
		`UPDATE wagers
		    SET status = $3,
		        final_multiplier = $4,
		        settled_at = now()
		  WHERE id = $1 AND user_id = $2 AND status = $5
		  RETURNING `+wagerCols,
		wagerID, userID, models.WagerFraud, claimed, models.WagerActive,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Wager{}, repo.ErrWagerNotActive
	}
	return w, err
}

func (r *ledgerRepo) GetWager(ctx context.Context, wagerID string) (models.Wager, error) {
	w, err := scanWager(r.pool.QueryRow(ctx,
		`SELECT `+wagerCols+` FROM wagers WHERE id=$1`, wagerID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Wager{}, repo.ErrNotFound
	}
	return w, err
}

func (r *ledgerRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Wager, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+wagerCols+`
		   FROM wagers
		  WHERE user_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
