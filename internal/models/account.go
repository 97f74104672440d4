package models

import "time"

// Account holds a player's balance in minor units (cents).
// Accounts are created lazily on first authenticated contact and only
// mutated through the ledger's atomic conditional operations.
type Account struct {
	UserID    int64     `json:"user_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
