package models

import "time"

type WagerStatus string

const (
	WagerActive WagerStatus = "ACTIVE"
	WagerPaid   WagerStatus = "PAID"
	WagerLost   WagerStatus = "LOST"
	WagerFraud  WagerStatus = "FRAUD"
)

// Terminal reports whether no further transition may leave this status.
func (s WagerStatus) Terminal() bool { return s != WagerActive }

// Wager is one stake on a single round. StartTime is assigned by the
// server at creation and is the only clock used for multiplier checks.
// A settled wager is an immutable audit record.
type Wager struct {
	ID              string      `json:"id"`
	UserID          int64       `json:"user_id"`
	BetAmount       int64       `json:"bet_amount"`
	Status          WagerStatus `json:"status"`
	FinalMultiplier *float64    `json:"final_multiplier,omitempty"`
	StartTime       time.Time   `json:"start_time"`
	CreatedAt       time.Time   `json:"created_at"`
	SettledAt       *time.Time  `json:"settled_at,omitempty"`
}
