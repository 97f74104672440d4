package notify

// Settlement is the event published after a wager reaches a terminal
// state. A downstream consumer (the Telegram bot) turns it into a
// player-facing message; this service never waits for that.
type Settlement struct {
	WagerID         string  `json:"wager_id"`
	UserID          int64   `json:"user_id"`
	Outcome         string  `json:"outcome"` // paid | lost
	BetAmount       int64   `json:"bet_amount"`
	Winnings        int64   `json:"winnings,omitempty"`
	FinalMultiplier float64 `json:"final_multiplier,omitempty"`
	TsUnixMs        int64   `json:"ts_unix_ms"`
}

const (
	OutcomePaid = "paid"
	OutcomeLost = "lost"
)
