package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mesobgames/crash-backend/internal/api/httpx"
	"github.com/mesobgames/crash-backend/internal/api/validate"
	"github.com/mesobgames/crash-backend/internal/middleware"
	"github.com/mesobgames/crash-backend/internal/services"
)

// maxWagerPage caps the history page size a caller can request.
const maxWagerPage = 200

type GameHandler struct {
	Settlement *services.SettlementService
	Accounts   *services.AccountService
}

func NewGameHandler(settlement *services.SettlementService, accounts *services.AccountService) *GameHandler {
	return &GameHandler{Settlement: settlement, Accounts: accounts}
}

type placeReq struct {
	BetAmount int64 `json:"bet_amount"`
}

type placeResp struct {
	WagerID    string `json:"wager_id"`
	NewBalance int64  `json:"new_balance"`
}

func (h *GameHandler) PlaceWager(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	var req placeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_amount", "invalid bet amount", nil)
		return
	}
	if ef := validate.PositiveAmount("bet_amount", req.BetAmount); ef != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_amount", "invalid bet amount", validate.Errs{*ef})
		return
	}

	wager, balance, err := h.Settlement.PlaceWager(r.Context(), userID, req.BetAmount)
	if err != nil {
		writeSettlementErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, placeResp{WagerID: wager.ID, NewBalance: balance})
}

type cashOutReq struct {
	WagerID           string  `json:"wager_id"`
	ClaimedMultiplier float64 `json:"claimed_multiplier"`
}

type cashOutResp struct {
	Winnings        int64   `json:"winnings"`
	FinalMultiplier float64 `json:"final_multiplier"`
	NewBalance      int64   `json:"new_balance"`
}

func (h *GameHandler) CashOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	var req cashOutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_wager", "invalid wager", nil)
		return
	}
	if ef := validate.Required("wager_id", req.WagerID); ef != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_wager", "invalid wager", validate.Errs{*ef})
		return
	}

	res, err := h.Settlement.CashOut(r.Context(), userID, req.WagerID, req.ClaimedMultiplier, time.Now())
	if err != nil {
		writeSettlementErr(w, err)
		return
	}
	var final float64
	if res.Wager.FinalMultiplier != nil {
		final = *res.Wager.FinalMultiplier
	}
	httpx.WriteJSON(w, http.StatusOK, cashOutResp{
		Winnings:        res.Winnings,
		FinalMultiplier: final,
		NewBalance:      res.NewBalance,
	})
}

type crashReq struct {
	WagerID string `json:"wager_id"`
}

func (h *GameHandler) Crash(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	var req crashReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_wager", "invalid wager", nil)
		return
	}
	if ef := validate.Required("wager_id", req.WagerID); ef != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_wager", "invalid wager", validate.Errs{*ef})
		return
	}

	if _, err := h.Settlement.Crash(r.Context(), userID, req.WagerID); err != nil {
		writeSettlementErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *GameHandler) ListWagers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	limit, offset := 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > maxWagerPage {
				n = maxWagerPage
			}
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	wagers, err := h.Settlement.ListWagers(r.Context(), userID, limit, offset)
	if err != nil {
		writeSettlementErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, wagers)
}

func (h *GameHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
		return
	}
	acct, err := h.Accounts.GetOrCreate(r.Context(), userID)
	if err != nil {
		writeSettlementErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"balance": acct.Balance})
}

// writeSettlementErr maps the engine's error taxonomy onto HTTP. Anything
// outside the taxonomy is a store failure: 500, no detail leaked.
func writeSettlementErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_amount", "invalid bet amount", nil)
	case errors.Is(err, services.ErrInvalidMultiplier):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_multiplier", "invalid multiplier", nil)
	case errors.Is(err, services.ErrInsufficientFunds):
		httpx.WriteError(w, http.StatusBadRequest, "insufficient_funds", "insufficient funds", nil)
	case errors.Is(err, services.ErrInvalidWager):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_wager", "invalid or expired wager", nil)
	case errors.Is(err, services.ErrFraudDetected):
		httpx.WriteError(w, http.StatusForbidden, "fraud_detected", "fraud detected, wager voided", nil)
	default:
		slog.Error("settlement failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
