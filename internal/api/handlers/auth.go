package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mesobgames/crash-backend/internal/api/httpx"
	"github.com/mesobgames/crash-backend/internal/auth"
	"github.com/mesobgames/crash-backend/internal/services"
)

type AuthHandler struct {
	TM             *auth.TokenManager
	Accounts       *services.AccountService
	BotToken       string
	InitDataMaxAge time.Duration
}

func NewAuthHandler(tm *auth.TokenManager, accounts *services.AccountService, botToken string, initDataMaxAge time.Duration) *AuthHandler {
	return &AuthHandler{TM: tm, Accounts: accounts, BotToken: botToken, InitDataMaxAge: initDataMaxAge}
}

type authReq struct {
	InitData string `json:"init_data"`
}

type authResp struct {
	Token   string `json:"token"`
	Balance int64  `json:"balance"`
}

// Auth exchanges Telegram initData for a session token. The user id is
// taken from the verified credential, never from the request body.
func (h *AuthHandler) Auth(w http.ResponseWriter, r *http.Request) {
	var req authReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InitData == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid telegram data", nil)
		return
	}

	user, err := auth.VerifyInitData(h.BotToken, req.InitData, time.Now(), h.InitDataMaxAge)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid telegram data", nil)
		return
	}

	acct, err := h.Accounts.GetOrCreate(r.Context(), user.ID)
	if err != nil {
		slog.Error("account lookup failed", "user_id", user.ID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
		return
	}

	token, _, err := h.TM.Generate(user.ID)
	if err != nil {
		slog.Error("token generation failed", "user_id", user.ID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authResp{Token: token, Balance: acct.Balance})
}
