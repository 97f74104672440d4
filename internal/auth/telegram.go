package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidInitData = errors.New("invalid init data")

// TMAUser is the user object embedded in Telegram WebApp init data.
type TMAUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// VerifyInitData validates a Telegram Mini App initData blob and returns
// the user it vouches for. The caller never sees a user id that was not
// covered by the HMAC signature; any parse ambiguity fails closed.
//
// Verification follows Telegram's documented scheme: the data-check-string
// is every key=value pair except "hash", sorted, joined with newlines, and
// signed with HMAC-SHA256 under a secret derived from the bot token.
func VerifyInitData(botToken, initData string, now time.Time, maxAge time.Duration) (TMAUser, error) {
	if botToken == "" || initData == "" {
		return TMAUser{}, ErrInvalidInitData
	}
	values, err := url.ParseQuery(initData)
	if err != nil {
		return TMAUser{}, ErrInvalidInitData
	}
	gotHash := values.Get("hash")
	if gotHash == "" {
		return TMAUser{}, ErrInvalidInitData
	}

	pairs := make([]string, 0, len(values))
	for k, vs := range values {
		if k == "hash" {
			continue
		}
		pairs = append(pairs, k+"="+vs[0])
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	want := hex.EncodeToString(hmacSHA256(secret, []byte(checkString)))
	if !hmac.Equal([]byte(want), []byte(gotHash)) {
		return TMAUser{}, ErrInvalidInitData
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return TMAUser{}, ErrInvalidInitData
	}
	if maxAge > 0 && now.Sub(time.Unix(authDate, 0)) > maxAge {
		return TMAUser{}, ErrInvalidInitData
	}

	var user TMAUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return TMAUser{}, ErrInvalidInitData
	}
	return user, nil
}

func hmacSHA256(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}
