package auth

import (
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"
)

const testBotToken = "12345:test-bot-token"

// signInitData builds an initData blob the way Telegram does.
func signInitData(botToken string, params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	hash := hex.EncodeToString(hmacSHA256(secret, []byte(strings.Join(pairs, "\n"))))

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("hash", hash)
	return q.Encode()
}

func validParams(now time.Time) map[string]string {
	return map[string]string{
		"user":      `{"id":987654321,"first_name":"Abel","username":"abel"}`,
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"query_id":  "AAE1",
	}
}

func TestVerifyInitDataValid(t *testing.T) {
	now := time.Now()
	initData := signInitData(testBotToken, validParams(now))

	user, err := VerifyInitData(testBotToken, initData, now, time.Hour)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != 987654321 {
		t.Fatalf("user id = %d, want 987654321", user.ID)
	}
}

func TestVerifyInitDataTamperedUser(t *testing.T) {
	now := time.Now()
	initData := signInitData(testBotToken, validParams(now))
	tampered := strings.Replace(initData, "987654321", "111", 1)

	if _, err := VerifyInitData(testBotToken, tampered, now, time.Hour); err == nil {
		t.Fatal("tampered user id was accepted")
	}
}

func TestVerifyInitDataWrongBotToken(t *testing.T) {
	now := time.Now()
	initData := signInitData("999:other-token", validParams(now))

	if _, err := VerifyInitData(testBotToken, initData, now, time.Hour); err == nil {
		t.Fatal("init data signed with another bot token was accepted")
	}
}

func TestVerifyInitDataMissingHash(t *testing.T) {
	now := time.Now()
	q := url.Values{}
	for k, v := range validParams(now) {
		q.Set(k, v)
	}
	if _, err := VerifyInitData(testBotToken, q.Encode(), now, time.Hour); err == nil {
		t.Fatal("init data without hash was accepted")
	}
}

func TestVerifyInitDataStale(t *testing.T) {
	now := time.Now()
	params := validParams(now.Add(-48 * time.Hour))
	initData := signInitData(testBotToken, params)

	if _, err := VerifyInitData(testBotToken, initData, now, 24*time.Hour); err == nil {
		t.Fatal("stale init data was accepted")
	}
}

func TestVerifyInitDataBadUserJSON(t *testing.T) {
	now := time.Now()
	params := validParams(now)
	params["user"] = `{"id":"not-a-number"}`
	initData := signInitData(testBotToken, params)

	if _, err := VerifyInitData(testBotToken, initData, now, time.Hour); err == nil {
		t.Fatal("unparseable user payload was accepted")
	}
}

func TestVerifyInitDataEmpty(t *testing.T) {
	if _, err := VerifyInitData(testBotToken, "", time.Now(), time.Hour); err == nil {
		t.Fatal("empty init data was accepted")
	}
	if _, err := VerifyInitData("", "user=x", time.Now(), time.Hour); err == nil {
		t.Fatal("empty bot token was accepted")
	}
}
