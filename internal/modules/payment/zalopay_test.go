package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signWith(key string, parts ...string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestAppTransIDRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC)

	// 20:00 UTC is already September 1st in GMT+7.
	id := AppTransID(42, now)
	assert.Equal(t, "260901_42", id)

	bookingID, err := BookingIDFromAppTransID(id)
	require.NoError(t, err)
	assert.EqualValues(t, 42, bookingID)

	_, err = BookingIDFromAppTransID("junk")
	assert.Error(t, err)
}

func TestCreateOrderSignsWithKey1(t *testing.T) {
	var captured map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		captured = map[string]string{}
		for k := range r.PostForm {
			captured[k] = r.PostForm.Get(k)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"return_code":    1,
			"return_message": "success",
			"order_url":      "https://pay.example/order",
			"zp_trans_token": "tok",
		})
	}))
	defer server.Close()

	client := NewZaloPayClient("2553", "key1secret", "key2secret", server.URL, "https://api.example/callback")

	result, err := client.CreateOrder(context.Background(), 7, 1_500_000, "test order")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/order", result.OrderURL)

	expected := signWith("key1secret",
		captured["app_id"], captured["app_trans_id"], captured["app_user"],
		captured["amount"], captured["app_time"], captured["embed_data"], captured["item"])
	assert.Equal(t, expected, captured["mac"])
	assert.Equal(t, "1500000", captured["amount"])
	assert.Equal(t, "https://api.example/callback", captured["callback_url"])
}

func TestCreateOrderGatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"return_code": -2, "return_message": "invalid mac"})
	}))
	defer server.Close()

	client := NewZaloPayClient("2553", "k1", "k2", server.URL, "")
	_, err := client.CreateOrder(context.Background(), 7, 100, "x")
	assert.ErrorContains(t, err, "invalid mac")
}

func TestVerifyCallback(t *testing.T) {
	client := NewZaloPayClient("2553", "k1", "key2secret", "https://unused", "")

	data := `{"app_trans_id":"260901_7","zp_trans_id":240901000001,"amount":1500000,"app_user":"resortbooking"}`
	mac := signWith("key2secret", data)

	payload, err := client.VerifyCallback(data, mac)
	require.NoError(t, err)
	assert.Equal(t, "260901_7", payload.AppTransID)
	assert.EqualValues(t, 240901000001, payload.ZpTransID)
	assert.EqualValues(t, 1_500_000, payload.Amount)

	_, err = client.VerifyCallback(data, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidCallback)
}

func TestGatewayDisabledWithoutCredentials(t *testing.T) {
	client := NewZaloPayClient("", "", "", "https://unused", "")
	assert.False(t, client.Enabled())

	_, err := client.CreateOrder(context.Background(), 1, 100, "x")
	assert.ErrorIs(t, err, ErrGatewayDisabled)
	_, err = client.QueryOrder(context.Background(), "260901_1")
	assert.ErrorIs(t, err, ErrGatewayDisabled)
}
