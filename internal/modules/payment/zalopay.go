package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ZaloPayClient talks to the ZaloPay v2 gateway. Orders are signed
// with key1, callbacks are verified with key2, both HMAC-SHA256 over
// pipe-joined fields as the gateway requires.
type ZaloPayClient struct {
	appID       string
	key1        string
	key2        string
	endpoint    string
	callbackURL string
	httpClient  *http.Client
}

func NewZaloPayClient(appID, key1, key2, endpoint, callbackURL string) *ZaloPayClient {
	return &ZaloPayClient{
		appID:       appID,
		key1:        key1,
		key2:        key2,
		endpoint:    strings.TrimRight(endpoint, "/"),
		callbackURL: callbackURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether gateway credentials are configured. Without
// them only direct payments work.
func (z *ZaloPayClient) Enabled() bool {
	return z.appID != "" && z.key1 != "" && z.key2 != ""
}

type CreateOrderResult struct {
	AppTransID   string `json:"app_trans_id"`
	OrderURL     string `json:"order_url"`
	ZpTransToken string `json:"zp_trans_token"`
}

type gatewayResponse struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
	OrderURL      string `json:"order_url"`
	ZpTransToken  string `json:"zp_trans_token"`
}

// AppTransID builds the gateway order id for a booking. The format is
// fixed by the gateway: a yymmdd prefix in GMT+7 followed by a
// merchant suffix, here the booking id.
func AppTransID(bookingID int64, now time.Time) string {
	gmt7 := now.In(time.FixedZone("ICT", 7*3600))
	return fmt.Sprintf("%s_%d", gmt7.Format("060102"), bookingID)
}

// BookingIDFromAppTransID recovers the booking id embedded in an order
// id.
func BookingIDFromAppTransID(appTransID string) (int64, error) {
	_, suffix, found := strings.Cut(appTransID, "_")
	if !found {
		return 0, fmt.Errorf("malformed app_trans_id %q", appTransID)
	}
	return strconv.ParseInt(suffix, 10, 64)
}

func (z *ZaloPayClient) sign(key string, parts ...string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreateOrder registers a payment order for a booking and returns the
// url the customer pays at.
func (z *ZaloPayClient) CreateOrder(ctx context.Context, bookingID, amount int64, description string) (*CreateOrderResult, error) {
	if !z.Enabled() {
		return nil, ErrGatewayDisabled
	}

	now := time.Now()
	appTransID := AppTransID(bookingID, now)
	appTime := strconv.FormatInt(now.UnixMilli(), 10)
	appUser := "resortbooking"
	amountStr := strconv.FormatInt(amount, 10)
	embedData := "{}"
	item := "[]"

	form := url.Values{}
	form.Set("app_id", z.appID)
	form.Set("app_trans_id", appTransID)
	form.Set("app_user", appUser)
	form.Set("app_time", appTime)
	form.Set("amount", amountStr)
	form.Set("embed_data", embedData)
	form.Set("item", item)
	form.Set("description", description)
	form.Set("bank_code", "")
	form.Set("callback_url", z.callbackURL)
	form.Set("mac", z.sign(z.key1, z.appID, appTransID, appUser, amountStr, appTime, embedData, item))

	resp, err := z.postForm(ctx, z.endpoint+"/create", form)
	if err != nil {
		return nil, err
	}
	if resp.ReturnCode != 1 {
		return nil, fmt.Errorf("zalopay create failed: %d %s", resp.ReturnCode, resp.ReturnMessage)
	}
	return &CreateOrderResult{
		AppTransID:   appTransID,
		OrderURL:     resp.OrderURL,
		ZpTransToken: resp.ZpTransToken,
	}, nil
}

// CallbackData is the payload the gateway posts after the customer
// pays.
type CallbackData struct {
	AppTransID string `json:"app_trans_id"`
	ZpTransID  int64  `json:"zp_trans_id"`
	Amount     int64  `json:"amount"`
	AppUser    string `json:"app_user"`
}

// VerifyCallback checks the callback signature against key2 and
// decodes the payload. A signature mismatch means the request did not
// come from the gateway.
func (z *ZaloPayClient) VerifyCallback(data, mac string) (*CallbackData, error) {
	expected := z.sign(z.key2, data)
	if !hmac.Equal([]byte(expected), []byte(mac)) {
		return nil, ErrInvalidCallback
	}

	var payload CallbackData
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("decoding callback data: %w", err)
	}
	return &payload, nil
}

type QueryResult struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
	IsProcessing  bool   `json:"is_processing"`
	Amount        int64  `json:"amount"`
	ZpTransID     int64  `json:"zp_trans_id"`
}

// QueryOrder asks the gateway for an order's status, used when a
// callback was missed.
func (z *ZaloPayClient) QueryOrder(ctx context.Context, appTransID string) (*QueryResult, error) {
	if !z.Enabled() {
		return nil, ErrGatewayDisabled
	}

	form := url.Values{}
	form.Set("app_id", z.appID)
	form.Set("app_trans_id", appTransID)
	form.Set("mac", z.sign(z.key1, z.appID, appTransID, z.key1))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.endpoint+"/query", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := z.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var out QueryResult
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding query response: %w", err)
	}
	return &out, nil
}

func (z *ZaloPayClient) postForm(ctx context.Context, endpoint string, form url.Values) (*gatewayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := z.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var out gatewayResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding gateway response: %w", err)
	}
	return &out, nil
}
