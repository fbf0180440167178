package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"guardianearth/internal/config"
	dto "guardianearth/internal/entity"
)

// ChargeResult is the gateway's synchronous outcome. A declined card is a
// valid result, not an error.
type ChargeResult struct {
	ChargeID  string
	Succeeded bool
}

type Gateway interface {
	Charge(ctx context.Context, amount float64, currency, paymentMethod string) (ChargeResult, error)
}

type Client struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
}

func New(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		secretKey:  cfg.Stripe.SecretKey,
		baseURL:    "https://api.stripe.com",
	}
}

// Charge creates and confirms a payment intent in one call. Stripe wants the
// amount in the smallest currency unit.
func (c *Client) Charge(ctx context.Context, amount float64, currency, paymentMethod string) (ChargeResult, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_intents", c.baseURL)

	data := url.Values{}
	data.Set("amount", strconv.FormatInt(int64(math.Round(amount*100)), 10))
	data.Set("currency", strings.ToLower(currency))
	data.Set("payment_method", paymentMethod)
	data.Set("confirm", "true")
	data.Set("automatic_payment_methods[enabled]", "true")
	data.Set("automatic_payment_methods[allow_redirects]", "never")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return ChargeResult{}, fmt.Errorf("could not build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("%w: %v", dto.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("%w: error reading response: %v", dto.ErrGatewayUnavailable, err)
	}

	var parsed struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Error  struct {
			Code          string `json:"code"`
			Message       string `json:"message"`
			PaymentIntent struct {
				ID string `json:"id"`
			} `json:"payment_intent"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ChargeResult{}, fmt.Errorf("invalid JSON structure: %w", err)
	}

	// 402 carries a decline, anything else non-2xx is the gateway misbehaving.
	if resp.StatusCode == http.StatusPaymentRequired {
		return ChargeResult{ChargeID: parsed.Error.PaymentIntent.ID, Succeeded: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return ChargeResult{}, fmt.Errorf("%w: unexpected status %s: %s", dto.ErrGatewayUnavailable, resp.Status, string(raw))
	}

	return ChargeResult{ChargeID: parsed.ID, Succeeded: parsed.Status == "succeeded"}, nil
}
