package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"guardianearth/internal/config"
)

// BankDeposit is the payload the operations inbox receives when a donor
// submits a manual transfer claim.
type BankDeposit struct {
	PaymentID string  `json:"payment_id"`
	DonorName string  `json:"donor_name"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	BankName  string  `json:"bank_name"`
	Branch    string  `json:"branch"`
	Evidence  string  `json:"evidence"`
}

type Notifier interface {
	SendBankDeposit(ctx context.Context, deposit BankDeposit) error
}

type Client struct {
	httpClient *http.Client
	token      string
	recipient  string
	baseURL    string
}

func New(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		token:      cfg.Mailer.Token,
		recipient:  cfg.Mailer.Recipient,
		baseURL:    cfg.Mailer.URL,
	}
}

// SendBankDeposit posts the submission to the mail relay. Callers treat a
// failure here as non-fatal; the payment record is already durable.
func (c *Client) SendBankDeposit(ctx context.Context, deposit BankDeposit) error {
	endpoint := fmt.Sprintf("%s/api/email", c.baseURL)

	payload := struct {
		To      string      `json:"to"`
		Subject string      `json:"subject"`
		Body    BankDeposit `json:"body"`
	}{
		To:      c.recipient,
		Subject: fmt.Sprintf("Bank deposit claim %s", deposit.PaymentID),
		Body:    deposit,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail relay returned %s: %s", resp.Status, string(raw))
	}

	return nil
}
