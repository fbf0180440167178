package dto

import (
	"strconv"
	"strings"
	"time"
)

type PaymentStatus string

const (
	StatusPending    PaymentStatus = "Pending"
	StatusSuccessful PaymentStatus = "Successful"
	StatusFailed     PaymentStatus = "Failed"
)

// IsTerminal reports whether no further status change is permitted.
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusSuccessful || s == StatusFailed
}

// CanTransitionTo allows only Pending -> Successful|Failed.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	return s == StatusPending && target.IsTerminal()
}

func ParseStatus(raw string) (PaymentStatus, bool) {
	switch PaymentStatus(raw) {
	case StatusPending, StatusSuccessful, StatusFailed:
		return PaymentStatus(raw), true
	}
	return "", false
}

type PaymentChannel string

const (
	ChannelCard         PaymentChannel = "card"
	ChannelBankTransfer PaymentChannel = "bank_transfer"
)

// Money is a donation amount in major currency units. The legacy dashboard
// dataset stored amounts as display strings ("$1,200.50"), so unmarshalling
// strips everything that is not part of a number and treats garbage as zero.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = 0
		return nil
	}
	*m = Money(SanitizeAmount(s))
	return nil
}

// SanitizeAmount strips currency symbols, commas and other decoration from a
// raw amount string. Unparseable input yields 0 rather than an error.
func SanitizeAmount(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

type Payment struct {
	ID            string         `json:"id" db:"id"`
	DonorID       string         `json:"donor_id,omitempty" db:"donor_id"`
	DonorName     string         `json:"donor_name,omitempty" db:"donor_name"`
	Channel       PaymentChannel `json:"channel" db:"channel"`
	Amount        Money          `json:"amount" db:"amount"`
	Currency      string         `json:"currency" db:"currency"`
	Status        PaymentStatus  `json:"status" db:"status"`
	TransactionID string         `json:"transaction_id" db:"transaction_id"`
	Evidence      string         `json:"evidence,omitempty" db:"evidence"`
	BankName      string         `json:"bank_name,omitempty" db:"bank_name"`
	Branch        string         `json:"branch,omitempty" db:"branch"`
	GatewayCharge string         `json:"gateway_charge,omitempty" db:"gateway_charge"`
	DisasterID    string         `json:"disaster_id,omitempty" db:"disaster_id"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// TruncatedTransactionID is what donors and the admin grid see: the full
// reference never leaves the backend, only its last 5 characters.
func (p *Payment) TruncatedTransactionID() string {
	const visible = 5
	if len(p.TransactionID) <= visible {
		return p.TransactionID
	}
	return p.TransactionID[len(p.TransactionID)-visible:]
}
