package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusSuccessful))
	assert.True(t, StatusPending.CanTransitionTo(StatusFailed))

	assert.False(t, StatusSuccessful.CanTransitionTo(StatusFailed))
	assert.False(t, StatusSuccessful.CanTransitionTo(StatusSuccessful))
	assert.False(t, StatusFailed.CanTransitionTo(StatusSuccessful))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("Successful")
	assert.True(t, ok)
	assert.Equal(t, StatusSuccessful, status)

	_, ok = ParseStatus("successful")
	assert.False(t, ok)

	_, ok = ParseStatus("Refunded")
	assert.False(t, ok)
}

func TestSanitizeAmount(t *testing.T) {
	assert.Equal(t, 1200.5, SanitizeAmount("$1,200.50"))
	assert.Equal(t, 150.0, SanitizeAmount("150"))
	assert.Equal(t, 99.99, SanitizeAmount("USD 99.99"))
	assert.Equal(t, 0.0, SanitizeAmount("not a number"))
	assert.Equal(t, 0.0, SanitizeAmount(""))
}

func TestMoneyUnmarshal(t *testing.T) {
	var p Payment

	err := json.Unmarshal([]byte(`{"amount": "$1,000.25"}`), &p)
	assert.NoError(t, err)
	assert.Equal(t, Money(1000.25), p.Amount)

	err = json.Unmarshal([]byte(`{"amount": 500}`), &p)
	assert.NoError(t, err)
	assert.Equal(t, Money(500), p.Amount)

	err = json.Unmarshal([]byte(`{"amount": "garbage"}`), &p)
	assert.NoError(t, err)
	assert.Equal(t, Money(0), p.Amount)

	err = json.Unmarshal([]byte(`{"amount": null}`), &p)
	assert.NoError(t, err)
	assert.Equal(t, Money(0), p.Amount)
}

func TestTruncatedTransactionID(t *testing.T) {
	p := Payment{TransactionID: "pi_3MtwBwLkdIwHu7ix28a3tqPa"}
	assert.Equal(t, "3tqPa", p.TruncatedTransactionID())

	short := Payment{TransactionID: "abc"}
	assert.Equal(t, "abc", short.TruncatedTransactionID())
}
