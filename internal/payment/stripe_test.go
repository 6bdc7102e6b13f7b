package payment

import (
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome Outcome
		message string
	}{
		{
			name:    "card decline carries the gateway message",
			err:     &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card has insufficient funds."},
			outcome: OutcomeDeclined,
			message: "Your card has insufficient funds.",
		},
		{
			name:    "rate limit by code",
			err:     &stripe.Error{Type: stripe.ErrorTypeAPI, Code: stripe.ErrorCodeRateLimit},
			outcome: OutcomeRateLimited,
		},
		{
			name:    "rate limit by status",
			err:     &stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: http.StatusTooManyRequests},
			outcome: OutcomeRateLimited,
		},
		{
			name:    "bad api key",
			err:     &stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: http.StatusUnauthorized},
			outcome: OutcomeAuthFailed,
		},
		{
			name:    "invalid request parameters",
			err:     &stripe.Error{Type: stripe.ErrorTypeInvalidRequest},
			outcome: OutcomeInvalidRequest,
		},
		{
			name:    "unrecognized stripe error",
			err:     &stripe.Error{Type: stripe.ErrorTypeAPI},
			outcome: OutcomeUnknown,
		},
		{
			name:    "transport failure never reached stripe",
			err:     errors.New("dial tcp: connection refused"),
			outcome: OutcomeNetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := categorize(tt.err)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.message, result.Message)
			assert.Empty(t, result.ChargeID)
			assert.False(t, result.Succeeded())
		})
	}
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		cents  int64
	}{
		{"40.00", 4000},
		{"30", 3000},
		{"15.50", 1550},
		{"0.99", 99},
		{"0", 0},
	}

	for _, tt := range tests {
		amount := decimal.RequireFromString(tt.amount)
		assert.Equal(t, tt.cents, MinorUnits(amount), "amount %s", tt.amount)
	}
}
