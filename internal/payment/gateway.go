package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Outcome categorizes a charge attempt. Only a declined charge carries
// the gateway's own message; every other failure surfaces a generic
// category notice.
type Outcome string

const (
	OutcomeSucceeded      Outcome = "succeeded"
	OutcomeDeclined       Outcome = "declined"
	OutcomeRateLimited    Outcome = "rate_limited"
	OutcomeInvalidRequest Outcome = "invalid_request"
	OutcomeAuthFailed     Outcome = "auth_failed"
	OutcomeNetworkError   Outcome = "network_error"
	OutcomeUnknown        Outcome = "unknown"
)

// ChargeRequest describes a single charge submission. Amount is in the
// store's display currency; the gateway adapter converts to minor
// units. IdempotencyKey lets the gateway dedupe a resubmitted charge.
type ChargeRequest struct {
	Amount         decimal.Decimal
	Currency       string
	SourceToken    string
	IdempotencyKey string
}

// ChargeResult is the mapped gateway response. ChargeID is set only
// when Outcome is OutcomeSucceeded; Message is the user-facing decline
// reason for OutcomeDeclined and empty otherwise.
type ChargeResult struct {
	Outcome  Outcome
	ChargeID string
	Message  string
}

// Succeeded reports whether the charge was captured.
func (r ChargeResult) Succeeded() bool {
	return r.Outcome == OutcomeSucceeded
}

// Gateway submits charges to the payment processor. Implementations
// never retry; a failed charge is resubmitted by the user from
// checkout.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// MinorUnits converts a decimal amount to the gateway's integer
// minor-unit representation (cents for usd).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).IntPart()
}
