package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"art-store/internal/config"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"
)

// StripeGateway charges cards through Stripe. The API key is injected
// via config at construction; no package-level key is ever set.
type StripeGateway struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripeGateway creates a gateway bound to the configured secret key.
func NewStripeGateway(cfg config.StripeConfig, logger *zap.Logger) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeGateway{
		api:    api,
		logger: logger,
	}
}

// Charge submits a single charge. Gateway failures are mapped into the
// ChargeResult taxonomy; a non-nil error means something outside the
// gateway's failure model went wrong (the caller's catch-all path).
func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(MinorUnits(req.Amount)),
		Currency: stripe.String(req.Currency),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	if err := params.SetSource(req.SourceToken); err != nil {
		return ChargeResult{}, fmt.Errorf("failed to set charge source: %w", err)
	}

	charge, err := g.api.Charges.New(params)
	if err != nil {
		result := categorize(err)
		g.logger.Warn("Charge failed",
			zap.String("outcome", string(result.Outcome)),
			zap.Error(err),
		)
		return result, nil
	}

	return ChargeResult{
		Outcome:  OutcomeSucceeded,
		ChargeID: charge.ID,
	}, nil
}

// categorize maps a Stripe client error onto the outcome taxonomy.
// Only card declines expose the gateway's message.
func categorize(err error) ChargeResult {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		// Transport-level failure: Stripe never saw the request.
		return ChargeResult{Outcome: OutcomeNetworkError}
	}

	switch {
	case stripeErr.Type == stripe.ErrorTypeCard:
		return ChargeResult{Outcome: OutcomeDeclined, Message: stripeErr.Msg}
	case stripeErr.Code == stripe.ErrorCodeRateLimit,
		stripeErr.HTTPStatusCode == http.StatusTooManyRequests:
		return ChargeResult{Outcome: OutcomeRateLimited}
	case stripeErr.HTTPStatusCode == http.StatusUnauthorized:
		return ChargeResult{Outcome: OutcomeAuthFailed}
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		return ChargeResult{Outcome: OutcomeInvalidRequest}
	default:
		return ChargeResult{Outcome: OutcomeUnknown}
	}
}
