package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records a captured gateway charge. Immutable once created.
type Payment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	StripeChargeID string          `json:"stripe_charge_id" db:"stripe_charge_id"`
	UserID         *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// Coupon is a flat discount looked up by exact code. There is no
// expiry or usage-count tracking.
type Coupon struct {
	ID     uuid.UUID       `json:"id" db:"id"`
	Code   string          `json:"code" db:"code"`
	Amount decimal.Decimal `json:"amount" db:"amount"`
}

// Refund is a customer's refund request against a finalized order,
// looked up by the order's reference code. Accepted is flipped by
// staff only.
type Refund struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	Reason    string    `json:"reason" db:"reason"`
	Email     string    `json:"email" db:"email"`
	Accepted  bool      `json:"accepted" db:"accepted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
