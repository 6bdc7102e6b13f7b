package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Review is a purchase-gated product review: only users with a
// finalized line item for the product may review it. Rating is a
// one-decimal value in (0.0, 5.0].
type Review struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	ProductID  uuid.UUID       `json:"product_id" db:"product_id"`
	Rating     decimal.Decimal `json:"rating" db:"rating"`
	Comment    string          `json:"comment" db:"comment"`
	ReviewDate time.Time       `json:"review_date" db:"review_date"`

	Username string `json:"username,omitempty" db:"-"`
}
