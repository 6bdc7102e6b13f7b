package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a line in a user's cart: one product with a quantity.
// Finalized flips when the owning cart completes payment.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cart_id" db:"cart_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Finalized bool      `json:"finalized" db:"finalized"`

	// Product is populated by repository joins for display and totals.
	Product *Product `json:"product,omitempty" db:"-"`
}

// LineTotal is the quantity times the product's effective price.
func (i *CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the order aggregate. While Finalized is false it acts as the
// user's shopping cart; at most one open cart exists per user, enforced
// by a partial unique index. After payment it is the immutable order
// record, addressable by RefCode.
type Cart struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	RefCode           string     `json:"ref_code,omitempty" db:"ref_code"`
	StartedAt         time.Time  `json:"started_at" db:"started_at"`
	OrderedAt         *time.Time `json:"ordered_at,omitempty" db:"ordered_at"`
	Finalized         bool       `json:"finalized" db:"finalized"`
	ShippingAddressID *uuid.UUID `json:"shipping_address_id,omitempty" db:"shipping_address_id"`
	BillingAddressID  *uuid.UUID `json:"billing_address_id,omitempty" db:"billing_address_id"`
	PaymentID         *uuid.UUID `json:"payment_id,omitempty" db:"payment_id"`
	CouponID          *uuid.UUID `json:"coupon_id,omitempty" db:"coupon_id"`
	BeingDelivered    bool       `json:"being_delivered" db:"being_delivered"`
	Received          bool       `json:"received" db:"received"`
	RefundRequested   bool       `json:"refund_requested" db:"refund_requested"`
	RefundGranted     bool       `json:"refund_granted" db:"refund_granted"`

	Items  []*CartItem `json:"items,omitempty" db:"-"`
	Coupon *Coupon     `json:"coupon,omitempty" db:"-"`
}

// Subtotal sums each line's effective price times quantity.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Total is the subtotal minus the coupon amount when one is attached.
// The coupon is applied once, here and nowhere else.
func (c *Cart) Total() decimal.Decimal {
	total := c.Subtotal()
	if c.Coupon != nil {
		total = total.Sub(c.Coupon.Amount)
	}
	return total
}
