package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"art-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for the finalized side of the
// order ledger: sealing a cart after payment, listing past orders,
// refund bookkeeping and the purchase check backing reviews.
type OrderRepository interface {
	Finalize(ctx context.Context, cartID uuid.UUID, payment *domain.Payment, refCode string, orderedAt time.Time) error
	ListFinalizedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Cart, error)
	FindByRefCode(ctx context.Context, refCode string) (*domain.Cart, error)
	RequestRefund(ctx context.Context, refund *domain.Refund) error
	HasFinalizedPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Finalize seals an open cart into a completed order in one
// transaction: the payment row is inserted, every line item is marked
// finalized, and the cart is stamped with the reference code and
// payment. Nothing is committed unless the charge already succeeded.
func (r *orderRepository) Finalize(ctx context.Context, cartID uuid.UUID, payment *domain.Payment, refCode string, orderedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (id, stripe_charge_id, user_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, payment.ID, payment.StripeChargeID, payment.UserID, payment.Amount, payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE cart_items SET finalized = TRUE WHERE cart_id = $1
	`, cartID)
	if err != nil {
		return fmt.Errorf("failed to finalize cart items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET finalized = TRUE, payment_id = $2, ref_code = $3, ordered_at = $4
		WHERE id = $1 AND NOT finalized
	`, cartID, payment.ID, refCode, orderedAt)
	if err != nil {
		return fmt.Errorf("failed to finalize cart: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartNotFound
	}

	return tx.Commit()
}

// ListFinalizedByUser retrieves the user's completed orders, newest
// first, with their line items and coupons loaded.
func (r *orderRepository) ListFinalizedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Cart, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM carts c
		WHERE c.user_id = $1 AND c.finalized
		ORDER BY c.ordered_at DESC
	`, cartColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Cart{}
	for rows.Next() {
		order, err := scanCart(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	lines := cartRepository{db: r.db}
	for _, order := range orders {
		if err := lines.loadLines(ctx, order); err != nil {
			return nil, err
		}
		if order.CouponID != nil {
			coupon, err := lines.loadCoupon(ctx, *order.CouponID)
			if err != nil {
				return nil, err
			}
			order.Coupon = coupon
		}
	}

	return orders, nil
}

// FindByRefCode retrieves a finalized order by its opaque reference code.
func (r *orderRepository) FindByRefCode(ctx context.Context, refCode string) (*domain.Cart, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM carts c
		WHERE c.ref_code = $1 AND c.finalized
	`, cartColumns)

	order, err := scanCart(r.db.QueryRowContext(ctx, query, refCode))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ref code: %w", err)
	}

	lines := cartRepository{db: r.db}
	if err := lines.loadLines(ctx, order); err != nil {
		return nil, err
	}
	if order.CouponID != nil {
		coupon, err := lines.loadCoupon(ctx, *order.CouponID)
		if err != nil {
			return nil, err
		}
		order.Coupon = coupon
	}

	return order, nil
}

// RequestRefund marks the order refund-requested and records the
// refund row for staff follow-up, in one transaction.
func (r *orderRepository) RequestRefund(ctx context.Context, refund *domain.Refund) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE carts SET refund_requested = TRUE WHERE id = $1 AND finalized
	`, refund.OrderID)
	if err != nil {
		return fmt.Errorf("failed to mark refund requested: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO refunds (id, order_id, reason, email, accepted, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`, refund.ID, refund.OrderID, refund.Reason, refund.Email, refund.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record refund request: %w", err)
	}

	return tx.Commit()
}

// HasFinalizedPurchase reports whether the user has a finalized line
// item for the product. Reviews are gated on this.
func (r *orderRepository) HasFinalizedPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM cart_items
			WHERE user_id = $1 AND product_id = $2 AND finalized
		)
	`

	var purchased bool
	if err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(&purchased); err != nil {
		return false, fmt.Errorf("failed to check purchase history: %w", err)
	}

	return purchased, nil
}
