package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"art-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartNotFound     = errors.New("no open cart for user")
	ErrCartItemNotFound = errors.New("item not in cart")
)

// CartRepository defines the interface for open-cart data access.
// A user's open cart is the single non-finalized row in carts; the
// partial unique index keeps it single even under concurrent creates.
type CartRepository interface {
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	CreateOpen(ctx context.Context, cart *domain.Cart) error
	SetShippingAddress(ctx context.Context, cartID, addressID uuid.UUID) error
	SetBillingAddress(ctx context.Context, cartID, addressID uuid.UUID) error
	AttachCoupon(ctx context.Context, cartID, couponID uuid.UUID) error
	FindOpenLine(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error)
	InsertLine(ctx context.Context, item *domain.CartItem) error
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

const cartColumns = `
	c.id, c.user_id, c.ref_code, c.started_at, c.ordered_at, c.finalized,
	c.shipping_address_id, c.billing_address_id, c.payment_id, c.coupon_id,
	c.being_delivered, c.received, c.refund_requested, c.refund_granted
`

func scanCart(row interface{ Scan(...any) error }) (*domain.Cart, error) {
	cart := &domain.Cart{}
	err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&cart.RefCode,
		&cart.StartedAt,
		&cart.OrderedAt,
		&cart.Finalized,
		&cart.ShippingAddressID,
		&cart.BillingAddressID,
		&cart.PaymentID,
		&cart.CouponID,
		&cart.BeingDelivered,
		&cart.Received,
		&cart.RefundRequested,
		&cart.RefundGranted,
	)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// FindOpenByUser retrieves the user's open cart with its line items,
// joined products and attached coupon.
func (r *cartRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM carts c
		WHERE c.user_id = $1 AND NOT c.finalized
	`, cartColumns)

	cart, err := scanCart(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find open cart: %w", err)
	}

	if err := r.loadLines(ctx, cart); err != nil {
		return nil, err
	}

	if cart.CouponID != nil {
		coupon, err := r.loadCoupon(ctx, *cart.CouponID)
		if err != nil {
			return nil, err
		}
		cart.Coupon = coupon
	}

	return cart, nil
}

func (r *cartRepository) loadLines(ctx context.Context, cart *domain.Cart) error {
	query := fmt.Sprintf(`
		SELECT i.id, i.cart_id, i.user_id, i.product_id, i.quantity, i.finalized,
		       %s
		FROM cart_items i
		JOIN products p ON p.id = i.product_id
		LEFT JOIN artists a ON a.id = p.artist_id
		WHERE i.cart_id = $1
		ORDER BY p.name ASC
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, cart.ID)
	if err != nil {
		return fmt.Errorf("failed to load cart items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CartItem{}
	for rows.Next() {
		item := &domain.CartItem{}
		product := &domain.Product{}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.Finalized,
			&product.ID,
			&product.Name,
			&product.ShortenedName,
			&product.Slug,
			&product.History,
			&product.School,
			&product.Price,
			&product.DiscountPrice,
			&product.DateOfCreation,
			&product.ArtistID,
			&product.ArtistName,
			&product.ImageURL,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.Product = product
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating cart items: %w", err)
	}

	cart.Items = items
	return nil
}

func (r *cartRepository) loadCoupon(ctx context.Context, couponID uuid.UUID) (*domain.Coupon, error) {
	query := `SELECT id, code, amount FROM coupons WHERE id = $1`

	coupon := &domain.Coupon{}
	err := r.db.QueryRowContext(ctx, query, couponID).Scan(&coupon.ID, &coupon.Code, &coupon.Amount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}

	return coupon, nil
}

// CreateOpen inserts a fresh open cart for the user.
func (r *cartRepository) CreateOpen(ctx context.Context, cart *domain.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, started_at, finalized)
		VALUES ($1, $2, $3, FALSE)
	`

	_, err := r.db.ExecContext(ctx, query, cart.ID, cart.UserID, cart.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

func (r *cartRepository) SetShippingAddress(ctx context.Context, cartID, addressID uuid.UUID) error {
	return r.setCartColumn(ctx, cartID, "shipping_address_id", addressID)
}

func (r *cartRepository) SetBillingAddress(ctx context.Context, cartID, addressID uuid.UUID) error {
	return r.setCartColumn(ctx, cartID, "billing_address_id", addressID)
}

func (r *cartRepository) AttachCoupon(ctx context.Context, cartID, couponID uuid.UUID) error {
	return r.setCartColumn(ctx, cartID, "coupon_id", couponID)
}

func (r *cartRepository) setCartColumn(ctx context.Context, cartID uuid.UUID, column string, value uuid.UUID) error {
	// column is one of three fixed names chosen above, never user input
	query := fmt.Sprintf(`UPDATE carts SET %s = $2 WHERE id = $1 AND NOT finalized`, column)

	result, err := r.db.ExecContext(ctx, query, cartID, value)
	if err != nil {
		return fmt.Errorf("failed to update cart %s: %w", column, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartNotFound
	}

	return nil
}

// FindOpenLine retrieves the non-finalized line item for a product in a cart.
func (r *cartRepository) FindOpenLine(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error) {
	query := `
		SELECT id, cart_id, user_id, product_id, quantity, finalized
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2 AND NOT finalized
	`

	item := &domain.CartItem{}
	err := r.db.QueryRowContext(ctx, query, cartID, productID).Scan(
		&item.ID,
		&item.CartID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.Finalized,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

func (r *cartRepository) InsertLine(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, user_id, product_id, quantity, finalized)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`

	_, err := r.db.ExecContext(ctx, query, item.ID, item.CartID, item.UserID, item.ProductID, item.Quantity)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $2 WHERE id = $1 AND NOT finalized`

	result, err := r.db.ExecContext(ctx, query, lineID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND NOT finalized`

	result, err := r.db.ExecContext(ctx, query, lineID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}
