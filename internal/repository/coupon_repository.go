package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"art-store/internal/domain"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
)

// CouponRepository defines the interface for coupon data access.
// Coupons carry no expiry or usage tracking; lookup is exact-code only.
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type couponRepository struct {
	db *sql.DB
}

// NewCouponRepository creates a new instance of CouponRepository
func NewCouponRepository(db *sql.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	query := `INSERT INTO coupons (id, code, amount) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, coupon.ID, coupon.Code, coupon.Amount)
	if err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `SELECT id, code, amount FROM coupons WHERE code = $1`

	coupon := &domain.Coupon{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(&coupon.ID, &coupon.Code, &coupon.Amount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to find coupon by code: %w", err)
	}

	return coupon, nil
}
