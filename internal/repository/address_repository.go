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
	ErrAddressNotFound  = errors.New("address not found")
	ErrNoDefaultAddress = errors.New("no default address of this type")
)

// AddressRepository defines the interface for address-book data access
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Address, error)
	FindDefault(ctx context.Context, userID uuid.UUID, addressType domain.AddressType) (*domain.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID, addressType domain.AddressType) error
}

type addressRepository struct {
	db *sql.DB
}

// NewAddressRepository creates a new instance of AddressRepository
func NewAddressRepository(db *sql.DB) AddressRepository {
	return &addressRepository{db: db}
}

const addressColumns = `id, user_id, street_address, apartment, country, zip_code, address_type, is_default`

func scanAddress(row interface{ Scan(...any) error }) (*domain.Address, error) {
	address := &domain.Address{}
	err := row.Scan(
		&address.ID,
		&address.UserID,
		&address.StreetAddress,
		&address.Apartment,
		&address.Country,
		&address.ZipCode,
		&address.AddressType,
		&address.IsDefault,
	)
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, street_address, apartment, country, zip_code, address_type, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		address.ID,
		address.UserID,
		address.StreetAddress,
		address.Apartment,
		address.Country,
		address.ZipCode,
		address.AddressType,
		address.IsDefault,
	)

	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

func (r *addressRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE id = $1`, addressColumns)

	address, err := scanAddress(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to find address by ID: %w", err)
	}

	return address, nil
}

// FindDefault retrieves the user's default address of the given type.
// At most one exists, enforced by a partial unique index.
func (r *addressRepository) FindDefault(ctx context.Context, userID uuid.UUID, addressType domain.AddressType) (*domain.Address, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM addresses
		WHERE user_id = $1 AND address_type = $2 AND is_default
	`, addressColumns)

	address, err := scanAddress(r.db.QueryRowContext(ctx, query, userID, addressType))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoDefaultAddress
		}
		return nil, fmt.Errorf("failed to find default address: %w", err)
	}

	return address, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE user_id = $1 ORDER BY address_type, is_default DESC`, addressColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*domain.Address{}
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, address)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// SetDefault promotes an address to the user's default for its type,
// demoting the previous default inside the same transaction so the
// partial unique index never rejects the promotion.
func (r *addressRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID, addressType domain.AddressType) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE addresses SET is_default = FALSE
		WHERE user_id = $1 AND address_type = $2 AND is_default
	`, userID, addressType)
	if err != nil {
		return fmt.Errorf("failed to demote previous default address: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE addresses SET is_default = TRUE
		WHERE id = $1 AND user_id = $2 AND address_type = $3
	`, addressID, userID, addressType)
	if err != nil {
		return fmt.Errorf("failed to promote default address: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAddressNotFound
	}

	return tx.Commit()
}
