package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"art-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

const (
	// RecentPageSize is the landing-page listing size.
	RecentPageSize = 5
	// SchoolPageSize is the per-school listing page size.
	SchoolPageSize = 9
	// SchoolAll disables school filtering.
	SchoolAll = "all"
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListRecent(ctx context.Context) ([]*domain.Product, error)
	ListBySchool(ctx context.Context, school string, page int) ([]*domain.Product, int, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	p.id, p.name, p.shortened_name, p.slug, p.history, p.school,
	p.price, p.discount_price, p.date_of_creation, p.artist_id,
	COALESCE(a.name, ''), p.image_url, p.created_at, p.updated_at
`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
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
		return nil, err
	}
	return product, nil
}

// Create inserts a new product into the database using parameterized queries.
// The slug is expected to be recomputed by the caller before saving.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, shortened_name, slug, history, school,
			price, discount_price, date_of_creation, artist_id, image_url,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.ShortenedName,
		product.Slug,
		product.History,
		product.School,
		product.Price,
		product.DiscountPrice,
		product.DateOfCreation,
		product.ArtistID,
		product.ImageURL,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, shortened_name = $3, slug = $4, history = $5,
		    school = $6, price = $7, discount_price = $8,
		    date_of_creation = $9, artist_id = $10, image_url = $11,
		    updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.ShortenedName,
		product.Slug,
		product.History,
		product.School,
		product.Price,
		product.DiscountPrice,
		product.DateOfCreation,
		product.ArtistID,
		product.ImageURL,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN artists a ON a.id = p.artist_id
		WHERE p.id = $1
	`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindBySlug retrieves a product by its URL slug
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN artists a ON a.id = p.artist_id
		WHERE p.slug = $1
	`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}

	return product, nil
}

// ListRecent retrieves the landing-page slice of products ordered by
// creation time.
func (r *productRepository) ListRecent(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN artists a ON a.id = p.artist_id
		ORDER BY p.created_at DESC
		LIMIT $1
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, RecentPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ListBySchool retrieves a page of products, optionally filtered by
// school. The sentinel school "all" disables filtering.
func (r *productRepository) ListBySchool(ctx context.Context, school string, page int) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}

	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if school != SchoolAll {
		whereClause = fmt.Sprintf("WHERE p.school = $%d", argIndex)
		args = append(args, school)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * SchoolPageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN artists a ON a.id = p.artist_id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)

	args = append(args, SchoolPageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Search runs a weighted full-text search across product names (weight A)
// and artist names (weight B), ranked by relevance. An empty query
// returns an empty result set.
func (r *productRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return []*domain.Product{}, nil
	}

	searchQuery := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN artists a ON a.id = p.artist_id
		WHERE setweight(to_tsvector('english', p.name), 'A') ||
		      setweight(to_tsvector('english', COALESCE(a.name, '')), 'B')
		      @@ websearch_to_tsquery('english', $1)
		ORDER BY ts_rank(
			setweight(to_tsvector('english', p.name), 'A') ||
			setweight(to_tsvector('english', COALESCE(a.name, '')), 'B'),
			websearch_to_tsquery('english', $1)
		) DESC
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, searchQuery, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
