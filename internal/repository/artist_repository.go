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
	ErrArtistNotFound = errors.New("artist not found")
)

// ArtistRepository defines the interface for artist data access
type ArtistRepository interface {
	Create(ctx context.Context, artist *domain.Artist) error
	List(ctx context.Context) ([]*domain.Artist, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Artist, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type artistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new instance of ArtistRepository
func NewArtistRepository(db *sql.DB) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) Create(ctx context.Context, artist *domain.Artist) error {
	query := `INSERT INTO artists (id, name) VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, artist.ID, artist.Name)
	if err != nil {
		return fmt.Errorf("failed to create artist: %w", err)
	}

	return nil
}

// List retrieves all artists ordered by name
func (r *artistRepository) List(ctx context.Context) ([]*domain.Artist, error) {
	query := `SELECT id, name FROM artists ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	defer rows.Close()

	artists := []*domain.Artist{}
	for rows.Next() {
		artist := &domain.Artist{}
		if err := rows.Scan(&artist.ID, &artist.Name); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, artist)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating artists: %w", err)
	}

	return artists, nil
}

func (r *artistRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Artist, error) {
	query := `SELECT id, name FROM artists WHERE id = $1`

	artist := &domain.Artist{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&artist.ID, &artist.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to find artist by ID: %w", err)
	}

	return artist, nil
}

// Delete removes an artist; product references are nulled by the
// ON DELETE SET NULL constraint.
func (r *artistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM artists WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrArtistNotFound
	}

	return nil
}
