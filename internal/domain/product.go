package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Artist is referenced by products; deleting an artist keeps the
// products and nulls the reference.
type Artist struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Product represents an art print in the catalog
type Product struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	Name           string           `json:"name" db:"name"`
	ShortenedName  string           `json:"shortened_name" db:"shortened_name"`
	Slug           string           `json:"slug" db:"slug"`
	History        string           `json:"history" db:"history"`
	School         string           `json:"school" db:"school"`
	Price          decimal.Decimal  `json:"price" db:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty" db:"discount_price"`
	DateOfCreation string           `json:"date_of_creation" db:"date_of_creation"`
	ArtistID       *uuid.UUID       `json:"artist_id,omitempty" db:"artist_id"`
	ArtistName     string           `json:"artist_name,omitempty" db:"-"`
	ImageURL       string           `json:"image_url" db:"image_url"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// EffectivePrice returns the discount price when one is set,
// otherwise the regular price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// RecomputeSlug derives the URL slug from the shortened name.
// Called on every save so a renamed product gets a fresh slug.
func (p *Product) RecomputeSlug() {
	p.Slug = slug.Make(p.ShortenedName)
}
