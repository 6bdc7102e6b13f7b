package service

import (
	"context"
	"time"

	"art-store/internal/domain"
	"art-store/internal/repository"

	"github.com/google/uuid"
)

// ProductDetail bundles a product with its reviews for the detail page.
type ProductDetail struct {
	Product *domain.Product  `json:"product"`
	Reviews []*domain.Review `json:"reviews"`
}

// CatalogService covers catalog browsing, search, and the admin-side
// product and artist management.
type CatalogService interface {
	ListRecent(ctx context.Context) ([]*domain.Product, error)
	ListBySchool(ctx context.Context, school string, page int) ([]*domain.Product, int, error)
	ProductDetail(ctx context.Context, slug string) (*ProductDetail, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)

	SaveProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CreateArtist(ctx context.Context, name string) (*domain.Artist, error)
	DeleteArtist(ctx context.Context, id uuid.UUID) error
	ListArtists(ctx context.Context) ([]*domain.Artist, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	artistRepo  repository.ArtistRepository
	reviewRepo  repository.ReviewRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	artistRepo repository.ArtistRepository,
	reviewRepo repository.ReviewRepository,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		artistRepo:  artistRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *catalogService) ListRecent(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.ListRecent(ctx)
}

func (s *catalogService) ListBySchool(ctx context.Context, school string, page int) ([]*domain.Product, int, error) {
	return s.productRepo.ListBySchool(ctx, school, page)
}

// ProductDetail loads a product by slug together with its reviews.
func (s *catalogService) ProductDetail(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{Product: product, Reviews: reviews}, nil
}

func (s *catalogService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.productRepo.Search(ctx, query)
}

// SaveProduct creates or updates a product. The slug is recomputed
// from the shortened name on every save.
func (s *catalogService) SaveProduct(ctx context.Context, product *domain.Product) error {
	product.RecomputeSlug()
	product.UpdatedAt = time.Now()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
		product.CreatedAt = product.UpdatedAt
		return s.productRepo.Create(ctx, product)
	}

	return s.productRepo.Update(ctx, product)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *catalogService) CreateArtist(ctx context.Context, name string) (*domain.Artist, error) {
	artist := &domain.Artist{
		ID:   uuid.New(),
		Name: name,
	}
	if err := s.artistRepo.Create(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

func (s *catalogService) DeleteArtist(ctx context.Context, id uuid.UUID) error {
	return s.artistRepo.Delete(ctx, id)
}

func (s *catalogService) ListArtists(ctx context.Context) ([]*domain.Artist, error) {
	return s.artistRepo.List(ctx)
}
