package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"art-store/internal/domain"
	"art-store/internal/repository"

	"github.com/google/uuid"
)

// Benign cart conditions: nothing to do, reported as a notice rather
// than a failure.
var (
	ErrNoOpenCart    = errors.New("you do not have an active cart")
	ErrItemNotInCart = errors.New("this item is not in your cart")
)

// CartMutation distinguishes the two user-visible outcomes of a cart add.
type CartMutation string

const (
	CartItemAdded       CartMutation = "This item was added to your cart"
	CartQuantityUpdated CartMutation = "This item quantity was updated"
)

// CartService maintains the user's single open cart.
type CartService interface {
	AddItem(ctx context.Context, userID uuid.UUID, slug string) (CartMutation, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, slug string) error
	RemoveSingleItem(ctx context.Context, userID uuid.UUID, slug string) (CartMutation, error)
	Summary(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddItem puts one unit of the product into the user's open cart,
// creating the cart on first add and incrementing the line's quantity
// on repeat adds. A product is never duplicated across lines.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, slug string) (CartMutation, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return "", err
	}

	cart, err := s.cartRepo.FindOpenByUser(ctx, userID)
	if err != nil {
		if err != repository.ErrCartNotFound {
			return "", fmt.Errorf("failed to load cart: %w", err)
		}
		cart = &domain.Cart{
			ID:        uuid.New(),
			UserID:    userID,
			StartedAt: time.Now(),
		}
		if err := s.cartRepo.CreateOpen(ctx, cart); err != nil {
			return "", err
		}
	}

	line, err := s.cartRepo.FindOpenLine(ctx, cart.ID, product.ID)
	if err != nil {
		if err != repository.ErrCartItemNotFound {
			return "", fmt.Errorf("failed to load cart line: %w", err)
		}
		line = &domain.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			UserID:    userID,
			ProductID: product.ID,
			Quantity:  1,
		}
		if err := s.cartRepo.InsertLine(ctx, line); err != nil {
			return "", err
		}
		return CartItemAdded, nil
	}

	if err := s.cartRepo.UpdateLineQuantity(ctx, line.ID, line.Quantity+1); err != nil {
		return "", err
	}
	return CartQuantityUpdated, nil
}

// RemoveItem detaches the whole line for the product. Missing cart or
// missing line are benign notices, not errors.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, slug string) error {
	line, err := s.findLine(ctx, userID, slug)
	if err != nil {
		return err
	}

	return s.cartRepo.DeleteLine(ctx, line.ID)
}

// RemoveSingleItem decrements the line's quantity, detaching the line
// entirely when it would drop below one. Quantity never goes negative.
func (s *cartService) RemoveSingleItem(ctx context.Context, userID uuid.UUID, slug string) (CartMutation, error) {
	line, err := s.findLine(ctx, userID, slug)
	if err != nil {
		return "", err
	}

	if line.Quantity > 1 {
		if err := s.cartRepo.UpdateLineQuantity(ctx, line.ID, line.Quantity-1); err != nil {
			return "", err
		}
	} else {
		if err := s.cartRepo.DeleteLine(ctx, line.ID); err != nil {
			return "", err
		}
	}

	return CartQuantityUpdated, nil
}

// Summary returns the open cart with lines, coupon, and computed totals.
func (s *cartService) Summary(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindOpenByUser(ctx, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return nil, ErrNoOpenCart
		}
		return nil, err
	}
	return cart, nil
}

func (s *cartService) findLine(ctx context.Context, userID uuid.UUID, slug string) (*domain.CartItem, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.FindOpenByUser(ctx, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return nil, ErrNoOpenCart
		}
		return nil, err
	}

	line, err := s.cartRepo.FindOpenLine(ctx, cart.ID, product.ID)
	if err != nil {
		if err == repository.ErrCartItemNotFound {
			return nil, ErrItemNotInCart
		}
		return nil, err
	}

	return line, nil
}
