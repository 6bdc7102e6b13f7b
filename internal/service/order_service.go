package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"art-store/internal/domain"
	"art-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound      = errors.New("this order does not exist")
	ErrProductNotReviewed = errors.New("you can only review products you have purchased")
)

const reviewCommentMinLength = 10

// ReviewInput is a typed review submission.
type ReviewInput struct {
	ProductID uuid.UUID       `json:"product_id"`
	Rating    decimal.Decimal `json:"rating"`
	Comment   string          `json:"comment"`
}

// Validate checks the rating range (one fractional digit, in
// (0.0, 5.0]) and the comment's minimum length.
func (in ReviewInput) Validate() []FieldError {
	var errs []FieldError

	if in.Rating.Exponent() < -1 {
		errs = append(errs, FieldError{Field: "rating", Message: "Rating may have at most one decimal place"})
	}
	if !in.Rating.IsPositive() || in.Rating.GreaterThan(decimal.NewFromInt(5)) {
		errs = append(errs, FieldError{Field: "rating", Message: "Rating must be between 0.1 and 5.0"})
	}
	if len(strings.TrimSpace(in.Comment)) < reviewCommentMinLength {
		errs = append(errs, FieldError{Field: "comment", Message: "Comment must be at least 10 characters"})
	}

	return errs
}

// RefundInput is a typed refund request, keyed by the order's
// reference code.
type RefundInput struct {
	RefCode string `json:"ref_code" validate:"required"`
	Message string `json:"message" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// OrderService covers the finalized side of an order's life: history
// listing, purchase-gated reviews, and refund requests.
type OrderService interface {
	MyOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Cart, error)
	SubmitReview(ctx context.Context, userID uuid.UUID, input ReviewInput) (*domain.Review, error)
	RequestRefund(ctx context.Context, input RefundInput) error
}

type orderService struct {
	orderRepo  repository.OrderRepository
	reviewRepo repository.ReviewRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, reviewRepo repository.ReviewRepository) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		reviewRepo: reviewRepo,
	}
}

func (s *orderService) MyOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Cart, error) {
	return s.orderRepo.ListFinalizedByUser(ctx, userID)
}

// SubmitReview validates the input and rejects reviews for products
// the user has never completed a purchase for.
func (s *orderService) SubmitReview(ctx context.Context, userID uuid.UUID, input ReviewInput) (*domain.Review, error) {
	if fieldErrs := input.Validate(); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	purchased, err := s.orderRepo.HasFinalizedPurchase(ctx, userID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, ErrProductNotReviewed
	}

	review := &domain.Review{
		ID:         uuid.New(),
		UserID:     userID,
		ProductID:  input.ProductID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		ReviewDate: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// RequestRefund marks the referenced order refund-requested and files
// the refund record. Lookup is by reference code alone; the support
// desk handles requests on behalf of customers, so no ownership check
// is applied.
func (s *orderService) RequestRefund(ctx context.Context, input RefundInput) error {
	order, err := s.orderRepo.FindByRefCode(ctx, input.RefCode)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return ErrOrderNotFound
		}
		return err
	}

	refund := &domain.Refund{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Reason:    input.Message,
		Email:     input.Email,
		CreatedAt: time.Now(),
	}

	return s.orderRepo.RequestRefund(ctx, refund)
}
