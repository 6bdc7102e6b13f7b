package service

import (
	"context"
	"strings"
	"testing"

	"art-store/internal/domain"
	"art-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedgerRepo backs the finalized-order side of the fixtures
type fakeLedgerRepo struct {
	repository.OrderRepository
	ordersByRefCode map[string]*domain.Cart
	purchases       map[uuid.UUID]map[uuid.UUID]bool
	refunds         []*domain.Refund
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		ordersByRefCode: make(map[string]*domain.Cart),
		purchases:       make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeLedgerRepo) FindByRefCode(ctx context.Context, refCode string) (*domain.Cart, error) {
	order, ok := f.ordersByRefCode[refCode]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeLedgerRepo) RequestRefund(ctx context.Context, refund *domain.Refund) error {
	f.refunds = append(f.refunds, refund)
	return nil
}

func (f *fakeLedgerRepo) HasFinalizedPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return f.purchases[userID][productID], nil
}

func (f *fakeLedgerRepo) recordPurchase(userID, productID uuid.UUID) {
	if f.purchases[userID] == nil {
		f.purchases[userID] = make(map[uuid.UUID]bool)
	}
	f.purchases[userID][productID] = true
}

// fakeReviewRepo collects created reviews
type fakeReviewRepo struct {
	repository.ReviewRepository
	reviews []*domain.Review
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	f.reviews = append(f.reviews, review)
	return nil
}

func validReviewInput(productID uuid.UUID) ReviewInput {
	return ReviewInput{
		ProductID: productID,
		Rating:    decimal.RequireFromString("4.5"),
		Comment:   "Beautiful reproduction, the colors are vivid.",
	}
}

func TestSubmitReviewRequiresPurchase(t *testing.T) {
	ledger := newFakeLedgerRepo()
	svc := NewOrderService(ledger, &fakeReviewRepo{})

	_, err := svc.SubmitReview(context.Background(), uuid.New(), validReviewInput(uuid.New()))
	assert.ErrorIs(t, err, ErrProductNotReviewed)
}

func TestSubmitReviewForPurchasedProduct(t *testing.T) {
	ledger := newFakeLedgerRepo()
	reviews := &fakeReviewRepo{}
	svc := NewOrderService(ledger, reviews)

	userID := uuid.New()
	productID := uuid.New()
	ledger.recordPurchase(userID, productID)

	review, err := svc.SubmitReview(context.Background(), userID, validReviewInput(productID))
	require.NoError(t, err)
	assert.Equal(t, userID, review.UserID)
	assert.Equal(t, productID, review.ProductID)
	require.Len(t, reviews.reviews, 1)
}

func TestSubmitReviewValidation(t *testing.T) {
	tests := []struct {
		name    string
		rating  string
		comment string
		field   string
	}{
		{"zero rating", "0.0", "Beautiful reproduction, the colors are vivid.", "rating"},
		{"negative rating", "-1.0", "Beautiful reproduction, the colors are vivid.", "rating"},
		{"rating above five", "5.1", "Beautiful reproduction, the colors are vivid.", "rating"},
		{"two decimal places", "4.25", "Beautiful reproduction, the colors are vivid.", "rating"},
		{"short comment", "4.5", "Too short", "comment"},
	}

	ledger := newFakeLedgerRepo()
	svc := NewOrderService(ledger, &fakeReviewRepo{})
	userID := uuid.New()
	productID := uuid.New()
	ledger.recordPurchase(userID, productID)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := ReviewInput{
				ProductID: productID,
				Rating:    decimal.RequireFromString(tt.rating),
				Comment:   tt.comment,
			}

			_, err := svc.SubmitReview(context.Background(), userID, input)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.True(t, strings.Contains(validationErr.Error(), tt.field))
		})
	}
}

func TestRequestRefundMarksOrder(t *testing.T) {
	ledger := newFakeLedgerRepo()
	svc := NewOrderService(ledger, &fakeReviewRepo{})

	order := &domain.Cart{ID: uuid.New(), RefCode: "k3j2h1g0f9e8d7c6b5a4", Finalized: true}
	ledger.ordersByRefCode[order.RefCode] = order

	err := svc.RequestRefund(context.Background(), RefundInput{
		RefCode: order.RefCode,
		Message: "The print arrived damaged",
		Email:   "buyer@example.com",
	})
	require.NoError(t, err)

	require.Len(t, ledger.refunds, 1)
	assert.Equal(t, order.ID, ledger.refunds[0].OrderID)
	assert.Equal(t, "The print arrived damaged", ledger.refunds[0].Reason)
	assert.False(t, ledger.refunds[0].Accepted)
}

func TestRequestRefundUnknownCodeIsANotice(t *testing.T) {
	svc := NewOrderService(newFakeLedgerRepo(), &fakeReviewRepo{})

	err := svc.RequestRefund(context.Background(), RefundInput{
		RefCode: "aaaaaaaaaaaaaaaaaaaa",
		Message: "The print arrived damaged",
		Email:   "buyer@example.com",
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
