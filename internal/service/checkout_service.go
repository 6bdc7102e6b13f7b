package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"art-store/internal/domain"
	"art-store/internal/payment"
	"art-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoDefaultShipping     = errors.New("no default shipping address available")
	ErrNoDefaultBilling      = errors.New("no default billing address available")
	ErrInvalidPaymentMethod  = errors.New("invalid payment option selected")
	ErrBillingAddressMissing = errors.New("you have not added a billing address")
	ErrCouponInvalid         = errors.New("this coupon does not exist")
	ErrChargeFailed          = errors.New("charge was not completed")
)

// CheckoutDetails is what the checkout screen needs: the open cart and
// the user's default addresses, when any exist.
type CheckoutDetails struct {
	Cart            *domain.Cart    `json:"cart"`
	DefaultShipping *domain.Address `json:"default_shipping,omitempty"`
	DefaultBilling  *domain.Address `json:"default_billing,omitempty"`
}

// PaymentOutcome reports one charge attempt. RefCode is set only when
// the order was finalized.
type PaymentOutcome struct {
	Result  payment.ChargeResult
	Total   decimal.Decimal
	RefCode string
}

// CheckoutService drives the checkout workflow: address resolution,
// payment-method selection, coupon application, and the charge that
// seals the cart into an order. Every step is one synchronous request;
// a failed step leaves the cart open and the user back on the prior
// screen.
type CheckoutService interface {
	Details(ctx context.Context, userID uuid.UUID) (*CheckoutDetails, error)
	Submit(ctx context.Context, userID uuid.UUID, input CheckoutInput) (PaymentMethod, error)
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) error
	Pay(ctx context.Context, userID uuid.UUID, method PaymentMethod, sourceToken string) (*PaymentOutcome, error)
}

type checkoutService struct {
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	couponRepo  repository.CouponRepository
	orderRepo   repository.OrderRepository
	gateway     payment.Gateway
	currency    string
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	gateway payment.Gateway,
	currency string,
) CheckoutService {
	return &checkoutService{
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		currency:    currency,
	}
}

// Details loads the open cart and any default addresses for prefill.
func (s *checkoutService) Details(ctx context.Context, userID uuid.UUID) (*CheckoutDetails, error) {
	cart, err := s.openCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := &CheckoutDetails{Cart: cart}

	shipping, err := s.addressRepo.FindDefault(ctx, userID, domain.AddressTypeShipping)
	if err != nil && err != repository.ErrNoDefaultAddress {
		return nil, err
	}
	details.DefaultShipping = shipping

	billing, err := s.addressRepo.FindDefault(ctx, userID, domain.AddressTypeBilling)
	if err != nil && err != repository.ErrNoDefaultAddress {
		return nil, err
	}
	details.DefaultBilling = billing

	return details, nil
}

// Submit resolves both addresses against the open cart and validates
// the payment-method selection. Any failure halts the workflow before
// anything beyond already-persisted addresses is committed.
func (s *checkoutService) Submit(ctx context.Context, userID uuid.UUID, input CheckoutInput) (PaymentMethod, error) {
	cart, err := s.openCart(ctx, userID)
	if err != nil {
		return "", err
	}

	shipping, err := s.resolveShipping(ctx, cart, input)
	if err != nil {
		return "", err
	}

	if err := s.resolveBilling(ctx, cart, shipping, input); err != nil {
		return "", err
	}

	return ParsePaymentMethod(input.PaymentMethod)
}

func (s *checkoutService) resolveShipping(ctx context.Context, cart *domain.Cart, input CheckoutInput) (*domain.Address, error) {
	if input.UseDefaultShipping {
		address, err := s.addressRepo.FindDefault(ctx, cart.UserID, domain.AddressTypeShipping)
		if err != nil {
			if err == repository.ErrNoDefaultAddress {
				return nil, ErrNoDefaultShipping
			}
			return nil, err
		}
		return address, s.cartRepo.SetShippingAddress(ctx, cart.ID, address.ID)
	}

	if fieldErrs := input.Shipping.Validate("shipping"); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	address := input.Shipping.toAddress(cart.UserID, domain.AddressTypeShipping)
	address.ID = uuid.New()
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}
	if err := s.cartRepo.SetShippingAddress(ctx, cart.ID, address.ID); err != nil {
		return nil, err
	}

	if input.SetDefaultShipping {
		if err := s.addressRepo.SetDefault(ctx, cart.UserID, address.ID, domain.AddressTypeShipping); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	return address, nil
}

func (s *checkoutService) resolveBilling(ctx context.Context, cart *domain.Cart, shipping *domain.Address, input CheckoutInput) error {
	// An address row is single-typed, so reusing the shipping address
	// clones it into a billing record rather than aliasing the row.
	if input.SameBillingAddress {
		clone := shipping.CloneAsBilling()
		if err := s.addressRepo.Create(ctx, clone); err != nil {
			return err
		}
		return s.cartRepo.SetBillingAddress(ctx, cart.ID, clone.ID)
	}

	if input.UseDefaultBilling {
		address, err := s.addressRepo.FindDefault(ctx, cart.UserID, domain.AddressTypeBilling)
		if err != nil {
			if err == repository.ErrNoDefaultAddress {
				return ErrNoDefaultBilling
			}
			return err
		}
		return s.cartRepo.SetBillingAddress(ctx, cart.ID, address.ID)
	}

	if fieldErrs := input.Billing.Validate("billing"); len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}

	address := input.Billing.toAddress(cart.UserID, domain.AddressTypeBilling)
	address.ID = uuid.New()
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return err
	}
	if err := s.cartRepo.SetBillingAddress(ctx, cart.ID, address.ID); err != nil {
		return err
	}

	if input.SetDefaultBilling {
		return s.addressRepo.SetDefault(ctx, cart.UserID, address.ID, domain.AddressTypeBilling)
	}

	return nil
}

// ApplyCoupon attaches a coupon to the open cart by exact code match.
// The cart is left untouched when the code is unknown. No expiry or
// usage validation exists by design.
func (s *checkoutService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) error {
	cart, err := s.openCart(ctx, userID)
	if err != nil {
		return err
	}

	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if err == repository.ErrCouponNotFound {
			return ErrCouponInvalid
		}
		return err
	}

	return s.cartRepo.AttachCoupon(ctx, cart.ID, coupon.ID)
}

// Pay charges the cart's total and, only on success, finalizes the
// order in one transaction: payment recorded, line items sealed, ref
// code stamped. Any non-success outcome leaves no payment record and
// the cart open.
func (s *checkoutService) Pay(ctx context.Context, userID uuid.UUID, method PaymentMethod, sourceToken string) (*PaymentOutcome, error) {
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return nil, err
	}

	cart, err := s.openCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cart.BillingAddressID == nil {
		return nil, ErrBillingAddressMissing
	}

	total := cart.Total()

	// The idempotency key is derived from the cart, so a confused
	// client resubmitting the same open cart cannot double-charge.
	result, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		Amount:         total,
		Currency:       s.currency,
		SourceToken:    sourceToken,
		IdempotencyKey: "cart-" + cart.ID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("charge submission failed: %w", err)
	}

	outcome := &PaymentOutcome{Result: result, Total: total}
	if !result.Succeeded() {
		return outcome, nil
	}

	pay := &domain.Payment{
		ID:             uuid.New(),
		StripeChargeID: result.ChargeID,
		UserID:         &cart.UserID,
		Amount:         total,
		CreatedAt:      time.Now(),
	}

	refCode, err := NewRefCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference code: %w", err)
	}

	if err := s.orderRepo.Finalize(ctx, cart.ID, pay, refCode, time.Now()); err != nil {
		return nil, err
	}

	outcome.RefCode = refCode
	return outcome, nil
}

func (s *checkoutService) openCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindOpenByUser(ctx, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return nil, ErrNoOpenCart
		}
		return nil, err
	}
	return cart, nil
}
