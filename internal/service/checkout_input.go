package service

import (
	"fmt"
	"strings"

	"art-store/internal/domain"

	"github.com/google/uuid"
)

// PaymentMethod is the user's choice from the fixed payment-method set.
type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPaypal PaymentMethod = "paypal"
)

// ParsePaymentMethod validates a method string against the fixed set.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(s)) {
	case PaymentMethodStripe:
		return PaymentMethodStripe, nil
	case PaymentMethodPaypal:
		return PaymentMethodPaypal, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// FieldError names one invalid checkout field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full set of field problems for one
// submission. It is independent of any rendering layer.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	fields := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = f.Field
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

// AddressInput is a new address as submitted at checkout.
// Street, country and zip are required; apartment is optional.
type AddressInput struct {
	StreetAddress string `json:"street_address"`
	Apartment     string `json:"apartment"`
	Country       string `json:"country"`
	ZipCode       string `json:"zip_code"`
}

// Validate returns the set of missing required fields, prefixed so
// shipping and billing problems stay distinguishable on one form.
func (in AddressInput) Validate(prefix string) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(in.StreetAddress) == "" {
		errs = append(errs, FieldError{Field: prefix + "_street_address", Message: "This field is required"})
	}
	if strings.TrimSpace(in.Country) == "" {
		errs = append(errs, FieldError{Field: prefix + "_country", Message: "This field is required"})
	}
	if strings.TrimSpace(in.ZipCode) == "" {
		errs = append(errs, FieldError{Field: prefix + "_zip_code", Message: "This field is required"})
	}
	return errs
}

// toAddress builds the domain record for the owning user.
func (in AddressInput) toAddress(userID uuid.UUID, addressType domain.AddressType) *domain.Address {
	return &domain.Address{
		UserID:        userID,
		StreetAddress: strings.TrimSpace(in.StreetAddress),
		Apartment:     strings.TrimSpace(in.Apartment),
		Country:       strings.TrimSpace(in.Country),
		ZipCode:       strings.TrimSpace(in.ZipCode),
		AddressType:   addressType,
	}
}

// CheckoutInput is the typed checkout submission: how each address is
// resolved plus the chosen payment method. Exactly one resolution path
// applies per address; the boolean flags mirror the checkout form.
type CheckoutInput struct {
	UseDefaultShipping bool         `json:"use_default_shipping"`
	SetDefaultShipping bool         `json:"set_default_shipping"`
	Shipping           AddressInput `json:"shipping"`

	SameBillingAddress bool         `json:"same_billing_address"`
	UseDefaultBilling  bool         `json:"use_default_billing"`
	SetDefaultBilling  bool         `json:"set_default_billing"`
	Billing            AddressInput `json:"billing"`

	PaymentMethod string `json:"payment_method"`
}
