package domain

import "github.com/google/uuid"

// AddressType distinguishes shipping from billing addresses. A row is
// single-typed; reusing a shipping address for billing clones the row.
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
)

// Valid reports whether t is one of the two known address types.
func (t AddressType) Valid() bool {
	return t == AddressTypeShipping || t == AddressTypeBilling
}

// Address is a user's shipping or billing address. At most one address
// per (user, type) carries IsDefault, enforced by a partial unique
// index; promotion demotes the previous default in the same transaction.
type Address struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	UserID        uuid.UUID   `json:"user_id" db:"user_id"`
	StreetAddress string      `json:"street_address" db:"street_address"`
	Apartment     string      `json:"apartment" db:"apartment"`
	Country       string      `json:"country" db:"country"`
	ZipCode       string      `json:"zip_code" db:"zip_code"`
	AddressType   AddressType `json:"address_type" db:"address_type"`
	IsDefault     bool        `json:"is_default" db:"is_default"`
}

// CloneAsBilling copies a shipping address into a fresh billing-typed
// record. The clone is never a default; defaults are promoted explicitly.
func (a *Address) CloneAsBilling() *Address {
	return &Address{
		ID:            uuid.New(),
		UserID:        a.UserID,
		StreetAddress: a.StreetAddress,
		Apartment:     a.Apartment,
		Country:       a.Country,
		ZipCode:       a.ZipCode,
		AddressType:   AddressTypeBilling,
		IsDefault:     false,
	}
}
