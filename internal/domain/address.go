package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AddressType classifies a saved address.
type AddressType string

const (
	AddressHome  AddressType = "home"
	AddressWork  AddressType = "work"
	AddressOther AddressType = "other"
)

func (t AddressType) Valid() bool {
	switch t {
	case AddressHome, AddressWork, AddressOther:
		return true
	}
	return false
}

// Address is one entry in a user's address book.
type Address struct {
	ID           uuid.UUID   `json:"_id"`
	Type         AddressType `json:"type"`
	FullName     string      `json:"fullName"`
	Phone        string      `json:"phone"`
	AddressLine1 string      `json:"addressLine1"`
	AddressLine2 string      `json:"addressLine2,omitempty"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	Pincode      string      `json:"pincode"`
	Landmark     string      `json:"landmark,omitempty"`
	IsDefault    bool        `json:"isDefault"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// AddressPatch carries a partial update. Nil fields are left untouched.
type AddressPatch struct {
	Type         *AddressType
	FullName     *string
	Phone        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	Pincode      *string
	Landmark     *string
	IsDefault    *bool
}

// AddressBook is the ordered address collection embedded in a user document.
// After every mutating method exactly min(1, len) entries are default.
type AddressBook []Address

// Add validates and appends an address. The first address always becomes the
// default; a later one does when it asks to.
func (b *AddressBook) Add(addr Address, now time.Time) (Address, error) {
	if addr.Type == "" {
		addr.Type = AddressHome
	}
	if err := validateAddress(addr); err != nil {
		return Address{}, err
	}

	addr.ID = uuid.New()
	addr.CreatedAt = now

	if len(*b) == 0 || addr.IsDefault {
		b.clearDefaults()
		addr.IsDefault = true
	}

	*b = append(*b, addr)
	return addr, nil
}

// Update applies patch to the address with the given id.
func (b *AddressBook) Update(id uuid.UUID, patch AddressPatch) (Address, error) {
	idx := b.indexOf(id)
	if idx < 0 {
		return Address{}, fmt.Errorf("address %s: %w", id, ErrNotFound)
	}

	updated := (*b)[idx]
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.FullName != nil {
		updated.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		updated.Phone = *patch.Phone
	}
	if patch.AddressLine1 != nil {
		updated.AddressLine1 = *patch.AddressLine1
	}
	if patch.AddressLine2 != nil {
		updated.AddressLine2 = *patch.AddressLine2
	}
	if patch.City != nil {
		updated.City = *patch.City
	}
	if patch.State != nil {
		updated.State = *patch.State
	}
	if patch.Pincode != nil {
		updated.Pincode = *patch.Pincode
	}
	if patch.Landmark != nil {
		updated.Landmark = *patch.Landmark
	}
	if err := validateAddress(updated); err != nil {
		return Address{}, err
	}

	// Unsetting the only default is ignored; the book would otherwise have none.
	if patch.IsDefault != nil && *patch.IsDefault {
		b.clearDefaults()
		updated.IsDefault = true
	}

	(*b)[idx] = updated
	return updated, nil
}

// Remove deletes an address. When the default is removed the first remaining
// entry is promoted.
func (b *AddressBook) Remove(id uuid.UUID) error {
	idx := b.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("address %s: %w", id, ErrNotFound)
	}

	wasDefault := (*b)[idx].IsDefault
	*b = append((*b)[:idx], (*b)[idx+1:]...)

	if wasDefault && len(*b) > 0 {
		(*b)[0].IsDefault = true
	}
	return nil
}

// SetDefault makes the given address the single default.
func (b *AddressBook) SetDefault(id uuid.UUID) (Address, error) {
	idx := b.indexOf(id)
	if idx < 0 {
		return Address{}, fmt.Errorf("address %s: %w", id, ErrNotFound)
	}

	b.clearDefaults()
	(*b)[idx].IsDefault = true
	return (*b)[idx], nil
}

// Find returns the address with the given id.
func (b AddressBook) Find(id uuid.UUID) (Address, bool) {
	for _, a := range b {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}

// DefaultCount returns how many entries are flagged default.
func (b AddressBook) DefaultCount() int {
	n := 0
	for _, a := range b {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func (b AddressBook) indexOf(id uuid.UUID) int {
	for i := range b {
		if b[i].ID == id {
			return i
		}
	}
	return -1
}

func (b AddressBook) clearDefaults() {
	for i := range b {
		b[i].IsDefault = false
	}
}

func (b *AddressBook) Scan(src interface{}) error {
	if err := scanJSON(src, b); err != nil {
		return err
	}
	if *b == nil {
		*b = AddressBook{}
	}
	return nil
}

func (b AddressBook) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	return valueJSON([]Address(b))
}

func validateAddress(a Address) error {
	verr := &ValidationError{}
	required := []struct {
		field string
		value string
		label string
	}{
		{"fullName", a.FullName, "Full name"},
		{"phone", a.Phone, "Phone number"},
		{"addressLine1", a.AddressLine1, "Address line 1"},
		{"city", a.City, "City"},
		{"state", a.State, "State"},
		{"pincode", a.Pincode, "Pincode"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			verr.Add(r.field, r.label+" is required")
		}
	}
	if !a.Type.Valid() {
		verr.Add("type", "Address type must be one of home, work, other")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}
