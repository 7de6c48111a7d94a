package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the account document. Cart and Addresses are embedded JSONB
// documents mutated only through read-modify-write in the repository.
type User struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	PasswordHash string      `json:"-" db:"password_hash"`
	Phone        string      `json:"phone" db:"phone"`
	Role         string      `json:"role" db:"role"`
	Cart         Cart        `json:"cart" db:"cart"`
	Addresses    AddressBook `json:"addresses" db:"addresses"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanAccess reports whether the caller owns ownerID or is an admin.
func (i Identity) CanAccess(ownerID uuid.UUID) bool {
	return i.IsAdmin() || i.UserID == ownerID
}
