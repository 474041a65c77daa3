package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID        string    // ID is the store-assigned identifier, immutable
	Name      string    // Name is the full name of the user
	Age       int64     // Age in whole years, never negative
	Email     string    // Email is the unique, lowercased email address
	Address   string    // Address is optional free text
	CreatedAt time.Time // CreatedAt is assigned by the store on creation
	UpdatedAt time.Time // UpdatedAt is refreshed by the store on every update
}

// Patch holds the fields of a partial update. A nil field is absent and must
// be excluded from the write entirely.
type Patch struct {
	Name    *string
	Age     *int64
	Email   *string
	Address *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.Email == nil && p.Address == nil
}
