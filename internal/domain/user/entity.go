package user

import (
	"strings"
	"time"
)

// Age bounds for a user record.
const (
	MinAge = 0
	MaxAge = 150
)

// User represents a user entity in the system.
// Instances are created and mutated only through the repository; callers
// always receive copies.
type User struct {
	ID        string    // ID is the unique identifier for the user, assigned at creation
	Name      string    // Name is the full name of the user, stored trimmed
	Email     string    // Email is the unique email address, stored lowercased
	Age       int       // Age in years, within [MinAge, MaxAge]
	CreatedAt time.Time // CreatedAt is set once at creation and never changes
	UpdatedAt time.Time // UpdatedAt is refreshed on every successful update
}

// Patch describes a partial update to a user. Nil fields are left unchanged.
type Patch struct {
	Name  *string
	Email *string
	Age   *int
}

// NormalizeName returns the canonical storage form of a name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeEmail returns the canonical storage and comparison form of an
// email address. Lookups and uniqueness checks operate on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
