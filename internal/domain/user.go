package domain

import (
	"strings"
	"time"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleUser      Role = "USER"
	RoleProfessor Role = "PROFESSOR"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the system (a regular user, a professor or an admin).
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`              // Unique, stored normalized
	PasswordHash *string   `bson:"passwordHash,omitempty" json:"-"` // Nil for federated accounts, never exposed
	Role         Role      `bson:"role" json:"role"`
	FirstName    string    `bson:"firstName" json:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName"`
	AvatarURL    *string   `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	FederatedID  *string   `bson:"federatedId,omitempty" json:"federatedId,omitempty"` // External identity provider subject
	IsActive     bool      `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasAnyRole reports whether the user's role is in allowed.
func (u *User) HasAnyRole(allowed ...Role) bool {
	return HasAnyRole(u.Role, allowed...)
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasAnyRole is the single capability check used by guards and services.
// The role is stored as a scalar; callers never compare roles directly.
func HasAnyRole(role Role, allowed ...Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// NormalizeEmail lower-cases and trims an email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitFullName splits "Jane Mary Doe" into ("Jane", "Mary Doe").
func SplitFullName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// UserPatch carries the profile fields a user may change. Nil fields are left untouched.
type UserPatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
	AvatarURL    *string
}

// Claims is the verified payload of a session token. It is passed explicitly
// into every service call that needs to know who is acting.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}
