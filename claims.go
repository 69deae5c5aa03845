package signup

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the claim set carried by a session token. The email is
// the identity anchor; role travels along so downstream authorization does
// not need a user lookup.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email    string   `json:"email"`
	UserRole UserRole `json:"role,omitempty"`
}

// Role returns the global role, defaulting to guest.
func (c *SessionClaims) Role() UserRole {
	if c.UserRole == "" {
		return RoleGuest
	}
	return c.UserRole
}
