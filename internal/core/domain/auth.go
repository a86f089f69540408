package domain

import "time"

// ClaimSet is the identity data carried inside a signed token.
type ClaimSet struct {
	IdentityID string
	Role       Role
	TokenID    string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// AuthContext is the per-request identity resolved from a valid token.
type AuthContext struct {
	IdentityID string `json:"id"`
	Role       Role   `json:"role"`
}

// HasRole reports whether the context's role is one of roles.
func (a AuthContext) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
