package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	IsStaff  bool      `json:"is_staff"`
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	ID      uuid.UUID
	IsStaff bool
}

// CanModify reports whether the actor may change something owned by ownerID.
func (a Actor) CanModify(ownerID uuid.UUID) bool {
	return a.IsStaff || a.ID == ownerID
}

func (c *TokenClaims) Actor() Actor {
	return Actor{ID: c.UserID, IsStaff: c.IsStaff}
}
