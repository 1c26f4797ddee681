package jwtauth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RoleAdmin = "admin"

type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidUserID
	}
	return id, nil
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
