// internal/pkg/jwt/claims.go
package jwt

import "github.com/golang-jwt/jwt/v5"

const roleAdmin = "admin"

// Claims carries the authenticated user's id and role.
type Claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool { return c.Role == roleAdmin }
