// internal/pkg/jwt/generator.go
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Generator signs access tokens. Each token gets a ULID jti so it can be revoked.
type Generator struct {
	key      any
	method   jwt.SigningMethod
	issuer   string
	audience string
	kid      string
	Ttl      time.Duration
}

// Issued is a freshly signed access token.
type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

func (g *Generator) GenerateAccessToken(userID int64, role string) (*Issued, error) {
	if g.key == nil {
		return nil, errors.New("jwt generator has no signing key")
	}

	now := time.Now()
	out := &Issued{JTI: ulid.Make().String(), ExpiresAt: now.Add(g.Ttl)}

	rc := jwt.RegisteredClaims{
		Issuer:    g.issuer,
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(out.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        out.JTI,
	}
	if g.audience != "" {
		rc.Audience = jwt.ClaimStrings{g.audience}
	}

	tok := jwt.NewWithClaims(g.method, &Claims{UserID: userID, Role: role, RegisteredClaims: rc})
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	var err error
	if out.Token, err = tok.SignedString(g.key); err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return out, nil
}
