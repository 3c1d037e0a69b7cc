// internal/pkg/jwt/loader.go
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config selects the signing mode. RSA PEM paths win over the shared secret.
type Config struct {
	Secret   string
	PrivPath string
	PubPath  string
	Issuer   string
	Audience string
	TTL      time.Duration
	KID      string
}

// Manager pairs a token generator with the verifier for the same key.
type Manager struct {
	Generator *Generator
	Verifier  *Verifier
}

func LoadAndBuild(cfg Config) (*Manager, error) {
	if cfg.PrivPath == "" || cfg.PubPath == "" {
		return NewHMACManager(cfg)
	}

	priv, pub, err := readRSAKeys(cfg.PrivPath, cfg.PubPath)
	if err != nil {
		return nil, err
	}
	return newManager(cfg, jwt.SigningMethodRS256, priv, pub), nil
}

// NewHMACManager builds an HS256 manager from cfg.Secret.
func NewHMACManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	key := []byte(cfg.Secret)
	return newManager(cfg, jwt.SigningMethodHS256, key, key), nil
}

func newManager(cfg Config, method jwt.SigningMethod, signKey, verifyKey any) *Manager {
	return &Manager{
		Generator: &Generator{
			key:      signKey,
			method:   method,
			issuer:   cfg.Issuer,
			audience: cfg.Audience,
			kid:      cfg.KID,
			Ttl:      cfg.TTL,
		},
		Verifier: newVerifier(verifyKey, method, cfg.Issuer, cfg.Audience),
	}
}
