package jwt

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// readRSAKeys loads a PEM key pair. PKCS#1 and PKCS#8/PKIX encodings are accepted.
func readRSAKeys(privPath, pubPath string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privPEM, err := os.ReadFile(privPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read private key %s: %w", privPath, err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse private key %s: %w", privPath, err)
	}

	pubPEM, err := os.ReadFile(pubPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read public key %s: %w", pubPath, err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse public key %s: %w", pubPath, err)
	}

	if priv.PublicKey.N.Cmp(pub.N) != 0 {
		return nil, nil, fmt.Errorf("public key %s does not match private key", pubPath)
	}
	return priv, pub, nil
}
