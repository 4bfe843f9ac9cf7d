// Package auth verifies Keycloak-issued bearer tokens and gates routes by realm role.
package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Apurer/go-gin-dog-registry/internal/shared/principal"
)

// Claims is the subset of a Keycloak access token the registry reads.
type Claims struct {
	Email             string      `json:"email,omitempty"`
	PreferredUsername string      `json:"preferred_username,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access"`
	jwt.RegisteredClaims
}

type RealmAccess struct {
	Roles []string `json:"roles"`
}

// TokenVerifier turns a raw bearer token into the calling principal.
type TokenVerifier interface {
	Verify(token string) (principal.Principal, error)
}

// Verifier checks RS256 signatures against the realm public key.
type Verifier struct {
	key    *rsa.PublicKey
	parser *jwt.Parser
}

// NewVerifier builds a verifier. An empty issuer skips the iss check.
func NewVerifier(key *rsa.PublicKey, issuer string) (*Verifier, error) {
	if key == nil {
		return nil, errors.New("token verification key is required")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer = strings.TrimSpace(issuer); issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Verifier{key: key, parser: jwt.NewParser(opts...)}, nil
}

func (v *Verifier) Verify(raw string) (principal.Principal, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return principal.Principal{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return principal.Principal{}, errors.New("token is not valid")
	}
	return claims.Principal(), nil
}

// Principal keeps only the USER and ADMIN realm roles.
func (c *Claims) Principal() principal.Principal {
	p := principal.Principal{
		Subject:  c.Subject,
		Username: c.PreferredUsername,
		Email:    c.Email,
	}
	for _, raw := range c.RealmAccess.Roles {
		role, ok := principal.ParseRole(raw)
		if ok && !p.HasRole(role) {
			p.Roles = append(p.Roles, role)
		}
	}
	return p
}

// ParseRSAPublicKey accepts a PEM block or the bare base64 key Keycloak
// publishes as the realm public_key.
func ParseRSAPublicKey(raw string) (*rsa.PublicKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("public key is empty")
	}
	if !strings.HasPrefix(raw, "-----BEGIN") {
		raw = "-----BEGIN PUBLIC KEY-----\n" + raw + "\n-----END PUBLIC KEY-----"
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key: %w", err)
	}
	return key, nil
}
