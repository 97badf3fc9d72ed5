package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linkboard/linkboard-api/internal/core/domain"
)

// JWTIssuer issues and resolves stateless HS256-signed bearer tokens. The
// signature covers the full claim set; claims are readable but not forgeable.
// Tokens cannot be revoked before expiry, which is why the default horizon is
// kept short.
type JWTIssuer struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewJWTIssuer(secret string, tokenTTL time.Duration) *JWTIssuer {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), tokenTTL: tokenTTL}
}

// Issue signs a token embedding exactly the principal fields plus expiry
// bookkeeping. No password material, no extra PII.
func (i *JWTIssuer) Issue(_ context.Context, user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(i.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Revoke is a no-op: a signed token stays valid until it expires. Logout for
// token deployments is the client discarding its copy.
func (i *JWTIssuer) Revoke(_ context.Context, _ string) error {
	return nil
}

// Resolve validates the signature and expiry and recovers the principal.
// Every failure mode collapses to domain.ErrInvalidAssertion.
func (i *JWTIssuer) Resolve(_ context.Context, assertion string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(assertion, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidAssertion
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || username == "" || role == "" {
		return nil, domain.ErrInvalidAssertion
	}

	return &domain.Principal{ID: sub, Username: username, Role: role}, nil
}
