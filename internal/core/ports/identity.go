package ports

import (
	"context"

	"github.com/linkboard/linkboard-api/internal/core/domain"
)

// IdentityIssuer converts a verified credential into a portable assertion:
// either a signed bearer token or an opaque session reference, depending on
// the deployment. Revoke invalidates a session reference; for stateless
// tokens it is a no-op (tokens expire on their own, logout is client-local).
type IdentityIssuer interface {
	Issue(ctx context.Context, user *domain.User) (string, error)
	Revoke(ctx context.Context, assertion string) error
}

// IdentityResolver validates an inbound assertion and recovers the principal
// it stands for. Malformed, expired, and unknown assertions all collapse to
// domain.ErrInvalidAssertion so callers cannot tell which failure occurred.
type IdentityResolver interface {
	Resolve(ctx context.Context, assertion string) (*domain.Principal, error)
}

// LoginRateLimiter caps login attempts per username within a time window.
type LoginRateLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
}
