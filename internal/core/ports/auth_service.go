package ports

import (
	"context"

	"github.com/linkboard/linkboard-api/internal/core/domain"
)

// AuthService orchestrates registration, login, and logout.
//
// Register returns the created user plus an assertion when the deployment
// establishes an authenticated context immediately (session variant); the
// assertion is empty when an explicit login is required (token variant).
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context, assertion string) error
}
