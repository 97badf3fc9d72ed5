package ports

import (
	"context"

	"github.com/linkboard/linkboard-api/internal/core/domain"
)

// UserRepository defines the credential store. Username uniqueness is the
// store's responsibility: Create must be an atomic insert-if-absent and
// return domain.ErrUserExists on a duplicate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
