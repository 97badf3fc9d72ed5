package ports

import (
	"context"

	"github.com/linkboard/linkboard-api/internal/core/domain"
)

// ArticleService defines use-case operations for shared links. Mutations take
// the caller's principal; Delete checks existence before evaluating the
// ownership/role predicate, so a missing article is reported as not-found
// regardless of who asks.
type ArticleService interface {
	Create(ctx context.Context, principal domain.Principal, rawURL string) (*domain.Article, error)
	List(ctx context.Context) ([]*domain.Article, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
}
