package ports

import (
	"context"

	"github.com/linkboard/linkboard-api/internal/core/domain"
)

// ArticleRepository defines persistence operations for shared links. It is
// the ownership source of truth consulted before any delete is authorized.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) (*domain.Article, error)
	FindByID(ctx context.Context, id string) (*domain.Article, error)
	// List returns all articles, newest first.
	List(ctx context.Context) ([]*domain.Article, error)
	Delete(ctx context.Context, id string) error
}
