package service

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/linkboard/linkboard-api/internal/core/domain"
	"github.com/linkboard/linkboard-api/internal/core/ports"
)

// ArticleService implements the shared-link use cases. Deletion is the only
// mutating operation gated on identity: the target must exist, then the
// principal must own it or hold the admin role.
type ArticleService struct {
	repo   ports.ArticleRepository
	logger zerolog.Logger
}

func NewArticleService(repo ports.ArticleRepository, logger zerolog.Logger) *ArticleService {
	return &ArticleService{repo: repo, logger: logger}
}

// Create stores a new article owned by the principal.
func (s *ArticleService) Create(ctx context.Context, principal domain.Principal, rawURL string) (*domain.Article, error) {
	if !isValidArticleURL(rawURL) {
		return nil, domain.ErrInvalidURL
	}

	article := &domain.Article{
		URL:           rawURL,
		OwnerID:       principal.ID,
		OwnerUsername: principal.Username,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, article)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", principal.ID).Msg("failed to create article")
		return nil, err
	}

	s.logger.Info().Str("article_id", created.ID).Str("owner", created.OwnerUsername).Msg("article created")
	return created, nil
}

// List returns all articles, newest first.
func (s *ArticleService) List(ctx context.Context) ([]*domain.Article, error) {
	return s.repo.List(ctx)
}

// Delete removes an article after the authorization gate. Existence is
// checked first: a missing article is not-found for everyone, and the
// ownership/role predicate only runs against a confirmed owner id.
func (s *ArticleService) Delete(ctx context.Context, principal domain.Principal, id string) error {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !principal.CanDelete(article.OwnerID) {
		s.logger.Warn().
			Str("article_id", id).
			Str("owner_id", article.OwnerID).
			Str("principal_id", principal.ID).
			Msg("delete denied")
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("article_id", id).Str("deleted_by", principal.Username).Msg("article deleted")
	return nil
}

// isValidArticleURL accepts absolute http(s) URLs only.
func isValidArticleURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
