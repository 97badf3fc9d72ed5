package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/linkboard/linkboard-api/internal/api/metrics"
	"github.com/linkboard/linkboard-api/internal/core/domain"
	"github.com/linkboard/linkboard-api/internal/core/ports"
)

// ArticleHandler handles HTTP requests for shared links.
type ArticleHandler struct {
	service ports.ArticleService
}

func NewArticleHandler(service ports.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

type createArticleRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type articleResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	OwnerID       string `json:"owner_id"`
	OwnerUsername string `json:"owner_username"`
	CreatedAt     string `json:"created_at"`
}

type listArticlesResponse struct {
	Articles []articleResponse `json:"articles"`
}

// Create handles POST /articles.
//
// @Summary      Share a new link
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createArticleRequest  true  "Link to share"
// @Success      201   {object}  articleResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createArticleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	article, err := h.service.Create(c.Request().Context(), principal, req.URL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidURL) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	metrics.ArticlesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toArticleResponse(article))
}

// List handles GET /articles. Anonymous access is allowed.
//
// @Summary      List shared links, newest first
// @Tags         articles
// @Produce      json
// @Success      200  {object}  listArticlesResponse
// @Failure      500  {object}  map[string]string
// @Router       /articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	articles, err := h.service.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	resp := listArticlesResponse{Articles: make([]articleResponse, 0, len(articles))}
	for _, a := range articles {
		resp.Articles = append(resp.Articles, toArticleResponse(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /articles/:id. The service reports not-found before
// any permission evaluation and forbidden only for an existing article the
// principal neither owns nor may administer.
//
// @Summary      Delete a shared link
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), principal, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "article not found"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			metrics.ArticlesDeletedTotal.WithLabelValues("forbidden").Inc()
			return c.JSON(http.StatusForbidden, map[string]string{"error": "you can only delete your own articles"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	metrics.ArticlesDeletedTotal.WithLabelValues("deleted").Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "article deleted"})
}

func toArticleResponse(a *domain.Article) articleResponse {
	return articleResponse{
		ID:            a.ID,
		URL:           a.URL,
		OwnerID:       a.OwnerID,
		OwnerUsername: a.OwnerUsername,
		CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
