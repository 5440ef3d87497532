package dto

import (
	"time"

	"github.com/nexdesk/portal-service/internal/domain"
)

// ArticleRequest payload for create/update.
type ArticleRequest struct {
	Title     string   `json:"title" validate:"required"`
	Body      string   `json:"body" validate:"required"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

// ArticleResponse serializes a knowledge-base article.
type ArticleResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Published bool      `json:"published"`
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewArticleResponse maps the domain model.
func NewArticleResponse(article *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:        article.ID,
		AuthorID:  article.AuthorID,
		Title:     article.Title,
		Body:      article.Body,
		Category:  article.Category,
		Tags:      article.Tags,
		Published: article.Published,
		ViewCount: article.ViewCount,
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}
}

// ArticleListResponse maps a slice of articles.
func ArticleListResponse(articles []domain.Article) []ArticleResponse {
	items := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, NewArticleResponse(&articles[i]))
	}
	return items
}
