package service

import (
	"context"
	"strings"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/repository"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// KBService manages knowledge-base articles.
type KBService struct {
	articles repository.ArticleRepository
}

// ArticleInput describes create/update payloads.
type ArticleInput struct {
	Title     string
	Body      string
	Category  string
	Tags      []string
	Published bool
}

// NewKBService constructs the service.
func NewKBService(articles repository.ArticleRepository) *KBService {
	return &KBService{articles: articles}
}

// Create authors a new article.
func (s *KBService) Create(ctx context.Context, authorID string, input ArticleInput) (*domain.Article, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewValidationError("title and body required", nil)
	}
	article := &domain.Article{
		AuthorID:  authorID,
		Title:     strings.TrimSpace(input.Title),
		Body:      input.Body,
		Category:  strings.TrimSpace(input.Category),
		Tags:      input.Tags,
		Published: input.Published,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Update rewrites an existing article.
func (s *KBService) Update(ctx context.Context, articleID string, input ArticleInput) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewValidationError("title and body required", nil)
	}
	article.Title = strings.TrimSpace(input.Title)
	article.Body = input.Body
	article.Category = strings.TrimSpace(input.Category)
	article.Tags = input.Tags
	article.Published = input.Published
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Get returns an article. End-user reads are restricted to published
// articles and bump the view counter; a failed bump does not fail the read.
func (s *KBService) Get(ctx context.Context, articleID string, staffViewer bool) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !article.Published && !staffViewer {
		return nil, apperrors.NewNotFound("article", nil)
	}
	if !staffViewer {
		if err := s.articles.IncrementViews(ctx, article.ID); err == nil {
			article.ViewCount++
		}
	}
	return article, nil
}

// Search lists articles matching the term; end-users only see published ones.
func (s *KBService) Search(ctx context.Context, term string, staffViewer bool, limit, offset int) ([]domain.Article, error) {
	return s.articles.Search(ctx, term, !staffViewer, limit, offset)
}
