package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexdesk/portal-service/internal/domain"
)

// ArticleRepository encapsulates knowledge-base persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	Search(ctx context.Context, term string, publishedOnly bool, limit, offset int) ([]domain.Article, error)
	IncrementViews(ctx context.Context, id string) error
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO kb_articles (author_staff_id, title, body, category, tags, published)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, view_count, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.AuthorID,
		article.Title,
		article.Body,
		article.Category,
		article.Tags,
		article.Published,
	).Scan(&article.ID, &article.ViewCount, &article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE kb_articles SET title=$1, body=$2, category=$3, tags=$4, published=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		article.Title,
		article.Body,
		article.Category,
		article.Tags,
		article.Published,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	const query = `
        SELECT id, author_staff_id, title, body, category, tags, published, view_count, created_at, updated_at
        FROM kb_articles WHERE id=$1`
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.AuthorID,
		&article.Title,
		&article.Body,
		&article.Category,
		&article.Tags,
		&article.Published,
		&article.ViewCount,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Search(ctx context.Context, term string, publishedOnly bool, limit, offset int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	base := `SELECT id, author_staff_id, title, body, category, tags, published, view_count, created_at, updated_at
             FROM kb_articles`
	clauses := []string{"1=1"}
	args := []any{}

	if publishedOnly {
		clauses = append(clauses, "published=TRUE")
	}
	if trimmed := strings.TrimSpace(term); trimmed != "" {
		args = append(args, "%"+strings.ToLower(trimmed)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(body) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d",
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.AuthorID,
			&article.Title,
			&article.Body,
			&article.Category,
			&article.Tags,
			&article.Published,
			&article.ViewCount,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func (r *articleRepository) IncrementViews(ctx context.Context, id string) error {
	const query = `UPDATE kb_articles SET view_count=view_count+1 WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
