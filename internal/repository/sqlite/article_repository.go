package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newsdesk/internal/domain"
	"newsdesk/internal/repository"
)

const selectArticles = `
SELECT id, user_id, title, content, category, image_url, created_at
FROM articles`

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) (int64, error) {
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	article.CreatedAt = article.CreatedAt.UTC()

	var id int64
	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO articles (user_id, title, content, category, image_url, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
			article.UserID,
			article.Title,
			article.Content,
			article.Category,
			article.ImageURL,
			article.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert article: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("article last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	article.ID = id
	return id, nil
}

func (r *ArticleRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.Article, error) {
	return r.query(ctx, selectArticles+`
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`, userID)
}

func (r *ArticleRepository) ListAll(ctx context.Context) ([]domain.Article, error) {
	return r.query(ctx, selectArticles+`
ORDER BY created_at DESC, id DESC`)
}

func (r *ArticleRepository) ListByCategory(ctx context.Context, category string) ([]domain.Article, error) {
	return r.query(ctx, selectArticles+`
WHERE category = ?
ORDER BY created_at DESC, id DESC`, category)
}

func (r *ArticleRepository) query(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := []domain.Article{}
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Content, &a.Category, &a.ImageURL, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}
