package repository

import (
	"context"

	"newsdesk/internal/domain"
)

// ArticleRepository exposes persistence operations for articles.
// Listings are ordered newest first.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) (int64, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Article, error)
	ListAll(ctx context.Context) ([]domain.Article, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Article, error)
}
