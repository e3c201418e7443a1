package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/domain"
	"newsdesk/internal/repository"
)

// ArticleService coordinates article publishing and listing.
type ArticleService interface {
	Create(ctx context.Context, ownerID int64, title, content, category, imageURL string) (*domain.Article, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Article, error)
	ListAll(ctx context.Context) ([]domain.Article, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Article, error)
}

type articleService struct {
	articles repository.ArticleRepository
	now      func() time.Time
}

func NewArticleService(articles repository.ArticleRepository) ArticleService {
	return &articleService{
		articles: articles,
		now:      time.Now,
	}
}

func (s *articleService) Create(ctx context.Context, ownerID int64, title, content, category, imageURL string) (*domain.Article, error) {
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)
	imageURL = strings.TrimSpace(imageURL)

	if err := requireFields(
		field{"title", title, domain.MaxTitleLen},
		field{"content", strings.TrimSpace(content), 0},
		field{"category", category, domain.MaxCategoryLen},
	); err != nil {
		return nil, err
	}
	if len([]rune(imageURL)) > domain.MaxImageURLLen {
		return nil, &ValidationError{Field: "image url", Reason: fmt.Sprintf("must be at most %d characters", domain.MaxImageURLLen)}
	}
	if ownerID <= 0 {
		return nil, &ValidationError{Field: "owner", Reason: "is required"}
	}

	article := &domain.Article{
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		Category:  category,
		ImageURL:  imageURL,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return article, nil
}

func (s *articleService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Article, error) {
	return s.articles.ListByOwner(ctx, ownerID)
}

func (s *articleService) ListAll(ctx context.Context) ([]domain.Article, error) {
	return s.articles.ListAll(ctx)
}

func (s *articleService) ListByCategory(ctx context.Context, category string) ([]domain.Article, error) {
	return s.articles.ListByCategory(ctx, category)
}
