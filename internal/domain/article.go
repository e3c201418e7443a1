package domain

import "time"

// Column limits shared by validation and the schema.
const (
	MaxTitleLen    = 200
	MaxCategoryLen = 50
	MaxImageURLLen = 500
	MaxUsernameLen = 80
	MaxEmailLen    = 120
)

// Article is a locally published piece owned by exactly one user.
// Articles are never modified after insert.
type Article struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	Category  string
	ImageURL  string
	CreatedAt time.Time
}
