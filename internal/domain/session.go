package domain

import "time"

// Session binds an opaque token to a single authenticated user.
type Session struct {
	ID        string
	UserID    int64
	Remember  bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at t.
func (s Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}
