// Package redis stores sessions in Redis so several server processes can
// share them. Each session is a hash that expires together with the session.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"newsdesk/internal/domain"
	"newsdesk/internal/repository"
)

const keyPrefix = "newsdesk:session:"

type SessionRepository struct {
	rdb goredis.UniversalClient
}

func NewSessionRepository(rdb goredis.UniversalClient) repository.SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	key := sessionKey(session.ID)
	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    session.UserID,
			"remember":   strconv.FormatBool(session.Remember),
			"created_at": session.CreatedAt.UTC().Format(time.RFC3339Nano),
			"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.ExpireAt(ctx, key, session.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	values, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(values) == 0 {
		return nil, repository.ErrNotFound
	}
	return decodeSession(id, values)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: every session key carries its own EXPIREAT.
func (r *SessionRepository) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func decodeSession(id string, values map[string]string) (*domain.Session, error) {
	userID, err := strconv.ParseInt(values["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	remember, _ := strconv.ParseBool(values["remember"])
	createdAt, err := time.Parse(time.RFC3339Nano, values["created_at"])
	if err != nil {
		return nil, fmt.Errorf("decode session created_at: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, values["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("decode session expires_at: %w", err)
	}
	return &domain.Session{
		ID:        id,
		UserID:    userID,
		Remember:  remember,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}
