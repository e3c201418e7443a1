package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"newsdesk/internal/domain"
	"newsdesk/internal/repository"
)

const sessionIssuer = "newsdesk"

// SessionConfig controls token signing and lifetimes.
type SessionConfig struct {
	Secret      string
	TTL         time.Duration
	RememberTTL time.Duration
}

// SessionService issues and resolves login sessions. Tokens are signed JWTs
// naming a server-side session record, so ending a session revokes the token
// before it expires.
type SessionService interface {
	Start(ctx context.Context, userID int64, remember bool) (string, *domain.Session, error)
	Current(ctx context.Context, token string) (int64, bool)
	End(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	jwt.RegisteredClaims
}

type sessionService struct {
	sessions repository.SessionRepository
	secret   []byte
	ttl      time.Duration
	remember time.Duration
	now      func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, cfg SessionConfig) (SessionService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = 365 * 24 * time.Hour
	}
	return &sessionService{
		sessions: sessions,
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
		remember: cfg.RememberTTL,
		now:      time.Now,
	}, nil
}

func (s *sessionService) Start(ctx context.Context, userID int64, remember bool) (string, *domain.Session, error) {
	if userID <= 0 {
		return "", nil, errors.New("invalid user id")
	}

	now := s.now().UTC()
	// housekeeping only; a failed sweep must not block the login
	_, _ = s.sessions.DeleteExpired(ctx, now)

	ttl := s.ttl
	if remember {
		ttl = s.remember
	}
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Remember:  remember,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	claims := sessionClaims{
		SessionID: session.ID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, session, nil
}

func (s *sessionService) Current(ctx context.Context, token string) (int64, bool) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, false
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return 0, false
	}
	if session.UserID != claims.UserID || session.Expired(s.now()) {
		return 0, false
	}
	return session.UserID, true
}

func (s *sessionService) End(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

// PurgeExpired drops stored sessions whose lifetime has ended.
func (s *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return n, nil
}

func (s *sessionService) parse(token string) (*sessionClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("token is empty")
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.SessionID == "" || claims.UserID <= 0 {
		return nil, errors.New("invalid session token")
	}
	if claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, errors.New("invalid token subject")
	}
	return claims, nil
}
