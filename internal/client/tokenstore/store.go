package tokenstore

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/repositories/metadata"
)

const (
	TokenKey     = "auth_token"
	ExpiresAtKey = "token_expires_at"
)

// Token is the stored session: the bearer token and its absolute expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token is non-empty and expires strictly after now.
func (t Token) Valid(now time.Time) bool {
	return t.Value != "" && t.ExpiresAt.After(now)
}

type Store struct {
	repo metadata.Repository
	now  func() time.Time
}

type Option func(*Store)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(repo metadata.Repository, opts ...Option) *Store {
	s := &Store{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveToken overwrites both keys in a single SetMany call. The expiry is
// stored as decimal milliseconds since the epoch.
func (s *Store) SaveToken(ctx context.Context, token string, expiresAt time.Time) error {
	return s.repo.SetMany(ctx, map[string][]byte{
		TokenKey:     []byte(token),
		ExpiresAtKey: []byte(strconv.FormatInt(expiresAt.UnixMilli(), 10)),
	})
}

// Token returns the stored token. ok is false only when nothing is stored;
// an empty string round-trips as present.
func (s *Store) Token(ctx context.Context) (string, bool, error) {
	v, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return string(v), true, nil
}

// TokenExpiresAt returns the stored expiry. A missing key or text that is
// not a decimal integer both yield ok == false.
func (s *Store) TokenExpiresAt(ctx context.Context) (time.Time, bool, error) {
	v, err := s.repo.Get(ctx, ExpiresAtKey)
	if err != nil {
		return time.Time{}, false, err
	}
	if v == nil {
		return time.Time{}, false, nil
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

// Load returns both fields, or ok == false when either is absent.
func (s *Store) Load(ctx context.Context) (Token, bool, error) {
	value, ok, err := s.Token(ctx)
	if err != nil || !ok {
		return Token{}, false, err
	}
	expiresAt, ok, err := s.TokenExpiresAt(ctx)
	if err != nil || !ok {
		return Token{}, false, err
	}
	return Token{Value: value, ExpiresAt: expiresAt}, true, nil
}

// ClearToken removes both keys. Clearing an empty store is a no-op.
func (s *Store) ClearToken(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey, ExpiresAtKey)
}

// IsTokenValid is true iff both fields are present and the expiry is
// strictly after the current time.
func (s *Store) IsTokenValid(ctx context.Context) (bool, error) {
	t, ok, err := s.Load(ctx)
	if err != nil || !ok {
		return false, err
	}
	return t.Valid(s.now()), nil
}
