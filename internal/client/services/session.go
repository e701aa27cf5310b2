// Package services contains application services for the auth client.
// This file defines the session service: login and register against the
// backend, persistence of the issued token, protected calls with the stored
// token, refresh and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/client"
	"github.com/dmitrijs2005/authclient/internal/client/models"
	"github.com/dmitrijs2005/authclient/internal/client/tokenstore"
	"github.com/dmitrijs2005/authclient/internal/common"
	"github.com/dmitrijs2005/authclient/internal/logging"
)

// Availability check kinds accepted by CheckAvailability.
const (
	KindUsername = "username"
	KindPhone    = "phone"
	KindEmail    = "email"
)

var ErrUnknownKind = errors.New("unknown availability kind")

// TokenStore is the subset of tokenstore.Store the session relies on.
type TokenStore interface {
	SaveToken(ctx context.Context, token string, expiresAt time.Time) error
	Token(ctx context.Context) (string, bool, error)
	Load(ctx context.Context) (tokenstore.Token, bool, error)
	ClearToken(ctx context.Context) error
	IsTokenValid(ctx context.Context) (bool, error)
}

// Status is a snapshot of the stored session.
type Status struct {
	LoggedIn     bool
	Token        tokenstore.Token
	Valid        bool
	ExpiringSoon bool
}

// SessionService defines session operations for the CLI.
//
// Contract:
//   - Login/Register: call the backend and persist the issued token.
//   - CurrentUser/Validate: call a protected endpoint with the stored token;
//     common.ErrNotLoggedIn when nothing is stored.
//   - EnsureFresh: best-effort refresh of a token that is expiring soon.
//   - Refresh: unconditional refresh.
//   - Logout: forget the stored token.
//
// All methods must honor context cancellation/timeouts.
type SessionService interface {
	Login(ctx context.Context, username string, password []byte) (*models.User, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Validate(ctx context.Context) (*models.TokenValidation, error)
	EnsureFresh(ctx context.Context) (bool, error)
	Refresh(ctx context.Context) (tokenstore.Token, error)
	Status(ctx context.Context) (Status, error)
	CheckAvailability(ctx context.Context, kind, value string) (*models.Availability, error)
	Logout(ctx context.Context) error
}

type sessionService struct {
	client    client.AuthClient
	store     TokenStore
	threshold time.Duration
	logger    logging.Logger
}

// NewSessionService binds an API client to a token store. threshold is the
// expiring-soon window reported by Status.
func NewSessionService(c client.AuthClient, store TokenStore, threshold time.Duration, logger logging.Logger) SessionService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &sessionService{client: c, store: store, threshold: threshold, logger: logger}
}

// Login authenticates and saves the token issued with the response.
func (s *sessionService) Login(ctx context.Context, username string, password []byte) (*models.User, error) {
	resp, err := s.client.Login(ctx, models.Credentials{Username: username, Password: string(password)})
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	user, err := resp.Unwrap()
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	token, expiresAt, ok := resp.IssuedToken()
	if !ok {
		return nil, fmt.Errorf("login error: %w", common.ErrMissingToken)
	}
	if err := s.store.SaveToken(ctx, token, expiresAt); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}
	s.logger.Info(ctx, "logged in", "username", user.Username, "expires_at", expiresAt)
	return user, nil
}

// Register creates an account. When the backend also issues a token the
// new session is persisted.
func (s *sessionService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	resp, err := s.client.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	user, err := resp.Unwrap()
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	if token, expiresAt, ok := resp.IssuedToken(); ok {
		if err := s.store.SaveToken(ctx, token, expiresAt); err != nil {
			return nil, fmt.Errorf("token saving error: %w", err)
		}
	}
	s.logger.Info(ctx, "registered", "username", user.Username)
	return user, nil
}

func (s *sessionService) storedToken(ctx context.Context) (string, error) {
	token, ok, err := s.store.Token(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrNotLoggedIn
	}
	return token, nil
}

func (s *sessionService) CurrentUser(ctx context.Context) (*models.User, error) {
	token, err := s.storedToken(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return resp.Unwrap()
}

func (s *sessionService) Validate(ctx context.Context) (*models.TokenValidation, error) {
	token, err := s.storedToken(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return resp.Unwrap()
}

// EnsureFresh refreshes the stored token when it is expiring soon and saves
// the replacement. Refresh failures are logged by the client and reported
// as false; only storage errors and a missing session are returned.
func (s *sessionService) EnsureFresh(ctx context.Context) (bool, error) {
	current, ok, err := s.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, common.ErrNotLoggedIn
	}

	refreshed, ok := s.client.AutoRefreshToken(ctx, current.Value, current.ExpiresAt)
	if !ok {
		return false, nil
	}
	if err := s.store.SaveToken(ctx, refreshed.Token, refreshed.Expiry()); err != nil {
		return false, fmt.Errorf("token saving error: %w", err)
	}
	s.logger.Debug(ctx, "token refreshed", "expires_at", refreshed.Expiry())
	return true, nil
}

// Refresh renews the stored token regardless of its expiry.
func (s *sessionService) Refresh(ctx context.Context) (tokenstore.Token, error) {
	token, err := s.storedToken(ctx)
	if err != nil {
		return tokenstore.Token{}, err
	}
	resp, err := s.client.RefreshToken(ctx, token)
	if err != nil {
		return tokenstore.Token{}, err
	}
	refreshed, err := resp.Unwrap()
	if err != nil {
		return tokenstore.Token{}, err
	}
	if refreshed.Token == "" {
		return tokenstore.Token{}, common.ErrMissingToken
	}
	if err := s.store.SaveToken(ctx, refreshed.Token, refreshed.Expiry()); err != nil {
		return tokenstore.Token{}, fmt.Errorf("token saving error: %w", err)
	}
	return tokenstore.Token{Value: refreshed.Token, ExpiresAt: refreshed.Expiry()}, nil
}

func (s *sessionService) Status(ctx context.Context) (Status, error) {
	current, ok, err := s.store.Load(ctx)
	if err != nil || !ok {
		return Status{}, err
	}
	valid, err := s.store.IsTokenValid(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		LoggedIn:     true,
		Token:        current,
		Valid:        valid,
		ExpiringSoon: s.client.IsTokenExpiringSoon(current.ExpiresAt, s.threshold),
	}, nil
}

func (s *sessionService) CheckAvailability(ctx context.Context, kind, value string) (*models.Availability, error) {
	var (
		resp *models.Response[models.Availability]
		err  error
	)
	switch kind {
	case KindUsername:
		resp, err = s.client.CheckUsername(ctx, value)
	case KindPhone:
		resp, err = s.client.CheckPhone(ctx, value)
	case KindEmail:
		resp, err = s.client.CheckEmail(ctx, value)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return resp.Unwrap()
}

// Logout clears the stored token. It never calls the backend.
func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.store.ClearToken(ctx); err != nil {
		return err
	}
	s.logger.Info(ctx, "logged out")
	return nil
}
