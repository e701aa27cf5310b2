package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/models"
)

// AuthClient is the transport-agnostic contract for the authentication
// backend. A non-nil error always means the call did not complete
// (common.ErrTransport); application failures come back as a response whose
// Code is not 200.
type AuthClient interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Response[models.User], error)
	Register(ctx context.Context, reg models.Registration) (*models.Response[models.User], error)
	CurrentUser(ctx context.Context, token string) (*models.Response[models.User], error)
	ValidateToken(ctx context.Context, token string) (*models.Response[models.TokenValidation], error)
	RefreshToken(ctx context.Context, token string) (*models.Response[models.TokenRefresh], error)

	CheckUsername(ctx context.Context, username string) (*models.Response[models.Availability], error)
	CheckPhone(ctx context.Context, phone string) (*models.Response[models.Availability], error)
	CheckEmail(ctx context.Context, email string) (*models.Response[models.Availability], error)

	IsTokenExpiringSoon(expiresAt time.Time, threshold time.Duration) bool
	AutoRefreshToken(ctx context.Context, token string, expiresAt time.Time) (*models.TokenRefresh, bool)
	RefreshIfExpiring(ctx context.Context, token string, expiresAt time.Time) (*models.TokenRefresh, error)
}
