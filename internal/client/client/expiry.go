package client

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/models"
	"github.com/dmitrijs2005/authclient/internal/common"
)

// DefaultExpiryThreshold is how close to expiry a token counts as
// "expiring soon".
const DefaultExpiryThreshold = 5 * time.Minute

// ExpiringSoon reports whether expiresAt - now < threshold. An already
// expired token is always expiring soon for a non-negative threshold.
func ExpiringSoon(now, expiresAt time.Time, threshold time.Duration) bool {
	return expiresAt.Sub(now) < threshold
}

// IsTokenExpiringSoon applies ExpiringSoon with the client clock.
func (c *HTTPClient) IsTokenExpiringSoon(expiresAt time.Time, threshold time.Duration) bool {
	return ExpiringSoon(c.now(), expiresAt, threshold)
}

// RefreshIfExpiring refreshes token when it expires within the configured
// threshold. It returns common.ErrRefreshNotNeeded without any request when
// the token is still fresh, the transport error, or an *models.APIError.
func (c *HTTPClient) RefreshIfExpiring(ctx context.Context, token string, expiresAt time.Time) (*models.TokenRefresh, error) {
	if !c.IsTokenExpiringSoon(expiresAt, c.threshold) {
		return nil, common.ErrRefreshNotNeeded
	}

	resp, err := c.RefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	refreshed, err := resp.Unwrap()
	if err != nil {
		return nil, err
	}
	if refreshed.Token == "" {
		return nil, common.ErrMissingToken
	}
	return refreshed, nil
}

// AutoRefreshToken is the best-effort form of RefreshIfExpiring: it returns
// the new token and true only after a successful refresh. Failures are
// logged and never returned.
func (c *HTTPClient) AutoRefreshToken(ctx context.Context, token string, expiresAt time.Time) (*models.TokenRefresh, bool) {
	refreshed, err := c.RefreshIfExpiring(ctx, token, expiresAt)
	if err != nil {
		if !errors.Is(err, common.ErrRefreshNotNeeded) {
			c.logger.Error(ctx, "token refresh failed", "error", err)
		}
		return nil, false
	}
	return refreshed, true
}
