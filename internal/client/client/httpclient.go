package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/models"
	"github.com/dmitrijs2005/authclient/internal/common"
	"github.com/dmitrijs2005/authclient/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "http://localhost:8080"

	loginPath         = "/api/auth/login"
	registerPath      = "/api/auth/register"
	mePath            = "/api/auth/me"
	validatePath      = "/api/auth/validate"
	refreshPath       = "/api/auth/refresh"
	checkUsernamePath = "/api/auth/check-username/"
	checkPhonePath    = "/api/auth/check-phone/"
	checkEmailPath    = "/api/auth/check-email/"
)

// HTTPClient talks JSON over HTTP to the authentication backend. It keeps no
// token state: protected calls take the token from the caller.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
	now        func() time.Time
	threshold  time.Duration
}

var _ AuthClient = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, options ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     logging.Discard(),
		now:        time.Now,
		threshold:  DefaultExpiryThreshold,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.Response[models.User], error) {
	return do[models.User](ctx, c, http.MethodPost, loginPath, creds)
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.Response[models.User], error) {
	return do[models.User](ctx, c, http.MethodPost, registerPath, reg)
}

func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (*models.Response[models.User], error) {
	return do[models.User](ctx, c, http.MethodGet, mePath, nil, withBearer(token))
}

func (c *HTTPClient) ValidateToken(ctx context.Context, token string) (*models.Response[models.TokenValidation], error) {
	return do[models.TokenValidation](ctx, c, http.MethodGet, validatePath, nil, withBearer(token))
}

func (c *HTTPClient) RefreshToken(ctx context.Context, token string) (*models.Response[models.TokenRefresh], error) {
	return do[models.TokenRefresh](ctx, c, http.MethodPost, refreshPath, nil, withBearer(token))
}

func (c *HTTPClient) CheckUsername(ctx context.Context, username string) (*models.Response[models.Availability], error) {
	return do[models.Availability](ctx, c, http.MethodGet, checkUsernamePath+url.PathEscape(username), nil)
}

func (c *HTTPClient) CheckPhone(ctx context.Context, phone string) (*models.Response[models.Availability], error) {
	return do[models.Availability](ctx, c, http.MethodGet, checkPhonePath+url.PathEscape(phone), nil)
}

func (c *HTTPClient) CheckEmail(ctx context.Context, email string) (*models.Response[models.Availability], error) {
	return do[models.Availability](ctx, c, http.MethodGet, checkEmailPath+url.PathEscape(email), nil)
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
}

// do issues exactly one request and decodes the envelope whatever the HTTP
// status, since the backend reports failures inside the body.
func do[T any](ctx context.Context, c *HTTPClient, method, path string, body any, opts ...requestOption) (*models.Response[T], error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	log := c.logger.With("method", method, "path", path, "request_id", requestID)
	log.Debug(ctx, "sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "error", err)
		return nil, mapError(err)
	}
	defer func() {
		// drained bodies let the transport reuse the connection
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var out models.Response[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Debug(ctx, "undecodable response", "http_status", resp.StatusCode, "error", err)
		return nil, fmt.Errorf("%w: decode %s response (http %d): %w", common.ErrTransport, path, resp.StatusCode, err)
	}

	log.Debug(ctx, "response received", "http_status", resp.StatusCode, "code", out.Code)
	return &out, nil
}

// mapError tags transport failures with common.ErrTransport while keeping
// the cause (e.g. context.Canceled) matchable.
func mapError(err error) error {
	return fmt.Errorf("%w: %w", common.ErrTransport, err)
}
