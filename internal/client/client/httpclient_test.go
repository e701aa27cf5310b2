package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/authclient/internal/authmock"
	"github.com/dmitrijs2005/authclient/internal/client/models"
	"github.com/dmitrijs2005/authclient/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = models.Registration{
	Username: "alice",
	Password: "secret",
	Phone:    "13800000001",
	Email:    "alice@example.org",
	FullName: "Alice Liddell",
}

func newMock(t *testing.T) *authmock.Server {
	t.Helper()
	srv := authmock.New()
	t.Cleanup(srv.Close)
	return srv
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	c := NewHTTPClient("")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultExpiryThreshold, c.threshold)

	c = NewHTTPClient("http://api.example.org/")
	assert.Equal(t, "http://api.example.org", c.baseURL)
}

func TestLogin_Success(t *testing.T) {
	srv := newMock(t)
	srv.AddUser(alice)
	c := NewHTTPClient(srv.URL)

	resp, err := c.Login(context.Background(), models.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	require.True(t, resp.Success())

	user, err := resp.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Nil(t, user.Password)

	token, exp, ok := resp.IssuedToken()
	require.True(t, ok)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	var sent map[string]string
	require.NoError(t, json.Unmarshal(srv.LastBody(loginPath), &sent))
	assert.Equal(t, map[string]string{"username": "alice", "password": "secret"}, sent)

	h := srv.LastHeader(loginPath)
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Empty(t, h.Get("Authorization"))
	assert.NotEmpty(t, h.Get(common.RequestIDHeaderName))
}

func TestLogin_WrongPasswordIsApplicationFailure(t *testing.T) {
	srv := newMock(t)
	srv.AddUser(alice)
	c := NewHTTPClient(srv.URL)

	resp, err := c.Login(context.Background(), models.Credentials{Username: "alice", Password: "nope"})
	require.NoError(t, err, "non-200 envelopes are not transport errors")
	assert.False(t, resp.Success())
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Nil(t, resp.Data)
	assert.Nil(t, resp.Token)

	_, err = resp.Unwrap()
	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid username or password", apiErr.Message)
}

func TestRegister_SendsAllFields(t *testing.T) {
	srv := newMock(t)
	c := NewHTTPClient(srv.URL)

	resp, err := c.Register(context.Background(), alice)
	require.NoError(t, err)
	user, err := resp.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "alice@example.org", user.Email)
	assert.Equal(t, models.UserStatusActive, user.Status)

	var sent map[string]string
	require.NoError(t, json.Unmarshal(srv.LastBody(registerPath), &sent))
	assert.Equal(t, map[string]string{
		"username": "alice",
		"password": "secret",
		"phone":    "13800000001",
		"email":    "alice@example.org",
		"fullName": "Alice Liddell",
	}, sent)

	resp, err = c.Register(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRegister_ServerSideValidationFailure(t *testing.T) {
	srv := newMock(t)
	c := NewHTTPClient(srv.URL)

	bad := alice
	bad.Phone = "12345"
	resp, err := c.Register(context.Background(), bad)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Message, "phone")
	assert.Nil(t, resp.Data)
	_, _, ok := resp.IssuedToken()
	assert.False(t, ok)
}

func TestCurrentUser_SendsBearer(t *testing.T) {
	srv := newMock(t)
	srv.AddUser(alice)
	token, _, err := srv.IssueToken("alice", time.Hour)
	require.NoError(t, err)
	c := NewHTTPClient(srv.URL)

	resp, err := c.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	user, err := resp.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Bearer "+token, srv.LastHeader(mePath).Get("Authorization"))

	resp, err = c.CurrentUser(context.Background(), "garbage")
	require.NoError(t, err)
	_, err = resp.Unwrap()
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestValidateToken(t *testing.T) {
	srv := newMock(t)
	token, exp, err := srv.IssueToken("alice", time.Hour)
	require.NoError(t, err)
	c := NewHTTPClient(srv.URL)

	resp, err := c.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	v, err := resp.Unwrap()
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, "alice", v.Username)
	require.NotNil(t, v.ExpiresAt)
	assert.Equal(t, exp, *v.ExpiresAt)

	resp, err = c.ValidateToken(context.Background(), "garbage")
	require.NoError(t, err)
	v, err = resp.Unwrap()
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Empty(t, v.Username)
	assert.Nil(t, v.ExpiresAt)
}

func TestRefreshToken_PostsWithoutBody(t *testing.T) {
	srv := newMock(t)
	token, _, err := srv.IssueToken("alice", time.Hour)
	require.NoError(t, err)
	c := NewHTTPClient(srv.URL)

	resp, err := c.RefreshToken(context.Background(), token)
	require.NoError(t, err)
	refreshed, err := resp.Unwrap()
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.NotEqual(t, token, refreshed.Token)
	assert.Positive(t, refreshed.ExpiresAt)

	assert.Empty(t, srv.LastBody(refreshPath))
	assert.Equal(t, "Bearer "+token, srv.LastHeader(refreshPath).Get("Authorization"))
}

func TestCheckAvailability(t *testing.T) {
	srv := newMock(t)
	srv.AddUser(alice)
	c := NewHTTPClient(srv.URL)
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func() (*models.Response[models.Availability], error)
		value     string
		available bool
	}{
		{"taken username", func() (*models.Response[models.Availability], error) { return c.CheckUsername(ctx, "alice") }, "alice", false},
		{"free username", func() (*models.Response[models.Availability], error) { return c.CheckUsername(ctx, "bob") }, "bob", true},
		{"taken phone", func() (*models.Response[models.Availability], error) { return c.CheckPhone(ctx, "13800000001") }, "13800000001", false},
		{"free email", func() (*models.Response[models.Availability], error) { return c.CheckEmail(ctx, "bob@example.org") }, "bob@example.org", true},
		{"escaped value", func() (*models.Response[models.Availability], error) { return c.CheckUsername(ctx, "a b") }, "a b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.call()
			require.NoError(t, err)
			a, err := resp.Unwrap()
			require.NoError(t, err)
			assert.Equal(t, tt.value, a.Value)
			assert.Equal(t, tt.available, a.Available)
			assert.NotEmpty(t, a.Message)
		})
	}
}

func TestTransportFailure_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url)
	resp, err := c.Login(context.Background(), models.Credentials{Username: "alice", Password: "secret"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, common.ErrTransport)
}

func TestTransportFailure_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.ValidateToken(context.Background(), "abc123")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransport)
	assert.Contains(t, err.Error(), validatePath)
}

func TestResponseBody_TrailingBytesKeepConnectionReusable(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"valid":false}}`))
		// whitespace after the envelope is left unread by the decoder
		_, _ = w.Write([]byte(strings.Repeat(" ", 64<<10)))
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			conns.Add(1)
		}
	}
	srv.Start()
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithHTTPClient(srv.Client()))
	for i := 0; i < 3; i++ {
		resp, err := c.ValidateToken(context.Background(), "abc123")
		require.NoError(t, err)
		require.True(t, resp.Success())
	}
	assert.Equal(t, int32(1), conns.Load())
}

func TestTransportFailure_ContextCanceled(t *testing.T) {
	srv := newMock(t)
	c := NewHTTPClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CheckEmail(ctx, "a@example.org")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTransport))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, srv.Calls(checkEmailPath+"a@example.org"))
}

func TestEveryOperation_IssuesExactlyOneRequest(t *testing.T) {
	srv := newMock(t)
	srv.AddUser(alice)
	c := NewHTTPClient(srv.URL)
	ctx := context.Background()

	_, _ = c.Login(ctx, models.Credentials{Username: "alice", Password: "wrong"})
	_, _ = c.CurrentUser(ctx, "bad")
	_, _ = c.RefreshToken(ctx, "bad")

	assert.Equal(t, 1, srv.Calls(loginPath))
	assert.Equal(t, 1, srv.Calls(mePath))
	assert.Equal(t, 1, srv.Calls(refreshPath))
}
