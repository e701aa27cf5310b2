package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/models"
	"github.com/dmitrijs2005/authclient/internal/common"
	"github.com/dmitrijs2005/authclient/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

func clock() time.Time { return fixedNow }

func TestExpiringSoon(t *testing.T) {
	tests := []struct {
		name      string
		untilMs   int64
		threshold time.Duration
		want      bool
	}{
		{name: "far future", untilMs: 1_000_000_000, threshold: 5 * time.Minute, want: false},
		{name: "just outside window", untilMs: 5*60_000 + 1, threshold: 5 * time.Minute, want: false},
		{name: "exactly at window", untilMs: 5 * 60_000, threshold: 5 * time.Minute, want: false},
		{name: "just inside window", untilMs: 5*60_000 - 1, threshold: 5 * time.Minute, want: true},
		{name: "one second left", untilMs: 1000, threshold: 5 * time.Minute, want: true},
		{name: "already expired", untilMs: -1, threshold: 5 * time.Minute, want: true},
		{name: "already expired zero threshold", untilMs: -1, threshold: 0, want: true},
		{name: "expires now zero threshold", untilMs: 0, threshold: 0, want: false},
		{name: "custom threshold", untilMs: 9 * 60_000, threshold: 10 * time.Minute, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expiresAt := fixedNow.Add(time.Duration(tt.untilMs) * time.Millisecond)
			assert.Equal(t, tt.want, ExpiringSoon(fixedNow, expiresAt, tt.threshold))

			c := NewHTTPClient("", WithClock(clock))
			assert.Equal(t, tt.want, c.IsTokenExpiringSoon(expiresAt, tt.threshold))
		})
	}
}

func TestExpiringSoon_MatchesMillisecondFormula(t *testing.T) {
	nowMs := fixedNow.UnixMilli()
	for _, minutes := range []int64{0, 1, 5, 30} {
		for _, delta := range []int64{-10_000, -1, 0, 1, 59_999, 60_000, 299_999, 300_000, 1_799_999, 3_600_000} {
			expiresAtMs := nowMs + delta
			want := expiresAtMs-nowMs < minutes*60_000
			got := ExpiringSoon(fixedNow, time.UnixMilli(expiresAtMs), time.Duration(minutes)*time.Minute)
			assert.Equal(t, want, got, "threshold=%dm delta=%dms", minutes, delta)
		}
	}
}

func scriptedRefresh(t *testing.T, calls *int, write func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, refreshPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		*calls++
		w.Header().Set("Content-Type", "application/json")
		write(w)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAutoRefreshToken_ExpiringSoonRefreshes(t *testing.T) {
	var calls int
	srv := scriptedRefresh(t, &calls, func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"token":"xyz789","expiresAt":1700086400000},"timestamp":1700000000000}`))
	})
	c := NewHTTPClient(srv.URL, WithClock(clock))

	refreshed, ok := c.AutoRefreshToken(context.Background(), "abc123", fixedNow.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, "xyz789", refreshed.Token)
	assert.Equal(t, int64(1700086400000), refreshed.ExpiresAt)
	assert.Equal(t, 1, calls)
}

func TestAutoRefreshToken_FarFutureMakesNoCall(t *testing.T) {
	var calls int
	srv := scriptedRefresh(t, &calls, func(w http.ResponseWriter) {
		t.Errorf("refresh must not be called")
	})
	c := NewHTTPClient(srv.URL, WithClock(clock))

	refreshed, ok := c.AutoRefreshToken(context.Background(), "abc123", fixedNow.Add(1_000_000_000*time.Millisecond))
	assert.False(t, ok)
	assert.Nil(t, refreshed)
	assert.Zero(t, calls)
}

func TestAutoRefreshToken_NetworkErrorIsSwallowedAndLogged(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var buf bytes.Buffer
	log, err := logging.NewTextLogger(&buf, "info")
	require.NoError(t, err)
	c := NewHTTPClient(url, WithClock(clock), WithLogger(log))

	refreshed, ok := c.AutoRefreshToken(context.Background(), "abc123", fixedNow.Add(time.Second))
	assert.False(t, ok)
	assert.Nil(t, refreshed)
	assert.Contains(t, buf.String(), "token refresh failed")
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestAutoRefreshToken_FailureEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "non-200 code", body: `{"code":401,"message":"token revoked","data":null,"timestamp":1}`},
		{name: "200 without data", body: `{"code":200,"message":"ok","data":null,"timestamp":1}`},
		{name: "200 with empty token", body: `{"code":200,"message":"ok","data":{"token":"","expiresAt":1},"timestamp":1}`},
		{name: "malformed body", body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			srv := scriptedRefresh(t, &calls, func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(tt.body))
			})
			c := NewHTTPClient(srv.URL, WithClock(clock))

			refreshed, ok := c.AutoRefreshToken(context.Background(), "abc123", fixedNow.Add(-time.Minute))
			assert.False(t, ok)
			assert.Nil(t, refreshed)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestRefreshIfExpiring_Reasons(t *testing.T) {
	t.Run("not needed", func(t *testing.T) {
		c := NewHTTPClient("http://127.0.0.1:0", WithClock(clock))
		_, err := c.RefreshIfExpiring(context.Background(), "abc123", fixedNow.Add(time.Hour))
		assert.ErrorIs(t, err, common.ErrRefreshNotNeeded)
	})

	t.Run("api error", func(t *testing.T) {
		var calls int
		srv := scriptedRefresh(t, &calls, func(w http.ResponseWriter) {
			_, _ = w.Write([]byte(`{"code":401,"message":"token revoked","data":null,"timestamp":1}`))
		})
		c := NewHTTPClient(srv.URL, WithClock(clock))

		_, err := c.RefreshIfExpiring(context.Background(), "abc123", fixedNow)
		var apiErr *models.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "token revoked", apiErr.Message)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("missing token", func(t *testing.T) {
		var calls int
		srv := scriptedRefresh(t, &calls, func(w http.ResponseWriter) {
			_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"token":"","expiresAt":1},"timestamp":1}`))
		})
		c := NewHTTPClient(srv.URL, WithClock(clock))

		_, err := c.RefreshIfExpiring(context.Background(), "abc123", fixedNow)
		assert.ErrorIs(t, err, common.ErrMissingToken)
	})

	t.Run("custom threshold", func(t *testing.T) {
		var calls int
		srv := scriptedRefresh(t, &calls, func(w http.ResponseWriter) {
			_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"token":"xyz789","expiresAt":1},"timestamp":1}`))
		})
		c := NewHTTPClient(srv.URL, WithClock(clock), WithExpiryThreshold(time.Hour))

		refreshed, err := c.RefreshIfExpiring(context.Background(), "abc123", fixedNow.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "xyz789", refreshed.Token)
		assert.Equal(t, 1, calls)
	})
}
