package models

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authclient/internal/common"
)

// Response is the envelope every backend call returns. Data is nil whenever
// Code signals failure; Token and TokenExpiresAt are only set by operations
// that issue a token.
type Response[T any] struct {
	Code           int     `json:"code"`
	Message        string  `json:"message"`
	Data           *T      `json:"data"`
	Token          *string `json:"token,omitempty"`
	TokenExpiresAt *int64  `json:"tokenExpiresAt,omitempty"`
	Timestamp      int64   `json:"timestamp"`
}

// Success reports whether the backend signalled success.
func (r *Response[T]) Success() bool {
	return r.Code == common.CodeSuccess
}

// Unwrap returns the payload of a successful response, or an *APIError
// carrying the code and message otherwise. A success without payload is
// also reported as an *APIError.
func (r *Response[T]) Unwrap() (*T, error) {
	if !r.Success() || r.Data == nil {
		return nil, &APIError{Code: r.Code, Message: r.Message}
	}
	return r.Data, nil
}

// IssuedToken returns the envelope-level token and its expiry when both are
// present and the token is non-empty.
func (r *Response[T]) IssuedToken() (string, time.Time, bool) {
	if r.Token == nil || *r.Token == "" || r.TokenExpiresAt == nil {
		return "", time.Time{}, false
	}
	return *r.Token, time.UnixMilli(*r.TokenExpiresAt), true
}

// APIError is a non-success envelope turned into an error.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Is lets errors.Is match 401 and 403 envelopes against the common sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case common.ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	case common.ErrForbidden:
		return e.Code == http.StatusForbidden
	}
	return false
}

// availabilityWire accepts whichever of username, phone or email is present.
type availabilityWire struct {
	Username  *string `json:"username"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Available bool    `json:"available"`
	Message   string  `json:"message"`
}

func (a *Availability) UnmarshalJSON(b []byte) error {
	var w availabilityWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch {
	case w.Username != nil:
		a.Value = *w.Username
	case w.Phone != nil:
		a.Value = *w.Phone
	case w.Email != nil:
		a.Value = *w.Email
	}
	a.Available = w.Available
	a.Message = w.Message
	return nil
}
