package authmock

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IssueToken signs a token for username valid for ttl. It returns the token
// and its expiry in milliseconds since epoch.
func (s *Server) IssueToken(username string, ttl time.Duration) (string, int64, error) {
	s.mu.Lock()
	now := s.now()
	secret := s.secret
	s.mu.Unlock()

	exp := jwt.NewNumericDate(now.Add(ttl))
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: exp,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", 0, err
	}
	return signed, exp.Time.UnixMilli(), nil
}

// parseToken verifies the signature and, unless allowExpired, the expiry.
func (s *Server) parseToken(raw string, allowExpired bool) (*jwt.RegisteredClaims, error) {
	s.mu.Lock()
	now := s.now
	secret := s.secret
	s.mu.Unlock()

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
