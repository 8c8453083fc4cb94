package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/userkit/pkg/jwt"
	"github.com/dmitrymomot/userkit/pkg/logger"
)

// TokenTTL is the fixed validity of a session token.
const TokenTTL = 4 * time.Hour

// TokenService issues and verifies session tokens bound to an account id.
type TokenService struct {
	jwt    *jwt.Service
	logger *slog.Logger
}

// TokenOption configures a TokenService.
type TokenOption func(*tokenOptions)

type tokenOptions struct {
	jwtOpts []jwt.Option
	logger  *slog.Logger
}

// WithTokenClock replaces time.Now for issuing and verifying.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(o *tokenOptions) { o.jwtOpts = append(o.jwtOpts, jwt.WithClock(now)) }
}

// WithTokenIssuer stamps and requires the "iss" claim.
func WithTokenIssuer(iss string) TokenOption {
	return func(o *tokenOptions) {
		if iss != "" {
			o.jwtOpts = append(o.jwtOpts, jwt.WithIssuer(iss))
		}
	}
}

func WithTokenLogger(l *slog.Logger) TokenOption {
	return func(o *tokenOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewTokenService fails with ErrMissingSecret for an empty secret.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	o := tokenOptions{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	svc, err := jwt.NewFromString(secret, o.jwtOpts...)
	if err != nil {
		return nil, errors.Join(ErrMissingSecret, err)
	}
	return &TokenService{jwt: svc, logger: o.logger}, nil
}

// Issue signs a token for accountID valid for TokenTTL.
func (s *TokenService) Issue(accountID string) (string, error) {
	if accountID == "" {
		return "", ErrTokenIssuanceFailed
	}
	now := s.jwt.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   accountID,
		Issuer:    s.jwt.Issuer(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token, err := s.jwt.Generate(claims)
	if err != nil {
		return "", errors.Join(ErrTokenIssuanceFailed, err)
	}
	return token, nil
}

// Verify returns the account id carried by token. Expired, tampered and
// malformed tokens all fail with ErrTokenInvalid; the cause is logged.
func (s *TokenService) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	if err := s.jwt.Parse(token, &claims); err != nil {
		s.logger.Debug("session token rejected", logger.Component("auth"), logger.Error(err))
		return "", errors.Join(ErrTokenInvalid, err)
	}
	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

// JWT exposes the underlying signer for short-lived auxiliary tokens such
// as the oauth state.
func (s *TokenService) JWT() *jwt.Service { return s.jwt }
