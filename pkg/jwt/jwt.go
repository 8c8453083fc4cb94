package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// RegisteredClaims are the RFC 7519 claims. Embed them in custom claim
// structs passed to Generate and Parse.
type RegisteredClaims = gojwt.RegisteredClaims

// Claims is implemented by every claim set accepted by the Service.
type Claims = gojwt.Claims

// NewNumericDate converts t to the JWT numeric date representation.
func NewNumericDate(t time.Time) *gojwt.NumericDate {
	return gojwt.NewNumericDate(t)
}

// Service signs and verifies HS256 tokens with a single secret.
// It is safe for concurrent use; the key is never mutated after New.
type Service struct {
	signingKey []byte
	issuer     string
	leeway     time.Duration
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIssuer sets the expected "iss" claim checked by Parse.
func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithLeeway tolerates clock skew when validating temporal claims.
func WithLeeway(d time.Duration) Option {
	return func(s *Service) { s.leeway = d }
}

// WithClock replaces time.Now for temporal claim validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service for the given signing key.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	s := &Service{
		signingKey: signingKey,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromString is New for string-based configuration.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Issuer returns the configured issuer, or "".
func (s *Service) Issuer() string {
	return s.issuer
}

// Generate signs claims with HS256.
func (s *Service) Generate(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}
	return token, nil
}

// Parse verifies the signature, the algorithm and the temporal claims of
// tokenString and decodes it into claims. A token without "exp" is rejected.
//
// Every failure wraps ErrInvalidToken; expiry additionally wraps
// ErrExpiredToken and a bad signature ErrInvalidSignature.
func (s *Service) Parse(tokenString string, claims Claims) error {
	if tokenString == "" {
		return errors.Join(ErrInvalidToken, ErrMissingToken)
	}
	if claims == nil {
		return ErrMissingClaims
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuedAt(),
		gojwt.WithLeeway(s.leeway),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	_, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, opts...)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrInvalidToken, ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidToken, ErrInvalidSignature, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}

func (s *Service) keyFunc(t *gojwt.Token) (any, error) {
	if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedSigningMethod, t.Header["alg"])
	}
	return s.signingKey, nil
}
