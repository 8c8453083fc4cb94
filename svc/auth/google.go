package auth

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/api/idtoken"

	"github.com/dmitrymomot/userkit/pkg/logger"
	"github.com/dmitrymomot/userkit/pkg/sanitizer"
)

// Placeholders for profile claims Google omitted.
const (
	NamePlaceholder  = "Name not available"
	ImagePlaceholder = "Image not available"
	EmailPlaceholder = "Email not available"
)

// IDTokenValidator checks a Google ID token for an audience.
// *idtoken.Validator satisfies it.
type IDTokenValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// NewIDTokenValidator returns Google's validator with its cached key set.
func NewIDTokenValidator(ctx context.Context) (IDTokenValidator, error) {
	return idtoken.NewValidator(ctx)
}

// ExternalIdentity is the normalized profile asserted by the provider.
type ExternalIdentity struct {
	Provider      string
	Subject       string
	Name          string
	Email         string
	Picture       string
	EmailVerified bool
}

// HasEmail reports whether the provider supplied a usable email.
func (e ExternalIdentity) HasEmail() bool {
	return e.Email != "" && e.Email != EmailPlaceholder
}

// GoogleVerifier verifies Google ID tokens issued for clientID.
type GoogleVerifier struct {
	validator IDTokenValidator
	clientID  string
	logger    *slog.Logger
}

func NewGoogleVerifier(validator IDTokenValidator, clientID string, log *slog.Logger) *GoogleVerifier {
	if log == nil {
		log = logger.Discard()
	}
	return &GoogleVerifier{validator: validator, clientID: clientID, logger: log}
}

// Verify validates idToken. Any failure is ErrInvalidExternalToken; the
// reason is only logged.
func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (ExternalIdentity, error) {
	if idToken == "" || g.clientID == "" {
		return ExternalIdentity{}, ErrInvalidExternalToken
	}

	payload, err := g.validator.Validate(ctx, idToken, g.clientID)
	if err != nil {
		g.logger.WarnContext(ctx, "google id token rejected",
			logger.Component("auth"),
			logger.Reason("invalid_external_token"),
			logger.Error(err),
		)
		return ExternalIdentity{}, errors.Join(ErrInvalidExternalToken, err)
	}

	id := ExternalIdentity{
		Provider: "google",
		Subject:  payload.Subject,
		Name:     claimString(payload.Claims, "name", NamePlaceholder),
		Picture:  claimString(payload.Claims, "picture", ImagePlaceholder),
		Email:    claimString(payload.Claims, "email", EmailPlaceholder),
	}
	if id.Email != EmailPlaceholder {
		id.Email = sanitizer.NormalizeEmail(id.Email)
	}
	if v, ok := payload.Claims["email_verified"].(bool); ok {
		id.EmailVerified = v
	}
	return id, nil
}

func claimString(claims map[string]any, key, fallback string) string {
	if s, ok := claims[key].(string); ok && s != "" {
		return s
	}
	return fallback
}
