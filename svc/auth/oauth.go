package auth

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dmitrymomot/userkit/pkg/jwt"
	"github.com/dmitrymomot/userkit/pkg/logger"
)

const stateAudience = "google_oauth_state"

// CodeExchanger is the part of *oauth2.Config used by the code flow.
type CodeExchanger interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// NewGoogleOAuthConfig builds the oauth2 config for Google sign-in.
func NewGoogleOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleOAuth runs the authorization-code flow. The state parameter is a
// short-lived signed token, so no server-side state store is required.
type GoogleOAuth struct {
	exchanger CodeExchanger
	state     *jwt.Service
	stateTTL  time.Duration
	verifier  *GoogleVerifier
	signIn    *Service
	logger    *slog.Logger
}

func NewGoogleOAuth(exchanger CodeExchanger, state *jwt.Service, stateTTL time.Duration, verifier *GoogleVerifier, signIn *Service, log *slog.Logger) *GoogleOAuth {
	if stateTTL <= 0 {
		stateTTL = 10 * time.Minute
	}
	if log == nil {
		log = logger.Discard()
	}
	return &GoogleOAuth{
		exchanger: exchanger,
		state:     state,
		stateTTL:  stateTTL,
		verifier:  verifier,
		signIn:    signIn,
		logger:    log,
	}
}

// AuthURL returns the Google consent URL with a fresh state token.
func (o *GoogleOAuth) AuthURL() (string, error) {
	now := o.state.Now()
	state, err := o.state.Generate(jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    o.state.Issuer(),
		Audience:  []string{stateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(o.stateTTL)),
	})
	if err != nil {
		return "", errors.Join(ErrTokenIssuanceFailed, err)
	}
	return o.exchanger.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

// Callback validates state, exchanges code and signs the user in with the
// returned ID token.
func (o *GoogleOAuth) Callback(ctx context.Context, state, code string) (Session, error) {
	var claims jwt.RegisteredClaims
	if err := o.state.Parse(state, &claims); err != nil || !slices.Contains(claims.Audience, stateAudience) {
		return Session{}, ErrInvalidOAuthState
	}
	if code == "" {
		return Session{}, ErrInvalidExternalToken
	}

	tok, err := o.exchanger.Exchange(ctx, code)
	if err != nil {
		o.logger.WarnContext(ctx, "google code exchange failed", logger.Component("auth"), logger.Error(err))
		return Session{}, errors.Join(ErrInvalidExternalToken, err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return Session{}, ErrInvalidExternalToken
	}

	id, err := o.verifier.Verify(ctx, idToken)
	if err != nil {
		return Session{}, err
	}
	return o.signIn.SignInExternal(ctx, id)
}
