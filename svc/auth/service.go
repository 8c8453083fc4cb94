package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/userkit/pkg/logger"
	"github.com/dmitrymomot/userkit/pkg/metrics"
	"github.com/dmitrymomot/userkit/svc/account"
)

// Login methods, used as the metrics "method" label.
const (
	MethodPassword = "password"
	MethodGoogle   = "google"
)

// Session is the result of a successful sign-in.
type Session struct {
	User  *account.Account `json:"user"`
	Token string           `json:"token"`
}

// Service runs the sign-in flows: it verifies credentials, creates
// federated accounts on first use and issues session tokens.
type Service struct {
	passwords *CredentialVerifier
	google    *GoogleVerifier
	tokens    *TokenService
	accounts  account.Directory
	metrics   metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m metrics.Recorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithGoogle enables GoogleSignIn.
func WithGoogle(v *GoogleVerifier) ServiceOption {
	return func(s *Service) { s.google = v }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(passwords *CredentialVerifier, tokens *TokenService, accounts account.Directory, opts ...ServiceOption) *Service {
	s := &Service{
		passwords: passwords,
		tokens:    tokens,
		accounts:  accounts,
		metrics:   metrics.Noop{},
		logger:    logger.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies email and password and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	acc, err := s.passwords.VerifyPassword(ctx, email, password)
	if err != nil {
		s.recordFailure(ctx, MethodPassword, err)
		return Session{}, err
	}
	return s.issue(ctx, MethodPassword, acc)
}

// GoogleSignIn verifies a Google ID token and signs the holder in,
// creating a USER_ROLE account the first time an email is seen.
func (s *Service) GoogleSignIn(ctx context.Context, idToken string) (Session, error) {
	if s.google == nil {
		return Session{}, ErrOAuthNotConfigured
	}
	id, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.recordFailure(ctx, MethodGoogle, err)
		return Session{}, err
	}
	return s.SignInExternal(ctx, id)
}

// SignInExternal signs in an identity already verified by its provider.
// An identity without an email is rejected with ErrInvalidExternalToken
// rather than stored under a placeholder, since emails are unique.
func (s *Service) SignInExternal(ctx context.Context, id ExternalIdentity) (Session, error) {
	if !id.HasEmail() {
		s.recordFailure(ctx, id.Provider, ErrInvalidExternalToken)
		return Session{}, ErrInvalidExternalToken
	}

	acc, err := s.accounts.FindByEmail(ctx, id.Email)
	switch {
	case errors.Is(err, account.ErrNotFound):
		acc, err = s.createExternal(ctx, id)
		if err != nil {
			s.recordFailure(ctx, id.Provider, err)
			return Session{}, err
		}
	case err != nil:
		err = errors.Join(ErrStorageUnavailable, err)
		s.recordFailure(ctx, id.Provider, err)
		return Session{}, err
	default:
		// An existing password account is only linked on a verified email.
		if !acc.Google && !id.EmailVerified {
			s.recordFailure(ctx, id.Provider, ErrInvalidExternalToken)
			return Session{}, ErrInvalidExternalToken
		}
	}

	if !acc.Active {
		s.recordFailure(ctx, id.Provider, ErrAccountBlocked)
		return Session{}, ErrAccountBlocked
	}

	if err := s.link(ctx, acc, id); err != nil {
		s.recordFailure(ctx, id.Provider, err)
		return Session{}, err
	}
	return s.issue(ctx, id.Provider, acc)
}

func (s *Service) createExternal(ctx context.Context, id ExternalIdentity) (*account.Account, error) {
	acc := &account.Account{
		Name:          id.Name,
		Email:         id.Email,
		Img:           id.Picture,
		Role:          account.RoleUser,
		Active:        true,
		Google:        id.Provider == MethodGoogle,
		AuthProviders: []account.AuthProvider{{Name: id.Provider, ID: id.Subject}},
		CreatedAt:     s.now().UTC(),
	}
	if err := s.accounts.Save(ctx, acc); err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			// Lost a race with a concurrent first sign-in.
			return s.accounts.FindByEmail(ctx, id.Email)
		}
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	s.logger.InfoContext(ctx, "account created from external identity",
		logger.UserID(acc.IDHex()),
		slog.String("provider", id.Provider),
		logger.Component("auth"),
	)
	return acc, nil
}

func (s *Service) link(ctx context.Context, acc *account.Account, id ExternalIdentity) error {
	for _, p := range acc.AuthProviders {
		if p.Name == id.Provider {
			return nil
		}
	}
	acc.AuthProviders = append(acc.AuthProviders, account.AuthProvider{Name: id.Provider, ID: id.Subject})
	acc.UpdatedAt = s.now().UTC()
	if err := s.accounts.Save(ctx, acc); err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Service) issue(ctx context.Context, method string, acc *account.Account) (Session, error) {
	token, err := s.tokens.Issue(acc.IDHex())
	if err != nil {
		s.recordFailure(ctx, method, err)
		return Session{}, err
	}
	s.metrics.RecordLogin(method, "success")
	s.logger.InfoContext(ctx, "signed in",
		logger.UserID(acc.IDHex()),
		logger.Role(acc.Role.String()),
		logger.Event("login"),
		slog.String("method", method),
	)
	return Session{User: acc, Token: token}, nil
}

func (s *Service) recordFailure(ctx context.Context, method string, err error) {
	outcome := "rejected"
	level := slog.LevelInfo
	if errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrTokenIssuanceFailed) {
		outcome = "error"
		level = slog.LevelError
	}
	s.metrics.RecordLogin(method, outcome)
	s.logger.Log(ctx, level, "sign-in failed",
		logger.Event("login"),
		slog.String("method", method),
		logger.Error(err),
	)
}
