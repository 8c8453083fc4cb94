package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/userkit/pkg/logger"
	"github.com/dmitrymomot/userkit/pkg/sanitizer"
	"github.com/dmitrymomot/userkit/svc/account"
)

// AccountFinder is the read side of account.Directory.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*account.Account, error)
	FindByID(ctx context.Context, id string) (*account.Account, error)
}

// CredentialVerifier checks email and password against stored accounts.
type CredentialVerifier struct {
	accounts AccountFinder
	hasher   account.Hasher
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialVerifier(accounts AccountFinder, hasher account.Hasher, log *slog.Logger) *CredentialVerifier {
	if log == nil {
		log = logger.Discard()
	}
	return &CredentialVerifier{accounts: accounts, hasher: hasher, logger: log}
}

// VerifyPassword returns the account when password matches. Failures are
// ErrAccountNotFound, ErrWrongAuthMethod, ErrAccountInactive,
// ErrBadCredential or ErrStorageUnavailable.
func (v *CredentialVerifier) VerifyPassword(ctx context.Context, email, password string) (*account.Account, error) {
	email = sanitizer.NormalizeEmail(email)

	acc, err := v.accounts.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, account.ErrNotFound):
		// Burn a comparison so unknown emails cost as much as wrong passwords.
		_ = v.hasher.Compare(v.dummy(), password)
		return nil, ErrAccountNotFound
	case err != nil:
		return nil, errors.Join(ErrStorageUnavailable, err)
	}

	if acc.Google || acc.PasswordHash == "" {
		return nil, ErrWrongAuthMethod
	}
	if !acc.Active {
		return nil, ErrAccountInactive
	}

	if err := v.hasher.Compare(acc.PasswordHash, password); err != nil {
		if !errors.Is(err, account.ErrPasswordMismatch) {
			v.logger.ErrorContext(ctx, "stored password hash is unusable",
				logger.UserID(acc.IDHex()),
				logger.Component("auth"),
				logger.Error(err),
			)
		}
		return nil, ErrBadCredential
	}
	return acc, nil
}

func (v *CredentialVerifier) dummy() string {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = v.hasher.Hash("userkit-timing-equalizer")
	})
	return v.dummyHash
}
