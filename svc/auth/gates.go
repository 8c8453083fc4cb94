package auth

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/userkit/handler"
	"github.com/dmitrymomot/userkit/pkg/jwt"
	"github.com/dmitrymomot/userkit/pkg/logger"
	"github.com/dmitrymomot/userkit/svc/account"
)

// TokenHeader carries the session token.
const TokenHeader = "x-token"

// TokenVerifier is the verifying half of TokenService.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// SessionGate authenticates the request from the x-token header and puts
// the active account into the context.
type SessionGate struct {
	tokens   TokenVerifier
	accounts AccountFinder
	extract  jwt.TokenExtractorFunc
	logger   *slog.Logger
}

func NewSessionGate(tokens TokenVerifier, accounts AccountFinder, log *slog.Logger) *SessionGate {
	if log == nil {
		log = logger.Discard()
	}
	return &SessionGate{
		tokens:   tokens,
		accounts: accounts,
		extract:  jwt.HeaderTokenExtractor(TokenHeader),
		logger:   log,
	}
}

func (g *SessionGate) Intercept(ctx handler.Context) (handler.Context, error) {
	raw, err := g.extract(ctx.Request())
	if err != nil || raw == "" {
		return nil, reject(ErrUnauthenticated, ReasonNoToken, nil)
	}

	id, err := g.tokens.Verify(raw)
	if err != nil {
		return nil, reject(ErrUnauthenticated, ReasonInvalidToken, err)
	}

	acc, err := g.accounts.FindByID(ctx, id)
	switch {
	case errors.Is(err, account.ErrNotFound):
		return nil, reject(ErrUnauthenticated, ReasonStaleAccount, err)
	case err != nil:
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	if !acc.Active {
		return nil, reject(ErrUnauthenticated, ReasonInactive, nil)
	}

	return ctx.WithValue(accountContextKey{}, acc), nil
}

// RoleGate admits accounts whose role is in Allowed. It must run after
// SessionGate.
type RoleGate struct {
	Allowed []account.Role
}

// AdminOnly admits administrators only.
var AdminOnly = RoleGate{Allowed: []account.Role{account.RoleAdmin}}

func (g RoleGate) Intercept(ctx handler.Context) (handler.Context, error) {
	acc, ok := AccountFromContext(ctx)
	if !ok {
		return nil, reject(ErrPreconditionFailed, ReasonNoAccount, nil)
	}
	if !slices.Contains(g.Allowed, acc.Role) {
		return nil, reject(ErrForbidden, ReasonRoleNotAllowed, nil)
	}
	return ctx, nil
}

// OwnerOnly admits the account whose id equals the path parameter param,
// and accounts holding one of the exempt roles. It must run after
// SessionGate.
func OwnerOnly(param string, exempt ...account.Role) handler.Interceptor {
	return handler.InterceptorFunc(func(ctx handler.Context) (handler.Context, error) {
		acc, ok := AccountFromContext(ctx)
		if !ok {
			return nil, reject(ErrPreconditionFailed, ReasonNoAccount, nil)
		}
		if slices.Contains(exempt, acc.Role) {
			return ctx, nil
		}
		if chi.URLParam(ctx.Request(), param) != acc.IDHex() {
			return nil, reject(ErrForbidden, ReasonNotOwner, nil)
		}
		return ctx, nil
	})
}
