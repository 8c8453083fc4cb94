package auth

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/userkit/pkg/logger"
	"github.com/dmitrymomot/userkit/svc/account"
)

type accountContextKey struct{}

// SetAccountToContext stores the authenticated account.
func SetAccountToContext(ctx context.Context, acc *account.Account) context.Context {
	return context.WithValue(ctx, accountContextKey{}, acc)
}

// AccountFromContext returns the account stored by the session gate.
func AccountFromContext(ctx context.Context) (*account.Account, bool) {
	acc, ok := ctx.Value(accountContextKey{}).(*account.Account)
	return acc, ok && acc != nil
}

// LoggerExtractor adds user_id to records logged with an authenticated
// request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		acc, ok := AccountFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.UserID(acc.IDHex()), true
	}
}
