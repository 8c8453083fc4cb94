package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/userkit/pkg/logger"
	"github.com/dmitrymomot/userkit/pkg/metrics"
)

type Mountable interface {
	Handle() http.Handler
}

// Deps are the ambient dependencies shared by the module's handlers.
type Deps struct {
	Logger  *slog.Logger
	Metrics metrics.Recorder
}

func (d Deps) recorder() metrics.Recorder {
	if d.Metrics == nil {
		return metrics.Noop{}
	}
	return d.Metrics
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return logger.Discard()
	}
	return d.Logger
}

// RouterOptions selects the handlers to mount. Nil handlers are skipped.
type RouterOptions struct {
	Users Mountable
	Auth  Mountable
}

// Router mounts the module under /api.
//
//	r := chi.NewRouter()
//	r.Mount("/", account.Router(account.RouterOptions{
//		Users: account.NewUsersHandler(users, sessionGate, deps),
//		Auth:  account.NewAuthHandler(signIn, sessionGate, deps),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(api chi.Router) {
		if opts.Users != nil {
			api.Mount("/users", opts.Users.Handle())
		}
		if opts.Auth != nil {
			api.Mount("/auth", opts.Auth.Handle())
		}
	})

	return r
}
