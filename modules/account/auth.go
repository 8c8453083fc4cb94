package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/userkit/binder"
	"github.com/dmitrymomot/userkit/handler"
	"github.com/dmitrymomot/userkit/pkg/ratelimiter"
	"github.com/dmitrymomot/userkit/pkg/validator"
	"github.com/dmitrymomot/userkit/svc/auth"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	auth    *auth.Service
	oauth   *auth.GoogleOAuth
	session handler.Interceptor
	limit   func(http.Handler) http.Handler
	errors  handler.ErrorHandler
}

// AuthOption configures an AuthHandler.
type AuthOption func(*AuthHandler)

// WithOAuth enables the Google authorization-code routes.
func WithOAuth(o *auth.GoogleOAuth) AuthOption {
	return func(h *AuthHandler) { h.oauth = o }
}

// WithRateLimiter throttles the sign-in endpoints per client IP and path.
func WithRateLimiter(l *ratelimiter.Limiter, deps Deps) AuthOption {
	return func(h *AuthHandler) {
		if l == nil {
			return
		}
		rec := deps.recorder()
		h.limit = ratelimiter.Middleware(l,
			ratelimiter.Composite(ratelimiter.ByClientIP, ratelimiter.ByPath),
			ratelimiter.WithMiddlewareLogger(deps.Logger),
			ratelimiter.WithOnDeny(func(r *http.Request) { rec.RecordRateLimited(r.URL.Path) }),
			ratelimiter.WithDeniedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = handler.JSON(handler.ErrorBody{Message: MsgTooManyTries},
					handler.WithJSONStatus(http.StatusTooManyRequests)).Render(w, r)
			})),
		)
	}
}

func NewAuthHandler(svc *auth.Service, session handler.Interceptor, deps Deps, opts ...AuthOption) *AuthHandler {
	h := &AuthHandler{
		auth:    svc,
		session: session,
		limit:   func(next http.Handler) http.Handler { return next },
		errors:  NewErrorHandler(deps),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *AuthHandler) Handle() http.Handler {
	r := chi.NewRouter()

	r.With(h.limit).Post("/login", handler.Wrap(h.login,
		handler.WithBinders(binder.JSON()),
		handler.WithErrorHandler(h.errors),
	))
	r.With(h.limit).Post("/google", handler.Wrap(h.google,
		handler.WithBinders(binder.JSON()),
		handler.WithErrorHandler(h.errors),
	))
	r.Get("/google/redirect", handler.Wrap(h.redirect,
		handler.WithErrorHandler(h.errors),
	))
	r.With(h.limit).Get("/google/callback", handler.Wrap(h.callback,
		handler.WithBinders(binder.Query()),
		handler.WithErrorHandler(h.errors),
	))
	r.Get("/me", handler.Wrap(h.me,
		handler.WithInterceptors(h.session),
		handler.WithErrorHandler(h.errors),
	))
	return r
}

func (h *AuthHandler) login(ctx handler.Context, req loginRequest) handler.Response {
	if err := validator.Apply(
		validator.Required("email", req.Email),
		validator.ValidEmail("email", req.Email),
		validator.Required("password", req.Password),
	); err != nil {
		return handler.Fail(err)
	}
	sess, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(sess)
}

func (h *AuthHandler) google(ctx handler.Context, req googleRequest) handler.Response {
	if err := validator.Apply(validator.Required("id_token", req.IDToken)); err != nil {
		return handler.Fail(err)
	}
	sess, err := h.auth.GoogleSignIn(ctx, req.IDToken)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(sess)
}

func (h *AuthHandler) redirect(_ handler.Context, _ struct{}) handler.Response {
	if h.oauth == nil {
		return handler.Fail(auth.ErrOAuthNotConfigured)
	}
	url, err := h.oauth.AuthURL()
	if err != nil {
		return handler.Fail(err)
	}
	return handler.Redirect(url)
}

func (h *AuthHandler) callback(ctx handler.Context, req callbackRequest) handler.Response {
	if h.oauth == nil {
		return handler.Fail(auth.ErrOAuthNotConfigured)
	}
	if req.Error != "" {
		// The user declined consent or Google refused the request.
		return handler.Fail(auth.ErrInvalidExternalToken)
	}
	sess, err := h.oauth.Callback(ctx, req.State, req.Code)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(sess)
}

func (h *AuthHandler) me(ctx handler.Context, _ struct{}) handler.Response {
	acc, ok := auth.AccountFromContext(ctx)
	if !ok {
		return handler.Fail(handler.ErrUnauthorized)
	}
	return handler.JSON(acc)
}
