package handler

import (
	"errors"
	"net/http"
)

// HandlerFunc handles a request whose input has already been bound into R.
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself to the client. A non-nil error is passed to the
// ErrorHandler instead of being written.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind decodes part of the request into v.
type Bind func(r *http.Request, v any) error

// ErrorHandler writes the response for errors raised by interceptors,
// binders, handlers and renderers.
type ErrorHandler func(ctx Context, err error)

// Interceptor runs before binding. It returns the context the rest of the
// chain sees, or an error that short-circuits the request.
type Interceptor interface {
	Intercept(ctx Context) (Context, error)
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(ctx Context) (Context, error)

func (f InterceptorFunc) Intercept(ctx Context) (Context, error) { return f(ctx) }

// Option configures Wrap.
type Option func(*wrapConfig)

type wrapConfig struct {
	binders      []Bind
	interceptors []Interceptor
	errorHandler ErrorHandler
}

// WithBinders appends binders. They run in order after all interceptors.
func WithBinders(binders ...Bind) Option {
	return func(c *wrapConfig) {
		for _, b := range binders {
			if b != nil {
				c.binders = append(c.binders, b)
			}
		}
	}
}

// WithInterceptors appends interceptors. They run in the order given and
// the first error stops the chain.
func WithInterceptors(interceptors ...Interceptor) Option {
	return func(c *wrapConfig) {
		for _, i := range interceptors {
			if i != nil {
				c.interceptors = append(c.interceptors, i)
			}
		}
	}
}

// WithErrorHandler replaces the default error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func defaultErrorHandler(ctx Context, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		http.Error(ctx.ResponseWriter(), httpErr.Message, httpErr.Code)
		return
	}
	http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Wrap turns a typed handler into an http.HandlerFunc. The request goes
// through interceptors, then binders, then h; the returned Response is
// rendered last.
//
//	r.Put("/api/users/{id}", handler.Wrap(h.update,
//		handler.WithInterceptors(sessionGate, auth.OwnerOnly("id", account.RoleAdmin)),
//		handler.WithBinders(binder.Path(chi.URLParam), binder.JSON()),
//		handler.WithErrorHandler(errHandler),
//	))
func Wrap[R any](h HandlerFunc[R], opts ...Option) http.HandlerFunc {
	cfg := &wrapConfig{errorHandler: defaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		for _, ic := range cfg.interceptors {
			next, err := ic.Intercept(ctx)
			if err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
			if next != nil {
				ctx = next
			}
		}

		var req R
		for _, bind := range cfg.binders {
			if err := bind(ctx.Request(), &req); err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
		}

		resp := h(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(ctx.ResponseWriter(), ctx.Request()); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
