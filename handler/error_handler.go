package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/userkit/binder"
	"github.com/dmitrymomot/userkit/pkg/logger"
	"github.com/dmitrymomot/userkit/pkg/requestid"
	"github.com/dmitrymomot/userkit/pkg/validator"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// ErrorMapper translates domain errors into HTTPError. It returns nil for
// errors it does not recognise.
type ErrorMapper func(err error) *HTTPError

// ErrorHandlerOption configures NewErrorHandler.
type ErrorHandlerOption func(*errorHandlerConfig)

type errorHandlerConfig struct {
	mappers           []ErrorMapper
	internalMessage   string
	validationMessage string
	bindingMessage    string
}

// WithErrorMapper registers a mapper. Mappers are tried in order before
// the built-in classification.
func WithErrorMapper(m ErrorMapper) ErrorHandlerOption {
	return func(c *errorHandlerConfig) {
		if m != nil {
			c.mappers = append(c.mappers, m)
		}
	}
}

// WithInternalMessage sets the message sent with unclassified 500s.
func WithInternalMessage(msg string) ErrorHandlerOption {
	return func(c *errorHandlerConfig) { c.internalMessage = msg }
}

// WithValidationMessage sets the top-level message of validation failures.
func WithValidationMessage(msg string) ErrorHandlerOption {
	return func(c *errorHandlerConfig) { c.validationMessage = msg }
}

// NewErrorHandler renders errors as ErrorBody JSON. Client errors are
// logged at warn level, server errors at error level.
func NewErrorHandler(log *slog.Logger, opts ...ErrorHandlerOption) ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}
	cfg := errorHandlerConfig{
		internalMessage:   http.StatusText(http.StatusInternalServerError),
		validationMessage: "Validation failed",
		bindingMessage:    "Invalid request",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(ctx Context, err error) {
		status, body := cfg.classify(err)

		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if rerr := JSON(body, WithJSONStatus(status)).Render(ctx.ResponseWriter(), r); rerr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(rerr))
		}
	}
}

func (c errorHandlerConfig) classify(err error) (int, ErrorBody) {
	for _, m := range c.mappers {
		if he := m(err); he != nil {
			return he.Code, ErrorBody{Message: he.Message}
		}
	}

	if verrs := validator.Extract(err); len(verrs) > 0 {
		return http.StatusBadRequest, ErrorBody{Message: c.validationMessage, Errors: verrs.Map()}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ErrorBody{Message: httpErr.Message}
	}

	if binder.IsBindingError(err) {
		return http.StatusBadRequest, ErrorBody{Message: c.bindingMessage}
	}

	return http.StatusInternalServerError, ErrorBody{Message: c.internalMessage}
}
