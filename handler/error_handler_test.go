package handler_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/userkit/binder"
	"github.com/dmitrymomot/userkit/handler"
	"github.com/dmitrymomot/userkit/pkg/validator"
)

var errDomainMissing = errors.New("user not found")

func mapDomain(err error) *handler.HTTPError {
	if errors.Is(err, errDomainMissing) {
		he := handler.NewHTTPError(http.StatusNotFound, "User does not exist")
		return &he
	}
	return nil
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
		wantLevel  string
	}{
		{
			name:       "mapped domain error",
			err:        errDomainMissing,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"User does not exist"}`,
			wantLevel:  "WARN",
		},
		{
			name:       "validation errors",
			err:        validator.Apply(validator.Required("name", ""), validator.ValidEmail("email", "nope")),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Validation failed","errors":{"name":["field is required"],"email":["must be a valid email address"]}}`,
			wantLevel:  "WARN",
		},
		{
			name:       "http error",
			err:        handler.NewHTTPError(http.StatusUnauthorized, "Invalid token"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Invalid token"}`,
			wantLevel:  "WARN",
		},
		{
			name:       "binding error",
			err:        binder.ErrInvalidJSON,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid request"}`,
			wantLevel:  "WARN",
		},
		{
			name:       "unknown error hides details",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Talk to the administrator"}`,
			wantLevel:  "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			log := slog.New(slog.NewTextHandler(&logs, nil))
			eh := handler.NewErrorHandler(log,
				handler.WithErrorMapper(mapDomain),
				handler.WithInternalMessage("Talk to the administrator"),
			)

			rec := httptest.NewRecorder()
			eh(handler.NewContext(rec, httptest.NewRequest(http.MethodGet, "/api/users/1", nil)), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Contains(t, logs.String(), "level="+tt.wantLevel)
			assert.Contains(t, logs.String(), "path=/api/users/1")
		})
	}
}
