package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/userkit/handler"
	"github.com/dmitrymomot/userkit/pkg/metrics"
	accountsvc "github.com/dmitrymomot/userkit/svc/account"
	"github.com/dmitrymomot/userkit/svc/auth"
)

// Client-facing messages.
const (
	MsgBadCredentials = "User / Password are not correct"
	MsgBadGoogleToken = "Google Token is not valid"
	MsgBlocked        = "User is blocked"
	MsgInvalidToken   = "Invalid token"
	MsgForbidden      = "Unauthorized"
	MsgInternal       = "Talk to the administrator"
	MsgNotFound       = "User not found"
	MsgEmailTaken     = "Email already exists"
	MsgTooManyTries   = "Too many requests"
	MsgBadOAuthState  = "OAuth state is not valid"
	MsgOAuthDisabled  = "Google sign-in is not enabled"
	MsgRoleChange     = "Only administrators can change roles"
)

// MapError translates domain errors into HTTP errors and counts gate
// rejections on rec.
func MapError(rec metrics.Recorder) handler.ErrorMapper {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return func(err error) *handler.HTTPError {
		if rej, ok := auth.RejectionFrom(err); ok {
			rec.RecordRejection(gateName(rej), rej.Reason)
			switch {
			case errors.Is(rej, auth.ErrUnauthenticated):
				return httpErr(http.StatusUnauthorized, MsgInvalidToken, err)
			case errors.Is(rej, auth.ErrForbidden):
				return httpErr(http.StatusForbidden, MsgForbidden, err)
			default:
				// A gate ran without its prerequisite: a routing bug.
				return httpErr(http.StatusInternalServerError, MsgInternal, err)
			}
		}

		switch {
		case errors.Is(err, auth.ErrStorageUnavailable),
			errors.Is(err, auth.ErrTokenIssuanceFailed),
			errors.Is(err, accountsvc.ErrStorage):
			return httpErr(http.StatusInternalServerError, MsgInternal, err)
		case errors.Is(err, auth.ErrAccountNotFound),
			errors.Is(err, auth.ErrWrongAuthMethod),
			errors.Is(err, auth.ErrAccountInactive),
			errors.Is(err, auth.ErrBadCredential):
			return httpErr(http.StatusBadRequest, MsgBadCredentials, err)
		case errors.Is(err, auth.ErrInvalidExternalToken):
			return httpErr(http.StatusBadRequest, MsgBadGoogleToken, err)
		case errors.Is(err, auth.ErrAccountBlocked):
			return httpErr(http.StatusUnauthorized, MsgBlocked, err)
		case errors.Is(err, auth.ErrInvalidOAuthState):
			return httpErr(http.StatusBadRequest, MsgBadOAuthState, err)
		case errors.Is(err, auth.ErrOAuthNotConfigured):
			return httpErr(http.StatusNotFound, MsgOAuthDisabled, err)
		case errors.Is(err, accountsvc.ErrNotFound):
			return httpErr(http.StatusNotFound, MsgNotFound, err)
		case errors.Is(err, accountsvc.ErrEmailTaken):
			return httpErr(http.StatusBadRequest, MsgEmailTaken, err)
		case errors.Is(err, accountsvc.ErrRoleChangeDenied):
			return httpErr(http.StatusForbidden, MsgRoleChange, err)
		}
		return nil
	}
}

// NewErrorHandler is handler.NewErrorHandler with MapError installed.
func NewErrorHandler(deps Deps) handler.ErrorHandler {
	return handler.NewErrorHandler(deps.logger(),
		handler.WithErrorMapper(MapError(deps.recorder())),
		handler.WithInternalMessage(MsgInternal),
	)
}

func gateName(rej *auth.Rejection) string {
	switch rej.Reason {
	case auth.ReasonNotOwner:
		return "owner"
	case auth.ReasonRoleNotAllowed, auth.ReasonNoAccount:
		return "role"
	default:
		return "session"
	}
}

func httpErr(code int, msg string, cause error) *handler.HTTPError {
	e := handler.NewHTTPError(code, msg).WithCause(cause)
	return &e
}
