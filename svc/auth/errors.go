package auth

import (
	"errors"
	"fmt"
)

// Credential family. The HTTP layer renders all four identically.
var (
	ErrAccountNotFound = errors.New("auth: account not found")
	ErrWrongAuthMethod = errors.New("auth: account uses a different sign-in method")
	ErrAccountInactive = errors.New("auth: account is inactive")
	ErrBadCredential   = errors.New("auth: password does not match")
)

var (
	ErrStorageUnavailable   = errors.New("auth: account storage unavailable")
	ErrInvalidExternalToken = errors.New("auth: external identity token is not valid")
	ErrAccountBlocked       = errors.New("auth: account is blocked")
	ErrMissingSecret        = errors.New("auth: signing secret is not configured")
	ErrTokenIssuanceFailed  = errors.New("auth: failed to issue session token")
	ErrTokenInvalid         = errors.New("auth: session token is not valid")
	ErrInvalidOAuthState    = errors.New("auth: invalid oauth state")
	ErrOAuthNotConfigured   = errors.New("auth: google oauth is not configured")
)

// Rejection kinds. A *Rejection matches its kind with errors.Is.
var (
	ErrUnauthenticated    = errors.New("auth: unauthenticated")
	ErrForbidden          = errors.New("auth: forbidden")
	ErrPreconditionFailed = errors.New("auth: gate precondition failed")
)

// Rejection reasons.
const (
	ReasonNoToken        = "no_token"
	ReasonInvalidToken   = "invalid_token"
	ReasonStaleAccount   = "stale_account"
	ReasonInactive       = "inactive"
	ReasonNotOwner       = "not_owner"
	ReasonRoleNotAllowed = "role_not_allowed"
	ReasonNoAccount      = "no_account"
)

// Rejection is a gate outcome that stops the request.
type Rejection struct {
	Kind   error
	Reason string
	Err    error
}

func reject(kind error, reason string, cause error) *Rejection {
	return &Rejection{Kind: kind, Reason: reason, Err: cause}
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("%v (%s): %v", r.Kind, r.Reason, r.Err)
	}
	return fmt.Sprintf("%v (%s)", r.Kind, r.Reason)
}

func (r *Rejection) Unwrap() error { return r.Err }

func (r *Rejection) Is(target error) bool { return target == r.Kind }

// RejectionFrom extracts a *Rejection from err.
func RejectionFrom(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
