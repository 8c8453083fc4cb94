package account

import "errors"

var (
	ErrNotFound         = errors.New("account not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidID        = errors.New("invalid account id")
	ErrRoleChangeDenied = errors.New("only administrators can change roles")
	ErrStorage          = errors.New("account storage unavailable")
	ErrPasswordMismatch = errors.New("password mismatch")
)
