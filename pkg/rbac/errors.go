package rbac

import "errors"

var (
	ErrInvalidRole      = errors.New("rbac.invalid_role")
	ErrEmptyRoleSet     = errors.New("rbac.empty_role_set")
	ErrLoadingRolesFail = errors.New("rbac.loading_roles_failed")
)
