package rbac

import "context"

type inMemRoleSource struct {
	roles []string
}

// NewInMemRoleSource returns a RoleSource over a fixed list of names.
func NewInMemRoleSource(roles ...string) RoleSource {
	return &inMemRoleSource{roles: append([]string(nil), roles...)}
}

func (s *inMemRoleSource) Load(context.Context) ([]string, error) {
	return append([]string(nil), s.roles...), nil
}
