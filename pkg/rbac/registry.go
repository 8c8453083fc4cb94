package rbac

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// RoleSource provides the role names known to the system.
type RoleSource interface {
	Load(ctx context.Context) ([]string, error)
}

// RoleSourceFunc adapts a function to RoleSource.
type RoleSourceFunc func(ctx context.Context) ([]string, error)

func (f RoleSourceFunc) Load(ctx context.Context) ([]string, error) { return f(ctx) }

// Registry is a concurrency-safe snapshot of a RoleSource.
type Registry struct {
	source RoleSource

	mu    sync.RWMutex
	roles map[string]struct{}
}

// NewRegistry loads the source once. An empty role set is an error: no
// account could ever be created.
func NewRegistry(ctx context.Context, source RoleSource) (*Registry, error) {
	r := &Registry{source: source}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload replaces the snapshot with the current contents of the source.
// On failure the previous snapshot is kept.
func (r *Registry) Reload(ctx context.Context) error {
	names, err := r.source.Load(ctx)
	if err != nil {
		return errors.Join(ErrLoadingRolesFail, err)
	}

	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	if len(set) == 0 {
		return ErrEmptyRoleSet
	}

	r.mu.Lock()
	r.roles = set
	r.mu.Unlock()
	return nil
}

// Validate returns ErrInvalidRole when role is not registered.
func (r *Registry) Validate(role string) error {
	r.mu.RLock()
	_, ok := r.roles[role]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return nil
}

// Has reports whether role is registered.
func (r *Registry) Has(role string) bool {
	return r.Validate(role) == nil
}

// Roles returns the registered role names in sorted order.
func (r *Registry) Roles() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.roles))
	for n := range r.roles {
		out = append(out, n)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}
