// Package rbac keeps the set of role names an account may hold.
//
// Roles come from a RoleSource, either a fixed in-memory list or a backing
// store such as the MongoDB "roles" collection. The Registry snapshots the
// source at construction and on Reload; Validate and Roles never touch the
// source.
//
//	reg, err := rbac.NewRegistry(ctx, rbac.NewInMemRoleSource("ADMIN_ROLE", "USER_ROLE"))
//	if err := reg.Validate("ROOT"); errors.Is(err, rbac.ErrInvalidRole) {
//		// reject
//	}
package rbac
