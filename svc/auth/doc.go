// Package auth is the authentication and authorization pipeline.
//
// CredentialVerifier and GoogleVerifier establish who the caller is,
// TokenService turns an account id into a signed 4h session token and
// back, and the gates (SessionGate, RoleGate, OwnerOnly) run as
// handler.Interceptors in front of protected routes:
//
//	r.Delete("/api/users/{id}", handler.Wrap(h.delete,
//		handler.WithInterceptors(sessionGate, auth.AdminOnly),
//	))
//
// Gate failures are *Rejection values. They match ErrUnauthenticated,
// ErrForbidden or ErrPreconditionFailed with errors.Is and carry a
// machine-readable Reason for logs and metrics.
package auth
