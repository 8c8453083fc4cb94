// Package account owns user records: the Account model, the Directory
// that persists it in MongoDB, the role source backing the rbac registry,
// and the Service behind the user management endpoints.
package account
