// Package account exposes user management and authentication over HTTP.
//
// UsersHandler serves CRUD on /api/users; AuthHandler serves password and
// Google sign-in plus the current-account endpoint on /api/auth. Every
// error is rendered as {"message": ...} by an error handler that maps the
// svc/account and svc/auth sentinels to status codes:
//
//	credential failures        400 "User / Password are not correct"
//	invalid Google token       400 "Google Token is not valid"
//	blocked Google account     401 "User is blocked"
//	missing or invalid session 401 "Invalid token"
//	role or ownership failure  403 "Unauthorized"
//	storage failure            500 "Talk to the administrator"
//
// Validation failures add an "errors" object keyed by field.
package account
