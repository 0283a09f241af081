// Package auth reads the session cookies written at login.
//
// Sessions are HS256 JWTs signed with JWT_SECRET and stored in the user_token
// and super_admin_token cookies. The package verifies them and exposes the
// result as a Session; issuing or refreshing sessions happens elsewhere.
package auth
