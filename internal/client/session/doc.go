// Package session owns the authentication state of the client.
//
// A Manager holds one explicit State (Unauthenticated, Authenticating,
// Authenticated with a user, or AuthFailed with a display message) and is
// the only writer of the stored token apart from the API client, which
// drops a token the server rejects.
//
// Lifecycle:
//
//   - Initialize restores a stored token once per process. Expired JWTs are
//     dropped without a network call; any other token is checked against
//     the backend and dropped if it fails.
//   - Login, Register and HandleOAuthToken move through Authenticating and
//     end Authenticated or AuthFailed. The token is persisted only together
//     with a known user.
//   - Logout always succeeds locally. The server is told in the background
//     with the old token; Wait joins that call.
//
// Observers registered with Subscribe receive every new State. They are
// called outside the manager's lock, from the goroutine that caused the
// change.
package session
