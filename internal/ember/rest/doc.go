// Package rest implements the authenticated HTTPS session against the
// EPH Ember cloud API.
//
// This package manages:
//   - Password login and proactive token refresh (30 s safety margin
//     before the 30 min validity window closes)
//   - The generic authenticated request path with the token attached as
//     an Authorization header
//   - Typed access to the homes list, home detail, zone-program and user
//     endpoints
//
// # Failure taxonomy
//
// Two failure kinds are kept distinct. A non-200 HTTP response (or a
// socket error) is a transport failure (ErrTransport). An HTTP 200
// response whose JSON body carries a non-zero status field is a business
// failure (ErrStatus). Both must be checked on every call.
package rest
