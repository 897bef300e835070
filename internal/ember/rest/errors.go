package rest

import "errors"

// Domain-specific errors for the REST session.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrTransport is returned for HTTP-level failures: network errors,
	// timeouts, or any non-200 response status.
	ErrTransport = errors.New("rest: transport failure")

	// ErrStatus is returned when the HTTP exchange succeeded but the JSON
	// body carried a non-zero business status.
	ErrStatus = errors.New("rest: api status error")

	// ErrLoginFailed is returned when password authentication is rejected.
	// Callers treat this as fatal to setup, unlike per-request failures.
	ErrLoginFailed = errors.New("rest: login failed")

	// ErrRefreshFailed is returned when a proactive token refresh fails.
	// It is reported, not retried automatically.
	ErrRefreshFailed = errors.New("rest: token refresh failed")
)
