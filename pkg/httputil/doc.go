// Package httputil provides HTTP utilities for generator backends.
//
// # Retry
//
// [Retry] wraps requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Callers mark an error transient by wrapping it in [RetryableError]; any
// other error aborts the loop immediately. Backoff is exponential, starting
// from the given delay and doubling per attempt.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return callBackend()
//	})
package httputil
