// Package httputil provides the HTTP plumbing used to fetch remote color
// sources.
//
// # Overview
//
//   - [Fetch]: GET a URL into memory with a size cap and retries
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only. Mark an error as
// transient by wrapping it in [RetryableError]; [Fetch] does this for network
// errors and 5xx responses. Everything else is returned immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return doRequest()
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Max attempts: 3
//   - Base backoff: 1 second, doubling per attempt
//   - Max body size: [DefaultMaxBytes]
package httputil
