package httputil

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/rainbowsmoke/pkg/buildinfo"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/observability"
)

// DefaultMaxBytes caps downloaded bodies at 64 MiB.
const DefaultMaxBytes = 64 << 20

// DefaultTimeout bounds a single request attempt.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient returns the client used by [Fetch].
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// Fetch downloads rawURL with retries and returns the body.
// Bodies larger than maxBytes (DefaultMaxBytes when <= 0) are rejected.
func Fetch(ctx context.Context, client *http.Client, rawURL string, maxBytes int64) ([]byte, error) {
	if err := errs.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	if client == nil {
		client = NewHTTPClient()
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		b, err := get(ctx, client, rawURL, maxBytes)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func get(ctx context.Context, client *http.Client, rawURL string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	host, path := hostPath(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, &RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "GET %s", rawURL)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: errs.Wrap(errs.ErrCodeNetwork, err, "read body")}
	}
	if int64(len(data)) > maxBytes {
		return nil, errs.New(errs.ErrCodeInvalidInput, "response larger than %d bytes", maxBytes)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 500:
		return &RetryableError{Err: errs.New(errs.ErrCodeNetwork, "status %d", code)}
	default:
		return errs.New(errs.ErrCodeNetwork, "status %d", code)
	}
}

func hostPath(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	return u.Host, u.Path
}

