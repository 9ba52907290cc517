package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

// Fetcher downloads import payloads over HTTP.
type Fetcher struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
	retryDelay       time.Duration
}

type FetcherOption func(*Fetcher)

// WithRetryDelay sets the base delay of the exponential back-off.
func WithRetryDelay(delay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.retryDelay = delay
	}
}

func NewFetcher(timeout time.Duration, retryAttempts uint, opts ...FetcherOption) *Fetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	f := &Fetcher{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
		retryDelay:       100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) Close() error {
	return f.httpClient.Close()
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Body)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}
	// Anything else comes from the transport.
	return true
}

// Fetch downloads url, retrying server errors, rate limiting and network failures.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	var lastErr error
	if err := retry.Do(
		func() error {
			b, err := f.fetch(ctx, url)
			if err != nil {
				lastErr = err
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Default().Info("retrying card import download",
					slog.String("url", url),
					slog.Any("error", err),
				)
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.maxRetryAttempts+1),
		retry.Delay(f.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	response, err := f.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get(%s) > %w", url, err)
	}
	if response.IsError() {
		return nil, &StatusError{StatusCode: response.StatusCode(), Body: response.String()}
	}
	return []byte(response.String()), nil
}

// FetchAndParse downloads url and parses it as an import payload.
func (f *Fetcher) FetchAndParse(ctx context.Context, url string) (Result, error) {
	data, err := f.Fetch(ctx, url)
	if err != nil {
		return Result{}, fmt.Errorf("Fetch(%s) > %w", url, err)
	}
	return Parse(data)
}
