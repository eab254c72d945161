package sheet

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher downloads the body behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher is a Fetcher backed by a resty client. Server errors are
// retried; any other non-2xx status fails immediately.
type HTTPFetcher struct {
	client  *resty.Client
	maxSize int64
}

// NewHTTPFetcher builds a fetcher. maxSize <= 0 disables the size check.
func NewHTTPFetcher(timeout time.Duration, retries int, userAgent string, maxSize int64) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("User-Agent", userAgent).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() >= http.StatusInternalServerError
		})

	return &HTTPFetcher{client: client, maxSize: maxSize}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	body := resp.Body()
	if f.maxSize > 0 && int64(len(body)) > f.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, len(body), f.maxSize)
	}
	return body, nil
}
