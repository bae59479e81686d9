package directions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (o *ORSProvider) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (o *ORSProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// retryable reports transient failures: network errors, 429 and 5xx.
func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// doWithRetry retries transient failures with exponential backoff while
// respecting context cancellation. Only idempotent lookups go through here.
func (o *ORSProvider) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	var resp *http.Response

	op := func() error {
		req, err := makeReq()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("make request: %w", err))
		}

		r, err := o.do(req)
		if err != nil {
			if retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.retryInterval
	b.MaxElapsedTime = 10 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, 3), ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

// orsStatus maps an ORS HTTP failure onto a directions status code.
func orsStatus(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "REQUEST_CANCELLED"
	}

	var he *httpStatusError
	if !errors.As(err, &he) {
		return "UNKNOWN_ERROR"
	}

	switch {
	case he.Code == 400:
		return "INVALID_REQUEST"
	case he.Code == 401 || he.Code == 403:
		return "REQUEST_DENIED"
	case he.Code == 404:
		return "NOT_FOUND"
	case he.Code == 429:
		return "OVER_QUERY_LIMIT"
	}
	return "UNKNOWN_ERROR"
}
