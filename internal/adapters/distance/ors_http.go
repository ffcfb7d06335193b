package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Error bodies are only kept for diagnostics.
const maxErrorBodyBytes = 4 << 10

type httpStatusError struct {
	Code int
	Body string
	// Server-requested delay from a Retry-After header, if any.
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("ors: status %d: %s", e.Code, e.Body)
}

// retryPolicy bounds how hard a single ORS call is retried.
type retryPolicy struct {
	attempts    int
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{attempts: 4, baseBackoff: 200 * time.Millisecond, maxBackoff: 2 * time.Second}
}

// backoff returns the wait before the given retry (1-based), preferring the
// server's Retry-After when it is within maxBackoff.
func (p retryPolicy) backoff(attempt int, err error) time.Duration {
	var he *httpStatusError
	if errors.As(err, &he) && he.RetryAfter > 0 && he.RetryAfter <= p.maxBackoff {
		return he.RetryAfter
	}

	d := p.baseBackoff << (attempt - 1)
	if d <= 0 || d > p.maxBackoff {
		d = p.maxBackoff
	}
	return d
}

// retryable reports whether err is a throttle, a gateway/server failure or a network error.
func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// callJSON sends one ORS request and decodes the JSON reply into out.
// A nil body sends no payload; query may be nil.
func (o *ORSDistanceProvider) callJSON(
	ctx context.Context,
	method string,
	endpoint string,
	query url.Values,
	body any,
	out any,
) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = b
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		var r io.Reader
		if payload != nil {
			r = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if query != nil {
			req.URL.RawQuery = query.Encode()
		}

		req.Header.Set("Authorization", o.apiKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (o *ORSDistanceProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	se := &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		se.RetryAfter = time.Duration(secs) * time.Second
	}
	return nil, se
}

// doWithRetry rebuilds and resends the request until it succeeds, fails
// permanently, or the policy runs out of attempts.
func (o *ORSDistanceProvider) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	policy := o.retry
	if policy.attempts < 1 {
		policy = defaultRetryPolicy()
	}

	var lastErr error
	for attempt := 1; attempt <= policy.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := o.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == policy.attempts {
			break
		}

		wait := policy.backoff(attempt, err)
		slog.DebugContext(ctx, "ors request retry", "attempt", attempt, "wait", wait, "err", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}
