// Package dispatch issues SkyServer HTTP requests through an injectable
// client and normalizes transport failures.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mohammed-shakir/skyquery/internal/httpclient"
	"github.com/mohammed-shakir/skyquery/internal/model"
	"github.com/mohammed-shakir/skyquery/internal/observability"
)

type Dispatcher struct {
	logger *slog.Logger
	client *http.Client
}

// New builds a dispatcher around the given client; a nil client gets the
// default outbound one. Tests substitute a client pointed at a fake
// upstream instead of patching transports at runtime.
func New(logger *slog.Logger, client *http.Client) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = httpclient.NewOutbound()
	}
	return &Dispatcher{logger: logger, client: client}
}

// Get issues a GET with the given query parameters. It blocks for up to
// timeout; deadline expiry anywhere in the exchange surfaces as a
// TimeoutError. Non-2xx statuses are reported with a truncated body.
func (d *Dispatcher) Get(ctx context.Context, rawURL string, params url.Values, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	dur := time.Since(start)
	observability.ObserveUpstreamLatency("skyserver", dur.Seconds())

	if err != nil {
		if te := AsTimeout("query skyserver", err); te != nil {
			return nil, te
		}
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.logger.Warn("close response body", "err", cerr)
		}
	}()

	d.logger.DebugContext(ctx, "dispatch done",
		"url", rawURL,
		"status", resp.StatusCode,
		"duration", dur.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if te := AsTimeout("read skyserver response", err); te != nil {
			return nil, te
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// AsTimeout converts any deadline-shaped transport error into the uniform
// TimeoutError, or returns nil when the error is something else.
func AsTimeout(op string, err error) *model.TimeoutError {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &model.TimeoutError{Op: op, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &model.TimeoutError{Op: op, Err: err}
	}
	return nil
}
