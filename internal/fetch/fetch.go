// Package fetch streams remote or local files for the retrieval calls.
package fetch

import (
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mohammed-shakir/skyquery/internal/dispatch"
	"github.com/mohammed-shakir/skyquery/internal/httpclient"
	"github.com/mohammed-shakir/skyquery/internal/observability"
)

// Mode selects how the stream is decoded.
type Mode int

const (
	// Binary returns the raw byte stream.
	Binary Mode = iota
	// Text returns the stream for line-oriented reading.
	Text
)

type Fetcher struct {
	logger *slog.Logger
	client *http.Client
}

func New(logger *slog.Logger, client *http.Client) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = httpclient.NewOutbound()
	}
	return &Fetcher{logger: logger, client: client}
}

// Open streams the named file. URLs go through the HTTP client, anything
// else is a filesystem path (test fixtures, pre-downloaded data). Names
// ending in .bz2 are decompressed transparently. Deadline expiry at open
// or during reads surfaces as TimeoutError.
func (f *Fetcher) Open(ctx context.Context, name string, mode Mode, timeout time.Duration) (io.ReadCloser, error) {
	if !strings.Contains(name, "://") {
		file, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		return wrapBz2(name, file), nil
	}

	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	observability.ObserveUpstreamLatency("sas", time.Since(start).Seconds())
	if err != nil {
		cancel()
		if te := dispatch.AsTimeout("fetch "+name, err); te != nil {
			return nil, te
		}
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("fetch %s: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	f.logger.DebugContext(ctx, "fetch open", "url", name, "mode", int(mode))

	rc := &stream{
		name:   name,
		inner:  resp.Body,
		r:      resp.Body,
		cancel: cancel,
	}
	if r := bz2Reader(name, resp.Body); r != nil {
		rc.r = r
	}
	return rc, nil
}

// stream keeps the request context alive for the lifetime of the body and
// maps read-deadline failures onto TimeoutError.
type stream struct {
	name   string
	inner  io.ReadCloser
	r      io.Reader
	cancel context.CancelFunc
}

func (s *stream) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		if te := dispatch.AsTimeout("read "+s.name, err); te != nil {
			return n, te
		}
	}
	return n, err
}

func (s *stream) Close() error {
	err := s.inner.Close()
	s.cancel()
	return err
}

func bz2Reader(name string, r io.Reader) io.Reader {
	trimmed := name
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if strings.HasSuffix(trimmed, ".bz2") {
		return bzip2.NewReader(r)
	}
	return nil
}

func wrapBz2(name string, file *os.File) io.ReadCloser {
	if r := bz2Reader(name, file); r != nil {
		return &stream{name: name, inner: file, r: r, cancel: func() {}}
	}
	return file
}
