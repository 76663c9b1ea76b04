// Package sdss is a client for the SDSS SkyServer SQL search service and
// the science archive (SAS) file store. It builds query payloads, issues
// blocking HTTP calls, and decodes the identifier tables and FITS files
// that come back.
//
// Every network-touching call accepts a context and honors a per-call
// timeout; deadline expiry surfaces as *TimeoutError. Calls never retry
// and never fan out internally.
package sdss

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mohammed-shakir/skyquery/internal/cache"
	"github.com/mohammed-shakir/skyquery/internal/dispatch"
	"github.com/mohammed-shakir/skyquery/internal/endpoint"
	"github.com/mohammed-shakir/skyquery/internal/fetch"
	"github.com/mohammed-shakir/skyquery/internal/model"
	"github.com/mohammed-shakir/skyquery/internal/queryevents"
	"github.com/mohammed-shakir/skyquery/internal/sqlbuild"
	"github.com/mohammed-shakir/skyquery/internal/table"
)

// DefaultTimeout bounds query and retrieval calls unless overridden.
const DefaultTimeout = 60 * time.Second

// IdentifierRow re-exports the xid row type.
type IdentifierRow = model.IdentifierRow

// SpecObjID and PhotoObjID re-export the direct identifier parameter sets.
type SpecObjID = model.SpecObjID
type PhotoObjID = model.PhotoObjID

// Config wires a Client. The zero value is usable: public endpoints,
// release 12, 60s timeout, no cache, no event publishing.
type Config struct {
	// BaseURL overrides the SkyServer host (fake servers in tests).
	BaseURL string
	// SASURL overrides the science archive host.
	SASURL string
	// Release selects the data release; zero means endpoint.DefaultRelease.
	Release int
	// Timeout is the default per-call deadline; zero means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient is the injectable transport; nil gets the default
	// outbound client.
	HTTPClient *http.Client
	Logger     *slog.Logger
	// Cache enables read-through response caching when non-nil.
	Cache    cache.Store
	CacheTTL time.Duration
	// Events, when non-nil, receives one event per dispatched query.
	Events *queryevents.Publisher
}

type Client struct {
	logger   *slog.Logger
	resolver *endpoint.Resolver
	disp     *dispatch.Dispatcher
	fetcher  *fetch.Fetcher
	store    cache.Store
	cacheOn  bool
	cacheTTL time.Duration
	events   *queryevents.Publisher
	release  int
	timeout  time.Duration

	// lastURL mirrors the most recently resolved endpoint for
	// introspection. Last writer wins; the canonical per-call value is
	// QueryResult.URL.
	mu      sync.Mutex
	lastURL string
}

func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	release := cfg.Release
	if release == 0 {
		release = endpoint.DefaultRelease
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}
	return &Client{
		logger:   logger,
		resolver: endpoint.New(cfg.BaseURL, cfg.SASURL),
		disp:     dispatch.New(logger, cfg.HTTPClient),
		fetcher:  fetch.New(logger, cfg.HTTPClient),
		store:    cfg.Cache,
		cacheOn:  cfg.Cache != nil,
		cacheTTL: cacheTTL,
		events:   cfg.Events,
		release:  release,
		timeout:  timeout,
	}
}

// Release returns the client's default data release.
func (c *Client) Release() int { return c.release }

// LastURL returns the most recently resolved endpoint URL.
func (c *Client) LastURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastURL
}

func (c *Client) setLastURL(u string) {
	c.mu.Lock()
	c.lastURL = u
	c.mu.Unlock()
}

// QueryResult carries one query's payload, the endpoint it hit, and the
// decoded identifier table.
type QueryResult struct {
	Payload sqlbuild.Payload
	URL     string
	Cached  bool
	Table   *table.Table
	Rows    []IdentifierRow
}
