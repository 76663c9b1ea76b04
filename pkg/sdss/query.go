package sdss

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mohammed-shakir/skyquery/internal/cache/keys"
	"github.com/mohammed-shakir/skyquery/internal/coords"
	"github.com/mohammed-shakir/skyquery/internal/endpoint"
	"github.com/mohammed-shakir/skyquery/internal/logger"
	"github.com/mohammed-shakir/skyquery/internal/observability"
	"github.com/mohammed-shakir/skyquery/internal/queryevents"
	"github.com/mohammed-shakir/skyquery/internal/sqlbuild"
	"github.com/mohammed-shakir/skyquery/internal/table"
)

// QueryRegion searches the photometric catalog around the given
// coordinates. WithPayloadOnly returns the built payload without issuing
// the request.
func (c *Client) QueryRegion(ctx context.Context, src coords.Source, opts ...Option) (*QueryResult, error) {
	o := c.buildOpts(opts)

	cs, err := src.Normalize()
	if err != nil {
		return nil, err
	}
	payload, err := sqlbuild.Region(cs, sqlbuild.RegionOpts{
		Radius:     o.radius,
		Fields:     o.fields,
		Spectro:    o.spectro,
		Predicates: o.predicates,
	})
	if err != nil {
		return nil, err
	}
	return c.run(ctx, "region", payload, o)
}

// QuerySQL submits caller-written SQL after comment stripping.
func (c *Client) QuerySQL(ctx context.Context, sql string, opts ...Option) (*QueryResult, error) {
	o := c.buildOpts(opts)
	payload, err := sqlbuild.SQL(sql)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, "sql", payload, o)
}

// QuerySpecObj looks spectra up by plate, mjd and/or fiberID.
func (c *Client) QuerySpecObj(ctx context.Context, id SpecObjID, opts ...Option) (*QueryResult, error) {
	o := c.buildOpts(opts)
	payload, err := sqlbuild.SpecObj(id)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, "specobj", payload, o)
}

// QueryPhotoObj looks frames up by run, rerun, camcol and/or field.
func (c *Client) QueryPhotoObj(ctx context.Context, id PhotoObjID, opts ...Option) (*QueryResult, error) {
	o := c.buildOpts(opts)
	payload, err := sqlbuild.PhotoObj(id)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, "photoobj", payload, o)
}

// run resolves the endpoint, consults the cache, dispatches, and decodes
// the identifier table. One failure fails the whole call; nothing is
// retried.
func (c *Client) run(ctx context.Context, kind string, payload sqlbuild.Payload, o callOpts) (result *QueryResult, err error) {
	if o.payloadOnly {
		return &QueryResult{Payload: payload}, nil
	}
	defer func() { observability.ObserveQuery(kind, err) }()

	ctx = logger.WithRequestID(ctx, "")
	ctx = logger.WithRelease(ctx, o.release)

	drOrURL := o.endpointURL
	if drOrURL == "" {
		drOrURL = strconv.Itoa(o.release)
	}
	urlStr, err := c.resolver.QueryURL(drOrURL)
	if err != nil {
		return nil, err
	}
	c.setLastURL(urlStr)

	if endpoint.Unsupported(o.release) {
		c.logger.WarnContext(ctx, "release predates supported search interfaces; proceeding for reproducibility",
			"release", o.release, "url", urlStr)
	}

	var (
		body     []byte
		cached   bool
		cacheKey string
	)
	if c.cacheEnabled(o) {
		cacheKey = keys.Key(o.release, payload.Cmd())
		if val, ok, cerr := c.store.Get(ctx, cacheKey); cerr != nil {
			c.logger.WarnContext(ctx, "cache get failed, querying upstream", "err", cerr)
		} else if ok {
			body, cached = val, true
			observability.IncCacheHit()
		}
	}

	start := time.Now()
	if !cached {
		if cacheKey != "" {
			observability.IncCacheMiss()
		}
		body, err = c.disp.Get(ctx, urlStr, payload.Values(), o.timeout)
		if err != nil {
			return nil, err
		}
		if cacheKey != "" {
			if cerr := c.store.Set(ctx, cacheKey, body, c.cacheTTL); cerr != nil {
				c.logger.WarnContext(ctx, "cache set failed", "err", cerr)
			}
		}
	}

	if c.events != nil {
		c.events.Publish(queryevents.Event{
			Kind:     kind,
			Release:  o.release,
			Cmd:      payload.Cmd(),
			URL:      urlStr,
			Cached:   cached,
			Duration: time.Since(start).Milliseconds(),
			TS:       time.Now().UTC(),
		})
	}

	tab, err := table.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", kind, err)
	}
	rows, err := table.ParseXID(tab)
	if err != nil {
		return nil, fmt.Errorf("parse %s identifiers: %w", kind, err)
	}

	c.logger.DebugContext(ctx, "query done",
		"kind", kind,
		"release", o.release,
		"rows", len(rows),
		"cached", cached)

	return &QueryResult{
		Payload: payload,
		URL:     urlStr,
		Cached:  cached,
		Table:   tab,
		Rows:    rows,
	}, nil
}
