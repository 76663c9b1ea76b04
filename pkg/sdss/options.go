package sdss

import (
	"time"

	"github.com/mohammed-shakir/skyquery/internal/coords"
	"github.com/mohammed-shakir/skyquery/internal/model"
)

type callOpts struct {
	radius      float64
	fields      []string
	spectro     bool
	predicates  []string
	timeout     time.Duration
	timeoutSet  bool
	release     int
	endpointURL string
	cache       *bool
	payloadOnly bool
	matches     []model.IdentifierRow
	source      *coords.Source
	spec        model.SpecObjID
	photo       model.PhotoObjID
	band        string
}

// Option adjusts a single call.
type Option func(*callOpts)

// WithRadius sets the angular search radius in degrees.
func WithRadius(deg float64) Option {
	return func(o *callOpts) { o.radius = deg }
}

// WithFields appends photoobj columns to the default field list.
func WithFields(fields ...string) Option {
	return func(o *callOpts) { o.fields = append(o.fields, fields...) }
}

// WithSpectro joins the spectroscopic catalog and returns its columns too.
func WithSpectro(on bool) Option {
	return func(o *callOpts) { o.spectro = on }
}

// WithPredicates ANDs extra WHERE terms after the coordinate block.
func WithPredicates(preds ...string) Option {
	return func(o *callOpts) { o.predicates = append(o.predicates, preds...) }
}

// WithTimeout bounds the network exchange for this call.
func WithTimeout(d time.Duration) Option {
	return func(o *callOpts) { o.timeout = d; o.timeoutSet = true }
}

// WithRelease overrides the client's data release for this call.
func WithRelease(dr int) Option {
	return func(o *callOpts) { o.release = dr }
}

// WithEndpointURL sends the query to an explicit endpoint URL, bypassing
// release-based resolution.
func WithEndpointURL(u string) Option {
	return func(o *callOpts) { o.endpointURL = u }
}

// WithCache turns the response cache on or off for this call.
func WithCache(on bool) Option {
	return func(o *callOpts) { o.cache = &on }
}

// WithPayloadOnly short-circuits dispatch: the call returns the built
// payload without touching the network.
func WithPayloadOnly() Option {
	return func(o *callOpts) { o.payloadOnly = true }
}

// WithMatches feeds previously queried identifier rows into a retrieval
// call, skipping the lookup query.
func WithMatches(rows []model.IdentifierRow) Option {
	return func(o *callOpts) { o.matches = rows }
}

// WithCoordinates drives a retrieval call from a coordinate lookup.
func WithCoordinates(src coords.Source) Option {
	return func(o *callOpts) { o.source = &src }
}

// WithPlate, WithMJD and WithFiberID identify a spectrum directly.
func WithPlate(plate int64) Option {
	return func(o *callOpts) { o.spec.Plate = plate }
}

func WithMJD(mjd int64) Option {
	return func(o *callOpts) { o.spec.MJD = mjd }
}

func WithFiberID(fiber int64) Option {
	return func(o *callOpts) { o.spec.FiberID = fiber }
}

// WithRun, WithRerun, WithCamcol and WithField identify a frame directly.
func WithRun(run int64) Option {
	return func(o *callOpts) { o.photo.Run = run }
}

func WithRerun(rerun int64) Option {
	return func(o *callOpts) { o.photo.Rerun = rerun }
}

func WithCamcol(camcol int64) Option {
	return func(o *callOpts) { o.photo.Camcol = camcol }
}

func WithField(field int64) Option {
	return func(o *callOpts) { o.photo.Field = field }
}

// WithBand selects the imaging band for frame retrieval (default "g").
func WithBand(band string) Option {
	return func(o *callOpts) { o.band = band }
}

func (c *Client) buildOpts(opts []Option) callOpts {
	o := callOpts{release: c.release, timeout: c.timeout}
	for _, f := range opts {
		f(&o)
	}
	if o.release <= 0 {
		o.release = c.release
	}
	return o
}

func (c *Client) cacheEnabled(o callOpts) bool {
	if o.cache != nil {
		return *o.cache && c.store != nil
	}
	return c.cacheOn && c.store != nil
}
