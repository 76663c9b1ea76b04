package sdss

import (
	"context"
	"fmt"
	"sort"

	"github.com/mohammed-shakir/skyquery/internal/fetch"
	"github.com/mohammed-shakir/skyquery/internal/fits"
	"github.com/mohammed-shakir/skyquery/internal/model"
	"github.com/mohammed-shakir/skyquery/internal/observability"
)

// spectralTemplates maps template kinds to DR7 template indices. Kinds
// spanning several sub-templates map to all of them.
var spectralTemplates = map[string][]int{
	"star_O":         {0},
	"star_OB":        {1},
	"star_B":         {2},
	"star_A":         {3, 4},
	"star_FA":        {5},
	"star_F":         {6, 7},
	"star_G":         {8, 9},
	"star_K":         {10},
	"star_M1":        {11},
	"star_M3":        {12},
	"star_M5":        {13},
	"star_M8":        {14},
	"star_L1":        {15},
	"star_wd":        {16, 20, 21},
	"star_Ksubdwarf": {17},
	"galaxy_early":   {22},
	"galaxy":         {23, 24, 25},
	"galaxy_late":    {26},
	"galaxy_lrg":     {27},
	"qso":            {28},
	"qso_bal":        {29, 30},
	"qso_bright":     {31},
}

// AvailableTemplates lists the spectral template kinds, sorted.
func AvailableTemplates() []string {
	kinds := make([]string, 0, len(spectralTemplates))
	for k := range spectralTemplates {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// GetSpectra fetches one FITS spectrum per identifier row. Rows come from
// WithMatches, a coordinate lookup (WithCoordinates), or direct
// plate/mjd/fiberID parameters, in that precedence. The returned list
// preserves row order; any single failure aborts the whole batch.
func (c *Client) GetSpectra(ctx context.Context, opts ...Option) ([]*fits.File, error) {
	o := c.buildOpts(opts)

	rows := o.matches
	if rows == nil {
		switch {
		case o.source != nil:
			res, err := c.QueryRegion(ctx, *o.source, append(opts, WithSpectro(true))...)
			if err != nil {
				return nil, err
			}
			rows = res.Rows
		case !o.spec.Empty():
			res, err := c.QuerySpecObj(ctx, o.spec, opts...)
			if err != nil {
				return nil, err
			}
			rows = res.Rows
		default:
			return nil, model.Invalidf("get spectra needs matches, coordinates, or plate/mjd/fiberID")
		}
	}

	files := make([]*fits.File, 0, len(rows))
	for _, r := range rows {
		u := c.resolver.SpectrumURL(o.release, r.Run2D, r.Plate, r.MJD, r.FiberID)
		f, err := c.retrieve(ctx, "spectrum", u, o)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// GetImages fetches one FITS frame per identifier row. Rows come from
// WithMatches, a coordinate lookup, or direct run/rerun/camcol/field
// parameters, in that precedence.
func (c *Client) GetImages(ctx context.Context, opts ...Option) ([]*fits.File, error) {
	o := c.buildOpts(opts)

	rows := o.matches
	if rows == nil {
		switch {
		case o.source != nil:
			res, err := c.QueryRegion(ctx, *o.source, opts...)
			if err != nil {
				return nil, err
			}
			rows = res.Rows
		case !o.photo.Empty():
			res, err := c.QueryPhotoObj(ctx, o.photo, opts...)
			if err != nil {
				return nil, err
			}
			rows = res.Rows
		default:
			return nil, model.Invalidf("get images needs matches, coordinates, or run/rerun/camcol/field")
		}
	}

	files := make([]*fits.File, 0, len(rows))
	for _, r := range rows {
		u := c.resolver.FrameURL(o.release, o.band, r.Run, r.Rerun, r.Camcol, r.Field)
		f, err := c.retrieve(ctx, "image", u, o)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// GetSpectralTemplate fetches the reference template spectra for a kind
// (see AvailableTemplates). Unknown kinds are an InvalidInputError.
func (c *Client) GetSpectralTemplate(ctx context.Context, kind string, opts ...Option) ([]*fits.File, error) {
	o := c.buildOpts(opts)

	indices, ok := spectralTemplates[kind]
	if !ok {
		return nil, model.Invalidf("unknown spectral template %q", kind)
	}

	files := make([]*fits.File, 0, len(indices))
	for _, idx := range indices {
		u := c.resolver.TemplateURL(idx)
		f, err := c.retrieve(ctx, "template", u, o)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (c *Client) retrieve(ctx context.Context, kind, url string, o callOpts) (f *fits.File, err error) {
	defer func() { observability.ObserveRetrieval(kind, err) }()

	rc, err := c.fetcher.Open(ctx, url, fetch.Binary, o.timeout)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			c.logger.Warn("close retrieval stream", "url", url, "err", cerr)
		}
	}()

	f, err = fits.Decode(rc)
	if err != nil {
		if IsTimeout(err) {
			return nil, err
		}
		return nil, fmt.Errorf("decode %s %s: %w", kind, url, err)
	}
	c.logger.Debug("retrieved file", "kind", kind, "url", url, "hdus", len(f.HDUs))
	return f, nil
}
