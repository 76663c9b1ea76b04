// Package endpoint resolves per-release SkyServer and SAS URLs.
package endpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/skyquery/internal/model"
)

const (
	// DefaultSkyServerBase hosts the per-release SQL search endpoints.
	DefaultSkyServerBase = "http://skyserver.sdss.org"
	// DefaultSASBase hosts the science archive files (spectra, frames).
	DefaultSASBase = "http://data.sdss3.org"
	// classicBase hosts the DR7-era spectral templates.
	classicBase = "http://classic.sdss.org"

	sqlSuffix       = "/dr%d/en/tools/search/x_sql.aspx"
	sqlSuffixLegacy = "/dr%d/en/tools/search/sql.asp"

	// MinSupportedRelease is the oldest release the public search
	// interfaces fully support. Older releases still resolve (their URLs
	// are kept stable for reproducibility of historical results) but are
	// flagged by Unsupported.
	MinSupportedRelease = 12

	// DefaultRelease is used when the caller does not pick one.
	DefaultRelease = 12
)

// Unsupported reports whether a release predates the supported search
// interfaces. Resolution still succeeds for such releases.
func Unsupported(dr int) bool { return dr < MinSupportedRelease }

// Resolver renders release identifiers into service URLs.
type Resolver struct {
	base string
	sas  string
}

func New(base, sas string) *Resolver {
	if base == "" {
		base = DefaultSkyServerBase
	}
	if sas == "" {
		sas = DefaultSASBase
	}
	return &Resolver{
		base: strings.TrimRight(base, "/"),
		sas:  strings.TrimRight(sas, "/"),
	}
}

// QueryURL resolves the SQL search endpoint. A value that already looks
// like a URL is used verbatim; otherwise it must be a release number,
// substituted into the per-release suffix template.
func (r *Resolver) QueryURL(drOrURL string) (string, error) {
	s := strings.TrimSpace(drOrURL)
	if s == "" {
		return r.ReleaseURL(DefaultRelease), nil
	}
	if strings.Contains(s, "://") {
		return s, nil
	}
	dr, err := strconv.Atoi(s)
	if err != nil || dr <= 0 {
		return "", model.Invalidf("data release %q is neither a URL nor a positive release number", drOrURL)
	}
	return r.ReleaseURL(dr), nil
}

// ReleaseURL renders the search endpoint for a release number.
func (r *Resolver) ReleaseURL(dr int) string {
	if Unsupported(dr) {
		return r.base + fmt.Sprintf(sqlSuffixLegacy, dr)
	}
	return r.base + fmt.Sprintf(sqlSuffix, dr)
}

// SpectrumURL is the SAS location of one observed spectrum. Rows without
// a run2d reduction default to "26", the final SDSS-II reduction.
func (r *Resolver) SpectrumURL(dr int, run2d string, plate, mjd, fiber int64) string {
	if run2d == "" {
		run2d = "26"
	}
	return fmt.Sprintf("%s/sas/dr%d/sdss/spectro/redux/%s/spectra/%04d/spec-%04d-%05d-%04d.fits",
		r.sas, dr, run2d, plate, plate, mjd, fiber)
}

// FrameURL is the SAS location of one corrected imaging frame.
func (r *Resolver) FrameURL(dr int, band string, run, rerun, camcol, field int64) string {
	if band == "" {
		band = "g"
	}
	return fmt.Sprintf("%s/sas/dr%d/boss/photoObj/frames/%d/%d/%d/frame-%s-%06d-%d-%04d.fits.bz2",
		r.sas, dr, rerun, run, camcol, band, run, camcol, field)
}

// TemplateURL is the location of one DR7 spectral template by index.
func (r *Resolver) TemplateURL(index int) string {
	return fmt.Sprintf("%s/dr7/algorithms/spectemplates/spDR2-%03d.fit", classicBase, index)
}
