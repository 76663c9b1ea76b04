// Package sqlbuild constructs the SQL command text and wire parameters
// for SkyServer search requests.
//
// The non-spectroscopic region query text is a byte-for-byte contract:
// identical coordinate inputs must always render the identical cmd
// string, predicate order matching input order.
package sqlbuild

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mohammed-shakir/skyquery/internal/coords"
	"github.com/mohammed-shakir/skyquery/internal/model"
)

// OutputFormat is the only response format the client speaks.
const OutputFormat = "csv"

// DefaultRadius is the default angular search radius: 2 arcsec in degrees.
const DefaultRadius = 2.0 / 3600.0

// MaxRadius caps region searches at 3 arcmin, the server-side cross-id limit.
const MaxRadius = 3.0 / 60.0

// PhotoObjFields is the default photometric column set, aliased p.*.
var PhotoObjFields = []string{"ra", "dec", "objid", "run", "rerun", "camcol", "field"}

// SpecObjFields is the spectroscopic column set appended in spectro mode,
// aliased s.*.
var SpecObjFields = []string{"z", "plate", "mjd", "fiberID", "specobjid", "run2d", "instrument"}

// Payload is the immutable wire payload of one query.
type Payload struct {
	cmd    string
	format string
}

func (p Payload) Cmd() string    { return p.cmd }
func (p Payload) Format() string { return p.format }

// Values renders the payload as request query parameters.
func (p Payload) Values() url.Values {
	v := url.Values{}
	v.Set("cmd", p.cmd)
	v.Set("format", p.format)
	return v
}

func newPayload(cmd string) Payload {
	return Payload{cmd: cmd, format: OutputFormat}
}

// RegionOpts tunes Region.
type RegionOpts struct {
	// Radius in degrees; zero means DefaultRadius.
	Radius float64
	// Fields are extra photoobj columns appended after the defaults.
	Fields []string
	// Spectro joins SpecObjAll and appends the spectroscopic columns.
	Spectro bool
	// Predicates are extra WHERE terms ANDed after the coordinate block.
	Predicates []string
}

// Region builds the region search command for an ordered coordinate list.
// With no coordinates the query is unconditioned (the server applies its
// row cap).
func Region(cs []coords.Coord, o RegionOpts) (Payload, error) {
	radius := o.Radius
	if radius == 0 {
		radius = DefaultRadius
	}
	if radius < 0 || radius > MaxRadius {
		return Payload{}, model.Invalidf("radius %g deg out of range (0, %g]", radius, MaxRadius)
	}

	cols := make([]string, 0, len(PhotoObjFields)+len(o.Fields)+len(SpecObjFields))
	for _, f := range PhotoObjFields {
		cols = append(cols, "p."+f)
	}
	for _, f := range o.Fields {
		cols = append(cols, "p."+f)
	}
	if o.Spectro {
		for _, f := range SpecObjFields {
			cols = append(cols, "s."+f)
		}
	}

	var b strings.Builder
	b.WriteString("SELECT DISTINCT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM PhotoObjAll AS p ")
	if o.Spectro {
		b.WriteString("JOIN SpecObjAll AS s ON p.objID = s.bestObjID ")
	} else {
		b.WriteString("  ")
	}

	preds := make([]string, 0, len(cs))
	for _, c := range cs {
		preds = append(preds, fmt.Sprintf(
			"((p.ra between %s and %s) and (p.dec between %s and %s))",
			g(c.RA-radius), g(c.RA+radius), g(c.Dec-radius), g(c.Dec+radius)))
	}

	switch {
	case len(preds) == 0 && len(o.Predicates) == 0:
		return newPayload(strings.TrimRight(b.String(), " ")), nil
	case len(preds) == 0:
		b.WriteString("WHERE ")
		b.WriteString(strings.Join(o.Predicates, " and "))
	case len(o.Predicates) == 0:
		b.WriteString("WHERE ")
		b.WriteString(strings.Join(preds, " or "))
	default:
		b.WriteString("WHERE (")
		b.WriteString(strings.Join(preds, " or "))
		b.WriteString(") and ")
		b.WriteString(strings.Join(o.Predicates, " and "))
	}
	return newPayload(b.String()), nil
}

// SpecObj builds an identifier query against SpecObjAll. At least one
// identifier must be set.
func SpecObj(id model.SpecObjID) (Payload, error) {
	if id.Empty() {
		return Payload{}, model.Invalidf("specobj query needs at least one of plate, mjd, fiberID")
	}
	preds := make([]string, 0, 3)
	if id.Plate > 0 {
		preds = append(preds, fmt.Sprintf("s.plate = %d", id.Plate))
	}
	if id.MJD > 0 {
		preds = append(preds, fmt.Sprintf("s.mjd = %d", id.MJD))
	}
	if id.FiberID > 0 {
		preds = append(preds, fmt.Sprintf("s.fiberID = %d", id.FiberID))
	}

	cols := make([]string, 0, len(SpecObjFields))
	for _, f := range SpecObjFields {
		cols = append(cols, "s."+f)
	}
	cmd := "SELECT DISTINCT " + strings.Join(cols, ", ") +
		" FROM SpecObjAll AS s WHERE " + strings.Join(preds, " and ")
	return newPayload(cmd), nil
}

// PhotoObj builds an identifier query against PhotoObjAll. At least one
// identifier must be set.
func PhotoObj(id model.PhotoObjID) (Payload, error) {
	if id.Empty() {
		return Payload{}, model.Invalidf("photoobj query needs at least one of run, rerun, camcol, field")
	}
	preds := make([]string, 0, 4)
	if id.Run > 0 {
		preds = append(preds, fmt.Sprintf("p.run = %d", id.Run))
	}
	if id.Rerun > 0 {
		preds = append(preds, fmt.Sprintf("p.rerun = %d", id.Rerun))
	}
	if id.Camcol > 0 {
		preds = append(preds, fmt.Sprintf("p.camcol = %d", id.Camcol))
	}
	if id.Field > 0 {
		preds = append(preds, fmt.Sprintf("p.field = %d", id.Field))
	}

	cols := make([]string, 0, len(PhotoObjFields))
	for _, f := range PhotoObjFields {
		cols = append(cols, "p."+f)
	}
	cmd := "SELECT DISTINCT " + strings.Join(cols, ", ") +
		" FROM PhotoObjAll AS p WHERE " + strings.Join(preds, " and ")
	return newPayload(cmd), nil
}

// SQL passes caller SQL through after stripping "--" comment lines and
// collapsing the remainder onto one line.
func SQL(raw string) (Payload, error) {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if i := strings.Index(trimmed, "--"); i >= 0 {
			trimmed = strings.TrimSpace(trimmed[:i])
		}
		if trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return Payload{}, model.Invalidf("empty sql query")
	}
	return newPayload(strings.Join(kept, " ")), nil
}

// g formats a bound the way the service's reference clients do: six
// significant digits.
func g(x float64) string {
	return fmt.Sprintf("%.6g", x)
}
