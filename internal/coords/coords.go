// Package coords normalizes the accepted coordinate input shapes into an
// ordered list of (ra, dec) pairs in decimal degrees.
package coords

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/skyquery/internal/model"
	"github.com/mohammed-shakir/skyquery/internal/table"
)

// Coord is an ICRS sky position in decimal degrees.
type Coord struct {
	RA  float64
	Dec float64
}

func (c Coord) String() string {
	return fmt.Sprintf("%g %g", c.RA, c.Dec)
}

type kind int

const (
	kindSingle kind = iota
	kindList
	kindColumn
)

// Source is the closed set of coordinate input shapes: a single
// coordinate, an ordered list, or a named column inside a table.
type Source struct {
	kind kind
	one  Coord
	list []Coord
	tab  *table.Table
	col  string
}

func Single(c Coord) Source {
	return Source{kind: kindSingle, one: c}
}

func List(cs []Coord) Source {
	return Source{kind: kindList, list: cs}
}

// Column selects a table column whose cells hold coordinate pairs in any
// form Parse accepts.
func Column(t *table.Table, name string) Source {
	return Source{kind: kindColumn, tab: t, col: name}
}

// Normalize flattens the source into (ra, dec) pairs, preserving input
// order and length.
func (s Source) Normalize() ([]Coord, error) {
	switch s.kind {
	case kindSingle:
		return []Coord{s.one}, nil
	case kindList:
		return append([]Coord(nil), s.list...), nil
	case kindColumn:
		if s.tab == nil {
			return nil, model.Invalidf("coordinate column requires a table")
		}
		col, ok := s.tab.Column(s.col)
		if !ok {
			return nil, model.Invalidf("no coordinate column %q in table", s.col)
		}
		out := make([]Coord, 0, len(col))
		for i, cell := range col {
			c, err := Parse(cell)
			if err != nil {
				return nil, model.Invalidf("column %q row %d: %v", s.col, i, err)
			}
			out = append(out, c)
		}
		return out, nil
	default:
		return nil, model.Invalidf("unknown coordinate source")
	}
}

// Parse reads a coordinate pair from text. Decimal degrees
// ("2.0235 14.8399", comma optional) and sexagesimal
// ("0h8m05.63s +14d50m23.3s") forms are accepted.
func Parse(s string) (Coord, error) {
	fieldsRaw := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	fields := fieldsRaw[:0]
	for _, f := range fieldsRaw {
		if f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) != 2 {
		return Coord{}, fmt.Errorf("expected two components, got %d in %q", len(fields), s)
	}

	ra, err := parseRA(fields[0])
	if err != nil {
		return Coord{}, err
	}
	dec, err := parseDec(fields[1])
	if err != nil {
		return Coord{}, err
	}
	return Coord{RA: ra, Dec: dec}, nil
}

func parseRA(s string) (float64, error) {
	if strings.ContainsAny(s, "hH") {
		h, m, sec, err := splitSexagesimal(s, 'h', 'm', 's')
		if err != nil {
			return 0, fmt.Errorf("ra %q: %w", s, err)
		}
		return (h + m/60 + sec/3600) * 15, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("ra %q: %w", s, err)
	}
	return v, nil
}

func parseDec(s string) (float64, error) {
	if strings.ContainsAny(s, "dD") {
		sign := 1.0
		switch {
		case strings.HasPrefix(s, "-"):
			sign = -1
			s = s[1:]
		case strings.HasPrefix(s, "+"):
			s = s[1:]
		}
		d, m, sec, err := splitSexagesimal(s, 'd', 'm', 's')
		if err != nil {
			return 0, fmt.Errorf("dec %q: %w", s, err)
		}
		return sign * (d + m/60 + sec/3600), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("dec %q: %w", s, err)
	}
	return v, nil
}

// splits "AAxBBxCC.Cx"-style sexagesimal text on the three unit runes;
// minutes and seconds may be omitted.
func splitSexagesimal(s string, u1, u2, u3 rune) (float64, float64, float64, error) {
	lower := strings.ToLower(s)
	parts := [3]float64{}
	units := [3]rune{u1, u2, u3}
	rest := lower
	for i, u := range units {
		if rest == "" {
			break
		}
		idx := strings.IndexRune(rest, u)
		if idx < 0 {
			return 0, 0, 0, fmt.Errorf("missing %q unit", string(u))
		}
		v, err := strconv.ParseFloat(rest[:idx], 64)
		if err != nil {
			return 0, 0, 0, err
		}
		parts[i] = v
		rest = rest[idx+1:]
	}
	if rest != "" {
		return 0, 0, 0, fmt.Errorf("trailing %q", rest)
	}
	return parts[0], parts[1], parts[2], nil
}
