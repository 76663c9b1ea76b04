package table

import (
	"strconv"
	"strings"

	"github.com/mohammed-shakir/skyquery/internal/model"
)

// ParseXID maps an identifier table onto typed rows. Columns the response
// does not carry stay zero-valued; unparsable cells in known columns are
// an error rather than silently dropped rows.
func ParseXID(t *Table) ([]model.IdentifierRow, error) {
	rows := make([]model.IdentifierRow, t.Len())
	for i := range rows {
		r := &rows[i]
		if err := setInt(t, "objid", i, &r.ObjID); err != nil {
			return nil, err
		}
		if err := setFloat(t, "ra", i, &r.RA); err != nil {
			return nil, err
		}
		if err := setFloat(t, "dec", i, &r.Dec); err != nil {
			return nil, err
		}
		if err := setInt(t, "run", i, &r.Run); err != nil {
			return nil, err
		}
		if err := setInt(t, "rerun", i, &r.Rerun); err != nil {
			return nil, err
		}
		if err := setInt(t, "camcol", i, &r.Camcol); err != nil {
			return nil, err
		}
		if err := setInt(t, "field", i, &r.Field); err != nil {
			return nil, err
		}
		if err := setFloat(t, "z", i, &r.Z); err != nil {
			return nil, err
		}
		if err := setInt(t, "plate", i, &r.Plate); err != nil {
			return nil, err
		}
		if err := setInt(t, "mjd", i, &r.MJD); err != nil {
			return nil, err
		}
		if err := setInt(t, "fiberid", i, &r.FiberID); err != nil {
			return nil, err
		}
		if err := setUint(t, "specobjid", i, &r.SpecObjID); err != nil {
			return nil, err
		}
		if s, ok := t.Column("run2d"); ok {
			r.Run2D = strings.TrimSpace(s[i])
		}
		if s, ok := t.Column("instrument"); ok {
			r.Instrument = strings.TrimSpace(s[i])
		}
	}
	return rows, nil
}

func setInt(t *Table, name string, i int, dst *int64) error {
	if _, ok := t.Column(name); !ok {
		return nil
	}
	v, err := t.Int(name, i)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setUint(t *Table, name string, i int, dst *uint64) error {
	col, ok := t.Column(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(col[i]), 10, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setFloat(t *Table, name string, i int, dst *float64) error {
	if _, ok := t.Column(name); !ok {
		return nil
	}
	v, err := t.Float(name, i)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
