// Package model holds the shared data types for SkyServer queries.
package model

// IdentifierRow is one row of the identifier table (xid) returned by a
// catalog query. Columns missing from the response are left zero-valued.
type IdentifierRow struct {
	ObjID      int64
	RA         float64
	Dec        float64
	Run        int64
	Rerun      int64
	Camcol     int64
	Field      int64
	Z          float64
	Plate      int64
	MJD        int64
	FiberID    int64
	SpecObjID  uint64
	Run2D      string
	Instrument string
}

// SpecObjID identifies a spectrum. Zero fields are treated as unspecified;
// SDSS plate, mjd and fiber numbers are all positive.
type SpecObjID struct {
	Plate   int64
	MJD     int64
	FiberID int64
}

// Empty reports whether no identifier field is set.
func (s SpecObjID) Empty() bool {
	return s.Plate == 0 && s.MJD == 0 && s.FiberID == 0
}

// PhotoObjID identifies a photometric frame.
type PhotoObjID struct {
	Run    int64
	Rerun  int64
	Camcol int64
	Field  int64
}

func (p PhotoObjID) Empty() bool {
	return p.Run == 0 && p.Rerun == 0 && p.Camcol == 0 && p.Field == 0
}
