// Package fieldhelp answers field-help introspection from an embedded
// catalog of queryable tables. Lookups never fail: unknown names yield
// empty results.
package fieldhelp

import "strings"

var catalog = map[string]map[string]string{
	"photoobj_all": {
		"objid":      "unique SDSS identifier composed from skyVersion, rerun, run, camcol, field, obj",
		"ra":         "J2000 right ascension (r-band), degrees",
		"dec":        "J2000 declination (r-band), degrees",
		"run":        "run number",
		"rerun":      "rerun number",
		"camcol":     "camera column",
		"field":      "field number",
		"type":       "morphological type classification of the object",
		"psfmag_u":   "PSF magnitude, u band",
		"psfmag_g":   "PSF magnitude, g band",
		"psfmag_r":   "PSF magnitude, r band",
		"psfmag_i":   "PSF magnitude, i band",
		"psfmag_z":   "PSF magnitude, z band",
		"modelmag_u": "better of DeV/Exp magnitude fit, u band",
		"modelmag_g": "better of DeV/Exp magnitude fit, g band",
		"modelmag_r": "better of DeV/Exp magnitude fit, r band",
		"modelmag_i": "better of DeV/Exp magnitude fit, i band",
		"modelmag_z": "better of DeV/Exp magnitude fit, z band",
	},
	"specobj_all": {
		"specobjid":  "unique database ID of the spectroscopic object",
		"bestobjid":  "object ID of the best photometric match",
		"plate":      "plate number",
		"mjd":        "modified Julian date of the observation",
		"fiberid":    "fiber number",
		"run2d":      "2D reduction version",
		"instrument": "instrument used for the observation (SDSS or BOSS)",
		"z":          "final redshift",
		"zerr":       "redshift error from best fit",
		"zwarning":   "bitmask of warning values; 0 means no warnings",
		"class":      "spectroscopic classification (galaxy, qso, star)",
	},
}

// All returns the full table -> field -> description catalog as a copy.
func All() map[string]map[string]string {
	out := make(map[string]map[string]string, len(catalog))
	for table, fields := range catalog {
		cp := make(map[string]string, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		out[table] = cp
	}
	return out
}

// Fields returns the field descriptions for one table; unknown tables
// yield an empty map.
func Fields(table string) map[string]string {
	fields, ok := catalog[strings.ToLower(strings.TrimSpace(table))]
	if !ok {
		return map[string]string{}
	}
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return cp
}

// Describe looks a field name up across all tables.
func Describe(field string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(field))
	for _, fields := range catalog {
		if d, ok := fields[name]; ok {
			return d, true
		}
	}
	return "", false
}
