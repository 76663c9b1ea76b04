package sdss

import "github.com/mohammed-shakir/skyquery/internal/fieldhelp"

// FieldHelpResult answers a field-help introspection. With an empty hint,
// Tables holds the full catalog. With a field-name hint, Description and
// Found report the lookup; an unknown name is not an error.
type FieldHelpResult struct {
	Tables      map[string]map[string]string
	Field       string
	Description string
	Found       bool
}

// FieldHelp describes the queryable fields instead of performing a query.
// It never fails: unknown hints yield an empty result.
func (c *Client) FieldHelp(hint string) FieldHelpResult {
	if hint == "" {
		return FieldHelpResult{Tables: fieldhelp.All()}
	}
	if fields := fieldhelp.Fields(hint); len(fields) > 0 {
		return FieldHelpResult{
			Tables: map[string]map[string]string{hint: fields},
			Found:  true,
		}
	}
	desc, ok := fieldhelp.Describe(hint)
	if !ok {
		c.logger.Debug("field help lookup missed", "hint", hint)
	}
	return FieldHelpResult{Field: hint, Description: desc, Found: ok}
}
