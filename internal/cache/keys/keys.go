// Package keys derives deterministic cache keys from query payloads.
package keys

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key builds the cache key for a query command against one release. The
// readable prefix is a sanitized, truncated rendering of the command; the
// hash suffix over the normalized text is what makes the key unique.
func Key(release int, cmd string) string {
	norm := collapseASCIIWhitespace(strings.TrimSpace(cmd))

	safe := sanitizeForKey(norm)
	const maxCmdTextLen = 120
	if len(safe) > maxCmdTextLen {
		safe = safe[:maxCmdTextLen]
	}

	sum := xxhash.Sum64String(norm)

	return fmt.Sprintf("sdss:dr%d:%s:c=%016x", release, safe, sum)
}

func sanitizeForKey(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case isAlphaNum(r) || r == ':' || r == '_' || r == '-' || r == '=' || r == '.':
			out = r
		default:
			// anything else (including non-ASCII) becomes '-'
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

// converts any run of ASCII whitespace to a single space.
func collapseASCIIWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	wasWS := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			if !wasWS {
				b.WriteByte(' ')
				wasWS = true
			}
			continue
		}
		b.WriteRune(r)
		wasWS = false
	}
	return strings.TrimSpace(b.String())
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
