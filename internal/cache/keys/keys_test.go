package keys

import (
	"regexp"
	"strings"
	"testing"
)

var keyShape = regexp.MustCompile(`^sdss:dr\d+:[A-Za-z0-9:_\-=.]*:c=[0-9a-f]{16}$`)

func TestKeyShape(t *testing.T) {
	k := Key(12, "SELECT TOP 10 ra, dec FROM PhotoObjAll")
	if !keyShape.MatchString(k) {
		t.Fatalf("key %q does not match expected shape", k)
	}
	if !strings.HasPrefix(k, "sdss:dr12:") {
		t.Fatalf("key %q missing release prefix", k)
	}
}

func TestKeyDeterministic(t *testing.T) {
	a := Key(12, "SELECT 1")
	b := Key(12, "SELECT 1")
	if a != b {
		t.Fatalf("same input produced %q and %q", a, b)
	}
	if Key(13, "SELECT 1") == a {
		t.Fatal("release change did not change the key")
	}
	if Key(12, "SELECT 2") == a {
		t.Fatal("command change did not change the key")
	}
}

func TestKeyWhitespaceNormalized(t *testing.T) {
	a := Key(12, "SELECT   ra,\n\tdec  FROM PhotoObjAll")
	b := Key(12, "SELECT ra, dec FROM PhotoObjAll")
	if a != b {
		t.Fatalf("whitespace variants diverged:\n%q\n%q", a, b)
	}
}

func TestKeyLongCommandTruncated(t *testing.T) {
	long := "SELECT " + strings.Repeat("p.ra, ", 100) + "p.dec FROM PhotoObjAll"
	k := Key(12, long)
	if !keyShape.MatchString(k) {
		t.Fatalf("key %q does not match expected shape", k)
	}
	if len(k) > len("sdss:dr12:")+120+len(":c=")+16+4 {
		t.Fatalf("key too long: %d bytes", len(k))
	}
}

func TestSanitizeForKey(t *testing.T) {
	got := sanitizeForKey("SELECT p.ra, p.dec -- trailing")
	if strings.ContainsAny(got, " ,()") {
		t.Fatalf("sanitized key text still has raw punctuation: %q", got)
	}
	// runs of substitutions collapse
	if strings.Contains(got, "__") || strings.Contains(got, "--") {
		t.Fatalf("repeated separators not collapsed: %q", got)
	}
}
