package endpoint

import (
	"errors"
	"testing"

	"github.com/mohammed-shakir/skyquery/internal/model"
)

func TestReleaseURL(t *testing.T) {
	r := New("", "")

	got := r.ReleaseURL(12)
	want := "http://skyserver.sdss.org/dr12/en/tools/search/x_sql.aspx"
	if got != want {
		t.Fatalf("ReleaseURL(12) = %q, want %q", got, want)
	}

	got = r.ReleaseURL(7)
	want = "http://skyserver.sdss.org/dr7/en/tools/search/sql.asp"
	if got != want {
		t.Fatalf("ReleaseURL(7) = %q, want %q", got, want)
	}
}

func TestReleaseURLCustomBase(t *testing.T) {
	r := New("http://example.test/", "")
	got := r.ReleaseURL(14)
	want := "http://example.test/dr14/en/tools/search/x_sql.aspx"
	if got != want {
		t.Fatalf("ReleaseURL(14) = %q, want %q", got, want)
	}
}

func TestQueryURL(t *testing.T) {
	r := New("", "")

	got, err := r.QueryURL("")
	if err != nil {
		t.Fatalf("QueryURL empty: %v", err)
	}
	if want := r.ReleaseURL(DefaultRelease); got != want {
		t.Fatalf("QueryURL empty = %q, want default %q", got, want)
	}

	got, err = r.QueryURL("13")
	if err != nil {
		t.Fatalf("QueryURL 13: %v", err)
	}
	if want := "http://skyserver.sdss.org/dr13/en/tools/search/x_sql.aspx"; got != want {
		t.Fatalf("QueryURL 13 = %q, want %q", got, want)
	}

	verbatim := "http://mirror.test/custom/x_sql.aspx"
	got, err = r.QueryURL(verbatim)
	if err != nil {
		t.Fatalf("QueryURL verbatim: %v", err)
	}
	if got != verbatim {
		t.Fatalf("QueryURL verbatim = %q, want it unchanged", got)
	}

	for _, bad := range []string{"dr12", "-3", "0", "twelve"} {
		_, err := r.QueryURL(bad)
		var inv *model.InvalidInputError
		if !errors.As(err, &inv) {
			t.Fatalf("QueryURL(%q) err = %v, want InvalidInputError", bad, err)
		}
	}
}

func TestUnsupported(t *testing.T) {
	if !Unsupported(7) {
		t.Fatal("Unsupported(7) = false, want true")
	}
	if Unsupported(12) {
		t.Fatal("Unsupported(12) = true, want false")
	}
	if Unsupported(17) {
		t.Fatal("Unsupported(17) = true, want false")
	}
}

func TestSpectrumURL(t *testing.T) {
	r := New("", "")

	got := r.SpectrumURL(12, "26", 751, 52251, 160)
	want := "http://data.sdss3.org/sas/dr12/sdss/spectro/redux/26/spectra/0751/spec-0751-52251-0160.fits"
	if got != want {
		t.Fatalf("SpectrumURL = %q, want %q", got, want)
	}

	// Missing run2d falls back to the final SDSS-II reduction.
	got = r.SpectrumURL(12, "", 751, 52251, 160)
	if got != want {
		t.Fatalf("SpectrumURL default run2d = %q, want %q", got, want)
	}
}

func TestFrameURL(t *testing.T) {
	r := New("", "")

	got := r.FrameURL(12, "g", 1904, 301, 3, 164)
	want := "http://data.sdss3.org/sas/dr12/boss/photoObj/frames/301/1904/3/frame-g-001904-3-0164.fits.bz2"
	if got != want {
		t.Fatalf("FrameURL = %q, want %q", got, want)
	}

	if def := r.FrameURL(12, "", 1904, 301, 3, 164); def != want {
		t.Fatalf("FrameURL default band = %q, want %q", def, want)
	}
}

func TestTemplateURL(t *testing.T) {
	r := New("", "")
	got := r.TemplateURL(23)
	want := "http://classic.sdss.org/dr7/algorithms/spectemplates/spDR2-023.fit"
	if got != want {
		t.Fatalf("TemplateURL = %q, want %q", got, want)
	}
}
