package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/skyquery/internal/fits"
	"github.com/mohammed-shakir/skyquery/internal/table"
)

func newTestRouter() http.Handler {
	h := newHandler(slog.Default())
	r := chi.NewRouter()
	r.Get("/dr{dr}/en/tools/search/x_sql.aspx", h.sql)
	r.Get("/sas/*", h.file)
	return r
}

func TestSQLServesPhotoTable(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet,
		"/dr12/en/tools/search/x_sql.aspx?cmd=SELECT+1&format=csv", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	tb, err := table.Decode(rr.Body)
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if tb.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tb.Len())
	}
	if _, ok := tb.Column("objid"); !ok {
		t.Fatalf("objid column missing: %v", tb.Names())
	}
}

func TestSQLServesSpecTable(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet,
		"/dr12/en/tools/search/x_sql.aspx?cmd=SELECT+FROM+SpecObjAll&format=csv", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	tb, err := table.Decode(rr.Body)
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, ok := tb.Column("plate"); !ok {
		t.Fatalf("plate column missing: %v", tb.Names())
	}
}

func TestSQLRejectsBadParams(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/dr12/en/tools/search/x_sql.aspx?format=csv", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing cmd: status = %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/dr12/en/tools/search/x_sql.aspx?cmd=SELECT+1&format=xml", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("non-csv format: status = %d", rr.Code)
	}
}

func TestFileServesFITS(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet,
		"/sas/dr12/sdss/spectro/redux/26/spectra/0751/spec-0751-52251-0160.fits", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	f, err := fits.Decode(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode fits: %v", err)
	}
	if len(f.HDUs) != 1 {
		t.Fatalf("HDUs = %d, want 1", len(f.HDUs))
	}
	if !strings.Contains(string(f.HDUs[0].Data), "stub spectrum payload") {
		t.Fatalf("data = %q", f.HDUs[0].Data)
	}
}

func TestFileRejectsCompressedFrames(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet,
		"/sas/dr12/boss/photoObj/frames/301/1904/3/frame-g-001904-3-0164.fits.bz2", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
