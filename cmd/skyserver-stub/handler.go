package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/skyquery/internal/logger"
)

// photoXID and specXID mirror the shape of real SkyServer csv output,
// comment line included.
const photoXID = `#Table1
ra,dec,objid,run,rerun,camcol,field
2.02344596573482,14.8398237551311,1237652943176138868,1904,301,3,163
2.02344596573482,14.8398237551311,1237652943176138868,1904,301,3,164
`

const specXID = `#Table1
ra,dec,objid,run,rerun,camcol,field,z,plate,mjd,fiberID,specobjid,run2d,instrument
2.02344596573482,14.8398237551311,1237652943176138868,1904,301,3,163,0.0446,751,52251,160,845594848269461504,26,SDSS
`

type handler struct {
	logger *slog.Logger
}

// requestID stamps every request with an id so the stub's logs can be
// correlated with client-side records.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequestID(r.Context(), r.Header.Get("X-Request-Id"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newHandler(logger *slog.Logger) *handler {
	return &handler{logger: logger}
}

func (h *handler) sql(w http.ResponseWriter, r *http.Request) {
	cmd := r.URL.Query().Get("cmd")
	if cmd == "" {
		http.Error(w, "missing cmd parameter", http.StatusBadRequest)
		return
	}
	if format := r.URL.Query().Get("format"); format != "csv" {
		http.Error(w, "only csv format is served", http.StatusBadRequest)
		return
	}

	h.logger.DebugContext(r.Context(), "sql query", "dr", chi.URLParam(r, "dr"), "cmd", cmd)

	w.Header().Set("Content-Type", "text/plain")
	if strings.Contains(cmd, "SpecObjAll") {
		_, _ = w.Write([]byte(specXID))
		return
	}
	_, _ = w.Write([]byte(photoXID))
}

func (h *handler) file(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "file fetch", "path", r.URL.Path)
	// frames are served uncompressed even under a .bz2 name; real use of
	// the stub keeps to .fits spectra and templates
	if strings.HasSuffix(r.URL.Path, ".bz2") {
		http.Error(w, "compressed frames not available from the stub", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(minimalFITS([]byte("stub spectrum payload")))
}

// minimalFITS renders a single-HDU FITS file with an 8-bit data vector.
func minimalFITS(data []byte) []byte {
	const block = 2880
	card := func(s string) []byte {
		return []byte(fmt.Sprintf("%-80s", s))
	}

	var hdr []byte
	hdr = append(hdr, card("SIMPLE  =                    T / stub file")...)
	hdr = append(hdr, card("BITPIX  =                    8")...)
	hdr = append(hdr, card("NAXIS   =                    1")...)
	hdr = append(hdr, card(fmt.Sprintf("NAXIS1  = %20d", len(data)))...)
	hdr = append(hdr, card("END")...)
	for len(hdr)%block != 0 {
		hdr = append(hdr, ' ')
	}

	out := append(hdr, data...)
	for len(out)%block != 0 {
		out = append(out, 0)
	}
	return out
}
