package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/mohammed-shakir/skyquery/internal/model"
)

func TestGetSendsParams(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte("ra,dec\n1,2\n"))
	}))
	defer srv.Close()

	d := New(nil, srv.Client())
	params := url.Values{}
	params.Set("cmd", "SELECT 1")
	params.Set("format", "csv")

	body, err := d.Get(context.Background(), srv.URL, params, time.Second)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ra,dec\n1,2\n" {
		t.Fatalf("body = %q", body)
	}
	if gotQuery.Get("cmd") != "SELECT 1" || gotQuery.Get("format") != "csv" {
		t.Fatalf("upstream saw query %v", gotQuery)
	}
}

func TestGetTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	d := New(nil, srv.Client())
	_, err := d.Get(context.Background(), srv.URL, nil, 20*time.Millisecond)
	var te *model.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TimeoutError", err)
	}
	if !te.Timeout() {
		t.Fatal("Timeout() = false")
	}
}

func TestGetBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such table", http.StatusBadRequest)
	}))
	defer srv.Close()

	d := New(nil, srv.Client())
	_, err := d.Get(context.Background(), srv.URL, nil, time.Second)
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "status 400") || !strings.Contains(err.Error(), "no such table") {
		t.Fatalf("err = %v, want status and body fragment", err)
	}
}

func TestAsTimeout(t *testing.T) {
	if te := AsTimeout("op", context.DeadlineExceeded); te == nil {
		t.Fatal("deadline exceeded should map to TimeoutError")
	}
	if te := AsTimeout("op", errors.New("boom")); te != nil {
		t.Fatalf("plain error mapped to %v", te)
	}
	if te := AsTimeout("op", nil); te != nil {
		t.Fatalf("nil error mapped to %v", te)
	}
}
