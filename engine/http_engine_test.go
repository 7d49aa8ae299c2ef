package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/menumaker/models"
)

func TestHTTPEngine_FetchHTML(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><title>Soup</title></html>"))
	}))
	defer ts.Close()

	e := NewHTTPEngine(HTTPOptions{Timeout: 5 * time.Second})
	res, err := e.Fetch(context.Background(), &FetchRequest{URL: ts.URL})
	if err != nil {
		t.Fatalf("fetch err: %v", err)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
	if !strings.Contains(res.HTML, "<title>Soup</title>") {
		t.Errorf("unexpected body: %q", res.HTML)
	}
	if res.StatusCode != http.StatusOK || res.FinalURL == "" || res.EngineName != "http" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestHTTPEngine_DecodesCharset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1252")
		_, _ = w.Write([]byte("<p>Caf\xe9 au lait</p>"))
	}))
	defer ts.Close()

	e := NewHTTPEngine(HTTPOptions{Timeout: 5 * time.Second})
	res, err := e.Fetch(context.Background(), &FetchRequest{URL: ts.URL})
	if err != nil {
		t.Fatalf("fetch err: %v", err)
	}
	if !strings.Contains(res.HTML, "Café au lait") {
		t.Errorf("body not decoded to UTF-8: %q", res.HTML)
	}
}

func TestHTTPEngine_RejectsNonText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer ts.Close()

	e := NewHTTPEngine(HTTPOptions{Timeout: 5 * time.Second})
	_, err := e.Fetch(context.Background(), &FetchRequest{URL: ts.URL})
	var se *models.ScrapeError
	if !errors.As(err, &se) || se.Code != models.ErrCodeNonText {
		t.Fatalf("want %s error, got %v", models.ErrCodeNonText, err)
	}
}

func TestHTTPEngine_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	e := NewHTTPEngine(HTTPOptions{Timeout: 5 * time.Second})
	_, err := e.Fetch(context.Background(), &FetchRequest{URL: ts.URL})
	var se *models.ScrapeError
	if !errors.As(err, &se) || se.Code != models.ErrCodeFetch {
		t.Fatalf("want %s error, got %v", models.ErrCodeFetch, err)
	}
}

func TestIsTextContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want bool
	}{
		{"", true},
		{"text/html", true},
		{"text/plain; charset=utf-8", true},
		{"application/xhtml+xml", true},
		{"application/json", false},
		{"image/jpeg", false},
	}
	for _, tt := range tests {
		if got := isTextContentType(tt.ct); got != tt.want {
			t.Errorf("isTextContentType(%q) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}
