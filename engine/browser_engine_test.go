package engine

import (
	"errors"
	"testing"

	"github.com/go-rod/stealth"
)

type fakeScripter struct {
	scripts []string
	removed int
	err     error
}

func (f *fakeScripter) EvalOnNewDocument(js string) (func() error, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.scripts = append(f.scripts, js)
	return func() error {
		f.removed++
		return nil
	}, nil
}

func TestInjectStealth_RemovedAfterFetch(t *testing.T) {
	page := &fakeScripter{}

	cleanup := injectStealth(page)
	if len(page.scripts) != 1 || page.scripts[0] != stealth.JS {
		t.Fatalf("expected the stealth script to be installed once, got %d scripts", len(page.scripts))
	}
	if page.removed != 0 {
		t.Fatalf("script removed before cleanup")
	}
	cleanup()
	if page.removed != 1 {
		t.Errorf("removed = %d, want 1", page.removed)
	}
}

func TestInjectStealth_InstallFailure(t *testing.T) {
	page := &fakeScripter{err: errors.New("target closed")}
	cleanup := injectStealth(page)
	cleanup() // must be safe to call
	if page.removed != 0 {
		t.Errorf("removed = %d, want 0", page.removed)
	}
}

func TestBrowserRequestHeaders(t *testing.T) {
	b := &Browser{userAgent: "Kitchen/2.0"}
	h := b.requestHeaders(map[string]string{"Accept-Language": "fr"})
	if h["User-Agent"] != "Kitchen/2.0" {
		t.Errorf("User-Agent = %q, want configured identifier", h["User-Agent"])
	}
	if h["Accept-Language"] != "fr" {
		t.Errorf("Accept-Language = %q", h["Accept-Language"])
	}

	h = b.requestHeaders(map[string]string{"User-Agent": "Override/1"})
	if h["User-Agent"] != "Override/1" {
		t.Errorf("per-request header should win, got %q", h["User-Agent"])
	}

	h = (&Browser{}).requestHeaders(nil)
	if h["User-Agent"] != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", h["User-Agent"], DefaultUserAgent)
	}
}
