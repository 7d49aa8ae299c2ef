package cache

import (
	"context"
	"testing"
	"time"

	"github.com/use-agent/menumaker/models"
)

func TestKey(t *testing.T) {
	a := Key("https://example.com/soup", false)
	if a != Key("https://example.com/soup", false) {
		t.Error("Key is not deterministic")
	}
	if a == Key("https://example.com/soup", true) {
		t.Error("include_text must change the key")
	}
	if a == Key("https://example.com/stew", false) {
		t.Error("different URLs share a key")
	}
}

func TestMemory_GetSet(t *testing.T) {
	c := NewMemory(10, time.Hour)
	defer c.Close()
	ctx := context.Background()

	resp := &models.ScrapeResponse{Success: true, Recipe: &models.ScrapeResult{Title: "Soup"}}
	c.Set(ctx, "k", resp)

	if _, ok := c.Get(ctx, "k", 0); ok {
		t.Error("max age 0 must bypass the cache")
	}
	got, ok := c.Get(ctx, "k", 60_000)
	if !ok || got.Recipe.Title != "Soup" {
		t.Fatalf("Get = %v, %v", got, ok)
	}
	if _, ok := c.Get(ctx, "missing", 60_000); ok {
		t.Error("unexpected hit for missing key")
	}
}

func TestMemory_MaxAge(t *testing.T) {
	c := NewMemory(10, time.Hour)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", &models.ScrapeResponse{Success: true})
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "k", 5); ok {
		t.Error("stale entry returned")
	}
}

func TestMemory_Eviction(t *testing.T) {
	c := NewMemory(2, time.Hour)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", &models.ScrapeResponse{})
	c.Set(ctx, "b", &models.ScrapeResponse{})
	c.Set(ctx, "b", &models.ScrapeResponse{})
	if c.Len() != 2 {
		t.Fatalf("overwrite evicted an entry: len = %d", c.Len())
	}
	c.Set(ctx, "c", &models.ScrapeResponse{})
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get(ctx, "c", 60_000); !ok {
		t.Error("newest entry missing")
	}
}

func TestNewRedis_BadURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), "not-a-redis-url", time.Minute); err == nil {
		t.Fatal("expected parse error")
	}
}
