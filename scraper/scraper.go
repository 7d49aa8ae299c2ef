// Package scraper ties fetching, the extraction pipeline, optional recipe
// text and the response cache into the operations the API exposes.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/menumaker/cache"
	"github.com/use-agent/menumaker/cleaner"
	"github.com/use-agent/menumaker/config"
	"github.com/use-agent/menumaker/engine"
	"github.com/use-agent/menumaker/models"
	"github.com/use-agent/menumaker/recipe"
)

// Fetcher retrieves a page. *engine.Dispatcher satisfies it.
type Fetcher interface {
	Dispatch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error)
	EngineNames() []string
}

// Scraper is safe for concurrent use.
type Scraper struct {
	fetcher        Fetcher
	cache          cache.Store
	defaultTimeout time.Duration
	maxTimeout     time.Duration
}

// New creates a Scraper. cc may be nil to disable caching.
func New(fetcher Fetcher, cc cache.Store, cfg config.FetchConfig) *Scraper {
	return &Scraper{
		fetcher:        fetcher,
		cache:          cc,
		defaultTimeout: cfg.DefaultTimeout,
		maxTimeout:     cfg.MaxTimeout,
	}
}

// Engines lists the fetch engines available to DoScrape.
func (s *Scraper) Engines() []string {
	return s.fetcher.EngineNames()
}

// DoScrape fetches req.URL and extracts its recipe. Fetch failures are
// returned as *models.ScrapeError and the pipeline is not run.
//
// Flow:
//  1. Cache lookup (only when MaxAge > 0).
//  2. Fetch through the dispatcher.
//  3. Extract the recipe, and the recipe text if asked.
//  4. Cache store.
func (s *Scraper) DoScrape(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapeResponse, error) {
	totalStart := time.Now()
	req.Defaults()

	// ── 1. Cache lookup ─────────────────────────────────────────────
	cacheKey := cache.Key(req.URL, req.IncludeText)
	if s.cache != nil && req.MaxAge > 0 {
		if cached, hit := s.cache.Get(ctx, cacheKey, req.MaxAge); hit {
			resp := *cached
			resp.CacheStatus = "hit"
			resp.Timing = models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()}
			return &resp, nil
		}
	}

	// ── 2. Fetch ────────────────────────────────────────────────────
	fetchStart := time.Now()
	result, err := s.fetcher.Dispatch(ctx, &engine.FetchRequest{
		URL:     req.URL,
		Headers: req.Headers,
		Timeout: s.timeout(req.Timeout),
		Stealth: req.Stealth,
		Mode:    req.FetchMode,
	})
	fetchMs := time.Since(fetchStart).Milliseconds()
	if err != nil {
		var se *models.ScrapeError
		if !errors.As(err, &se) {
			se = models.NewScrapeError(models.ErrCodeFetch, err.Error(), err)
		}
		slog.Info("scrape failed", "url", req.URL, "code", se.Code, "error", se)
		return nil, se
	}

	// ── 3. Extract ──────────────────────────────────────────────────
	extractStart := time.Now()
	resp := s.extract(result.HTML, result.FinalURL, req.IncludeText)
	resp.StatusCode = result.StatusCode
	resp.FinalURL = result.FinalURL
	resp.EngineUsed = result.EngineName
	resp.Timing = models.TimingInfo{
		TotalMs:   time.Since(totalStart).Milliseconds(),
		FetchMs:   fetchMs,
		ExtractMs: time.Since(extractStart).Milliseconds(),
	}

	// ── 4. Cache store ──────────────────────────────────────────────
	if s.cache != nil && req.MaxAge > 0 {
		resp.CacheStatus = "miss"
		s.cache.Set(ctx, cacheKey, resp)
	}
	return resp, nil
}

// Extract runs the pipeline over HTML the caller already has.
func (s *Scraper) Extract(req *models.ExtractRequest) *models.ScrapeResponse {
	start := time.Now()
	resp := s.extract(req.HTML, req.URL, req.IncludeText)
	elapsed := time.Since(start).Milliseconds()
	resp.Timing = models.TimingInfo{TotalMs: elapsed, ExtractMs: elapsed}
	return resp
}

func (s *Scraper) extract(rawHTML, sourceURL string, includeText bool) *models.ScrapeResponse {
	resp := &models.ScrapeResponse{
		Success: true,
		Recipe:  recipe.Extract(rawHTML),
	}
	if includeText {
		text, err := cleaner.RecipeText(rawHTML, sourceURL)
		if err != nil {
			// The recipe record is still valid without the text.
			slog.Warn("recipe text extraction failed", "url", sourceURL, "error", err)
		}
		resp.Text = text
	}
	return resp
}

// timeout converts a request timeout in seconds to a duration, applying
// the configured default and ceiling.
func (s *Scraper) timeout(seconds int) time.Duration {
	d := time.Duration(seconds) * time.Second
	if d <= 0 {
		d = s.defaultTimeout
	}
	if s.maxTimeout > 0 && d > s.maxTimeout {
		d = s.maxTimeout
	}
	return d
}
