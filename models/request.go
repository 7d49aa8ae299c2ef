package models

import "encoding/json"

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the recipe page to fetch. Required.
	URL string `json:"url" binding:"required,url"`

	// Timeout is the maximum duration in seconds for the fetch.
	// Default: 30. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// FetchMode controls the fetching strategy.
	// "auto" (default): dispatcher decides (HTTP first, browser if enabled).
	// "http": force plain HTTP.
	// "browser": force headless Chrome (requires the browser engine).
	FetchMode string `json:"fetch_mode,omitempty" binding:"omitempty,oneof=auto http browser"`

	// Stealth enables anti-bot-detection evasions for the browser engine.
	Stealth bool `json:"stealth,omitempty"`

	// Headers are extra request headers sent with the fetch.
	Headers map[string]string `json:"headers,omitempty"`

	// IncludeText adds the readability-extracted recipe body as Markdown
	// to the response envelope.
	IncludeText bool `json:"include_text,omitempty"`

	// MaxAge enables the response cache. A cached response younger than
	// MaxAge milliseconds is returned without fetching. 0 disables caching.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 30
	}
	if r.FetchMode == "" {
		r.FetchMode = "auto"
	}
}

// ExtractRequest is the payload for POST /api/v1/extract. It runs the
// extraction pipeline over HTML the caller already has.
type ExtractRequest struct {
	// HTML is the raw page markup. Required.
	HTML string `json:"html" binding:"required"`

	// URL is the page's address, used only to resolve links in IncludeText output.
	URL string `json:"url,omitempty" binding:"omitempty,url"`

	IncludeText bool `json:"include_text,omitempty"`
}

// DataRequest is the payload for PUT /api/v1/data.
type DataRequest struct {
	Menus json.RawMessage `json:"menus" binding:"required"`
	Items json.RawMessage `json:"items" binding:"required"`
}
