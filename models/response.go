package models

// ScrapeResponse is the response envelope for /api/v1/scrape and /api/v1/extract.
type ScrapeResponse struct {
	// Success indicates whether the request completed without errors.
	Success bool `json:"success"`

	// Recipe is the extracted record. Nil when Success is false.
	Recipe *ScrapeResult `json:"recipe,omitempty"`

	// StatusCode is the HTTP status code of the fetched page (scrape only).
	StatusCode int `json:"status_code,omitempty"`

	// FinalURL is the URL after following all redirects (scrape only).
	FinalURL string `json:"final_url,omitempty"`

	// Text is the recipe body as Markdown, present only when include_text was set.
	Text string `json:"text,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// EngineUsed indicates which fetch engine produced the page
	// ("http", "browser", "browser-stealth").
	EngineUsed string `json:"engine_used,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// FetchMs is the time spent fetching the page.
	FetchMs int64 `json:"fetch_ms"`

	// ExtractMs is the time spent in the extraction pipeline.
	ExtractMs int64 `json:"extract_ms"`
}

// StoredData is the menu-planning dataset kept next to the recipe service.
// Both documents are opaque JSON values.
type StoredData struct {
	Menus any `json:"menus"`
	Items any `json:"items"`
}

// DataResponse is the response for GET /api/v1/data.
type DataResponse struct {
	Success bool         `json:"success"`
	Found   bool         `json:"found"`
	Data    *StoredData  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string   `json:"status"`
	Uptime  string   `json:"uptime"`
	Engines []string `json:"engines"`
	Version string   `json:"version"`
}
