package models

import (
	"sync"
	"time"
)

// BatchRequest is the payload for POST /api/v1/batch/scrape.
type BatchRequest struct {
	// URLs is the list of recipe pages to scrape. Required.
	URLs []string `json:"urls" binding:"required,min=1"`

	// Options contains shared scrape options applied to all URLs.
	Options BatchOptions `json:"options"`

	// WebhookURL receives a batch.completed event when the job finishes.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`

	// WebhookSecret signs the webhook body with HMAC-SHA256 when set.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// BatchOptions are the shared scrape settings applied to every URL in a batch.
type BatchOptions struct {
	Timeout     int    `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`
	FetchMode   string `json:"fetch_mode,omitempty" binding:"omitempty,oneof=auto http browser"`
	Stealth     bool   `json:"stealth,omitempty"`
	IncludeText bool   `json:"include_text,omitempty"`
}

// BatchResponse is the immediate response for POST /api/v1/batch/scrape.
type BatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// BatchStatusResponse is the response for GET /api/v1/batch/:id.
type BatchStatusResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Completed int               `json:"completed"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
	Results   []*ScrapeResponse `json:"results,omitempty"`
	Error     *ErrorDetail      `json:"error,omitempty"`
}

// BatchJob tracks an in-progress batch scrape. Workers and status readers
// share it, so all access goes through its methods.
type BatchJob struct {
	ID        string
	Total     int
	CreatedAt int64 // unix timestamp

	mu        sync.RWMutex
	status    string // "processing", "completed", "failed", "partial"
	completed int
	failed    int
	results   []*ScrapeResponse
}

// NewBatchJob creates a processing job for total URLs.
func NewBatchJob(id string, total int) *BatchJob {
	return &BatchJob{
		ID:        id,
		Total:     total,
		CreatedAt: time.Now().Unix(),
		status:    "processing",
		results:   make([]*ScrapeResponse, total),
	}
}

// SetResult records the outcome for the URL at idx.
func (j *BatchJob) SetResult(idx int, resp *ScrapeResponse) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results[idx] = resp
	j.completed++
	if !resp.Success {
		j.failed++
	}
}

// Finish derives the final status from the recorded results and returns it.
func (j *BatchJob) Finish() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch {
	case j.failed == j.Total:
		j.status = "failed"
	case j.failed > 0:
		j.status = "partial"
	default:
		j.status = "completed"
	}
	return j.status
}

// Snapshot returns the job's current state as an API response.
func (j *BatchJob) Snapshot() BatchStatusResponse {
	j.mu.RLock()
	defer j.mu.RUnlock()
	results := make([]*ScrapeResponse, len(j.results))
	copy(results, j.results)
	return BatchStatusResponse{
		ID:        j.ID,
		Status:    j.status,
		Completed: j.completed,
		Failed:    j.failed,
		Total:     j.Total,
		Results:   results,
	}
}
