package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/use-agent/menumaker/config"
	"github.com/use-agent/menumaker/models"
	"github.com/use-agent/menumaker/scraper"
	"github.com/use-agent/menumaker/webhook"
)

// batchStore holds all in-flight and completed batch jobs.
var batchStore sync.Map

func init() {
	// Expire batch jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			batchStore.Range(func(key, value any) bool {
				if value.(*models.BatchJob).CreatedAt < cutoff {
					batchStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostBatch returns a handler for POST /api/v1/batch/scrape. It creates a
// job, scrapes the URLs in the background and answers immediately with the
// job id.
func PostBatch(sc *scraper.Scraper, notifier *webhook.Notifier, cfg config.BatchConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		if cfg.MaxURLs > 0 && len(req.URLs) > cfg.MaxURLs {
			respondInvalid(c, fmt.Errorf("maximum %d URLs per batch", cfg.MaxURLs))
			return
		}

		job := models.NewBatchJob(uuid.NewString(), len(req.URLs))
		batchStore.Store(job.ID, job)

		go runBatch(sc, notifier, cfg.Concurrency, job, req)

		c.JSON(http.StatusAccepted, models.BatchResponse{
			ID:     job.ID,
			Status: "processing",
			Total:  job.Total,
		})
	}
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := batchStore.Load(c.Param("id"))
		if !ok {
			respondError(c, models.NewScrapeError(models.ErrCodeNotFound, "batch job not found", nil))
			return
		}
		c.JSON(http.StatusOK, val.(*models.BatchJob).Snapshot())
	}
}

// runBatch scrapes every URL of a job with bounded concurrency, then
// notifies the webhook if one was given.
func runBatch(sc *scraper.Scraper, notifier *webhook.Notifier, concurrency int, job *models.BatchJob, req models.BatchRequest) {
	if concurrency <= 0 {
		concurrency = 5
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, rawURL := range req.URLs {
		wg.Add(1)
		go func(idx int, targetURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			job.SetResult(idx, scrapeOne(sc, targetURL, req.Options))
		}(i, rawURL)
	}
	wg.Wait()

	status := job.Finish()
	snap := job.Snapshot()
	slog.Info("batch job finished",
		"id", job.ID,
		"status", status,
		"failed", snap.Failed,
		"total", job.Total,
	)

	if req.WebhookURL != "" && notifier != nil {
		eventType := webhook.EventBatchCompleted
		if status == "failed" {
			eventType = webhook.EventBatchFailed
		}
		notifier.DeliverAsync(req.WebhookURL, req.WebhookSecret, &webhook.Event{
			Type:      eventType,
			JobID:     job.ID,
			Timestamp: time.Now().Unix(),
			Data:      snap,
		})
	}
}

// scrapeOne scrapes a single URL with the batch's shared options. Errors
// become failed responses so one bad URL never aborts the batch.
func scrapeOne(sc *scraper.Scraper, targetURL string, opts models.BatchOptions) *models.ScrapeResponse {
	resp, err := sc.DoScrape(context.Background(), &models.ScrapeRequest{
		URL:         targetURL,
		Timeout:     opts.Timeout,
		FetchMode:   opts.FetchMode,
		Stealth:     opts.Stealth,
		IncludeText: opts.IncludeText,
	})
	if err != nil {
		var scrapeErr *models.ScrapeError
		if !errors.As(err, &scrapeErr) {
			scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
		}
		return &models.ScrapeResponse{
			Success:  false,
			FinalURL: targetURL,
			Error:    scrapeErr.ToDetail(),
		}
	}
	return resp
}
