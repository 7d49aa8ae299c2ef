package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/menumaker/models"
)

func main() {
	apiURL := os.Getenv("MENUMAKER_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	api := &apiClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		apiKey:  os.Getenv("MENUMAKER_API_KEY"),
		client:  &http.Client{Timeout: 600 * time.Second},
	}

	s := server.NewMCPServer(
		"menumaker",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("scrape_recipe",
		mcp.WithDescription("Fetch a recipe page and return its title, ingredients, tags and main protein (tofu, meat, vegetarian or unknown)."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the recipe page"),
		),
		mcp.WithString("fetch_mode",
			mcp.Description("'auto' (default), 'http' (plain HTTP only) or 'browser' (headless Chrome, if enabled on the server)"),
			mcp.Enum("auto", "http", "browser"),
		),
		mcp.WithBoolean("include_text",
			mcp.Description("Also return the recipe body as Markdown"),
		),
	), handleScrapeRecipe(api))

	s.AddTool(mcp.NewTool("extract_recipe",
		mcp.WithDescription("Extract a recipe record from HTML you already have, without fetching anything."),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("Raw HTML of the recipe page"),
		),
	), handleExtractRecipe(api))

	s.AddTool(mcp.NewTool("batch_scrape_recipes",
		mcp.WithDescription("Scrape several recipe pages in parallel and return one record per URL."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of recipe page URLs"),
		),
	), handleBatchScrape(api))

	s.AddTool(mcp.NewTool("load_data",
		mcp.WithDescription("Return the saved menus and menu items as JSON."),
	), handleLoadData(api))

	s.AddTool(mcp.NewTool("save_data",
		mcp.WithDescription("Replace the saved menus and menu items."),
		mcp.WithString("menus",
			mcp.Required(),
			mcp.Description("JSON document of menus"),
		),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description("JSON document of menu items"),
		),
	), handleSaveData(api))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiClient calls the menumaker HTTP API.
type apiClient struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	pollInterval time.Duration // default 2s
}

// do sends payload (if any) as JSON and decodes the response into out.
func (a *apiClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("X-API-Key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response (HTTP %d): %w", resp.StatusCode, err)
	}
	return nil
}

// pollBatch polls a batch job until it leaves the "processing" state. An
// error envelope (the job expired or never existed) ends polling with an
// error.
func (a *apiClient) pollBatch(ctx context.Context, id string) (*models.BatchStatusResponse, error) {
	interval := a.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			var status models.BatchStatusResponse
			if err := a.do(ctx, http.MethodGet, "/api/v1/batch/"+id, nil, &status); err != nil {
				return nil, err
			}
			if status.Error != nil {
				return nil, fmt.Errorf("batch %s: %s", id, errorText(status.Error, "unknown error"))
			}
			if status.Status == "" {
				return nil, fmt.Errorf("batch %s: response carried no status", id)
			}
			if status.Status != "processing" {
				return &status, nil
			}
		}
	}
}

func errorText(e *models.ErrorDetail, fallback string) string {
	if e == nil {
		return fallback
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// formatRecipe renders a recipe record as plain text for the model.
func formatRecipe(r *models.ScrapeResult) string {
	if r == nil {
		return "(no recipe)"
	}
	var sb strings.Builder
	title := r.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&sb, "Title: %s\nMain protein: %s\n", title, r.MainProtein)
	if len(r.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	sb.WriteString("Ingredients:\n")
	if len(r.Ingredients) == 0 {
		sb.WriteString("  (none found)\n")
	}
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&sb, "  - %s\n", ing)
	}
	return sb.String()
}

func handleScrapeRecipe(api *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		payload := models.ScrapeRequest{
			URL:         url,
			FetchMode:   request.GetString("fetch_mode", ""),
			IncludeText: request.GetBool("include_text", false),
		}

		var resp models.ScrapeResponse
		if err := api.do(ctx, http.MethodPost, "/api/v1/scrape", payload, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText(resp.Error, "scrape failed")), nil
		}

		result := formatRecipe(resp.Recipe)
		if resp.Text != "" {
			result += "\n---\n" + resp.Text
		}
		return mcp.NewToolResultText(result), nil
	}
}

func handleExtractRecipe(api *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		html, err := request.RequireString("html")
		if err != nil {
			return mcp.NewToolResultError("html is required"), nil
		}

		var resp models.ScrapeResponse
		if err := api.do(ctx, http.MethodPost, "/api/v1/extract", models.ExtractRequest{HTML: html}, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText(resp.Error, "extract failed")), nil
		}
		return mcp.NewToolResultText(formatRecipe(resp.Recipe)), nil
	}
}

func handleBatchScrape(api *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		var created models.BatchResponse
		if err := api.do(ctx, http.MethodPost, "/api/v1/batch/scrape", models.BatchRequest{URLs: urls}, &created); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if created.ID == "" {
			return mcp.NewToolResultError("batch job creation failed"), nil
		}

		status, err := api.pollBatch(ctx, created.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling batch job failed: %v", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Batch %s: %s (%d/%d done, %d failed)\n\n", status.ID, status.Status, status.Completed, status.Total, status.Failed)
		for i, r := range status.Results {
			target := ""
			if i < len(urls) {
				target = urls[i]
			}
			switch {
			case r == nil:
				fmt.Fprintf(&sb, "--- [%d] %s: no result ---\n\n", i+1, target)
			case r.Success:
				fmt.Fprintf(&sb, "--- [%d] %s ---\n%s\n", i+1, target, formatRecipe(r.Recipe))
			default:
				fmt.Fprintf(&sb, "--- [%d] %s FAILED: %s ---\n\n", i+1, target, errorText(r.Error, "unknown error"))
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleLoadData(api *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var resp models.DataResponse
		if err := api.do(ctx, http.MethodGet, "/api/v1/data", nil, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText(resp.Error, "load failed")), nil
		}
		if !resp.Found {
			return mcp.NewToolResultText("No menus have been saved yet."), nil
		}
		out, err := json.MarshalIndent(resp.Data, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

func handleSaveData(api *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		menus, err := request.RequireString("menus")
		if err != nil {
			return mcp.NewToolResultError("menus is required"), nil
		}
		items, err := request.RequireString("items")
		if err != nil {
			return mcp.NewToolResultError("items is required"), nil
		}
		if !json.Valid([]byte(menus)) || !json.Valid([]byte(items)) {
			return mcp.NewToolResultError("menus and items must be valid JSON"), nil
		}

		payload := models.DataRequest{Menus: json.RawMessage(menus), Items: json.RawMessage(items)}
		var resp models.DataResponse
		if err := api.do(ctx, http.MethodPut, "/api/v1/data", payload, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText(resp.Error, "save failed")), nil
		}
		return mcp.NewToolResultText("Saved."), nil
	}
}
