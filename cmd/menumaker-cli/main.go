package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/use-agent/menumaker/config"
	"github.com/use-agent/menumaker/engine"
	"github.com/use-agent/menumaker/models"
	"github.com/use-agent/menumaker/recipe"
	"github.com/use-agent/menumaker/scraper"
)

// CLI flags
var (
	file      = flag.String("file", "", "Extract from a local HTML file instead of fetching")
	format    = flag.String("format", "table", "Output format: table or json")
	fetchMode = flag.String("mode", "auto", "Fetch mode: auto, http or browser")
	verbose   = flag.Bool("v", false, "Log fetch details to stderr")
)

// row is one extracted recipe or failure, keyed by its source.
type row struct {
	Source string               `json:"source"`
	Recipe *models.ScrapeResult `json:"recipe,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: menumaker-cli [flags] URL...\n       menumaker-cli -file page.html\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *file == "" && flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var rows []row
	if *file != "" {
		rows = append(rows, extractFile(*file))
	}
	if flag.NArg() > 0 {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		stack := engine.Build(cfg.Fetch, cfg.Browser)
		sc := scraper.New(stack.Dispatcher, nil, cfg.Fetch)
		for _, u := range flag.Args() {
			rows = append(rows, scrapeURL(sc, u))
		}
		stack.Close()
	}

	var err error
	switch *format {
	case "json":
		err = writeJSON(os.Stdout, rows)
	default:
		err = writeTable(os.Stdout, rows)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, r := range rows {
		if r.Error != "" {
			os.Exit(1)
		}
	}
}

func extractFile(path string) row {
	raw, err := os.ReadFile(path)
	if err != nil {
		return row{Source: path, Error: err.Error()}
	}
	return row{Source: path, Recipe: recipe.Extract(string(raw))}
}

func scrapeURL(sc *scraper.Scraper, url string) row {
	resp, err := sc.DoScrape(context.Background(), &models.ScrapeRequest{URL: url, FetchMode: *fetchMode})
	if err != nil {
		return row{Source: url, Error: err.Error()}
	}
	return row{Source: url, Recipe: resp.Recipe}
}

func writeJSON(w io.Writer, rows []row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rows)
}

// Column caps, in terminal cells.
const (
	maxSourceWidth = 40
	maxTitleWidth  = 36
	maxListWidth   = 60
)

// writeTable prints one block per recipe: a header line with source, title
// and protein, then ingredients and tags. Widths are measured in display
// cells so CJK and emoji titles line up.
func writeTable(w io.Writer, rows []row) error {
	header := []string{"SOURCE", "TITLE", "PROTEIN"}
	cells := [][]string{header}
	for _, r := range rows {
		switch {
		case r.Error != "":
			cells = append(cells, []string{r.Source, "ERROR: " + r.Error, "-"})
		default:
			cells = append(cells, []string{r.Source, r.Recipe.Title, string(r.Recipe.MainProtein)})
		}
	}

	caps := []int{maxSourceWidth, maxTitleWidth, 0}
	widths := make([]int, len(header))
	for _, line := range cells {
		for i, c := range line {
			c = truncate(c, caps[i])
			if cw := runewidth.StringWidth(c); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var sb strings.Builder
	for li, line := range cells {
		for i, c := range line {
			c = truncate(c, caps[i])
			if i < len(line)-1 {
				c = runewidth.FillRight(c, widths[i]+2)
			}
			sb.WriteString(c)
		}
		sb.WriteString("\n")
		if li == 0 {
			continue
		}
		r := rows[li-1]
		if r.Recipe == nil {
			continue
		}
		writeList(&sb, "ingredients", r.Recipe.Ingredients)
		writeList(&sb, "tags", r.Recipe.Tags)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeList(sb *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(sb, "  %s: %s\n", label, truncate(strings.Join(values, "; "), maxListWidth))
}

// truncate shortens s to max display cells with an ellipsis. max <= 0
// means unlimited.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	return runewidth.Truncate(s, max, "…")
}
