// Package recipe extracts a normalized recipe record from an arbitrary
// recipe web page.
package recipe

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/menumaker/models"
)

// Extract parses rawHTML and runs the full pipeline:
//
//  1. DOM heuristics  → title, ingredients, meta tags, anchor tags
//  2. JSON-LD         → ingredients, tags
//  3. Merge           → DOM first, structured data appended
//  4. Normalize + dedupe
//  5. Protein classification
//
// Extract never fails. A page with nothing recognizable yields an empty
// result with MainProtein set to unknown. It holds no shared state and is
// safe for concurrent use.
func Extract(rawHTML string) *models.ScrapeResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		slog.Debug("recipe: html parse failed, returning empty result", "error", err)
		return Merge(models.RawFields{}, nil, nil)
	}
	return ExtractDocument(doc)
}

// ExtractDocument runs the pipeline over an already parsed document.
func ExtractDocument(doc *goquery.Document) *models.ScrapeResult {
	dom := ExtractDOM(doc)
	ldIngredients, ldTags := ExtractStructured(doc)
	return Merge(dom, ldIngredients, ldTags)
}

// Merge combines the DOM and structured-data outputs.
//
// Ingredients: when the DOM produced none, the structured-data list is used
// as is; otherwise the structured-data list is appended after the DOM list
// so that, after deduplication, the DOM spelling of a shared entry wins.
// Tags: DOM meta tags, then DOM anchor tags, then structured-data tags.
// Title comes from the DOM only.
func Merge(dom models.RawFields, ldIngredients, ldTags []string) *models.ScrapeResult {
	var ingredients []string
	if len(dom.Ingredients) == 0 {
		ingredients = ldIngredients
	} else {
		ingredients = append(append(ingredients, dom.Ingredients...), ldIngredients...)
	}
	tags := append(dom.Tags(), ldTags...)

	ingredients = Dedupe(normalizeAll(ingredients))
	return &models.ScrapeResult{
		Title:       Normalize(dom.Title),
		Ingredients: ingredients,
		Tags:        Dedupe(normalizeAll(tags)),
		MainProtein: ClassifyProtein(ingredients),
	}
}
