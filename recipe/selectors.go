package recipe

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Every query the extractors run is compiled once here. A malformed pattern
// panics at package init instead of failing an individual extraction.
var (
	jsonLDSel = cascadia.MustCompile(`script[type='application/ld+json']`)

	ogTitleSel = cascadia.MustCompile(`meta[property='og:title']`)
	titleSel   = cascadia.MustCompile(`title`)

	itempropIngredientSel = cascadia.MustCompile(`[itemprop='recipeIngredient']`)

	// Markup conventions of common recipe plugins (WP Recipe Maker, Tasty
	// Recipes) plus generic ingredient lists. Matched as one group so the
	// result stays in document order.
	ingredientListSel = cascadia.MustCompile(
		`.ingredients li, li[class*='ingredient'], .wprm-recipe-ingredient, .tasty-recipes-ingredients li`,
	)

	tagMetaSel = cascadia.MustCompile(`meta[property='article:tag'], meta[name='keywords']`)
	tagLinkSel = cascadia.MustCompile(`a[rel='tag'], .tags a, .tag a`)
)

// nodeText returns the text of every descendant text node of n joined with
// single spaces and trimmed. Unlike goquery's Text it keeps a separator
// between adjacent inline elements ("1 <b>cup</b>flour" → "1 cup flour").
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// collectText normalizes the text of each selected element in document
// order, skipping elements with no text.
func collectText(sel *goquery.Selection) []string {
	var out []string
	for _, n := range sel.Nodes {
		if text := Normalize(nodeText(n)); text != "" {
			out = append(out, text)
		}
	}
	return out
}
