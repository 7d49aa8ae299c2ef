package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed from the content before conversion: page
// chrome inside recipe cards (print and jump buttons, ratings, forms)
// plus anything that never renders as text.
var noiseSelectors = []string{
	"script", "style", "noscript", "iframe", "svg", "form", "button",
	".wprm-recipe-print", ".wprm-recipe-jump", ".wprm-recipe-rating",
	".tasty-recipes-buttons", ".recipe-rating", ".social-share",
}

// stripNoise removes noiseSelectors from an HTML fragment. On parse
// failure the input is returned unchanged.
func stripNoise(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	for _, selector := range noiseSelectors {
		doc.Find(selector).Remove()
	}
	result, err := doc.Find("body").Html()
	if err != nil {
		return fragment
	}
	return result
}
