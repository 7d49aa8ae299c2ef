package cleaner

import (
	"bytes"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// recipeCardSel matches the recipe card containers emitted by the common
// WordPress recipe plugins and by schema.org microdata markup.
var recipeCardSel = cascadia.MustCompile(
	".wprm-recipe-container, .tasty-recipes, .mv-create-card, .recipe-card, " +
		"[itemtype*='schema.org/Recipe']",
)

// recipeCard returns the outer HTML of the first recipe card in doc, or ""
// when the page has none.
func recipeCard(doc *html.Node) (string, error) {
	node := cascadia.Query(doc, recipeCardSel)
	if node == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}
