// Package cleaner turns a recipe page into readable Markdown: the recipe
// card when the page has one, otherwise the readability main content.
package cleaner

import (
	"fmt"
	nurl "net/url"
	"strings"

	"golang.org/x/net/html"
)

// RecipeText returns the recipe body of rawHTML as Markdown. sourceURL is
// used to resolve relative links and may be empty.
func RecipeText(rawHTML, sourceURL string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("cleaner: parse html: %w", err)
	}

	content, err := recipeCard(doc)
	if err != nil {
		return "", fmt.Errorf("cleaner: render recipe card: %w", err)
	}
	if content == "" {
		var ok bool
		if content, ok = extractMain(rawHTML, sourceURL); !ok {
			if content, err = pruneContent(rawHTML); err != nil {
				return "", fmt.Errorf("cleaner: prune: %w", err)
			}
		}
	}

	md, err := toMarkdown(stripNoise(content), domainOf(sourceURL))
	if err != nil {
		return "", fmt.Errorf("cleaner: convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func domainOf(sourceURL string) string {
	u, err := nurl.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
