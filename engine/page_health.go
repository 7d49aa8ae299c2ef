package engine

import (
	"strings"

	"github.com/use-agent/menumaker/models"
)

// Markers of bot-protection interstitials. A plain HTTP fetch that lands on
// one of these got a challenge page, not the recipe.
var challengeMarkers = []string{
	"cf-browser-verification",
	"challenges.cloudflare.com",
	"<title>just a moment...</title>",
	"attention required! | cloudflare",
	"_incapsula_resource",
	"px-captcha",
}

// checkPageHealth reports whether html looks like a usable page. An unhealthy
// result from one engine counts as that engine's failure during the race, so
// a heavier engine still gets its turn.
func checkPageHealth(html string) error {
	head := html
	if len(head) > 16<<10 {
		head = head[:16<<10]
	}
	head = strings.ToLower(head)
	for _, m := range challengeMarkers {
		if strings.Contains(head, m) {
			return models.NewScrapeError(models.ErrCodeFetch, "bot challenge page: "+m, nil)
		}
	}
	return nil
}
