package cleaner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Recipe signal weights.
const (
	wRecipeProp    = 4.0
	wIngredientRow = 1.5
	wQuantityLine  = 1.0
	wRecipeClass   = 3.0
	wBoilerplate   = -4.0
	wLinkHeavy     = -6.0
)

// ingredientRowMaxLen bounds the text of a list item that still reads like
// an ingredient line rather than a paragraph.
const ingredientRowMaxLen = 120

var recipeClassIDPatterns = []string{
	"recipe", "ingredient", "instruction", "direction", "method", "wprm", "tasty",
}

// "menu" is absent: meal-planning sites use it for content.
var boilerplateClassIDPatterns = []string{
	"sidebar", "ads", "advert", "widget", "nav", "comment", "footer",
	"banner", "popup", "modal", "cookie", "social", "share", "newsletter",
	"related", "recommend", "promo", "subscribe",
}

var fractionRunes = "½⅓⅔¼¾⅛⅜⅝⅞"

// pruneContent returns the top-level <body> block that looks most like a
// recipe: schema.org recipe properties, short list items, lines that open
// with a quantity, and recipe class names count for it; link-heavy blocks
// and boilerplate containers count against it. Prose alone scores zero, so
// a long story block never beats a short ingredient list. When no block
// scores above zero the whole body is returned.
func pruneContent(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML, err
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return rawHTML, nil
	}

	var best *goquery.Selection
	bestScore := 0.0
	body.Children().Each(func(_ int, el *goquery.Selection) {
		if score := recipeScore(el); score > bestScore {
			best, bestScore = el, score
		}
	})

	if best == nil {
		html, err := body.Html()
		if err != nil {
			return rawHTML, nil
		}
		return html, nil
	}
	html, err := goquery.OuterHtml(best)
	if err != nil {
		return rawHTML, nil
	}
	return html, nil
}

func recipeScore(el *goquery.Selection) float64 {
	score := 0.0

	props := el.Find("[itemprop='recipeIngredient'], [itemprop='recipeInstructions'], [itemprop='ingredients']").Length()
	score += float64(props) * wRecipeProp

	el.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := strings.TrimSpace(li.Text())
		if text == "" || len(text) > ingredientRowMaxLen {
			return
		}
		if linkShare(li) > 0.5 {
			return
		}
		score += wIngredientRow
		if startsWithQuantity(text) {
			score += wQuantityLine
		}
	})

	el.Find("p").Each(func(_ int, p *goquery.Selection) {
		if startsWithQuantity(strings.TrimSpace(p.Text())) {
			score += wQuantityLine
		}
	})

	score += classIDSignal(el)

	switch goquery.NodeName(el) {
	case "nav", "footer", "aside", "header":
		score += wBoilerplate
	}

	if linkShare(el) > 0.5 {
		score += wLinkHeavy
	}
	return score
}

// linkShare is the fraction of el's text that sits inside anchors.
func linkShare(el *goquery.Selection) float64 {
	total := len(strings.TrimSpace(el.Text()))
	if total == 0 {
		return 0
	}
	linked := 0
	el.Find("a").Each(func(_ int, a *goquery.Selection) {
		linked += len(strings.TrimSpace(a.Text()))
	})
	return float64(linked) / float64(total)
}

// startsWithQuantity reports whether text opens like "2 cups" or "½ lime".
func startsWithQuantity(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsDigit(r) || strings.ContainsRune(fractionRunes, r)
}

func classIDSignal(el *goquery.Selection) float64 {
	class, _ := el.Attr("class")
	id, _ := el.Attr("id")
	combined := strings.ToLower(class + " " + id)

	score := 0.0
	if containsAnyPattern(combined, recipeClassIDPatterns) {
		score += wRecipeClass
	}
	if containsAnyPattern(combined, boilerplateClassIDPatterns) {
		score += wBoilerplate
	}
	return score
}

func containsAnyPattern(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
