package recipe

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/menumaker/models"
)

// ExtractDOM applies the markup heuristics to doc and returns the raw,
// not yet deduplicated, title, ingredients and tags.
//
// Title: og:title content, then <title> text; first non-empty wins.
// Ingredients: recipeIngredient microdata, or, when that yields nothing,
// the plugin list conventions in ingredientListSel.
// Tags: the union of article:tag/keywords meta values and tag-link anchors.
func ExtractDOM(doc *goquery.Document) models.RawFields {
	fields := models.RawFields{
		Title:       extractTitle(doc),
		Ingredients: collectText(doc.FindMatcher(itempropIngredientSel)),
	}
	if len(fields.Ingredients) == 0 {
		fields.Ingredients = collectText(doc.FindMatcher(ingredientListSel))
	}

	doc.FindMatcher(tagMetaSel).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok {
			fields.MetaTags = append(fields.MetaTags, splitList(content)...)
		}
	})
	fields.LinkTags = collectText(doc.FindMatcher(tagLinkSel))

	return fields
}

func extractTitle(doc *goquery.Document) string {
	if og := doc.FindMatcher(ogTitleSel).First(); og.Length() > 0 {
		if title := Normalize(og.AttrOr("content", "")); title != "" {
			return title
		}
	}
	if t := doc.FindMatcher(titleSel).First(); t.Length() > 0 {
		return Normalize(nodeText(t.Get(0)))
	}
	return ""
}
