package recipe

import (
	"encoding/json"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/menumaker/models"
)

const recipeType = "Recipe"

// ExtractStructured reads every JSON-LD block in doc and collects the
// ingredients and tags of each schema.org Recipe node it finds.
//
// A block that is not valid JSON is skipped. A block may hold a single node
// or an array of nodes; for each node the Recipe is either the node itself or
// the first Recipe member of its @graph. Contributions from all blocks are
// accumulated and deduplicated. Absence of structured data yields two empty
// slices.
func ExtractStructured(doc *goquery.Document) (ingredients, tags []string) {
	for i, n := range doc.FindMatcher(jsonLDSel).Nodes {
		var value any
		if err := json.Unmarshal([]byte(nodeText(n)), &value); err != nil {
			slog.Debug("recipe: skipping malformed JSON-LD block", "block", i, "error", err)
			continue
		}

		for _, node := range asNodes(value) {
			obj, ok := findRecipeNode(node)
			if !ok {
				continue
			}
			sr := decodeRecipe(obj)
			for _, ing := range sr.Ingredients {
				ingredients = append(ingredients, Normalize(ing))
			}
			tags = append(tags, splitList(sr.Keywords)...)
			for _, cat := range sr.Categories {
				tags = append(tags, Normalize(cat))
			}
		}
	}
	return Dedupe(ingredients), Dedupe(tags)
}

// asNodes turns a parsed JSON-LD value into the list of nodes it contains.
func asNodes(value any) []any {
	if arr, ok := value.([]any); ok {
		return arr
	}
	return []any{value}
}

// findRecipeNode returns node when it is a Recipe, otherwise the first
// Recipe inside its @graph collection.
func findRecipeNode(node any) (map[string]any, bool) {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	if isRecipe(obj) {
		return obj, true
	}
	graph, ok := obj["@graph"].([]any)
	if !ok {
		return nil, false
	}
	for _, member := range graph {
		if m, ok := member.(map[string]any); ok && isRecipe(m) {
			return m, true
		}
	}
	return nil, false
}

func isRecipe(obj map[string]any) bool {
	t, _ := obj["@type"].(string)
	return t == recipeType
}

// decodeRecipe reads the fields of interest from a Recipe node. Values of
// an unexpected JSON type are ignored.
func decodeRecipe(obj map[string]any) models.StructuredRecipe {
	keywords, _ := obj["keywords"].(string)
	return models.StructuredRecipe{
		Ingredients: stringMembers(obj["recipeIngredient"]),
		Keywords:    keywords,
		Categories:  stringMembers(obj["recipeCategory"]),
	}
}

// stringMembers returns the string members of a JSON array, or nil when v
// is not an array.
func stringMembers(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
