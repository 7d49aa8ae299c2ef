package recipe

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, rawHTML string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestExtractStructured_SkipsMalformedBlock(t *testing.T) {
	doc := mustDoc(t, `<html><head>
<script type="application/ld+json">{ this is not json </script>
<script type="application/ld+json">
{"@type":"Recipe","recipeIngredient":["2 cups  flour","1 egg"],"keywords":"baking, bread","recipeCategory":["Bread"]}
</script>
</head><body></body></html>`)

	ingredients, tags := ExtractStructured(doc)
	if want := []string{"2 cups flour", "1 egg"}; !reflect.DeepEqual(ingredients, want) {
		t.Errorf("ingredients = %q, want %q", ingredients, want)
	}
	if want := []string{"baking", "bread"}; !reflect.DeepEqual(tags, want) {
		// "Bread" is a case-insensitive duplicate of the "bread" keyword.
		t.Errorf("tags = %q, want %q", tags, want)
	}
}

func TestExtractStructured_GraphNode(t *testing.T) {
	doc := mustDoc(t, `<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"WebPage","name":"ignored"},
  {"@type":"Recipe","recipeIngredient":["200g tofu"],"recipeCategory":["Dinner"]},
  {"@type":"Recipe","recipeIngredient":["never read"]}
]}
</script>`)

	ingredients, tags := ExtractStructured(doc)
	if want := []string{"200g tofu"}; !reflect.DeepEqual(ingredients, want) {
		t.Errorf("ingredients = %q, want %q", ingredients, want)
	}
	if want := []string{"Dinner"}; !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %q, want %q", tags, want)
	}
}

func TestExtractStructured_ArrayAndMultipleBlocksAccumulate(t *testing.T) {
	doc := mustDoc(t, `
<script type="application/ld+json">[{"@type":"Organization"},{"@type":"Recipe","recipeIngredient":["Salt"]}]</script>
<script type="application/ld+json">{"@type":"Recipe","recipeIngredient":["salt","Pepper"],"keywords":"quick"}</script>`)

	ingredients, tags := ExtractStructured(doc)
	if want := []string{"Salt", "Pepper"}; !reflect.DeepEqual(ingredients, want) {
		t.Errorf("ingredients = %q, want %q", ingredients, want)
	}
	if want := []string{"quick"}; !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %q, want %q", tags, want)
	}
}

func TestExtractStructured_IgnoresUnexpectedTypes(t *testing.T) {
	doc := mustDoc(t, `<script type="application/ld+json">
{"@type":"Recipe","recipeIngredient":["oil", 3, null],"keywords":["not","a","string"],"recipeCategory":"Soup"}
</script>`)

	ingredients, tags := ExtractStructured(doc)
	if want := []string{"oil"}; !reflect.DeepEqual(ingredients, want) {
		t.Errorf("ingredients = %q, want %q", ingredients, want)
	}
	if len(tags) != 0 {
		t.Errorf("tags = %q, want none", tags)
	}
}

func TestExtractStructured_NoStructuredData(t *testing.T) {
	doc := mustDoc(t, `<html><body><script>var x = 1;</script></body></html>`)
	ingredients, tags := ExtractStructured(doc)
	if len(ingredients) != 0 || len(tags) != 0 {
		t.Errorf("want empty results, got %q / %q", ingredients, tags)
	}
}
