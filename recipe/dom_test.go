package recipe

import (
	"reflect"
	"testing"
)

func TestExtractDOM_Title(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"og title wins",
			`<head><title>Page</title><meta property="og:title" content="  Spicy  Tofu "></head>`,
			"Spicy Tofu",
		},
		{
			"empty og title falls back to title element",
			`<head><meta property="og:title" content="  "><title> Weeknight
 Chili </title></head>`,
			"Weeknight Chili",
		},
		{"title element only", `<head><title>Soup</title></head>`, "Soup"},
		{"no title", `<body><p>hi</p></body>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDOM(mustDoc(t, tt.html)).Title
			if got != tt.want {
				t.Errorf("title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDOM_ItempropIngredients(t *testing.T) {
	doc := mustDoc(t, `<ul>
<li itemprop="recipeIngredient">1 <b>cup</b>flour</li>
<li itemprop="recipeIngredient">   </li>
<li itemprop="recipeIngredient">2   eggs</li>
</ul>
<ul class="ingredients"><li>ignored because microdata exists</li></ul>`)

	got := ExtractDOM(doc).Ingredients
	want := []string{"1 cup flour", "2 eggs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ingredients = %q, want %q", got, want)
	}
}

func TestExtractDOM_IngredientFallback(t *testing.T) {
	doc := mustDoc(t, `<ul><li class="ingredient">Flour</li></ul>`)
	got := ExtractDOM(doc).Ingredients
	if want := []string{"Flour"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ingredients = %q, want %q", got, want)
	}
}

func TestExtractDOM_FallbackKeepsDocumentOrder(t *testing.T) {
	// The later patterns in the group match earlier elements; the result
	// must follow the page, not the pattern list.
	doc := mustDoc(t, `
<div class="tasty-recipes-ingredients"><ul><li>Butter</li></ul></div>
<span class="wprm-recipe-ingredient">Sugar</span>
<ul class="ingredients"><li>Milk</li><li class="ingredient-item">Milk</li></ul>`)

	got := ExtractDOM(doc).Ingredients
	want := []string{"Butter", "Sugar", "Milk", "Milk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ingredients = %q, want %q", got, want)
	}
}

func TestExtractDOM_Tags(t *testing.T) {
	doc := mustDoc(t, `<head>
<meta name="keywords" content="vegan, quick">
<meta property="article:tag" content="Dinner">
</head><body>
<a rel="tag" href="/t/asian">Asian</a>
<div class="tags"><a href="/t/spicy"> Spicy </a></div>
<div class="tag"><a href="/t/vegan">vegan</a></div>
</body>`)

	fields := ExtractDOM(doc)
	if want := []string{"vegan", "quick", "Dinner"}; !reflect.DeepEqual(fields.MetaTags, want) {
		t.Errorf("meta tags = %q, want %q", fields.MetaTags, want)
	}
	if want := []string{"Asian", "Spicy", "vegan"}; !reflect.DeepEqual(fields.LinkTags, want) {
		t.Errorf("link tags = %q, want %q", fields.LinkTags, want)
	}
}
