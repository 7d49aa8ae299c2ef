package recipe

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"github.com/use-agent/menumaker/models"
)

func TestExtract_EndToEnd(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="  Spicy  Tofu  Stir-Fry ">
<meta name="keywords" content="vegan, spicy, stir-fry">
</head><body>
<ul><li itemprop="recipeIngredient">Tofu, cubed</li></ul>
</body></html>`

	got := Extract(page)
	want := &models.ScrapeResult{
		Title:       "Spicy Tofu Stir-Fry",
		Ingredients: []string{"Tofu, cubed"},
		Tags:        []string{"vegan", "spicy", "stir-fry"},
		MainProtein: models.ProteinTofu,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %+v, want %+v", got, want)
	}
}

func TestMerge_DOMCasingWins(t *testing.T) {
	dom := models.RawFields{Ingredients: []string{"Egg"}}
	got := Merge(dom, []string{"egg", "Flour"}, nil)
	if want := []string{"Egg", "Flour"}; !reflect.DeepEqual(got.Ingredients, want) {
		t.Errorf("ingredients = %q, want %q", got.Ingredients, want)
	}
	if got.MainProtein != models.ProteinMeat {
		t.Errorf("main protein = %q, want meat", got.MainProtein)
	}
}

func TestMerge_StructuredFallback(t *testing.T) {
	got := Merge(models.RawFields{Title: "T"}, []string{"lentils", "rice"}, nil)
	if want := []string{"lentils", "rice"}; !reflect.DeepEqual(got.Ingredients, want) {
		t.Errorf("ingredients = %q, want %q", got.Ingredients, want)
	}
}

func TestMerge_TagOrder(t *testing.T) {
	dom := models.RawFields{
		MetaTags: []string{"meta", "shared"},
		LinkTags: []string{"link", "SHARED"},
	}
	got := Merge(dom, nil, []string{"ld", "Meta"})
	if want := []string{"meta", "shared", "link", "ld"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("tags = %q, want %q", got.Tags, want)
	}
}

func TestExtract_DOMAndStructuredCombined(t *testing.T) {
	page := `<html><head><title>Omelette | Site</title>
<script type="application/ld+json">{"@type":"Recipe","recipeIngredient":["egg","Flour"],"keywords":"breakfast"}</script>
</head><body>
<ul class="ingredients"><li>Egg</li></ul>
<a rel="tag">Quick</a>
</body></html>`

	got := Extract(page)
	if got.Title != "Omelette | Site" {
		t.Errorf("title = %q", got.Title)
	}
	if want := []string{"Egg", "Flour"}; !reflect.DeepEqual(got.Ingredients, want) {
		t.Errorf("ingredients = %q, want %q", got.Ingredients, want)
	}
	if want := []string{"Quick", "breakfast"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("tags = %q, want %q", got.Tags, want)
	}
}

func TestExtract_EmptyPage(t *testing.T) {
	got := Extract("")
	if got.Title != "" || len(got.Ingredients) != 0 || len(got.Tags) != 0 {
		t.Errorf("want empty result, got %+v", got)
	}
	if got.MainProtein != models.ProteinUnknown {
		t.Errorf("main protein = %q, want unknown", got.MainProtein)
	}

	// Empty lists serialize as [] rather than null.
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"title":"","ingredients":[],"tags":[],"main_protein":"unknown"}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}

func TestExtract_Concurrent(t *testing.T) {
	page := `<li class="ingredient">Chicken thighs</li><meta name="keywords" content="dinner">`
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := Extract(page)
			if got.MainProtein != models.ProteinMeat || len(got.Tags) != 1 {
				t.Errorf("unexpected result: %+v", got)
			}
		}()
	}
	wg.Wait()
}
