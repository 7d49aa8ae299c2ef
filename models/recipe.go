package models

// Protein is the dominant protein category detected from a recipe's ingredients.
type Protein string

const (
	ProteinTofu       Protein = "tofu"
	ProteinMeat       Protein = "meat"
	ProteinVegetarian Protein = "vegetarian"
	ProteinUnknown    Protein = "unknown"
)

// ScrapeResult is the normalized recipe record produced by the extraction
// pipeline. Every string has been whitespace-normalized, and Ingredients and
// Tags contain no empty entries and no case-insensitive duplicates.
type ScrapeResult struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Tags        []string `json:"tags"`
	MainProtein Protein  `json:"main_protein"`
}

// RawFields is the pre-merge output of the DOM heuristic extractor.
// Order matters; duplicates and repeated values are allowed at this stage.
type RawFields struct {
	Title       string
	Ingredients []string

	// MetaTags come from article:tag / keywords meta elements.
	MetaTags []string

	// LinkTags come from tag-link anchors.
	LinkTags []string
}

// Tags returns meta tags followed by anchor tags.
func (r RawFields) Tags() []string {
	out := make([]string, 0, len(r.MetaTags)+len(r.LinkTags))
	out = append(out, r.MetaTags...)
	return append(out, r.LinkTags...)
}

// StructuredRecipe is the subset of a schema.org Recipe node read from
// embedded JSON-LD. It only lives for the duration of one extraction.
type StructuredRecipe struct {
	Ingredients []string
	Keywords    string
	Categories  []string
}
