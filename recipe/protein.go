package recipe

import (
	"strings"

	"github.com/use-agent/menumaker/models"
)

// Term lists are matched as substrings of the lowercased ingredient text.
var (
	plantProteinTerms = []string{"tofu", "tempeh", "seitan"}

	animalProteinTerms = []string{
		"chicken", "beef", "pork", "turkey", "sausage", "bacon", "ham", "salmon", "tuna",
		"shrimp", "scallop", "crab", "fish", "egg", "lamb",
	}

	legumeTerms = []string{"lentil", "bean", "beans", "chickpea"}
)

// ClassifyProtein picks the dominant protein category of a recipe from its
// final ingredient list. Categories are tested in priority order, so a
// recipe containing both tempeh and chicken is classified as tofu.
func ClassifyProtein(ingredients []string) models.Protein {
	if len(ingredients) == 0 {
		return models.ProteinUnknown
	}
	text := strings.ToLower(strings.Join(ingredients, " "))

	switch {
	case containsAny(text, plantProteinTerms):
		return models.ProteinTofu
	case containsAny(text, animalProteinTerms):
		return models.ProteinMeat
	case containsAny(text, legumeTerms):
		// Legumes are vegetarian, same as the default.
		return models.ProteinVegetarian
	}
	return models.ProteinVegetarian
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
