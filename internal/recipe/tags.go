package recipe

import "strings"

// tagRule pairs a display label with the tag keywords that select it. Rules
// are evaluated in order and the first match wins, so the order of each list
// is a fixed priority, not a best-match.
type tagRule struct {
	Label    string
	Keywords []string
}

var cuisineRules = []tagRule{
	{"italian", []string{"italian", "pasta", "pizza", "risotto"}},
	{"mexican", []string{"mexican", "taco", "salsa", "enchilada"}},
	{"asian", []string{"asian", "chinese", "thai", "japanese", "korean", "stir-fry"}},
	{"indian", []string{"indian", "curry", "masala", "tandoori"}},
	{"mediterranean", []string{"mediterranean", "greek", "hummus", "falafel"}},
	{"american", []string{"american", "bbq", "burger", "southern"}},
}

var difficultyRules = []tagRule{
	{"hard", []string{"hard", "advanced", "gourmet", "project"}},
	{"medium", []string{"medium", "intermediate", "braise", "roast"}},
}

// dietaryLabels is checked in full; dietary inference collects every matching
// label rather than stopping at the first.
var dietaryLabels = []tagRule{
	{"vegetarian", []string{"vegetarian", "veggie", "meatless"}},
	{"vegan", []string{"vegan", "plant-based"}},
	{"gluten-free", []string{"gluten-free", "gluten free", "celiac"}},
	{"dairy-free", []string{"dairy-free", "dairy free"}},
	{"keto", []string{"keto", "low-carb"}},
	{"paleo", []string{"paleo", "whole30"}},
}

// InferCuisine derives a cuisine label from free-text tags. Unknown tags yield
// the empty string.
func InferCuisine(tags []string) string {
	return firstMatch(tags, cuisineRules, "")
}

// InferDifficulty derives a difficulty label from free-text tags, defaulting
// to "easy".
func InferDifficulty(tags []string) string {
	return firstMatch(tags, difficultyRules, "easy")
}

// InferDietary collects every dietary label whose keywords appear in the tags.
func InferDietary(tags []string) []string {
	labels := make([]string, 0)
	for _, rule := range dietaryLabels {
		if anyTagMatches(tags, rule.Keywords) {
			labels = append(labels, rule.Label)
		}
	}
	return labels
}

func firstMatch(tags []string, rules []tagRule, fallback string) string {
	for _, rule := range rules {
		if anyTagMatches(tags, rule.Keywords) {
			return rule.Label
		}
	}
	return fallback
}

func anyTagMatches(tags []string, keywords []string) bool {
	for _, tag := range tags {
		lower := strings.ToLower(strings.TrimSpace(tag))
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
