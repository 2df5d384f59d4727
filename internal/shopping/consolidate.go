package shopping

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

// fetchTimeout bounds a single ingredient fetch; a timed-out fetch is treated
// the same as any other fetch failure and the recipe is skipped.
const fetchTimeout = 5 * time.Second

// IngredientFetcher returns the ingredient rows for one recipe.
type IngredientFetcher func(ctx context.Context, recipeID int64) ([]IngredientRow, error)

// quantityPattern matches integers, slash fractions, and the common
// vulgar-fraction glyphs found in scraped ingredient strings.
var quantityPattern = regexp.MustCompile(`^[\d/½¼¾]+$`)

// priceAnnotation matches a parenthetical containing a dollar amount,
// e.g. "($3.50)".
var priceAnnotation = regexp.MustCompile(`\([^)]*\$[^)]*\)`)

// unitVocab is the fixed set of measurement and packaging words recognized as
// part of an amount string.
var unitVocab = map[string]bool{
	"cup": true, "cups": true,
	"tsp": true, "teaspoon": true, "teaspoons": true,
	"tbsp": true, "tablespoon": true, "tablespoons": true,
	"oz": true, "ounce": true, "ounces": true,
	"lb": true, "pound": true, "pounds": true,
	"gram": true, "grams": true,
	"kg": true, "kilogram": true,
	"liter": true, "liters": true,
	"ml": true, "milliliter": true,
	"quart": true, "quarts": true,
	"pint": true, "pints": true,
	"can": true, "cans": true,
	"jar": true, "jars": true,
	"bottle": true, "bottles": true,
	"package": true, "packages": true,
	"clove": true, "cloves": true,
	"head": true, "heads": true,
	"bunch": true, "bunches": true,
	"piece": true, "pieces": true,
	"slice": true, "slices": true,
	"strip": true, "strips": true,
	"inch": true, "inches": true,
}

// descriptorWords are standalone words stripped when building the
// normalization key: state descriptors (fresh/dried) and prep methods do not
// change what goes in the cart.
var descriptorWords = map[string]bool{
	"fresh":   true,
	"dried":   true,
	"chopped": true,
	"diced":   true,
	"minced":  true,
	"sliced":  true,
}

// categoryRule pairs a grocery section with the keywords that select it.
type categoryRule struct {
	Category string
	Keywords []string
}

// Grocery section names.
const (
	CategoryProduce = "Produce"
	CategoryMeat    = "Meat & Protein"
	CategoryDairy   = "Dairy"
	CategoryPantry  = "Pantry"
)

// categoryRules is evaluated in order; the first keyword that appears as a
// substring of the lowercased name wins. The order is part of the contract
// (a name containing both "pepper" and "cheese" is Produce, not Dairy).
var categoryRules = []categoryRule{
	{CategoryProduce, []string{"onion", "garlic", "tomato", "pepper", "lettuce", "spinach", "carrot", "celery", "potato", "broccoli", "mushroom", "herb"}},
	{CategoryMeat, []string{"chicken", "beef", "pork", "fish", "tofu", "egg", "turkey", "salmon", "shrimp"}},
	{CategoryDairy, []string{"milk", "cheese", "butter", "cream", "yogurt", "sour cream"}},
	{CategoryPantry, []string{"oil", "vinegar", "sauce", "flour", "sugar", "rice", "pasta", "bread", "cereal", "beans", "lentils", "quinoa"}},
}

// CleanName strips any leading run of non-letter characters (malformed
// punctuation or fraction glyphs leaking into the name field) and capitalizes
// the first remaining letter. An all-punctuation name yields "".
func CleanName(rawName string) string {
	runes := []rune(rawName)
	start := 0
	for start < len(runes) && !unicode.IsLetter(runes[start]) {
		start++
	}
	if start == len(runes) {
		return ""
	}
	rest := runes[start:]
	rest[0] = unicode.ToUpper(rest[0])
	return string(rest)
}

// NormalizeKey derives the deduplication key for a cleaned ingredient name:
// lowercased, with non-distinguishing descriptor words removed and whitespace
// collapsed. "Fresh chopped onion" and "dried onion" share the key "onion",
// while "red onion" stays distinct from "onion" on purpose.
func NormalizeKey(cleanedName string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(cleanedName)))
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if descriptorWords[w] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// IsQuantityOrUnit reports whether a single word looks like part of an amount:
// a number or simple fraction, or a member of the unit vocabulary.
func IsQuantityOrUnit(word string) bool {
	if quantityPattern.MatchString(word) {
		return true
	}
	return unitVocab[strings.ToLower(word)]
}

// CleanAmount derives a human-readable amount string for one ingredient row.
// When the raw display string is present it strips price annotations, cuts at
// the first comma, and keeps the leading run of quantity/unit words. The first
// word is kept unconditionally, matching the original scraper-era behavior;
// a raw string that opens with the ingredient name itself therefore yields
// that word as the amount. Falls back to "qty unit" built from the structured
// fields.
func CleanAmount(raw *string, qty *float64, unit *string) string {
	if raw != nil {
		s := priceAnnotation.ReplaceAllString(*raw, "")
		if i := strings.Index(s, ","); i >= 0 {
			s = s[:i]
		}
		words := strings.Fields(s)
		var kept []string
		for i, w := range words {
			if i > 0 && !IsQuantityOrUnit(w) {
				break
			}
			kept = append(kept, w)
		}
		if len(kept) > 0 {
			return strings.Join(kept, " ")
		}
	}

	var qtyStr, unitStr string
	if qty != nil {
		qtyStr = strconv.FormatFloat(*qty, 'f', -1, 64)
	}
	if unit != nil {
		unitStr = *unit
	}
	return strings.TrimSpace(qtyStr + " " + unitStr)
}

// Categorize assigns a cleaned ingredient name to a grocery section using the
// ordered keyword rules. Unmatched names default to Pantry.
func Categorize(cleanedName string) string {
	lower := strings.ToLower(cleanedName)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return CategoryPantry
}

// Consolidate builds a deduplicated shopping list from the meal plan's recipes.
// Recipes are processed in plan order and rows in row order; the first
// occurrence of a normalized key fixes the item's position, display name, and
// category, and later occurrences append their amount with " + ". A failed
// ingredient fetch is logged and that recipe skipped; partial results are
// expected rather than aborting the whole run.
func Consolidate(ctx context.Context, logger *zap.Logger, recipeIDs []int64, fetch IngredientFetcher) []ShoppingItem {
	seen := make(map[string]int)
	items := make([]ShoppingItem, 0)

	for _, recipeID := range recipeIDs {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		rows, err := fetch(fetchCtx, recipeID)
		cancel()
		if err != nil {
			logger.Warn("skipping recipe: failed to fetch ingredients",
				zap.Int64("recipe_id", recipeID),
				zap.Error(err),
			)
			continue
		}

		for _, row := range rows {
			name := CleanName(row.Name)
			key := NormalizeKey(name)
			amount := CleanAmount(row.Raw, row.Qty, row.Unit)

			if idx, ok := seen[key]; ok {
				items[idx].Amount += " + " + amount
				continue
			}
			seen[key] = len(items)
			items = append(items, ShoppingItem{
				Ingredient: name,
				Amount:     amount,
				Category:   Categorize(name),
			})
		}
	}

	return items
}
