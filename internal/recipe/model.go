package recipe

import "time"

// Ingredient is one ingredient row as stored on a recipe. Raw keeps the
// original display string from the source data when available; Qty and Unit
// are the structured fallback. All three are nullable.
type Ingredient struct {
	Name string   `json:"name"`
	Raw  *string  `json:"raw"`
	Qty  *float64 `json:"qty"`
	Unit *string  `json:"unit"`
}

// Recipe represents a recipe in the catalog. Cuisine, Difficulty, and Dietary
// are display fields inferred from the free-text tags at write time.
type Recipe struct {
	ID           int64        `json:"id" db:"id"`
	AuthorID     int64        `json:"author_id" db:"author_id"`
	Title        string       `json:"title" db:"title"`
	Description  string       `json:"description" db:"description"`
	Tags         []string     `json:"tags"`
	Cuisine      string       `json:"cuisine" db:"cuisine"`
	Difficulty   string       `json:"difficulty" db:"difficulty"`
	Dietary      []string     `json:"dietary"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	ImagePath    string       `json:"image_path" db:"image_path"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// DeriveDisplayFields populates the inferred display fields from the tags.
func (r *Recipe) DeriveDisplayFields() {
	r.Cuisine = InferCuisine(r.Tags)
	r.Difficulty = InferDifficulty(r.Tags)
	r.Dietary = InferDietary(r.Tags)
}
