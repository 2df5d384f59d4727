package shopping

import "time"

// IngredientRow is one ingredient as stored on a recipe: a free-text name, the
// original display string if we have it, and optional structured quantity and
// unit. Raw, Qty, and Unit are nullable in the source data.
type IngredientRow struct {
	Name string   `json:"name"`
	Raw  *string  `json:"raw"`
	Qty  *float64 `json:"qty"`
	Unit *string  `json:"unit"`
}

// ShoppingItem is one display-ready line of a consolidated shopping list.
type ShoppingItem struct {
	Ingredient string `json:"ingredient"`
	Amount     string `json:"amount"`
	Category   string `json:"category"`
}

// ShoppingList is a user's persisted shopping list, generated from a meal
// plan. Items keep their first-seen consolidation order and are edited by
// position.
type ShoppingList struct {
	ID         string         `json:"id" db:"id"`
	UserID     int64          `json:"user_id" db:"user_id"`
	MealPlanID *int64         `json:"meal_plan_id,omitempty" db:"meal_plan_id"`
	Items      []ShoppingItem `json:"items"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}
