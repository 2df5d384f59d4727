package mealplan

import "time"

// Entry assigns one recipe to a day of the week. Entry order in the plan
// determines first-seen priority during shopping list consolidation.
type Entry struct {
	RecipeID int64  `json:"recipe_id" binding:"required"`
	Day      string `json:"day"`
}

// MealPlan is a user's current weekly plan. Each user keeps at most one.
type MealPlan struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RecipeIDs returns the plan's recipe ids in entry order.
func (p *MealPlan) RecipeIDs() []int64 {
	ids := make([]int64, 0, len(p.Entries))
	for _, e := range p.Entries {
		ids = append(ids, e.RecipeID)
	}
	return ids
}
