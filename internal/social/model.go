package social

import "time"

// Reaction kinds accepted by the API.
var ValidReactionKinds = map[string]bool{
	"like": true,
	"love": true,
	"yum":  true,
}

// Reaction is one user's reaction to a recipe; at most one per (user, recipe).
type Reaction struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	RecipeID  int64     `json:"recipe_id" db:"recipe_id"`
	Kind      string    `json:"kind" db:"kind"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Comment is a user's comment on a recipe.
type Comment struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	RecipeID   int64     `json:"recipe_id" db:"recipe_id"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FeedEvent is one entry in a user's activity feed: something a followed user
// did recently.
type FeedEvent struct {
	Kind        string    `json:"kind" db:"kind"` // "recipe", "comment", or "reaction"
	ActorID     int64     `json:"actor_id" db:"actor_id"`
	ActorName   string    `json:"actor_name" db:"actor_name"`
	RecipeID    int64     `json:"recipe_id" db:"recipe_id"`
	RecipeTitle string    `json:"recipe_title" db:"recipe_title"`
	Detail      string    `json:"detail" db:"detail"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
