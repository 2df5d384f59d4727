package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbunalski/peppers-pantry/internal/recipe"
)

func TestCreateRecipe(t *testing.T) {
	env := newTestEnv()

	body := `{
		"title": "Margherita Pizza",
		"description": "Weeknight pizza from scratch",
		"tags": ["italian", "vegetarian"],
		"ingredients": [
			{"name": "flour", "raw": "2 cups flour"},
			{"name": "mozzarella", "raw": "8 oz mozzarella"}
		],
		"instructions": ["Make dough", "Top and bake"]
	}`
	rr := env.do(http.MethodPost, "/recipes", env.tokenFor(7), body)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var created recipe.Recipe
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(7), created.AuthorID)
	// Display fields are derived from tags at creation time.
	assert.Equal(t, "italian", created.Cuisine)
	assert.Equal(t, []string{"vegetarian"}, created.Dietary)
}

func TestCreateRecipe_RequiresAuth(t *testing.T) {
	env := newTestEnv()

	rr := env.do(http.MethodPost, "/recipes", "", `{"title":"X","ingredients":[{"name":"y"}]}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateRecipe_RequiresTitleAndIngredients(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(1)

	rr := env.do(http.MethodPost, "/recipes", token, `{"ingredients":[{"name":"y"}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPost, "/recipes", token, `{"title":"X"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetRecipe(t *testing.T) {
	env := newTestEnv()

	soup := seedRecipe(env, "Onion Soup", ing("onion", "1 cup onion"))

	rr := env.do(http.MethodGet, fmt.Sprintf("/recipes/%d", soup), "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var got recipe.Recipe
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Onion Soup", got.Title)

	rr = env.do(http.MethodGet, "/recipes/999", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(http.MethodGet, "/recipes/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListRecipes_Filters(t *testing.T) {
	env := newTestEnv()

	pizza := &recipe.Recipe{AuthorID: 1, Title: "Margherita Pizza", Tags: []string{"italian"}}
	tacos := &recipe.Recipe{AuthorID: 2, Title: "Street Tacos", Tags: []string{"mexican"}}
	for _, r := range []*recipe.Recipe{pizza, tacos} {
		r.DeriveDisplayFields()
		env.recipes.nextID++
		r.ID = env.recipes.nextID
		env.recipes.recipes[r.ID] = r
	}

	rr := env.do(http.MethodGet, "/recipes?cuisine=italian", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var got []recipe.Recipe
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Margherita Pizza", got[0].Title)

	rr = env.do(http.MethodGet, "/recipes?q=taco", "", "")
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Street Tacos", got[0].Title)
}

func TestListUserRecipes(t *testing.T) {
	env := newTestEnv()

	seedRecipe(env, "Mine", ing("onion", "1 cup onion"))
	other := &recipe.Recipe{AuthorID: 2, Title: "Theirs"}
	env.recipes.nextID++
	other.ID = env.recipes.nextID
	env.recipes.recipes[other.ID] = other

	rr := env.do(http.MethodGet, "/users/1/recipes", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var got []recipe.Recipe
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Mine", got[0].Title)
}
