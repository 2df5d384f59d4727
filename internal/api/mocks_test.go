package api

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbunalski/peppers-pantry/internal/auth"
	"github.com/mbunalski/peppers-pantry/internal/config"
	"github.com/mbunalski/peppers-pantry/internal/mealplan"
	"github.com/mbunalski/peppers-pantry/internal/platform/images"
	"github.com/mbunalski/peppers-pantry/internal/recipe"
	"github.com/mbunalski/peppers-pantry/internal/shopping"
	"github.com/mbunalski/peppers-pantry/internal/social"
	"github.com/mbunalski/peppers-pantry/internal/user"
)

// mockUserStore is an in-memory user.Store.
type mockUserStore struct {
	users  map[int64]*user.User
	nextID int64
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[int64]*user.User)}
}

func (m *mockUserStore) CreateUser(ctx context.Context, u *user.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserStore) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	return m.users[id], nil
}

// mockRecipeStore is an in-memory recipe.Store. Ids listed in ingredientErrs
// fail ingredient fetches, for partial-failure tests.
type mockRecipeStore struct {
	recipes        map[int64]*recipe.Recipe
	nextID         int64
	ingredientErrs map[int64]error
}

func newMockRecipeStore() *mockRecipeStore {
	return &mockRecipeStore{
		recipes:        make(map[int64]*recipe.Recipe),
		ingredientErrs: make(map[int64]error),
	}
}

func (m *mockRecipeStore) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	r.DeriveDisplayFields()
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	m.recipes[r.ID] = r
	return nil
}

func (m *mockRecipeStore) GetRecipeByID(ctx context.Context, id int64) (*recipe.Recipe, error) {
	return m.recipes[id], nil
}

func (m *mockRecipeStore) ListRecipes(ctx context.Context, filter recipe.ListFilter) ([]*recipe.Recipe, error) {
	matches := make([]*recipe.Recipe, 0)
	for _, r := range m.recipes {
		if filter.Cuisine != "" && r.Cuisine != filter.Cuisine {
			continue
		}
		if filter.Difficulty != "" && r.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(filter.Query)) {
			continue
		}
		matches = append(matches, r)
	}
	return matches, nil
}

func (m *mockRecipeStore) ListRecipesByAuthor(ctx context.Context, authorID int64) ([]*recipe.Recipe, error) {
	matches := make([]*recipe.Recipe, 0)
	for _, r := range m.recipes {
		if r.AuthorID == authorID {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

func (m *mockRecipeStore) GetIngredients(ctx context.Context, recipeID int64) ([]recipe.Ingredient, error) {
	if err := m.ingredientErrs[recipeID]; err != nil {
		return nil, err
	}
	r := m.recipes[recipeID]
	if r == nil {
		return nil, fmt.Errorf("recipe %d not found", recipeID)
	}
	return r.Ingredients, nil
}

func (m *mockRecipeStore) SetImagePath(ctx context.Context, id int64, path string) error {
	r := m.recipes[id]
	if r == nil {
		return fmt.Errorf("recipe %d not found", id)
	}
	r.ImagePath = path
	return nil
}

// mockMealPlanStore is an in-memory mealplan.Store.
type mockMealPlanStore struct {
	plans  map[int64]*mealplan.MealPlan
	nextID int64
}

func newMockMealPlanStore() *mockMealPlanStore {
	return &mockMealPlanStore{plans: make(map[int64]*mealplan.MealPlan)}
}

func (m *mockMealPlanStore) UpsertPlan(ctx context.Context, plan *mealplan.MealPlan) error {
	if existing := m.plans[plan.UserID]; existing != nil {
		plan.ID = existing.ID
	} else {
		m.nextID++
		plan.ID = m.nextID
	}
	plan.UpdatedAt = time.Now()
	m.plans[plan.UserID] = plan
	return nil
}

func (m *mockMealPlanStore) GetPlanByUser(ctx context.Context, userID int64) (*mealplan.MealPlan, error) {
	return m.plans[userID], nil
}

func (m *mockMealPlanStore) DeletePlanByUser(ctx context.Context, userID int64) error {
	delete(m.plans, userID)
	return nil
}

// mockShoppingStore is an in-memory shopping.Store.
type mockShoppingStore struct {
	lists  map[string]*shopping.ShoppingList
	nextID int
}

func newMockShoppingStore() *mockShoppingStore {
	return &mockShoppingStore{lists: make(map[string]*shopping.ShoppingList)}
}

func (m *mockShoppingStore) SaveList(ctx context.Context, list *shopping.ShoppingList) error {
	if list.ID == "" {
		m.nextID++
		list.ID = fmt.Sprintf("list-%d", m.nextID)
	}
	list.CreatedAt = time.Now()
	m.lists[list.ID] = list
	return nil
}

func (m *mockShoppingStore) GetListByUser(ctx context.Context, userID int64) (*shopping.ShoppingList, error) {
	var latest *shopping.ShoppingList
	for _, list := range m.lists {
		if list.UserID != userID {
			continue
		}
		if latest == nil || list.CreatedAt.After(latest.CreatedAt) {
			latest = list
		}
	}
	return latest, nil
}

func (m *mockShoppingStore) UpdateItem(ctx context.Context, listID string, userID int64, index int, item shopping.ShoppingItem) error {
	list := m.lists[listID]
	if list == nil || list.UserID != userID {
		return shopping.ErrListNotFound
	}
	if index < 0 || index >= len(list.Items) {
		return shopping.ErrIndexOutOfRange
	}
	list.Items[index] = item
	return nil
}

func (m *mockShoppingStore) DeleteItem(ctx context.Context, listID string, userID int64, index int) error {
	list := m.lists[listID]
	if list == nil || list.UserID != userID {
		return shopping.ErrListNotFound
	}
	if index < 0 || index >= len(list.Items) {
		return shopping.ErrIndexOutOfRange
	}
	list.Items = append(list.Items[:index], list.Items[index+1:]...)
	return nil
}

// mockSocialStore is an in-memory social.Store.
type mockSocialStore struct {
	reactions map[string]string // "user:recipe" -> kind
	comments  []social.Comment
	follows   map[string]bool // "follower:followee"
	feed      []social.FeedEvent
	nextID    int64
}

func newMockSocialStore() *mockSocialStore {
	return &mockSocialStore{
		reactions: make(map[string]string),
		follows:   make(map[string]bool),
	}
}

func reactionKey(userID, recipeID int64) string { return fmt.Sprintf("%d:%d", userID, recipeID) }

func (m *mockSocialStore) UpsertReaction(ctx context.Context, userID, recipeID int64, kind string) error {
	m.reactions[reactionKey(userID, recipeID)] = kind
	return nil
}

func (m *mockSocialStore) DeleteReaction(ctx context.Context, userID, recipeID int64) error {
	delete(m.reactions, reactionKey(userID, recipeID))
	return nil
}

func (m *mockSocialStore) AddComment(ctx context.Context, c *social.Comment) error {
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	m.comments = append(m.comments, *c)
	return nil
}

func (m *mockSocialStore) ListComments(ctx context.Context, recipeID int64) ([]social.Comment, error) {
	matches := make([]social.Comment, 0)
	for _, c := range m.comments {
		if c.RecipeID == recipeID {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (m *mockSocialStore) Follow(ctx context.Context, followerID, followeeID int64) error {
	m.follows[reactionKey(followerID, followeeID)] = true
	return nil
}

func (m *mockSocialStore) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	delete(m.follows, reactionKey(followerID, followeeID))
	return nil
}

func (m *mockSocialStore) GetFeed(ctx context.Context, userID int64, limit int) ([]social.FeedEvent, error) {
	if len(m.feed) > limit {
		return m.feed[:limit], nil
	}
	return m.feed, nil
}

// testEnv bundles a router, its handler, and the backing mocks.
type testEnv struct {
	router    *gin.Engine
	handler   *Handler
	users     *mockUserStore
	recipes   *mockRecipeStore
	mealPlans *mockMealPlanStore
	shopping  *mockShoppingStore
	social    *mockSocialStore
	auth      *auth.Service
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:     newMockUserStore(),
		recipes:   newMockRecipeStore(),
		mealPlans: newMockMealPlanStore(),
		shopping:  newMockShoppingStore(),
		social:    newMockSocialStore(),
		auth:      auth.NewService("test-secret", time.Hour),
	}

	env.handler = NewHandler(env.users, env.recipes, env.mealPlans, env.shopping, env.social, env.auth, nil, images.NewProcessor("images"), zap.NewNop())

	cfg := &config.Config{
		Env:            "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		ImagesDir:      "images",
	}
	env.router = NewRouter(cfg, env.handler)

	return env
}

// tokenFor issues a valid bearer token for an arbitrary user id.
func (e *testEnv) tokenFor(userID int64) string {
	token, err := e.auth.IssueToken(userID, fmt.Sprintf("user%d@example.com", userID))
	if err != nil {
		panic(err)
	}
	return token
}

// do runs one request through the router, optionally authenticated.
func (e *testEnv) do(method, path, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
