package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbunalski/peppers-pantry/internal/auth"
	"github.com/mbunalski/peppers-pantry/internal/mealplan"
	"github.com/mbunalski/peppers-pantry/internal/platform/cache"
	"github.com/mbunalski/peppers-pantry/internal/platform/images"
	"github.com/mbunalski/peppers-pantry/internal/recipe"
	"github.com/mbunalski/peppers-pantry/internal/shopping"
	"github.com/mbunalski/peppers-pantry/internal/social"
	"github.com/mbunalski/peppers-pantry/internal/user"
)

// dbTimeout bounds a single request's database work.
const dbTimeout = 5 * time.Second

// Handler handles HTTP requests.
type Handler struct {
	Users     user.Store
	Recipes   recipe.Store
	MealPlans mealplan.Store
	Shopping  shopping.Store
	Social    social.Store
	Auth      *auth.Service
	Cache     *cache.RecipeCache
	Images    *images.Processor
	Logger    *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(users user.Store, recipes recipe.Store, mealPlans mealplan.Store, shoppingStore shopping.Store, socialStore social.Store, authSvc *auth.Service, recipeCache *cache.RecipeCache, imageProc *images.Processor, logger *zap.Logger) *Handler {
	return &Handler{
		Users:     users,
		Recipes:   recipes,
		MealPlans: mealPlans,
		Shopping:  shoppingStore,
		Social:    socialStore,
		Auth:      authSvc,
		Cache:     recipeCache,
		Images:    imageProc,
		Logger:    logger,
	}
}

// serverError logs the cause and responds with a generic 500. Internals are
// never echoed to the client.
func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.Logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
