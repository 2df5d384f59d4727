package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/mbunalski/peppers-pantry/internal/config"
)

// NewRouter assembles the gin engine with middleware and all routes.
func NewRouter(cfg *config.Config, h *Handler) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(requestid.New())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.GET("/recipes", h.ListRecipes)
	r.GET("/recipes/:id", h.GetRecipe)
	r.GET("/recipes/:id/comments", h.ListComments)
	r.GET("/users/:id/recipes", h.ListUserRecipes)
	r.Static("/images", "./"+cfg.ImagesDir)

	// Authenticated routes
	authed := r.Group("/", h.RequireAuth())
	authed.POST("/recipes", h.CreateRecipe)
	authed.POST("/recipes/:id/image", h.UploadRecipeImage)
	authed.GET("/meal-plan", h.GetMealPlan)
	authed.PUT("/meal-plan", h.PutMealPlan)
	authed.DELETE("/meal-plan", h.DeleteMealPlan)
	authed.POST("/shopping-list", h.GenerateShoppingList)
	authed.GET("/shopping-list", h.GetShoppingList)
	authed.PUT("/shopping-list", h.UpdateShoppingItem)
	authed.DELETE("/shopping-list", h.DeleteShoppingItem)
	authed.POST("/recipes/:id/reactions", h.React)
	authed.DELETE("/recipes/:id/reactions", h.Unreact)
	authed.POST("/recipes/:id/comments", h.AddComment)
	authed.POST("/users/:id/follow", h.FollowUser)
	authed.DELETE("/users/:id/follow", h.UnfollowUser)
	authed.GET("/feed", h.GetFeed)

	return r
}
