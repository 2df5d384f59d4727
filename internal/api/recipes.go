package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mbunalski/peppers-pantry/internal/platform/cache"
	"github.com/mbunalski/peppers-pantry/internal/recipe"
)

type createRecipeRequest struct {
	Title        string              `json:"title" binding:"required"`
	Description  string              `json:"description"`
	Tags         []string            `json:"tags"`
	Ingredients  []recipe.Ingredient `json:"ingredients" binding:"required"`
	Instructions []string            `json:"instructions"`
}

// ListRecipes handles catalog browsing with optional filters. Listings are
// served from the cache when possible.
func (h *Handler) ListRecipes(c *gin.Context) {
	filter := recipe.ListFilter{
		Cuisine:    c.Query("cuisine"),
		Difficulty: c.Query("difficulty"),
		Dietary:    c.Query("dietary"),
		Query:      c.Query("q"),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	key := cache.ListingKey(filter.Cuisine, filter.Difficulty, filter.Dietary, filter.Query)
	if payload, ok := h.Cache.GetListing(ctx, key); ok {
		c.Data(http.StatusOK, "application/json", payload)
		return
	}

	recipes, err := h.Recipes.ListRecipes(ctx, filter)
	if err != nil {
		h.serverError(c, "failed to list recipes", err)
		return
	}

	if payload, err := json.Marshal(recipes); err == nil {
		h.Cache.SetListing(ctx, key, payload)
	}

	c.JSON(http.StatusOK, recipes)
}

// GetRecipe handles requests to retrieve a single recipe by id.
func (h *Handler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	r, err := h.Recipes.GetRecipeByID(ctx, id)
	if err != nil {
		h.serverError(c, "failed to get recipe", err)
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	c.JSON(http.StatusOK, r)
}

// ListUserRecipes retrieves the recipes authored by one user.
func (h *Handler) ListUserRecipes(c *gin.Context) {
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	recipes, err := h.Recipes.ListRecipesByAuthor(ctx, authorID)
	if err != nil {
		h.serverError(c, "failed to list user recipes", err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// CreateRecipe saves a new recipe authored by the authenticated user.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r := &recipe.Recipe{
		AuthorID:     currentUserID(c),
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.Recipes.CreateRecipe(ctx, r); err != nil {
		h.serverError(c, "failed to create recipe", err)
		return
	}

	h.Cache.InvalidateListings(ctx)

	c.JSON(http.StatusCreated, r)
}

// UploadRecipeImage handles a multipart image upload for a recipe the
// authenticated user owns. The image is resized and served statically.
func (h *Handler) UploadRecipeImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}

	allowedExtensions := map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
	}
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[extension] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only JPEG and PNG images are allowed"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	r, err := h.Recipes.GetRecipeByID(ctx, id)
	if err != nil {
		h.serverError(c, "failed to get recipe", err)
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	if r.AuthorID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your recipe"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.serverError(c, "failed to open uploaded file", err)
		return
	}
	defer src.Close()

	imageData, err := io.ReadAll(src)
	if err != nil {
		h.serverError(c, "failed to read uploaded file", err)
		return
	}

	imagePath, err := h.Images.Save(imageData, extension)
	if err != nil {
		h.serverError(c, "failed to save image", err)
		return
	}

	if err := h.Recipes.SetImagePath(ctx, id, imagePath); err != nil {
		h.serverError(c, "failed to record image path", err)
		return
	}

	h.Cache.InvalidateListings(ctx)

	c.JSON(http.StatusOK, gin.H{"image_path": imagePath})
}
