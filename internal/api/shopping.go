package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbunalski/peppers-pantry/internal/shopping"
)

type updateShoppingItemRequest struct {
	ShoppingListID string                `json:"shoppingListId" binding:"required"`
	ItemIndex      *int                  `json:"itemIndex" binding:"required"`
	UpdatedItem    shopping.ShoppingItem `json:"updatedItem" binding:"required"`
}

type deleteShoppingItemRequest struct {
	ShoppingListID string `json:"shoppingListId" binding:"required"`
	ItemIndex      *int   `json:"itemIndex" binding:"required"`
}

// GenerateShoppingList consolidates the authenticated user's current meal plan
// into a new shopping list and persists it.
func (h *Handler) GenerateShoppingList(c *gin.Context) {
	userID := currentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	plan, err := h.MealPlans.GetPlanByUser(ctx, userID)
	if err != nil {
		h.serverError(c, "failed to get meal plan", err)
		return
	}
	if plan == nil || len(plan.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "create a meal plan first"})
		return
	}

	// Consolidation applies its own per-fetch timeout; a recipe whose
	// ingredients cannot be fetched is skipped rather than failing the run.
	items := shopping.Consolidate(c.Request.Context(), h.Logger, plan.RecipeIDs(), h.fetchIngredientRows)
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal plan has no ingredients"})
		return
	}

	list := &shopping.ShoppingList{
		UserID:     userID,
		MealPlanID: &plan.ID,
		Items:      items,
	}
	if err := h.Shopping.SaveList(ctx, list); err != nil {
		h.serverError(c, "failed to save shopping list", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"shoppingListId": list.ID,
		"items":          list.Items,
	})
}

// fetchIngredientRows adapts the recipe store to the consolidator's input.
func (h *Handler) fetchIngredientRows(ctx context.Context, recipeID int64) ([]shopping.IngredientRow, error) {
	ingredients, err := h.Recipes.GetIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	rows := make([]shopping.IngredientRow, 0, len(ingredients))
	for _, ing := range ingredients {
		rows = append(rows, shopping.IngredientRow{
			Name: ing.Name,
			Raw:  ing.Raw,
			Qty:  ing.Qty,
			Unit: ing.Unit,
		})
	}
	return rows, nil
}

// GetShoppingList retrieves the authenticated user's persisted shopping list,
// or null when none exists.
func (h *Handler) GetShoppingList(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	list, err := h.Shopping.GetListByUser(ctx, currentUserID(c))
	if err != nil {
		h.serverError(c, "failed to get shopping list", err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// UpdateShoppingItem replaces one item of a persisted list by position.
func (h *Handler) UpdateShoppingItem(c *gin.Context) {
	var req updateShoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	err := h.Shopping.UpdateItem(ctx, req.ShoppingListID, currentUserID(c), *req.ItemIndex, req.UpdatedItem)
	if err != nil {
		h.respondShoppingMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteShoppingItem removes one item of a persisted list by position.
func (h *Handler) DeleteShoppingItem(c *gin.Context) {
	var req deleteShoppingItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	err := h.Shopping.DeleteItem(ctx, req.ShoppingListID, currentUserID(c), *req.ItemIndex)
	if err != nil {
		h.respondShoppingMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) respondShoppingMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shopping.ErrListNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "shopping list not found"})
	case errors.Is(err, shopping.ErrIndexOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "item index out of range"})
	default:
		h.serverError(c, "failed to update shopping list", err)
	}
}
