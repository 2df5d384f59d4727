package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbunalski/peppers-pantry/internal/mealplan"
)

type putMealPlanRequest struct {
	Name    string           `json:"name"`
	Entries []mealplan.Entry `json:"entries" binding:"required"`
}

// GetMealPlan retrieves the authenticated user's current meal plan.
func (h *Handler) GetMealPlan(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	plan, err := h.MealPlans.GetPlanByUser(ctx, currentUserID(c))
	if err != nil {
		h.serverError(c, "failed to get meal plan", err)
		return
	}
	if plan == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no meal plan yet"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// PutMealPlan replaces the authenticated user's current meal plan.
func (h *Handler) PutMealPlan(c *gin.Context) {
	var req putMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := &mealplan.MealPlan{
		UserID:  currentUserID(c),
		Name:    req.Name,
		Entries: req.Entries,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.MealPlans.UpsertPlan(ctx, plan); err != nil {
		h.serverError(c, "failed to save meal plan", err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeleteMealPlan removes the authenticated user's current meal plan.
func (h *Handler) DeleteMealPlan(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.MealPlans.DeletePlanByUser(ctx, currentUserID(c)); err != nil {
		h.serverError(c, "failed to delete meal plan", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
