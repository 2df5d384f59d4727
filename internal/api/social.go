package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mbunalski/peppers-pantry/internal/social"
)

const feedLimit = 50

type reactionRequest struct {
	Kind string `json:"kind" binding:"required"`
}

type commentRequest struct {
	Body string `json:"body" binding:"required"`
}

// React records the authenticated user's reaction to a recipe.
func (h *Handler) React(c *gin.Context) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !social.ValidReactionKinds[req.Kind] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown reaction kind"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.Social.UpsertReaction(ctx, currentUserID(c), recipeID, req.Kind); err != nil {
		h.serverError(c, "failed to save reaction", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Unreact removes the authenticated user's reaction to a recipe.
func (h *Handler) Unreact(c *gin.Context) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.Social.DeleteReaction(ctx, currentUserID(c), recipeID); err != nil {
		h.serverError(c, "failed to delete reaction", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListComments retrieves a recipe's comments, oldest first.
func (h *Handler) ListComments(c *gin.Context) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	comments, err := h.Social.ListComments(ctx, recipeID)
	if err != nil {
		h.serverError(c, "failed to list comments", err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// AddComment posts a comment on a recipe as the authenticated user.
func (h *Handler) AddComment(c *gin.Context) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty comment"})
		return
	}

	comment := &social.Comment{
		UserID:   currentUserID(c),
		RecipeID: recipeID,
		Body:     req.Body,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.Social.AddComment(ctx, comment); err != nil {
		h.serverError(c, "failed to save comment", err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// FollowUser makes the authenticated user follow another user.
func (h *Handler) FollowUser(c *gin.Context) {
	followeeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if followeeID == currentUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.Social.Follow(ctx, currentUserID(c), followeeID); err != nil {
		h.serverError(c, "failed to save follow", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnfollowUser removes a follow relationship.
func (h *Handler) UnfollowUser(c *gin.Context) {
	followeeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.Social.Unfollow(ctx, currentUserID(c), followeeID); err != nil {
		h.serverError(c, "failed to delete follow", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetFeed retrieves recent activity from the users the authenticated user
// follows, newest first.
func (h *Handler) GetFeed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	events, err := h.Social.GetFeed(ctx, currentUserID(c), feedLimit)
	if err != nil {
		h.serverError(c, "failed to build feed", err)
		return
	}

	c.JSON(http.StatusOK, events)
}
