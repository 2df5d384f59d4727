package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mbunalski/peppers-pantry/internal/social"
)

func TestReact(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(1)

	soup := seedRecipe(env, "Onion Soup", ing("onion", "1 cup onion"))

	rr := env.do(http.MethodPost, fmt.Sprintf("/recipes/%d/reactions", soup), token, `{"kind":"yum"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "yum", env.social.reactions[reactionKey(1, soup)])

	// Reacting again replaces the previous kind.
	rr = env.do(http.MethodPost, fmt.Sprintf("/recipes/%d/reactions", soup), token, `{"kind":"love"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "love", env.social.reactions[reactionKey(1, soup)])

	rr = env.do(http.MethodPost, fmt.Sprintf("/recipes/%d/reactions", soup), token, `{"kind":"angry"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown reaction kind")

	rr = env.do(http.MethodDelete, fmt.Sprintf("/recipes/%d/reactions", soup), token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, env.social.reactions)
}

func TestComments(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(1)

	soup := seedRecipe(env, "Onion Soup", ing("onion", "1 cup onion"))

	rr := env.do(http.MethodPost, fmt.Sprintf("/recipes/%d/comments", soup), token, `{"body":"Loved this one"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Whitespace-only comments are rejected.
	rr = env.do(http.MethodPost, fmt.Sprintf("/recipes/%d/comments", soup), token, `{"body":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Reading comments needs no auth.
	rr = env.do(http.MethodGet, fmt.Sprintf("/recipes/%d/comments", soup), "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var comments []social.Comment
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &comments))
	assert.Len(t, comments, 1)
	assert.Equal(t, "Loved this one", comments[0].Body)
	assert.Equal(t, int64(1), comments[0].UserID)
}

func TestFollow(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(1)

	rr := env.do(http.MethodPost, "/users/2/follow", token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.social.follows[reactionKey(1, 2)])

	rr = env.do(http.MethodPost, "/users/1/follow", token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot follow yourself")

	rr = env.do(http.MethodDelete, "/users/2/follow", token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, env.social.follows)
}

func TestGetFeed(t *testing.T) {
	env := newTestEnv()

	env.social.feed = []social.FeedEvent{
		{Kind: "recipe", ActorID: 2, ActorName: "Jenna", RecipeID: 1, RecipeTitle: "Onion Soup", CreatedAt: time.Now()},
		{Kind: "comment", ActorID: 2, ActorName: "Jenna", RecipeID: 3, RecipeTitle: "Stir Fry", Detail: "Loved it", CreatedAt: time.Now().Add(-time.Hour)},
	}

	rr := env.do(http.MethodGet, "/feed", env.tokenFor(1), "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var events []social.FeedEvent
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	assert.Len(t, events, 2)
	assert.Equal(t, "recipe", events[0].Kind)
	assert.Equal(t, "Jenna", events[0].ActorName)
}
