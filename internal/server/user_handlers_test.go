package server

import (
	"fmt"
	"net/http"
	"testing"

	"codelab/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllUsers(t *testing.T) {
	_, app := setupTestServer(t)
	signupUser(t, app, "alice")
	signupUser(t, app, "bob")

	resp := doJSON(t, app, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []models.User
	decodeJSON(t, resp, &users)
	assert.Len(t, users, 2)
}

func TestGetUserProfile(t *testing.T) {
	_, app := setupTestServer(t)
	token, userID := signupUser(t, app, "alice")
	createPostViaAPI(t, app, token, "alice writes")

	t.Run("profile carries authored counts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", userID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var user models.User
		decodeJSON(t, resp, &user)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, 1, user.PostCount)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetUserPosts(t *testing.T) {
	_, app := setupTestServer(t)
	aliceToken, aliceID := signupUser(t, app, "alice")
	bobToken, _ := signupUser(t, app, "bob")
	createPostViaAPI(t, app, aliceToken, "alice one")
	createPostViaAPI(t, app, aliceToken, "alice two")
	createPostViaAPI(t, app, bobToken, "bob one")

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/posts", aliceID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	decodeJSON(t, resp, &posts)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, aliceID, p.UserID)
	}
}

func TestUpdateMyProfile(t *testing.T) {
	_, app := setupTestServer(t)
	token, _ := signupUser(t, app, "alice")

	t.Run("requires authentication", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me", "", fiber.Map{"bio": "anonymous"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("partial update", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me", token, fiber.Map{
			"bio":        "Go developer",
			"first_name": "Alice",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var user models.User
		decodeJSON(t, resp, &user)
		assert.Equal(t, "Go developer", user.Bio)
		assert.Equal(t, "Alice", user.FirstName)
	})
}

func TestDeleteMyAccount(t *testing.T) {
	_, app := setupTestServer(t)
	aliceToken, _ := signupUser(t, app, "alice")
	bobToken, _ := signupUser(t, app, "bob")
	postID := createPostViaAPI(t, app, aliceToken, "alice post")
	createCommentViaAPI(t, app, bobToken, postID, "bob was here")

	resp := doJSON(t, app, http.MethodDelete, "/api/users/me", aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	t.Run("credentials stop working", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
			"email":    "alice@example.com",
			"password": testPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("authored content is gone", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/"+postID.String(), "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("other accounts survive", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var users []models.User
		decodeJSON(t, resp, &users)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Username)
	})
}
