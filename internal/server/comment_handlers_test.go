package server

import (
	"net/http"
	"testing"

	"codelab/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCommentViaAPI(t *testing.T, app *fiber.App, token string, postID uuid.UUID, content string) models.Comment {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/posts/"+postID.String()+"/comments", token, fiber.Map{
		"content": content,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeJSON(t, resp, &comment)
	return comment
}

func TestCommentThreadFlow(t *testing.T) {
	_, app := setupTestServer(t)
	authorToken, _ := signupUser(t, app, "author")
	readerToken, _ := signupUser(t, app, "reader")
	postID := createPostViaAPI(t, app, authorToken, "discussable")

	comment := createCommentViaAPI(t, app, readerToken, postID, "first!")

	t.Run("comment requires authentication", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/"+postID.String()+"/comments", "", fiber.Map{
			"content": "anonymous",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("reply nests under the comment", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/comments/"+comment.ID.String()+"/replies", authorToken, fiber.Map{
			"content": "thanks for reading",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var reply models.Comment
		decodeJSON(t, resp, &reply)
		require.NotNil(t, reply.ParentID)
		assert.Equal(t, comment.ID, *reply.ParentID)
		assert.Equal(t, postID, reply.PostID, "post inherited from the parent")
	})

	t.Run("reply to a reply is rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/comments/"+comment.ID.String()+"/replies", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var replies []models.Comment
		decodeJSON(t, resp, &replies)
		require.Len(t, replies, 1)

		resp = doJSON(t, app, http.MethodPost, "/api/comments/"+replies[0].ID.String()+"/replies", readerToken, fiber.Map{
			"content": "too deep",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("listing returns the thread with nested replies", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/"+postID.String()+"/comments", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comments []models.Comment
		decodeJSON(t, resp, &comments)
		require.Len(t, comments, 1, "replies are nested, not top-level entries")
		assert.Equal(t, "first!", comments[0].Content)
		require.Len(t, comments[0].Replies, 1)
		assert.Equal(t, "thanks for reading", comments[0].Replies[0].Content)
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/"+postID.String()+"/comments", readerToken, fiber.Map{
			"content": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateComment(t *testing.T) {
	_, app := setupTestServer(t)
	authorToken, _ := signupUser(t, app, "author")
	commenterToken, _ := signupUser(t, app, "commenter")
	postID := createPostViaAPI(t, app, authorToken, "post")
	comment := createCommentViaAPI(t, app, commenterToken, postID, "original")
	target := "/api/comments/" + comment.ID.String()

	t.Run("only the author may edit", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, target, authorToken, fiber.Map{
			"content": "hijacked",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("edit marks the comment as edited", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, target, commenterToken, fiber.Map{
			"content": "revised",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.Comment
		decodeJSON(t, resp, &updated)
		assert.Equal(t, "revised", updated.Content)
		assert.True(t, updated.IsEdited)
	})

	t.Run("saving identical content keeps is_edited untouched", func(t *testing.T) {
		fresh := createCommentViaAPI(t, app, commenterToken, postID, "stable")
		resp := doJSON(t, app, http.MethodPut, "/api/comments/"+fresh.ID.String(), commenterToken, fiber.Map{
			"content": "stable",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.Comment
		decodeJSON(t, resp, &updated)
		assert.False(t, updated.IsEdited)
	})
}

func TestDeleteComment(t *testing.T) {
	_, app := setupTestServer(t)
	authorToken, _ := signupUser(t, app, "author")
	commenterToken, _ := signupUser(t, app, "commenter")
	postID := createPostViaAPI(t, app, authorToken, "post")
	comment := createCommentViaAPI(t, app, commenterToken, postID, "doomed")

	// a reply by the post author hangs off the doomed comment
	resp := doJSON(t, app, http.MethodPost, "/api/comments/"+comment.ID.String()+"/replies", authorToken, fiber.Map{
		"content": "reply",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("only the author may delete", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/comments/"+comment.ID.String(), authorToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("delete removes the thread", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/comments/"+comment.ID.String(), commenterToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		listResp := doJSON(t, app, http.MethodGet, "/api/posts/"+postID.String()+"/comments", "", nil)
		require.Equal(t, http.StatusOK, listResp.StatusCode)
		var comments []models.Comment
		decodeJSON(t, listResp, &comments)
		assert.Empty(t, comments, "the reply went with its parent")
	})
}
