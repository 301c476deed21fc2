package server

import (
	"net/http"
	"testing"

	"codelab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationFlow(t *testing.T) {
	_, app := setupTestServer(t)
	authorToken, _ := signupUser(t, app, "author")
	fanToken, _ := signupUser(t, app, "fan")
	postID := createPostViaAPI(t, app, authorToken, "popular post")

	// the fan likes and comments; each lands one notification in the
	// author's inbox
	resp := doJSON(t, app, http.MethodPost, "/api/posts/"+postID.String()+"/like", fanToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	createCommentViaAPI(t, app, fanToken, postID, "great post")

	// the author commenting on their own post must not self-notify
	createCommentViaAPI(t, app, authorToken, postID, "thanks everyone")

	t.Run("requires authentication", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/notifications", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unread count", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", authorToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Count int64 `json:"count"`
		}
		decodeJSON(t, resp, &body)
		assert.Equal(t, int64(2), body.Count)
	})

	t.Run("fan has no notifications", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/notifications", fanToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var notifications []models.Notification
		decodeJSON(t, resp, &notifications)
		assert.Empty(t, notifications)
	})

	var firstID string
	t.Run("author inbox lists both events", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/notifications", authorToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var notifications []models.Notification
		decodeJSON(t, resp, &notifications)
		require.Len(t, notifications, 2)

		types := []models.NotificationType{notifications[0].Type, notifications[1].Type}
		assert.Contains(t, types, models.NotificationTypeLike)
		assert.Contains(t, types, models.NotificationTypeComment)
		for _, n := range notifications {
			assert.False(t, n.IsRead)
			require.NotNil(t, n.Sender)
			assert.Equal(t, "fan", n.Sender.Username)
		}
		firstID = notifications[0].ID.String()
	})

	t.Run("mark one read is idempotent", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/notifications/"+firstID+"/read", authorToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var n models.Notification
		decodeJSON(t, resp, &n)
		assert.True(t, n.IsRead)
		require.NotNil(t, n.ReadAt)
		stamped := *n.ReadAt

		resp = doJSON(t, app, http.MethodPost, "/api/notifications/"+firstID+"/read", authorToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decodeJSON(t, resp, &n)
		require.NotNil(t, n.ReadAt)
		assert.Equal(t, stamped.Unix(), n.ReadAt.Unix(), "read_at stamped once")
	})

	t.Run("foreign notification reads as NotFound", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/notifications/"+firstID+"/read", fanToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("read-all clears the counter", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/notifications/read-all", authorToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			MarkedRead int64 `json:"marked_read"`
		}
		decodeJSON(t, resp, &body)
		assert.Equal(t, int64(1), body.MarkedRead, "one was already read")

		countResp := doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", authorToken, nil)
		var count struct {
			Count int64 `json:"count"`
		}
		decodeJSON(t, countResp, &count)
		assert.Zero(t, count.Count)
	})

	t.Run("clear removes read notifications", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/notifications/read", authorToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Deleted int64 `json:"deleted"`
		}
		decodeJSON(t, resp, &body)
		assert.Equal(t, int64(2), body.Deleted)

		listResp := doJSON(t, app, http.MethodGet, "/api/notifications", authorToken, nil)
		var notifications []models.Notification
		decodeJSON(t, listResp, &notifications)
		assert.Empty(t, notifications)
	})
}

func TestUnreadNotificationsEndpoint(t *testing.T) {
	_, app := setupTestServer(t)
	authorToken, _ := signupUser(t, app, "author")
	fanToken, _ := signupUser(t, app, "fan")
	postID := createPostViaAPI(t, app, authorToken, "post")

	resp := doJSON(t, app, http.MethodPost, "/api/posts/"+postID.String()+"/like", fanToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	unreadResp := doJSON(t, app, http.MethodGet, "/api/notifications/unread", authorToken, nil)
	require.Equal(t, http.StatusOK, unreadResp.StatusCode)
	var unread []models.Notification
	decodeJSON(t, unreadResp, &unread)
	require.Len(t, unread, 1)
	assert.Equal(t, models.NotificationTypeLike, unread[0].Type)
	assert.Contains(t, unread[0].Message, "liked your post")
}
