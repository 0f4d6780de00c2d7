package server

import (
	"fmt"
	"net/http"
	"testing"

	"moralverse/internal/models"
	"moralverse/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutes_RejectRegularUsers(t *testing.T) {
	ts := newTestServer(t)
	user := ts.createUser(t, "wanderer", models.RoleUser)
	token := ts.tokenFor(t, user)

	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/admin/posts"},
		{http.MethodDelete, "/api/admin/posts/1"},
		{http.MethodDelete, "/api/admin/posts/1/comments/1"},
		{http.MethodGet, "/api/admin/stats"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.target, func(t *testing.T) {
			resp := ts.request(t, route.method, route.target, token, nil)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestAdminGetPosts_IncludesOwners(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "wanderer", models.RoleUser)
	token := ts.tokenFor(t, author)

	created := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Visible to admins"))
	require.Equal(t, http.StatusCreated, created.StatusCode)
	_ = created.Body.Close()

	resp := ts.request(t, http.MethodGet, "/api/admin/posts", ts.systemToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, author.ID, posts[0].User.ID)
	assert.Equal(t, "wanderer", posts[0].User.Username)
}

func TestAdminDeletePost(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "wanderer", models.RoleUser)
	token := ts.tokenFor(t, author)

	created := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Doomed"))
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var post models.Post
	decodeBody(t, created, &post)

	resp := ts.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", post.ID), ts.systemToken(t), nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	gone := ts.request(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	defer func() { _ = gone.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)

	again := ts.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", post.ID), ts.systemToken(t), nil)
	defer func() { _ = again.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestAdminDeleteComment(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "wanderer", models.RoleUser)
	token := ts.tokenFor(t, author)

	created := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Thread"))
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var post models.Post
	decodeBody(t, created, &post)

	var comments []service.CommentResult
	for _, text := range []string{"first", "second", "third"} {
		resp := ts.request(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/comment", post.ID), token,
			map[string]string{"text": text})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var result service.CommentResult
		decodeBody(t, resp, &result)
		comments = append(comments, result)
	}

	target := comments[1].Comment

	resp := ts.request(t, http.MethodDelete,
		fmt.Sprintf("/api/admin/posts/%d/comments/%d", post.ID, target.ID), ts.systemToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		PostID   uint             `json:"post_id"`
		Comments []models.Comment `json:"comments"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Comments, 2)
	assert.Equal(t, "first", body.Comments[0].Text)
	assert.Equal(t, "third", body.Comments[1].Text)

	// Scoping: deleting the same comment under the wrong post is a 404.
	repeat := ts.request(t, http.MethodDelete,
		fmt.Sprintf("/api/admin/posts/%d/comments/%d", post.ID, target.ID), ts.systemToken(t), nil)
	defer func() { _ = repeat.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, repeat.StatusCode)
}

func TestAdminGetStats(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "wanderer", models.RoleUser)
	ts.createUser(t, "observer", models.RoleUser)
	token := ts.tokenFor(t, author)

	for i := 0; i < 2; i++ {
		resp := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody(fmt.Sprintf("Post %d", i)))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp := ts.request(t, http.MethodGet, "/api/admin/stats", ts.systemToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats service.AdminStats
	decodeBody(t, resp, &stats)
	assert.Equal(t, int64(2), stats.TotalPosts)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.VerifiedUsers)
}
