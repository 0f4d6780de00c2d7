package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"moralverse/internal/models"
	"moralverse/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPostBody(content string) map[string]interface{} {
	return map[string]interface{}{
		"content": content,
		"style": map[string]interface{}{
			"font_size":   24,
			"font_family": "serif",
			"color":       "#ffffff",
		},
		"background": map[string]interface{}{
			"kind":  models.BackgroundColor,
			"value": "#2266aa",
		},
	}
}

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t)
	user := ts.createUser(t, "wanderer", models.RoleUser)
	token := ts.tokenFor(t, user)

	t.Run("Accepted", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Kindness costs nothing"))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var post models.Post
		decodeBody(t, resp, &post)
		assert.Equal(t, "Kindness costs nothing", post.Content)
		assert.Equal(t, "wanderer", post.Username)
		assert.True(t, post.Moderation.Accepted)
		assert.NotNil(t, post.Likes)
		assert.NotNil(t, post.Comments)
	})

	t.Run("Rejected Carries Reason", func(t *testing.T) {
		ts.gate.verdict = models.Verdict{Accepted: false, Reason: "Glorifies cruelty"}
		defer func() { ts.gate.verdict = models.Verdict{Accepted: true} }()

		resp := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Something hostile"))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "MODERATION_REJECTED", body.Code)
		assert.Equal(t, "Glorifies cruelty", body.Reason)
	})

	t.Run("Gate Unavailable Surfaces Upstream Status", func(t *testing.T) {
		ts.gate.err = models.NewModerationUnavailableError(429, errors.New("rate limited"))
		defer func() { ts.gate.err = nil }()

		resp := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Anything"))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	})

	t.Run("Gate Unreachable Maps To 503", func(t *testing.T) {
		ts.gate.err = models.NewModerationUnavailableError(0, errors.New("connection refused"))
		defer func() { ts.gate.err = nil }()

		resp := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Anything"))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("Gate Garbage Maps To 502", func(t *testing.T) {
		ts.gate.err = models.NewModerationParseError(errors.New("no JSON object in content"))
		defer func() { ts.gate.err = nil }()

		resp := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Anything"))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("Empty Content Never Reaches Gate", func(t *testing.T) {
		before := len(ts.gate.reviewed)
		resp := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("   "))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Len(t, ts.gate.reviewed, before)
	})

	t.Run("Requires Auth", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, "/api/posts", "", createPostBody("Anything"))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("System Identity Cannot Post", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, "/api/posts", ts.systemToken(t), createPostBody("Anything"))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestGetPosts(t *testing.T) {
	ts := newTestServer(t)
	user := ts.createUser(t, "wanderer", models.RoleUser)
	token := ts.tokenFor(t, user)

	for i := 1; i <= 3; i++ {
		resp := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody(fmt.Sprintf("Post %d", i)))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	// Listing is public.
	resp := ts.request(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	decodeBody(t, resp, &posts)
	require.Len(t, posts, 3)
	assert.Equal(t, "Post 3", posts[0].Content)
	assert.Equal(t, "Post 1", posts[2].Content)

	limited := ts.request(t, http.MethodGet, "/api/posts?limit=2&offset=1", "", nil)
	require.Equal(t, http.StatusOK, limited.StatusCode)
	var window []models.Post
	decodeBody(t, limited, &window)
	require.Len(t, window, 2)
	assert.Equal(t, "Post 2", window[0].Content)
}

func TestGetPost(t *testing.T) {
	ts := newTestServer(t)
	user := ts.createUser(t, "wanderer", models.RoleUser)
	token := ts.tokenFor(t, user)

	created := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Lone post"))
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var post models.Post
	decodeBody(t, created, &post)

	t.Run("Found", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got models.Post
		decodeBody(t, resp, &got)
		assert.Equal(t, post.ID, got.ID)
	})

	t.Run("Missing", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, "/api/posts/9999", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, "/api/posts/zero", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestToggleLike(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "wanderer", models.RoleUser)
	liker := ts.createUser(t, "admirer", models.RoleUser)
	authorToken := ts.tokenFor(t, author)
	likerToken := ts.tokenFor(t, liker)

	created := ts.request(t, http.MethodPost, "/api/posts", authorToken, createPostBody("Like me"))
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var post models.Post
	decodeBody(t, created, &post)

	likeURL := fmt.Sprintf("/api/posts/%d/like", post.ID)

	first := ts.request(t, http.MethodPut, likeURL, likerToken, nil)
	require.Equal(t, http.StatusOK, first.StatusCode)
	var result service.LikeResult
	decodeBody(t, first, &result)
	assert.True(t, result.Liked)
	assert.Equal(t, []uint{liker.ID}, result.Likes)

	second := ts.request(t, http.MethodPut, likeURL, likerToken, nil)
	require.Equal(t, http.StatusOK, second.StatusCode)
	decodeBody(t, second, &result)
	assert.False(t, result.Liked)
	assert.Empty(t, result.Likes)

	missing := ts.request(t, http.MethodPut, "/api/posts/9999/like", likerToken, nil)
	defer func() { _ = missing.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestCreateComment(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "wanderer", models.RoleUser)
	token := ts.tokenFor(t, author)

	created := ts.request(t, http.MethodPost, "/api/posts", token, createPostBody("Discuss"))
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var post models.Post
	decodeBody(t, created, &post)

	commentURL := fmt.Sprintf("/api/posts/%d/comment", post.ID)

	t.Run("Success", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, commentURL, token, map[string]string{"text": "Agreed"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var result service.CommentResult
		decodeBody(t, resp, &result)
		assert.Equal(t, "Agreed", result.Comment.Text)
		assert.Equal(t, "wanderer", result.Comment.Username)
		assert.Len(t, result.Comments, 1)
	})

	t.Run("Empty Text", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, commentURL, token, map[string]string{"text": "  "})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing Post", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, "/api/posts/9999/comment", token, map[string]string{"text": "Hello"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeletePost(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "wanderer", models.RoleUser)
	stranger := ts.createUser(t, "lurker", models.RoleUser)
	authorToken := ts.tokenFor(t, author)

	created := ts.request(t, http.MethodPost, "/api/posts", authorToken, createPostBody("Mine to delete"))
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var post models.Post
	decodeBody(t, created, &post)

	deleteURL := fmt.Sprintf("/api/posts/%d", post.ID)

	t.Run("Stranger Forbidden", func(t *testing.T) {
		resp := ts.request(t, http.MethodDelete, deleteURL, ts.tokenFor(t, stranger), nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Owner Deletes", func(t *testing.T) {
		resp := ts.request(t, http.MethodDelete, deleteURL, authorToken, nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		gone := ts.request(t, http.MethodGet, deleteURL, "", nil)
		defer func() { _ = gone.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, gone.StatusCode)
	})

	t.Run("Already Deleted", func(t *testing.T) {
		resp := ts.request(t, http.MethodDelete, deleteURL, authorToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
