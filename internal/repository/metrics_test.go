package repository

import (
	"context"
	"testing"

	"moralverse/internal/observability"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// querySampleCount reads the observation count for one operation/table pair.
func querySampleCount(t *testing.T, operation, table string) uint64 {
	t.Helper()
	obs, err := observability.DatabaseQueryLatency.GetMetricWithLabelValues(operation, table)
	require.NoError(t, err)
	m := &dto.Metric{}
	require.NoError(t, obs.(prometheus.Metric).Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestRepositories_RecordQueryLatency(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	posts := NewPostRepository(db)
	users := NewUserRepository(db)
	comments := NewCommentRepository(db)

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice, "sunshine after the rain")

	before := querySampleCount(t, "select", "posts")
	_, err := posts.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Greater(t, querySampleCount(t, "select", "posts"), before)

	before = querySampleCount(t, "select", "users")
	_, err = users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Greater(t, querySampleCount(t, "select", "users"), before)

	before = querySampleCount(t, "insert", "likes")
	require.NoError(t, posts.Like(ctx, alice.ID, post.ID))
	assert.Greater(t, querySampleCount(t, "insert", "likes"), before)

	before = querySampleCount(t, "select", "comments")
	_, err = comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Greater(t, querySampleCount(t, "select", "comments"), before)
}
