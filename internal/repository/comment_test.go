package repository

import (
	"context"
	"testing"

	"moralverse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, "comment on me")

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Create(ctx, &models.Comment{
			PostID:   post.ID,
			UserID:   bob.ID,
			Username: bob.Username,
			Text:     text,
		}))
	}

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "one", comments[0].Text)
	assert.Equal(t, "two", comments[1].Text)
	assert.Equal(t, "three", comments[2].Text)
	assert.Equal(t, "bob", comments[0].Username)
}

func TestCommentRepository_ListByPost_Empty(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice, "quiet post")

	comments, err := repo.ListByPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestCommentRepository_DeleteFromPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice, "moderated thread")

	var target uint
	for _, text := range []string{"keep-1", "remove-me", "keep-2"} {
		c := &models.Comment{PostID: post.ID, UserID: bob.ID, Username: bob.Username, Text: text}
		require.NoError(t, repo.Create(ctx, c))
		if text == "remove-me" {
			target = c.ID
		}
	}

	require.NoError(t, repo.DeleteFromPost(ctx, post.ID, target))

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "keep-1", comments[0].Text)
	assert.Equal(t, "keep-2", comments[1].Text)
}

func TestCommentRepository_DeleteFromPost_WrongPost(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	postA := seedPost(t, db, alice, "post a")
	postB := seedPost(t, db, alice, "post b")

	comment := &models.Comment{PostID: postA.ID, UserID: bob.ID, Username: bob.Username, Text: "on a"}
	require.NoError(t, repo.Create(ctx, comment))

	// The comment belongs to post A; scoping by post B must not touch it.
	err := repo.DeleteFromPost(ctx, postB.ID, comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	comments, err := repo.ListByPost(ctx, postA.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}
