package seed

import (
	"testing"

	"moralverse/internal/database"
	"moralverse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestSeed(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 5, NumPosts: 12}))

	var userCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(5), userCount)
	assert.Equal(t, int64(12), postCount)

	// Every seeded post carries a positive verdict and a denormalized owner.
	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, post := range posts {
		assert.True(t, post.Moderation.Accepted)
		assert.NotEmpty(t, post.Username)
	}
}

func TestSeed_CleanRemovesPreviousData(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 2, NumPosts: 4}))
	require.NoError(t, Seed(db, Options{NumUsers: 3, NumPosts: 6, ShouldClean: true}))

	var userCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(3), userCount)
	assert.Equal(t, int64(6), postCount)
}

func TestFactory_LikesRespectUniqueIndex(t *testing.T) {
	db := newSeedDB(t)
	factory := NewFactory(db, Options{})

	users, err := factory.CreateUsers(3)
	require.NoError(t, err)
	posts, err := factory.CreatePosts(users, 2)
	require.NoError(t, err)

	// Running the like pass twice must not violate the composite index.
	require.NoError(t, factory.CreateLikes(users, posts))
	require.NoError(t, factory.CreateLikes(users, posts))

	var likeCount int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likeCount).Error)
	assert.LessOrEqual(t, likeCount, int64(len(users)*len(posts)))
}
