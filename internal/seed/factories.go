package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"moralverse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// backgroundPalette provides the canvas values seeded posts draw from.
var backgroundPalette = []models.Background{
	{Kind: models.BackgroundColor, Value: "#1c2a4a"},
	{Kind: models.BackgroundColor, Value: "#2d6a4f"},
	{Kind: models.BackgroundColor, Value: "#7b2d26"},
	{Kind: models.BackgroundGradient, Value: "linear-gradient(135deg,#667eea,#764ba2)"},
	{Kind: models.BackgroundGradient, Value: "linear-gradient(135deg,#f6d365,#fda085)"},
	{Kind: models.BackgroundImage, Value: "https://picsum.photos/seed/canvas/1200/800"},
}

var fontFamilies = []string{"sans-serif", "serif", "monospace", "cursive"}

// uplift phrases keep seeded content in the voice of the platform.
var upliftPhrases = []string{
	"Held the door for a stranger today and got the warmest smile back.",
	"Small acts add up. Checked in on an old friend this morning.",
	"Forgave someone today. It was harder than it sounds and worth it.",
	"Volunteered at the shelter this weekend. Go if you ever get the chance.",
	"Told my mentor how much their patience meant to me.",
	"Picked up litter on my morning run. The park looks better already.",
	"Wrote a thank-you note to a teacher from years ago.",
	"Shared my lunch with a coworker who forgot theirs.",
	"Listened more than I spoke today. Learned a lot.",
	"Helped a neighbor carry groceries up four flights of stairs.",
}

var commentPhrases = []string{
	"This made my day.",
	"Needed to read this today, thank you.",
	"Keep it up!",
	"The world needs more of this energy.",
	"Saving this as a reminder.",
	"You inspired me to do the same.",
	"Beautifully said.",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// CreateUsers persists n verified users with deterministic-enough usernames.
func (f *Factory) CreateUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s_%s%d",
			strings.ToLower(gofakeit.FirstName()),
			strings.ToLower(gofakeit.LastName()),
			f.rng.Intn(1000))
		user := &models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: hashedSeedPassword,
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
			Bio:      gofakeit.Sentence(8),
			Role:     models.RoleUser,
			Verified: true,
		}
		if err := f.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// BuildPost constructs a post for the given user without persisting it.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	bg := backgroundPalette[f.rng.Intn(len(backgroundPalette))]
	post := &models.Post{
		UserID:   user.ID,
		Username: user.Username,
		Content:  upliftPhrases[f.rng.Intn(len(upliftPhrases))],
		Style: models.TextStyle{
			FontSize:   16 + f.rng.Intn(24),
			FontFamily: fontFamilies[f.rng.Intn(len(fontFamilies))],
			Color:      "#ffffff",
			Bold:       f.rng.Intn(3) == 0,
			X:          f.rng.Intn(60),
			Y:          f.rng.Intn(60),
		},
		Background: bg,
		// Seeded content is pre-approved; the gate only runs on live traffic.
		Moderation: models.Verdict{Accepted: true, Reason: "Content is positive"},
		Likes:      []uint{},
		Comments:   []models.Comment{},
		CreatedAt:  spreadBack(f.rng, f.opts.MaxDays),
	}

	if f.rng.Intn(4) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePosts persists n posts spread across the given users.
func (f *Factory) CreatePosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attribute posts to")
	}
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		user := users[f.rng.Intn(len(users))]
		post := f.BuildPost(user)
		if err := f.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// CreateLikes sprinkles likes across posts. The unique index makes repeats
// harmless, so collisions are simply skipped.
func (f *Factory) CreateLikes(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for _, user := range users {
			if f.rng.Intn(3) != 0 {
				continue
			}
			like := &models.Like{UserID: user.ID, PostID: post.ID}
			if err := f.db.Where("user_id = ? AND post_id = ?", user.ID, post.ID).
				FirstOrCreate(like).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateComments adds a short thread to roughly half the posts.
func (f *Factory) CreateComments(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		if f.rng.Intn(2) != 0 {
			continue
		}
		count := 1 + f.rng.Intn(3)
		for i := 0; i < count; i++ {
			user := users[f.rng.Intn(len(users))]
			comment := &models.Comment{
				PostID:   post.ID,
				UserID:   user.ID,
				Username: user.Username,
				Text:     commentPhrases[f.rng.Intn(len(commentPhrases))],
			}
			if err := f.db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
