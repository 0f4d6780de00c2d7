package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"moralverse/internal/config"
	"moralverse/internal/database"
	"moralverse/internal/models"
	"moralverse/internal/notifications"
	"moralverse/internal/repository"
	"moralverse/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// gateStub is a controllable moderation gate for handler tests.
type gateStub struct {
	verdict  models.Verdict
	err      error
	reviewed []string
}

func (g *gateStub) Review(_ context.Context, text string) (models.Verdict, error) {
	g.reviewed = append(g.reviewed, text)
	if g.err != nil {
		return models.Verdict{}, g.err
	}
	return g.verdict, nil
}

type testServer struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	gate   *gateStub
}

// newTestServer builds a Server over an in-memory database with a stubbed
// moderation gate and all routes mounted. The struct is assembled directly so
// repeated tests do not re-register Prometheus collectors.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	gate := &gateStub{verdict: models.Verdict{Accepted: true, Reason: "Content is acceptable"}}

	cfg := &config.Config{
		JWTSecret:                "test-secret-0123456789abcdef0123456789ab",
		Env:                      "test",
		ModerationTimeoutSeconds: 15,
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:       cfg,
		db:           db,
		userRepo:     userRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		hub:          notifications.NewHub(),
		postService:  service.NewPostService(postRepo, commentRepo, gate),
		adminService: service.NewAdminService(db, postRepo, commentRepo),
		userService:  service.NewUserService(userRepo),
	}

	app := fiber.New()
	s.SetupRoutes(app)

	return &testServer{server: s, app: app, db: db, gate: gate}
}

func (ts *testServer) createUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("SecurePass12!@"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
		Verified: true,
	}
	require.NoError(t, ts.db.Create(user).Error)
	return user
}

func (ts *testServer) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := ts.server.generateToken(user.ID, user.Username, user.Role)
	require.NoError(t, err)
	return token
}

// systemToken mints a credential for the built-in administrator.
func (ts *testServer) systemToken(t *testing.T) string {
	t.Helper()
	token, err := ts.server.generateToken(0, models.SystemUsername, models.RoleAdmin)
	require.NoError(t, err)
	return token
}

func (ts *testServer) request(t *testing.T, method, target, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}
