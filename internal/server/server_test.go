package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"moralverse/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMiddleware_TracingHeaderToggle(t *testing.T) {
	tests := []struct {
		name           string
		tracingEnabled bool
	}{
		{"Enabled sets X-Trace-ID", true},
		{"Disabled leaves X-Trace-ID unset", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Server{config: &config.Config{TracingEnabled: tt.tracingEnabled}}
			app := fiber.New()
			s.SetupMiddleware(app)
			app.Get("/ping", func(c *fiber.Ctx) error {
				return c.SendString("pong")
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			if tt.tracingEnabled {
				assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
			} else {
				assert.Empty(t, resp.Header.Get("X-Trace-ID"))
			}
		})
	}
}
