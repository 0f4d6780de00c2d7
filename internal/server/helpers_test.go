package server

import (
	"errors"
	"testing"

	"moralverse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHumanizeParam(t *testing.T) {
	t.Parallel()
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"postId", "post ID"},
		{"commentId", "comment ID"},
		{"slug", "slug"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, humanizeParam(tt.param))
	}
}

func TestStatusForError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"Validation", models.NewValidationError("bad"), fiber.StatusBadRequest},
		{"Rejected", models.NewModerationRejectedError("hostile"), fiber.StatusBadRequest},
		{"Unauthorized", models.NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{"Forbidden", models.NewForbiddenError("no"), fiber.StatusForbidden},
		{"NotFound", models.NewNotFoundError("Post", 1), fiber.StatusNotFound},
		{"Unavailable With Upstream", models.NewModerationUnavailableError(429, errors.New("x")), fiber.StatusTooManyRequests},
		{"Unavailable Without Upstream", models.NewModerationUnavailableError(0, errors.New("x")), fiber.StatusServiceUnavailable},
		{"Parse", models.NewModerationParseError(errors.New("x")), fiber.StatusBadGateway},
		{"Storage", models.NewStorageUnavailableError(errors.New("x")), fiber.StatusServiceUnavailable},
		{"Internal", models.NewInternalError(errors.New("x")), fiber.StatusInternalServerError},
		{"Plain Error", errors.New("x"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusForError(tt.err))
		})
	}
}
