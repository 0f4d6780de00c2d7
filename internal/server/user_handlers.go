package server

import (
	"moralverse/internal/models"
	"moralverse/internal/notifications"
	"moralverse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	// The built-in administrator has no backing row.
	if identity.System {
		return c.JSON(identity)
	}

	user, err := s.userService.GetUserByID(c.Context(), identity.UserID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Description Update avatar and bio; username is immutable
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	if identity.System {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("The built-in administrator has no profile"))
	}

	var req struct {
		Avatar string `json:"avatar"`
		Bio    string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID: identity.UserID,
		Avatar: req.Avatar,
		Bio:    req.Bio,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	s.publishBroadcastEvent(notifications.EventUserUpdated, fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.Avatar,
		"bio":      user.Bio,
	})

	return c.JSON(user)
}
