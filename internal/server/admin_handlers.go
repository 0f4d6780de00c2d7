package server

import (
	"github.com/gofiber/fiber/v2"
)

// AdminGetPosts handles GET /api/admin/posts
// @Summary List all posts with owners
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/posts [get]
func (s *Server) AdminGetPosts(c *fiber.Ctx) error {
	posts, err := s.adminService.ListPosts(c.Context())
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// AdminDeletePost handles DELETE /api/admin/posts/:id
// @Summary Delete any post
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/posts/{id} [delete]
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminService.DeletePost(c.Context(), postID); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted successfully",
	})
}

// AdminDeleteComment handles DELETE /api/admin/posts/:postId/comments/:commentId
// @Summary Delete one comment from a post
// @Description Removes exactly the matching comment; the rest keep their order
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} object{post_id=int,comments=[]models.Comment}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/posts/{postId}/comments/{commentId} [delete]
func (s *Server) AdminDeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comments, err := s.adminService.DeleteComment(c.Context(), postID, commentID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post_id":  postID,
		"comments": comments,
	})
}

// AdminGetStats handles GET /api/admin/stats
// @Summary Aggregate platform statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AdminStats
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/stats [get]
func (s *Server) AdminGetStats(c *fiber.Ctx) error {
	stats, err := s.adminService.Stats(c.Context())
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(stats)
}
