package server

import (
	"noticeboard/internal/models"
	"noticeboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment adds a comment to an entry (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, displayName := currentUser(c)

	var req struct {
		EntryID string `json:"entryId"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:      userID,
		DisplayName: displayName,
		EntryID:     req.EntryID,
		Content:     req.Content,
	})
	if err != nil {
		return respondError(c, "create_comment", req.EntryID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListComments returns an entry's comments newest first (public)
func (s *Server) ListComments(c *fiber.Ctx) error {
	entryID := c.Query("entryId")

	comments, err := s.commentService.ListComments(c.UserContext(), entryID)
	if err != nil {
		return respondError(c, "list_comments", entryID, err)
	}

	return c.JSON(comments)
}
