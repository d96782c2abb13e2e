package server

import (
	"noticeboard/internal/models"
	"noticeboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListEntries returns the feed (public)
func (s *Server) ListEntries(c *fiber.Ctx) error {
	page := parsePagination(c, service.DefaultFeedLimit)

	entries, err := s.feedService.ListEntries(c.UserContext(), service.ListEntriesInput{
		Sort:   c.Query("sort", models.SortNew),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondError(c, "list_entries", "", err)
	}

	return c.JSON(entries)
}

// CreateEntry publishes a new entry (protected)
func (s *Server) CreateEntry(c *fiber.Ctx) error {
	userID, displayName := currentUser(c)

	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Tag         string     `json:"tag"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.entryService.CreateEntry(c.UserContext(), service.CreateEntryInput{
		UserID:      userID,
		DisplayName: displayName,
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
	})
	if err != nil {
		return respondError(c, "create_entry", "", err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// DeleteEntry removes an entry (protected, admin only)
func (s *Server) DeleteEntry(c *fiber.Ctx) error {
	entryID, err := parseEntryID(c)
	if err != nil {
		return nil
	}
	userID, _ := currentUser(c)

	if err := s.entryService.DeleteEntry(c.UserContext(), service.DeleteEntryInput{
		UserID:  userID,
		EntryID: entryID,
	}); err != nil {
		return respondError(c, "delete_entry", entryID, err)
	}

	return c.JSON(fiber.Map{"message": "Entry deleted successfully"})
}

// ToggleUpvote adds or removes the caller's upvote (protected)
func (s *Server) ToggleUpvote(c *fiber.Ctx) error {
	entryID, err := parseEntryID(c)
	if err != nil {
		return nil
	}
	userID, displayName := currentUser(c)

	result, err := s.upvoteService.Toggle(c.UserContext(), service.ToggleInput{
		UserID:      userID,
		DisplayName: displayName,
		EntryID:     entryID,
	})
	if err != nil {
		return respondError(c, "toggle_upvote", entryID, err)
	}

	if result.Action == models.UpvoteRemoved {
		return c.JSON(fiber.Map{
			"message":     "Upvote removed",
			"upvoteCount": result.Count,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Upvote added",
		"upvoteCount": result.Count,
	})
}
