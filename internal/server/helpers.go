package server

import (
	"errors"
	"log/slog"

	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseEntryID reads the ":id" route parameter as an entry id.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseEntryID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if !validation.ValidID(id) {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid entry ID"))
		return "", errResponseWritten
	}
	return id, nil
}

// currentUser returns the identity stored by AuthRequired.
func currentUser(c *fiber.Ctx) (userID, displayName string) {
	userID, _ = c.Locals("userID").(string)
	displayName, _ = c.Locals("displayName").(string)
	return userID, displayName
}

// statusForError maps an AppError code to its HTTP status.
func statusForError(err error) int {
	switch models.ErrorCode(err) {
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Server-side failures are
// logged with the operation, actor and target before the cause is stripped.
func respondError(c *fiber.Ctx, operation, target string, err error) error {
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		actor, _ := currentUser(c)
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("operation", operation),
			slog.String("actor", actor),
			slog.String("target", target),
			slog.String("error", err.Error()),
		)
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}
