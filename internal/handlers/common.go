package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// userIDFromRequest extracts the authenticated user's id. Authentication
// itself happens upstream; this layer only trusts the forwarded header.
func userIDFromRequest(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing X-User-ID header")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid X-User-ID header")
	}
	return userID, nil
}
