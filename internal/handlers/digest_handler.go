package handlers

import (
	"github.com/gofiber/fiber/v2"

	"milgapo/scholarship-matcher/internal/services"
)

type DigestHandler struct {
	digest services.DigestService
}

func NewDigestHandler(digest services.DigestService) *DigestHandler {
	return &DigestHandler{digest: digest}
}

// HandleRun handles POST /admin/digest/run. force=1 bypasses the time-of-day
// and once-per-day gates; test=1 reroutes delivery to the admin test address.
func (h *DigestHandler) HandleRun(c *fiber.Ctx) error {
	force := c.Query("force") == "1"
	isTest := c.Query("test") == "1"

	result, err := h.digest.RunDaily(c.Context(), force, isTest)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to run digest",
		})
	}

	return c.JSON(result)
}
