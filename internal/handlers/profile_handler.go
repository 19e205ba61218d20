package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"milgapo/scholarship-matcher/internal/repositories"
	"milgapo/scholarship-matcher/internal/services"
)

type ProfileHandler struct {
	userRepo repositories.UserRepository
	storage  services.StorageService
}

func NewProfileHandler(userRepo repositories.UserRepository, storage services.StorageService) *ProfileHandler {
	return &ProfileHandler{
		userRepo: userRepo,
		storage:  storage,
	}
}

// HandleUploadImage handles POST /profile/image
func (h *ProfileHandler) HandleUploadImage(c *fiber.Ctx) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "image file is required",
		})
	}

	filename, err := h.storage.SaveProfileImage(userID, file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.userRepo.UpdateProfileImage(userID, filename); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile image",
		})
	}

	return c.JSON(fiber.Map{"profile_image": filename})
}
