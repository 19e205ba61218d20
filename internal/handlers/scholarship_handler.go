package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"milgapo/scholarship-matcher/internal/models"
	"milgapo/scholarship-matcher/internal/repositories"
	"milgapo/scholarship-matcher/internal/services"
)

type ScholarshipHandler struct {
	notion            services.NotionService
	matcher           services.MatcherService
	questionnaireRepo repositories.QuestionnaireRepository
	matchRepo         repositories.UserScholarshipRepository
}

func NewScholarshipHandler(
	notion services.NotionService,
	matcher services.MatcherService,
	questionnaireRepo repositories.QuestionnaireRepository,
	matchRepo repositories.UserScholarshipRepository,
) *ScholarshipHandler {
	return &ScholarshipHandler{
		notion:            notion,
		matcher:           matcher,
		questionnaireRepo: questionnaireRepo,
		matchRepo:         matchRepo,
	}
}

// HandleCatalog handles GET /scholarships: the full catalog, hard-filtered by
// eligibility when the user has a questionnaire. A fetch failure returns the
// localized message with an empty list, never a 5xx.
func (h *ScholarshipHandler) HandleCatalog(c *fiber.Ctx) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	catalog, err := h.notion.FetchCatalog(c.Context())
	if err != nil {
		return c.JSON(models.CatalogResponse{Scholarships: []models.CatalogRecord{}, Error: err.Error()})
	}

	questionnaire, err := h.questionnaireRepo.FindByUserID(userID)
	if err == nil {
		profile := questionnaire.MatchProfile()
		eligible := make([]models.CatalogRecord, 0, len(catalog))
		for _, record := range catalog {
			requirements := record.Requirements
			if services.IsEligible(&requirements, &profile) {
				eligible = append(eligible, record)
			}
		}
		catalog = eligible
	}

	return c.JSON(models.CatalogResponse{Scholarships: catalog})
}

func matchLevel(score int) string {
	switch {
	case score >= 6:
		return "high"
	case score >= 3:
		return "medium"
	default:
		return "low"
	}
}

// HandleMyScholarships handles GET /my-scholarships: the stored matches,
// minus zero-score rows and scholarships the user is hard-ineligible for.
func (h *ScholarshipHandler) HandleMyScholarships(c *fiber.Ctx) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	records, err := h.matchRepo.FindByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load scholarships",
		})
	}

	var profile *models.MatchProfile
	requirementsByKey := map[string]models.Requirements{}
	if questionnaire, err := h.questionnaireRepo.FindByUserID(userID); err == nil {
		converted := questionnaire.MatchProfile()
		profile = &converted
		if catalog, err := h.notion.FetchCatalog(c.Context()); err == nil {
			for _, record := range catalog {
				requirementsByKey[record.ID] = record.Requirements
			}
		}
	}

	items := make([]models.MatchItem, 0, len(records))
	for _, record := range records {
		if record.MatchScore == 0 {
			continue
		}
		if requirements, ok := requirementsByKey[record.ScholarshipKey]; ok {
			if !services.IsEligible(&requirements, profile) {
				continue
			}
		}
		items = append(items, models.MatchItem{
			ID:            record.ID.String(),
			Title:         record.ScholarshipTitle,
			Link:          record.ScholarshipLink,
			Score:         record.MatchScore,
			Level:         matchLevel(record.MatchScore),
			Reasons:       record.ReasonList(),
			Status:        string(record.Status),
			AlertsEnabled: record.AlertsEnabled,
		})
	}

	return c.JSON(fiber.Map{"scholarships": items})
}

// HandleUpdate handles POST /my-scholarships/:id: status and alert toggle.
func (h *ScholarshipHandler) HandleUpdate(c *fiber.Ctx) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid scholarship id",
		})
	}

	var req models.ScholarshipUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	status := models.ScholarshipStatus(req.Status)
	switch status {
	case models.StatusInterested, models.StatusApplied, models.StatusAccepted, models.StatusNotInterested:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
		})
	}

	if err := h.matchRepo.UpdateStatus(userID, recordID, status, req.AlertsEnabled); err != nil {
		if errors.Is(err, repositories.ErrScholarshipNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Scholarship record not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update scholarship",
		})
	}

	return c.JSON(fiber.Map{"updated": true})
}

// HandleRefresh handles POST /my-scholarships/refresh: recompute matches for
// the current questionnaire.
func (h *ScholarshipHandler) HandleRefresh(c *fiber.Ctx) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	questionnaire, err := h.questionnaireRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrQuestionnaireNotFound) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "יש למלא שאלון לפני רענון התאמות.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load questionnaire",
		})
	}

	matches, err := h.matcher.RefreshMatches(c.Context(), userID, questionnaire.MatchProfile())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"refreshed":   true,
		"match_count": len(matches),
	})
}
