package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"milgapo/scholarship-matcher/internal/models"
	"milgapo/scholarship-matcher/internal/repositories"
	"milgapo/scholarship-matcher/internal/services"
)

type QuestionnaireHandler struct {
	questionnaireRepo repositories.QuestionnaireRepository
	matcher           services.MatcherService
}

func NewQuestionnaireHandler(
	questionnaireRepo repositories.QuestionnaireRepository,
	matcher services.MatcherService,
) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		questionnaireRepo: questionnaireRepo,
		matcher:           matcher,
	}
}

// HandleGet handles GET /questionnaire
func (h *QuestionnaireHandler) HandleGet(c *fiber.Ctx) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	questionnaire, err := h.questionnaireRepo.FindByUserID(userID)
	if err != nil {
		if err == repositories.ErrQuestionnaireNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "questionnaire not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load questionnaire",
		})
	}

	return c.JSON(fiber.Map{
		"questionnaire": questionnaire,
		"populations":   questionnaire.PopulationList(),
	})
}

// HandleSubmit handles PUT /questionnaire: save the answers, then recompute
// and persist matches. A catalog outage does not lose the questionnaire; the
// localized fetch message is returned alongside the saved answers.
func (h *QuestionnaireHandler) HandleSubmit(c *fiber.Ctx) error {
	userID, err := userIDFromRequest(c)
	if err != nil {
		return err
	}

	var req models.QuestionnaireRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.StudyStatus == "" || req.StudyField == "" || req.MilitaryStatus == "" ||
		req.VolunteerWillingness == "" || req.ScholarshipDurationPreference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing required questionnaire fields",
		})
	}

	populations, err := json.Marshal(req.Populations)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid populations value",
		})
	}

	questionnaire := &models.Questionnaire{
		UserID:                        userID,
		StudyStatus:                   req.StudyStatus,
		StudyField:                    req.StudyField,
		Institution:                   req.Institution,
		MilitaryStatus:                req.MilitaryStatus,
		Populations:                   string(populations),
		WorkStatus:                    req.WorkStatus,
		VolunteerWillingness:          req.VolunteerWillingness,
		ScholarshipDurationPreference: req.ScholarshipDurationPreference,
	}

	if err := h.questionnaireRepo.Upsert(questionnaire); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save questionnaire",
		})
	}

	response := models.QuestionnaireResponse{Saved: true}
	matches, err := h.matcher.RefreshMatches(c.Context(), userID, questionnaire.MatchProfile())
	if err != nil {
		response.MatchesError = err.Error()
	} else {
		response.MatchCount = len(matches)
	}

	return c.JSON(response)
}
