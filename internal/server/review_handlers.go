package server

import (
	"descubre/internal/models"
	"descubre/internal/moderation"
	"descubre/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReview handles POST /api/places/:id/reviews
// @Summary Create a review
// @Description Submit a review; the text runs through the moderation pipeline
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Place ID"
// @Param request body object{rating=int,text=string,language=string} true "Review"
// @Success 201 {object} service.ReviewResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} service.ReviewResult "Submission rejected by moderation"
// @Security BearerAuth
// @Router /places/{id}/reviews [post]
func (s *Server) CreateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	placeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Rating   int    `json:"rating"`
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.reviewService.CreateReview(c.UserContext(), service.CreateReviewInput{
		UserID:   userID,
		PlaceID:  placeID,
		Rating:   req.Rating,
		Text:     req.Text,
		Language: req.Language,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	// A rejected submission is not an internal error: the decision explains
	// the outcome and carries the audit record reference.
	if result.Decision != nil && result.Decision.Action == moderation.ActionReject {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
