package server

import (
	"descubre/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PreviewModeration handles POST /api/admin/moderation/preview
// @Summary Preview a moderation decision
// @Description Run the detectors against a text without persisting anything
// @Tags admin
// @Accept json
// @Produce json
// @Param request body object{text=string,language=string} true "Text to classify"
// @Success 200 {object} moderation.CheckResult
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/moderation/preview [post]
func (s *Server) PreviewModeration(c *fiber.Ctx) error {
	var req struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.moderationService.Preview(c.UserContext(), req.Text, req.Language)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// GetFlaggedRecords handles GET /api/admin/moderation/flagged
// @Summary List records queued for human review
// @Tags admin
// @Produce json
// @Success 200 {array} models.ModerationRecord
// @Security BearerAuth
// @Router /admin/moderation/flagged [get]
func (s *Server) GetFlaggedRecords(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	records, err := s.moderationService.ListFlagged(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(records)
}

// GetModerationRecord handles GET /api/admin/moderation/records/:ref
// @Summary Get one moderation record
// @Tags admin
// @Produce json
// @Param ref path string true "Record reference"
// @Success 200 {object} models.ModerationRecord
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/moderation/records/{ref} [get]
func (s *Server) GetModerationRecord(c *fiber.Ctx) error {
	ref := c.Params("ref")
	if ref == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Record reference is required"))
	}

	record, err := s.moderationService.GetRecord(c.UserContext(), ref)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(record)
}

// GetAdminUserDetail handles GET /api/admin/moderation/users/:id
// @Summary Get a user's moderation standing
// @Description Account plus trust score, violation history, and recent records
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} service.AdminUserDetail
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/moderation/users/{id} [get]
func (s *Server) GetAdminUserDetail(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.moderationService.GetAdminUserDetail(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(detail)
}
