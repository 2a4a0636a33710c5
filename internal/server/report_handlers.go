package server

import (
	"descubre/internal/models"
	"descubre/internal/moderation"
	"descubre/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
// @Summary File a report
// @Description Report a place, review, or user; the reason text is moderated
// @Tags reports
// @Accept json
// @Produce json
// @Param request body object{target_type=string,target_id=int,reason=string,language=string} true "Report"
// @Success 201 {object} service.ReportResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} service.ReportResult "Reason rejected by moderation"
// @Security BearerAuth
// @Router /reports [post]
func (s *Server) CreateReport(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		TargetType string `json:"target_type"`
		TargetID   uint   `json:"target_id"`
		Reason     string `json:"reason"`
		Language   string `json:"language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.TargetID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Target ID is required"))
	}

	result, err := s.reportService.CreateReport(c.UserContext(), service.CreateReportInput{
		ReporterID: userID,
		TargetType: models.ReportTargetType(req.TargetType),
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Language:   req.Language,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if result.Decision != nil && result.Decision.Action == moderation.ActionReject {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetOpenReports handles GET /api/admin/reports
// @Summary List open reports
// @Tags admin
// @Produce json
// @Success 200 {array} models.Report
// @Security BearerAuth
// @Router /admin/reports [get]
func (s *Server) GetOpenReports(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	reports, err := s.reportService.ListOpen(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(reports)
}
