package server

import (
	"descubre/internal/cache"
	"descubre/internal/models"
	"descubre/internal/moderation"

	"github.com/gofiber/fiber/v2"
)

// SubmitAppeal handles POST /api/appeals
// @Summary Submit an appeal
// @Description Open an appeal against a mute or ban; one pending appeal per account
// @Tags appeals
// @Accept json
// @Produce json
// @Param request body object{type=string,reason=string,record_ref=string} true "Appeal"
// @Success 201 {object} models.Appeal
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "A pending appeal already exists"
// @Security BearerAuth
// @Router /appeals [post]
func (s *Server) SubmitAppeal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Type      string  `json:"type"`
		Reason    string  `json:"reason"`
		RecordRef *string `json:"record_ref,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	appeal, err := s.resolver.Submit(c.UserContext(), moderation.SubmitInput{
		UserID:    userID,
		Type:      models.AppealType(req.Type),
		Reason:    req.Reason,
		RecordRef: req.RecordRef,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidatePendingAppeals(c.UserContext())

	return c.Status(fiber.StatusCreated).JSON(appeal)
}

// GetMyAppeals handles GET /api/appeals/me
// @Summary List own appeals
// @Tags appeals
// @Produce json
// @Success 200 {array} models.Appeal
// @Security BearerAuth
// @Router /appeals/me [get]
func (s *Server) GetMyAppeals(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	appeals, err := s.resolver.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(appeals)
}

// GetPendingAppeals handles GET /api/admin/appeals
// @Summary List pending appeals
// @Tags admin
// @Produce json
// @Success 200 {array} models.Appeal
// @Security BearerAuth
// @Router /admin/appeals [get]
func (s *Server) GetPendingAppeals(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	// Only the default first page is worth caching; deeper pages go straight
	// to the store.
	if page.Offset != 0 {
		appeals, err := s.resolver.ListPending(c.UserContext(), page.Limit, page.Offset)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(appeals)
	}

	var appeals []models.Appeal
	err := cache.CacheAside(c.UserContext(), cache.PendingAppealsKey, &appeals, cache.PendingTTL, func() error {
		list, err := s.resolver.ListPending(c.UserContext(), page.Limit, 0)
		if err != nil {
			return err
		}
		appeals = list
		return nil
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(appeals)
}

// ResolveAppeal handles POST /api/admin/appeals/:ref/resolve
// @Summary Resolve an appeal
// @Description Approve or reject a pending appeal; approval lifts the sanction
// @Tags admin
// @Accept json
// @Produce json
// @Param ref path string true "Appeal reference"
// @Param request body object{approve=bool,response=string,reset_strikes=bool} true "Verdict"
// @Success 200 {object} models.Appeal
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Appeal already resolved"
// @Security BearerAuth
// @Router /admin/appeals/{ref}/resolve [post]
func (s *Server) ResolveAppeal(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)

	ref := c.Params("ref")
	if ref == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Appeal reference is required"))
	}

	var req struct {
		Approve      bool   `json:"approve"`
		Response     string `json:"response"`
		ResetStrikes bool   `json:"reset_strikes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	appeal, err := s.resolver.Resolve(c.UserContext(), moderation.ResolveInput{
		Ref:          ref,
		AdminID:      adminID,
		Approve:      req.Approve,
		Response:     req.Response,
		ResetStrikes: req.ResetStrikes,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidatePendingAppeals(c.UserContext())
	cache.InvalidateUser(c.UserContext(), appeal.UserID)

	return c.JSON(appeal)
}
