package server

import (
	"descubre/internal/cache"
	"descubre/internal/models"
	"descubre/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	err := cache.CacheAside(c.UserContext(), cache.UserKey(userID), &user, cache.UserTTL, func() error {
		u, err := s.userService.GetUserByID(c.UserContext(), userID)
		if err != nil {
			return err
		}
		user = *u
		return nil
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{username=string,bio=string,avatar=string} true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
		Avatar   string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateUser(c.UserContext(), userID)

	return c.JSON(user)
}

// GetMyReviews handles GET /api/users/me/reviews
// @Summary List own reviews
// @Tags users
// @Produce json
// @Success 200 {array} models.Review
// @Security BearerAuth
// @Router /users/me/reviews [get]
func (s *Server) GetMyReviews(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	reviews, err := s.reviewService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(reviews)
}

// GetMyModerationRecords handles GET /api/users/me/moderation
// @Summary List own moderation records inside the violation window
// @Tags users
// @Produce json
// @Success 200 {array} models.ModerationRecord
// @Security BearerAuth
// @Router /users/me/moderation [get]
func (s *Server) GetMyModerationRecords(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	records, err := s.moderationService.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(records)
}

// GetAllUsers handles GET /api/users
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// PromoteToAdmin handles POST /api/users/:id/promote-admin
// @Summary Grant admin privileges
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/promote-admin [post]
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	return s.setAdmin(c, true)
}

// DemoteFromAdmin handles POST /api/users/:id/demote-admin
// @Summary Revoke admin privileges
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/demote-admin [post]
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	return s.setAdmin(c, false)
}

func (s *Server) setAdmin(c *fiber.Ctx, isAdmin bool) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// The root admin cannot be demoted.
	if !isAdmin && targetID == 1 {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Cannot demote the root admin"))
	}

	user, err := s.userService.SetAdmin(c.UserContext(), targetID, isAdmin)
	if err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateUser(c.UserContext(), targetID)

	return c.JSON(user)
}
