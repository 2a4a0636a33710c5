package server

import (
	"descubre/internal/models"
	"descubre/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPlaces handles GET /api/places
// @Summary List places
// @Description List places, optionally filtered by category
// @Tags places
// @Produce json
// @Param category query string false "Category filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Place
// @Router /places [get]
func (s *Server) GetPlaces(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	category := c.Query("category")

	places, err := s.placeService.ListPlaces(c.Context(), category, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(places)
}

// GetPlace handles GET /api/places/:id
// @Summary Get a place
// @Tags places
// @Produce json
// @Param id path int true "Place ID"
// @Success 200 {object} models.Place
// @Failure 404 {object} models.ErrorResponse
// @Router /places/{id} [get]
func (s *Server) GetPlace(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	place, err := s.placeService.GetPlace(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"place":          place,
		"average_rating": place.AverageRating(),
	})
}

// GetPlaceReviews handles GET /api/places/:id/reviews
// @Summary List reviews for a place
// @Tags places
// @Produce json
// @Param id path int true "Place ID"
// @Success 200 {array} models.Review
// @Failure 404 {object} models.ErrorResponse
// @Router /places/{id}/reviews [get]
func (s *Server) GetPlaceReviews(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	reviews, err := s.reviewService.ListByPlace(c.Context(), id, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(reviews)
}

// CreatePlace handles POST /api/places
// @Summary Create a place
// @Tags places
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,category=string,address=string,latitude=number,longitude=number} true "Place"
// @Success 201 {object} models.Place
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /places [post]
func (s *Server) CreatePlace(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Address     string  `json:"address"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	place, err := s.placeService.CreatePlace(c.UserContext(), service.CreatePlaceInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(place)
}
