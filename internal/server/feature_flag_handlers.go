package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags returns the configured flags and their evaluation for the
// calling account. The web client reads the evaluated map to decide which
// surfaces to render; raw values are included so support can see the rollout
// percentages behind a user report.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
