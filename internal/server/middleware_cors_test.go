package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"descubre/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webOrigin = "http://localhost:5173"

func newCORSApp(t *testing.T) *fiber.App {
	t.Helper()
	srv := &Server{config: &config.Config{AllowedOrigins: webOrigin}}
	app := fiber.New()
	srv.SetupMiddleware(app)
	return app
}

func corsRequest(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Origin", webOrigin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// The web client must be able to read the 429 body (it renders the retry
// message), so the throttled response needs CORS headers like any other.
func TestSetupMiddleware_RateLimitedResponseIncludesCORSHeaders(t *testing.T) {
	app := newCORSApp(t)
	app.Get("/api/places", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 100; i++ {
		resp := corsRequest(t, app, http.MethodGet, "/api/places")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp := corsRequest(t, app, http.MethodGet, "/api/places")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, webOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSetupMiddleware_PreflightBypassesLimiter(t *testing.T) {
	app := newCORSApp(t)
	app.Post("/api/reviews", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 100; i++ {
		resp := corsRequest(t, app, http.MethodPost, "/api/reviews")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp := corsRequest(t, app, http.MethodPost, "/api/reviews")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode, "submissions are now throttled")

	// The browser's preflight must not consume or be blocked by the limiter,
	// or a throttled user could never see the structured 429 at all.
	preflight := httptest.NewRequest(http.MethodOptions, "/api/reviews", nil)
	preflight.Header.Set("Origin", webOrigin)
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	preflight.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	presp, err := app.Test(preflight, -1)
	require.NoError(t, err)
	defer func() { _ = presp.Body.Close() }()

	assert.Equal(t, fiber.StatusNoContent, presp.StatusCode)
	assert.Equal(t, webOrigin, presp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, presp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}
