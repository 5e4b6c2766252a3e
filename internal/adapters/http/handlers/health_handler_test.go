package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"daf-fencereg/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthApp() *fiber.App {
	config.AppConfig = &config.Config{AppMode: "dev"}

	app := fiber.New()
	h := NewHealthHandler()
	app.Get("/", h.Root)
	app.Get("/health", h.HealthCheck)
	app.Get("/api/v1", h.APIInfo)
	return app
}

func TestHealthRoot(t *testing.T) {
	app := newHealthApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "dev", body["mode"])
	assert.Equal(t, "/swagger/index.html", body["docs"])
}

func TestHealthCheck(t *testing.T) {
	app := newHealthApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "healthy", body.Checks["api"])

	// No database behind the handler here, so the check degrades.
	assert.Equal(t, "unhealthy", body.Checks["database"])
}

func TestAPIInfo(t *testing.T) {
	app := newHealthApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "1.0.0", body["version"])
}
