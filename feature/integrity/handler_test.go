package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleSchemaCheck(t *testing.T) {
	db := setupSQLiteDB(t, "db_integrity_http", true)
	app := fiber.New()
	NewHandler(NewService(db, zap.NewNop())).RegisterRoutes(app)

	req := httptest.NewRequest("GET", "/integrity", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var reports []TableReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reports))
	require.Len(t, reports, 6)
	for _, report := range reports {
		assert.Equal(t, "PASS", report.Status)
	}
}

func TestHandleSchemaCheckWithoutDatabase(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(nil, zap.NewNop())).RegisterRoutes(app)

	req := httptest.NewRequest("GET", "/integrity", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
