package branches

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"translation-manager/core/diffmerge"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, dbName string) (*fiber.App, *Service) {
	app := fiber.New()
	svc, _ := setupService(t, dbName)
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestHandleCreateSpace(t *testing.T) {
	app, _ := setupTestApp(t, "db_http_create_space")

	status, body := doJSON(t, app, "POST", "/spaces", map[string]string{"name": "website"})

	assert.Equal(t, 201, status)
	space := body["space"].(map[string]any)
	branch := body["default_branch"].(map[string]any)
	assert.Equal(t, "website", space["name"])
	assert.Equal(t, "main", branch["name"])
	assert.Equal(t, true, branch["is_default"])
}

func TestHandleCreateSpaceRequiresName(t *testing.T) {
	app, _ := setupTestApp(t, "db_http_space_noname")

	status, body := doJSON(t, app, "POST", "/spaces", map[string]string{})

	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "name")
}

func TestHandleGetSpaceNotFound(t *testing.T) {
	app, _ := setupTestApp(t, "db_http_space_404")

	status, _ := doJSON(t, app, "GET", "/spaces/does-not-exist", nil)

	assert.Equal(t, 404, status)
}

func TestHandleBranchLifecycle(t *testing.T) {
	app, svc := setupTestApp(t, "db_http_branch")
	ctx := context.Background()

	space, main, err := svc.CreateSpace(ctx, "website", "main")
	require.NoError(t, err)
	require.NoError(t, svc.SetTranslation(ctx, main.ID, "btn.save", "en", "Save", ""))

	status, created := doJSON(t, app, "POST", "/spaces/"+space.ID+"/branches", map[string]string{"name": "feature-x"})
	require.Equal(t, 201, status)
	branchID := created["id"].(string)

	status, state := doJSON(t, app, "GET", "/branches/"+branchID+"/keys", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Save", state["btn.save"].(map[string]any)["en"])

	status, _ = doJSON(t, app, "DELETE", "/branches/"+branchID, nil)
	assert.Equal(t, 204, status)

	status, _ = doJSON(t, app, "GET", "/branches/"+branchID+"/keys", nil)
	assert.Equal(t, 404, status)
}

func TestHandleDeleteDefaultBranchRejected(t *testing.T) {
	app, svc := setupTestApp(t, "db_http_delete_default")

	_, main, err := svc.CreateSpace(context.Background(), "website", "main")
	require.NoError(t, err)

	status, body := doJSON(t, app, "DELETE", "/branches/"+main.ID, nil)

	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "default branch")
}

func TestHandleSetAndDeleteTranslation(t *testing.T) {
	app, svc := setupTestApp(t, "db_http_translation")

	_, main, err := svc.CreateSpace(context.Background(), "website", "main")
	require.NoError(t, err)

	status, _ := doJSON(t, app, "PUT", "/branches/"+main.ID+"/keys/btn.save/en", map[string]string{"value": "Save"})
	assert.Equal(t, 204, status)

	status, state := doJSON(t, app, "GET", "/branches/"+main.ID+"/keys", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Save", state["btn.save"].(map[string]any)["en"])

	status, _ = doJSON(t, app, "DELETE", "/branches/"+main.ID+"/keys/btn.save", nil)
	assert.Equal(t, 204, status)

	status, state = doJSON(t, app, "GET", "/branches/"+main.ID+"/keys", nil)
	assert.Equal(t, 200, status)
	assert.NotContains(t, state, "btn.save")
}

func TestHandleDiff(t *testing.T) {
	app, svc := setupTestApp(t, "db_http_diff")
	ctx := context.Background()

	space, main, err := svc.CreateSpace(ctx, "website", "main")
	require.NoError(t, err)
	require.NoError(t, svc.SetTranslation(ctx, main.ID, "btn.save", "en", "Save", ""))

	feature, err := svc.CreateBranch(ctx, space.ID, "feature-x", "")
	require.NoError(t, err)
	require.NoError(t, svc.SetTranslation(ctx, feature.ID, "btn.save", "en", "Save changes", ""))

	status, body := doJSON(t, app, "GET", "/branches/diff?source="+feature.ID+"&target="+main.ID, nil)

	assert.Equal(t, 200, status)
	modified := body["modified"].([]any)
	require.Len(t, modified, 1)
	assert.Equal(t, "btn.save", modified[0].(map[string]any)["key"])
	assert.Empty(t, body["conflicts"])
}

func TestHandleDiffRequiresParams(t *testing.T) {
	app, _ := setupTestApp(t, "db_http_diff_params")

	status, _ := doJSON(t, app, "GET", "/branches/diff?source=only", nil)

	assert.Equal(t, 400, status)
}

func TestHandleMergeConflictReturns409(t *testing.T) {
	app, svc := setupTestApp(t, "db_http_merge_conflict")
	ctx := context.Background()

	space, main, err := svc.CreateSpace(ctx, "website", "main")
	require.NoError(t, err)
	require.NoError(t, svc.SetTranslation(ctx, main.ID, "btn.save", "en", "Save", ""))

	feature, err := svc.CreateBranch(ctx, space.ID, "feature-x", "")
	require.NoError(t, err)
	require.NoError(t, svc.SetTranslation(ctx, feature.ID, "btn.save", "en", "Save changes", ""))
	require.NoError(t, svc.SetTranslation(ctx, main.ID, "btn.save", "en", "Save now", ""))

	status, body := doJSON(t, app, "POST", "/branches/merge", map[string]any{
		"source": feature.ID,
		"target": main.ID,
	})

	assert.Equal(t, 409, status)
	assert.Equal(t, string(diffmerge.StateAwaitingResolution), body["state"])
	assert.NotEmpty(t, body["conflicts"])

	// Retry with a resolution succeeds.
	status, body = doJSON(t, app, "POST", "/branches/merge", map[string]any{
		"source": feature.ID,
		"target": main.ID,
		"resolutions": []map[string]string{
			{"key": "btn.save", "language": "en", "kind": "useSource"},
		},
	})

	assert.Equal(t, 200, status)
	assert.Equal(t, string(diffmerge.StateApplied), body["state"])
	assert.Equal(t, true, body["success"])
}

func TestHandleMergeRequiresBranches(t *testing.T) {
	app, _ := setupTestApp(t, "db_http_merge_params")

	status, _ := doJSON(t, app, "POST", "/branches/merge", map[string]string{"source": "only"})

	assert.Equal(t, 400, status)
}

func TestHandleMergeDryRun(t *testing.T) {
	app, svc := setupTestApp(t, "db_http_merge_dry")
	ctx := context.Background()

	space, main, err := svc.CreateSpace(ctx, "website", "main")
	require.NoError(t, err)

	feature, err := svc.CreateBranch(ctx, space.ID, "feature-x", "")
	require.NoError(t, err)
	require.NoError(t, svc.SetTranslation(ctx, feature.ID, "btn.new", "en", "New", ""))

	status, body := doJSON(t, app, "POST", "/branches/merge", map[string]any{
		"source":  feature.ID,
		"target":  main.ID,
		"dry_run": true,
	})

	assert.Equal(t, 200, status)
	assert.Equal(t, string(diffmerge.StateComputed), body["state"])
	assert.Equal(t, float64(1), body["merged_count"])

	state, err := svc.BranchState(ctx, main.ID)
	require.NoError(t, err)
	assert.NotContains(t, state, "btn.new")
}
