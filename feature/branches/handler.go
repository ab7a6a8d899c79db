package branches

import (
	"errors"

	"translation-manager/core/diffmerge"
	"translation-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for spaces, branches, and diff/merge.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the branch routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	spaces := app.Group("/spaces")
	spaces.Post("/", h.HandleCreateSpace)
	spaces.Get("/", h.HandleListSpaces)
	spaces.Get("/:id", h.HandleGetSpace)
	spaces.Post("/:id/branches", h.HandleCreateBranch)
	spaces.Get("/:id/branches", h.HandleListBranches)

	branchGroup := app.Group("/branches")
	branchGroup.Get("/diff", h.HandleDiff)
	branchGroup.Post("/merge", h.HandleMerge)
	branchGroup.Delete("/:id", h.HandleDeleteBranch)
	branchGroup.Get("/:id/keys", h.HandleGetKeys)
	branchGroup.Put("/:id/keys/:key/:lang", h.HandleSetTranslation)
	branchGroup.Delete("/:id/keys/:key", h.HandleDeleteKey)
	branchGroup.Post("/:id/export", h.HandleExport)
}

type createSpaceRequest struct {
	Name          string `json:"name"`
	DefaultBranch string `json:"default_branch"`
}

// HandleCreateSpace creates a space with its default branch.
// @Summary Create Space
// @Description Create a space together with its default branch.
// @Tags spaces
// @Accept json
// @Produce json
// @Param request body createSpaceRequest true "Space"
// @Success 201 {object} map[string]any "Space and default branch"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /spaces [post]
func (h *Handler) HandleCreateSpace(c *fiber.Ctx) error {
	var req createSpaceRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	space, branch, err := h.service.CreateSpace(c.Context(), req.Name, req.DefaultBranch)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"space": space, "default_branch": branch})
}

// HandleListSpaces lists all spaces.
// @Summary List Spaces
// @Tags spaces
// @Produce json
// @Success 200 {array} models.Space
// @Router /spaces [get]
func (h *Handler) HandleListSpaces(c *fiber.Ctx) error {
	spaces, err := h.service.ListSpaces(c.Context())
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(spaces)
}

// HandleGetSpace returns a single space.
// @Summary Get Space
// @Tags spaces
// @Produce json
// @Param id path string true "Space ID"
// @Success 200 {object} models.Space
// @Failure 404 {object} map[string]string "Not Found"
// @Router /spaces/{id} [get]
func (h *Handler) HandleGetSpace(c *fiber.Ctx) error {
	space, err := h.service.GetSpace(c.Context(), c.Params("id"))
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(space)
}

type createBranchRequest struct {
	Name         string `json:"name"`
	BaseBranchID string `json:"base_branch_id"`
}

// HandleCreateBranch clones a new branch inside a space.
// @Summary Create Branch
// @Description Clone a new branch from a base branch (the space default when omitted).
// @Tags branches
// @Accept json
// @Produce json
// @Param id path string true "Space ID"
// @Param request body createBranchRequest true "Branch"
// @Success 201 {object} models.Branch
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /spaces/{id}/branches [post]
func (h *Handler) HandleCreateBranch(c *fiber.Ctx) error {
	var req createBranchRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	branch, err := h.service.CreateBranch(c.Context(), c.Params("id"), req.Name, req.BaseBranchID)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(branch)
}

// HandleListBranches lists a space's branches.
// @Summary List Branches
// @Tags branches
// @Produce json
// @Param id path string true "Space ID"
// @Success 200 {array} models.Branch
// @Router /spaces/{id}/branches [get]
func (h *Handler) HandleListBranches(c *fiber.Ctx) error {
	branchList, err := h.service.ListBranches(c.Context(), c.Params("id"))
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(branchList)
}

// HandleDeleteBranch deletes a non-default, unreferenced branch.
// @Summary Delete Branch
// @Tags branches
// @Param id path string true "Branch ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /branches/{id} [delete]
func (h *Handler) HandleDeleteBranch(c *fiber.Ctx) error {
	if err := h.service.DeleteBranch(c.Context(), c.Params("id")); err != nil {
		return h.renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetKeys returns a branch's full key/value state.
// @Summary Get Branch State
// @Tags branches
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {object} map[string]map[string]string
// @Failure 404 {object} map[string]string "Not Found"
// @Router /branches/{id}/keys [get]
func (h *Handler) HandleGetKeys(c *fiber.Ctx) error {
	state, err := h.service.BranchState(c.Context(), c.Params("id"))
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(state)
}

type setTranslationRequest struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// HandleSetTranslation sets the value of a (key, language) pair.
// @Summary Set Translation
// @Tags branches
// @Accept json
// @Param id path string true "Branch ID"
// @Param key path string true "Key name"
// @Param lang path string true "Language code"
// @Param request body setTranslationRequest true "Value"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /branches/{id}/keys/{key}/{lang} [put]
func (h *Handler) HandleSetTranslation(c *fiber.Ctx) error {
	var req setTranslationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	err := h.service.SetTranslation(c.Context(), c.Params("id"), c.Params("key"), c.Params("lang"), req.Value, req.Description)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteKey removes a key and all its translations from a branch.
// @Summary Delete Key
// @Tags branches
// @Param id path string true "Branch ID"
// @Param key path string true "Key name"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /branches/{id}/keys/{key} [delete]
func (h *Handler) HandleDeleteKey(c *fiber.Ctx) error {
	if err := h.service.DeleteKey(c.Context(), c.Params("id"), c.Params("key")); err != nil {
		return h.renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDiff computes the structural difference between two branches.
// @Summary Diff Branches
// @Description Compare two branches at (key, language) granularity.
// @Tags diffmerge
// @Produce json
// @Param source query string true "Source branch ID"
// @Param target query string true "Target branch ID"
// @Success 200 {object} diffmerge.DiffResult
// @Failure 404 {object} map[string]string "Not Found"
// @Router /branches/diff [get]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	source := c.Query("source")
	target := c.Query("target")
	if source == "" || target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "source and target are required"})
	}

	diff, err := h.service.Diff(c.Context(), source, target)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(diff)
}

type mergeRequest struct {
	Source             string                 `json:"source"`
	Target             string                 `json:"target"`
	Resolutions        []diffmerge.Resolution `json:"resolutions"`
	Policy             diffmerge.Policy       `json:"policy"`
	PropagateDeletions bool                   `json:"propagate_deletions"`
	DryRun             bool                   `json:"dry_run"`
}

// HandleMerge merges a source branch into a target branch.
// @Summary Merge Branches
// @Description Apply the source branch's changes to the target branch. Blocked merges return 409 with the conflict list.
// @Tags diffmerge
// @Accept json
// @Produce json
// @Param request body mergeRequest true "Merge request"
// @Success 200 {object} diffmerge.MergeResult
// @Failure 409 {object} diffmerge.MergeResult "Merge blocked by unresolved conflicts"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /branches/merge [post]
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	var req mergeRequest
	if err := c.BodyParser(&req); err != nil || req.Source == "" || req.Target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "source and target are required"})
	}

	result, err := h.service.Merge(c.Context(), req.Source, req.Target, req.Resolutions, diffmerge.MergeOptions{
		Policy:             req.Policy,
		PropagateDeletions: req.PropagateDeletions,
		DryRun:             req.DryRun,
	})

	var conflictErr *diffmerge.ConflictError
	if errors.As(err, &conflictErr) {
		// A blocked merge is the normal path when branches diverge; it is
		// rendered as structured data, not logged as a fault.
		return c.Status(fiber.StatusConflict).JSON(result)
	}
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(result)
}

// HandleExport uploads a JSON snapshot of a branch to object storage.
// @Summary Export Branch Snapshot
// @Tags branches
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {object} map[string]string "Object name"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /branches/{id}/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	objectName, err := h.service.ExportSnapshot(c.Context(), c.Params("id"))
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(fiber.Map{"object": objectName})
}

// renderError maps typed engine errors onto HTTP statuses.
func (h *Handler) renderError(c *fiber.Ctx, err error) error {
	var (
		notFound    *diffmerge.NotFoundError
		validation  *diffmerge.ValidationError
		concurrency *diffmerge.ConcurrencyError
	)
	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &concurrency):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	l := logger.WithRayID(h.service.logger, c)
	l.Error("Request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
