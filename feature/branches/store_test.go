package branches

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"translation-manager/core/diffmerge"
	"translation-manager/feature/branches/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite DB with the full schema.
func setupTestDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

// seedSpace creates a space with its default branch.
func seedSpace(t *testing.T, store *Store) (*models.Space, *models.Branch) {
	space, branch, err := store.CreateSpace(context.Background(), "website", "main")
	require.NoError(t, err)
	return space, branch
}

func TestCreateSpaceCreatesDefaultBranch(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_create_space"))

	space, branch, err := store.CreateSpace(context.Background(), "website", "")
	require.NoError(t, err)

	assert.Equal(t, "website", space.Name)
	assert.Equal(t, "main", branch.Name)
	assert.True(t, branch.IsDefault)
	assert.Equal(t, space.ID, branch.SpaceID)
	assert.Nil(t, branch.BaseBranchID)
}

func TestGetSpaceNotFound(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_space_missing"))

	_, err := store.GetSpace(context.Background(), uuid.NewString())

	var nferr *diffmerge.NotFoundError
	assert.True(t, errors.As(err, &nferr))
	assert.Equal(t, "space", nferr.Resource)
}

func TestUpsertAndLoadState(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_upsert_load"))
	_, branch := seedSpace(t, store)
	ctx := context.Background()

	require.NoError(t, store.UpsertTranslation(ctx, branch.ID, "btn.save", "en", "Save", "Save button label"))
	require.NoError(t, store.UpsertTranslation(ctx, branch.ID, "btn.save", "de", "Speichern", ""))
	require.NoError(t, store.UpsertTranslation(ctx, branch.ID, "btn.cancel", "en", "Cancel", ""))
	// Empty string is a real value, not absence.
	require.NoError(t, store.UpsertTranslation(ctx, branch.ID, "msg.hint", "en", "", ""))

	state, err := store.LoadState(ctx, branch.ID)
	require.NoError(t, err)

	assert.Equal(t, diffmerge.BranchState{
		"btn.save":   {"en": "Save", "de": "Speichern"},
		"btn.cancel": {"en": "Cancel"},
		"msg.hint":   {"en": ""},
	}, state)
}

func TestUpsertTranslationOverwrites(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_upsert_twice"))
	_, branch := seedSpace(t, store)
	ctx := context.Background()

	require.NoError(t, store.UpsertTranslation(ctx, branch.ID, "btn.save", "en", "Save", ""))
	require.NoError(t, store.UpsertTranslation(ctx, branch.ID, "btn.save", "en", "Save changes", ""))

	state, err := store.LoadState(ctx, branch.ID)
	require.NoError(t, err)
	assert.Equal(t, "Save changes", state["btn.save"]["en"])

	// Still exactly one translation row for the pair.
	var count int64
	require.NoError(t, store.db.Model(&models.Translation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertTranslationMovesVersionForward(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_version"))
	_, branch := seedSpace(t, store)
	ctx := context.Background()

	before, err := store.BranchVersion(ctx, branch.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.UpsertTranslation(ctx, branch.ID, "btn.save", "en", "Save", ""))

	after, err := store.BranchVersion(ctx, branch.ID)
	require.NoError(t, err)
	assert.False(t, after.Equal(before))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestCreateBranchClonesStateIsolated(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_clone"))
	space, main := seedSpace(t, store)
	ctx := context.Background()

	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.save", "en", "Save", ""))
	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.save", "de", "Speichern", ""))

	feature, err := store.CreateBranch(ctx, space.ID, "feature-x", main.ID)
	require.NoError(t, err)
	require.NotNil(t, feature.BaseBranchID)
	assert.Equal(t, main.ID, *feature.BaseBranchID)

	cloned, err := store.LoadState(ctx, feature.ID)
	require.NoError(t, err)
	assert.Equal(t, diffmerge.BranchState{"btn.save": {"en": "Save", "de": "Speichern"}}, cloned)

	// Edits on the clone never leak into the base, and vice versa.
	require.NoError(t, store.UpsertTranslation(ctx, feature.ID, "btn.save", "en", "Save changes", ""))
	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.new", "en", "New", ""))

	mainState, err := store.LoadState(ctx, main.ID)
	require.NoError(t, err)
	assert.Equal(t, "Save", mainState["btn.save"]["en"])
	assert.NotContains(t, mainState, "feature-only")

	featureState, err := store.LoadState(ctx, feature.ID)
	require.NoError(t, err)
	assert.Equal(t, "Save changes", featureState["btn.save"]["en"])
	assert.NotContains(t, featureState, "btn.new")
}

func TestCreateBranchRejectsForeignBase(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_foreign_base"))
	_, mainA := seedSpace(t, store)

	spaceB, _, err := store.CreateSpace(context.Background(), "mobile-app", "main")
	require.NoError(t, err)

	_, err = store.CreateBranch(context.Background(), spaceB.ID, "feature-x", mainA.ID)

	var verr *diffmerge.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestAncestorStateParentChild(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_ancestor_pc"))
	space, main := seedSpace(t, store)
	ctx := context.Background()

	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.save", "en", "Save", ""))
	feature, err := store.CreateBranch(ctx, space.ID, "feature-x", main.ID)
	require.NoError(t, err)

	// Both sides move on after the split; the ancestor stays frozen at the
	// clone-time value.
	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.save", "en", "Save now", ""))
	require.NoError(t, store.UpsertTranslation(ctx, feature.ID, "btn.save", "en", "Save changes", ""))

	ancestor, hasLineage, err := store.AncestorState(ctx, feature.ID, main.ID)
	require.NoError(t, err)
	assert.True(t, hasLineage)
	assert.Equal(t, "Save", ancestor["btn.save"]["en"])

	// Direction does not matter for lineage.
	ancestor, hasLineage, err = store.AncestorState(ctx, main.ID, feature.ID)
	require.NoError(t, err)
	assert.True(t, hasLineage)
	assert.Equal(t, "Save", ancestor["btn.save"]["en"])
}

func TestAncestorStateSiblings(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_ancestor_sib"))
	space, main := seedSpace(t, store)
	ctx := context.Background()

	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.save", "en", "Save", ""))

	left, err := store.CreateBranch(ctx, space.ID, "feature-left", main.ID)
	require.NoError(t, err)
	right, err := store.CreateBranch(ctx, space.ID, "feature-right", main.ID)
	require.NoError(t, err)

	ancestor, hasLineage, err := store.AncestorState(ctx, left.ID, right.ID)
	require.NoError(t, err)
	assert.True(t, hasLineage)
	assert.Equal(t, "Save", ancestor["btn.save"]["en"])
}

func TestAncestorStateUnrelatedBranches(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_ancestor_none"))
	_, mainA := seedSpace(t, store)

	_, mainB, err := store.CreateSpace(context.Background(), "mobile-app", "main")
	require.NoError(t, err)

	_, hasLineage, err := store.AncestorState(context.Background(), mainA.ID, mainB.ID)
	require.NoError(t, err)
	assert.False(t, hasLineage)
}

func TestDeleteBranchRefusesDefault(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_delete_default"))
	_, main := seedSpace(t, store)

	err := store.DeleteBranch(context.Background(), main.ID)

	var verr *diffmerge.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), "default branch")
}

func TestDeleteBranchRefusesEnvironmentReference(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_delete_env"))
	space, main := seedSpace(t, store)
	ctx := context.Background()

	feature, err := store.CreateBranch(ctx, space.ID, "staging-content", main.ID)
	require.NoError(t, err)

	env := models.Environment{
		ID:        uuid.NewString(),
		SpaceID:   space.ID,
		Name:      "staging",
		BranchID:  feature.ID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.db.Create(&env).Error)

	err = store.DeleteBranch(ctx, feature.ID)

	var verr *diffmerge.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), "environment")
}

func TestDeleteBranchRemovesAllRows(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_delete_rows"))
	space, main := seedSpace(t, store)
	ctx := context.Background()

	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.save", "en", "Save", ""))
	feature, err := store.CreateBranch(ctx, space.ID, "feature-x", main.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteBranch(ctx, feature.ID))

	_, err = store.GetBranch(ctx, feature.ID)
	var nferr *diffmerge.NotFoundError
	assert.True(t, errors.As(err, &nferr))

	var keys, translations, snapshots int64
	require.NoError(t, store.db.Model(&models.TranslationKey{}).Where("branch_id = ?", feature.ID).Count(&keys).Error)
	require.NoError(t, store.db.Model(&models.BranchSnapshot{}).Where("branch_id = ?", feature.ID).Count(&snapshots).Error)
	require.NoError(t, store.db.Model(&models.Translation{}).Count(&translations).Error)
	assert.Zero(t, keys)
	assert.Zero(t, snapshots)

	// The base branch's rows survive.
	mainState, err := store.LoadState(ctx, main.ID)
	require.NoError(t, err)
	assert.Equal(t, "Save", mainState["btn.save"]["en"])
	assert.Equal(t, int64(1), translations)
}

func TestDeleteKeyRemovesTranslations(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_delete_key"))
	_, main := seedSpace(t, store)
	ctx := context.Background()

	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.save", "en", "Save", ""))
	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.save", "de", "Speichern", ""))
	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.ok", "en", "OK", ""))

	require.NoError(t, store.DeleteKey(ctx, main.ID, "btn.save"))

	state, err := store.LoadState(ctx, main.ID)
	require.NoError(t, err)
	assert.Equal(t, diffmerge.BranchState{"btn.ok": {"en": "OK"}}, state)
}

func TestDeleteKeyNotFound(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_delete_key_missing"))
	_, main := seedSpace(t, store)

	err := store.DeleteKey(context.Background(), main.ID, "btn.missing")

	var nferr *diffmerge.NotFoundError
	assert.True(t, errors.As(err, &nferr))
	assert.Equal(t, "key", nferr.Resource)
}

func TestLoadStateMissingBranch(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_state_missing"))

	_, err := store.LoadState(context.Background(), uuid.NewString())

	var nferr *diffmerge.NotFoundError
	assert.True(t, errors.As(err, &nferr))
	assert.Equal(t, "branch", nferr.Resource)
}

func TestApplyChangeSet(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_apply"))
	_, main := seedSpace(t, store)
	ctx := context.Background()

	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.save", "en", "Save", ""))
	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.old", "en", "Old", ""))
	require.NoError(t, store.UpsertTranslation(ctx, main.ID, "btn.old", "de", "Alt", ""))

	changes := []diffmerge.Change{
		{Key: "btn.save", Language: "en", Value: "Save changes"},
		{Key: "btn.new", Language: "en", Value: "New"},
		{Key: "btn.save", Language: "de", Delete: true}, // no-op, pair absent
		{Key: "btn.old", Delete: true},                  // whole-key deletion
	}
	require.NoError(t, store.ApplyChangeSet(ctx, main.ID, changes))

	state, err := store.LoadState(ctx, main.ID)
	require.NoError(t, err)
	assert.Equal(t, diffmerge.BranchState{
		"btn.save": {"en": "Save changes"},
		"btn.new":  {"en": "New"},
	}, state)

	// The whole-key delete removed the orphaned translation rows too.
	var orphans int64
	require.NoError(t, store.db.Model(&models.Translation{}).
		Where("key_id NOT IN (?)", store.db.Session(&gorm.Session{NewDB: true}).Model(&models.TranslationKey{}).Select("id")).
		Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestApplyChangeSetMovesVersionForward(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_apply_version"))
	_, main := seedSpace(t, store)
	ctx := context.Background()

	before, err := store.BranchVersion(ctx, main.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.ApplyChangeSet(ctx, main.ID, []diffmerge.Change{
		{Key: "btn.save", Language: "en", Value: "Save"},
	}))

	after, err := store.BranchVersion(ctx, main.ID)
	require.NoError(t, err)
	assert.False(t, after.Equal(before))
}

func TestApplyChangeSetEmptyIsNoOp(t *testing.T) {
	store := NewStore(setupTestDB(t, "db_apply_empty"))
	_, main := seedSpace(t, store)
	ctx := context.Background()

	before, err := store.BranchVersion(ctx, main.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.ApplyChangeSet(ctx, main.ID, nil))

	after, err := store.BranchVersion(ctx, main.ID)
	require.NoError(t, err)
	assert.True(t, after.Equal(before))
}
