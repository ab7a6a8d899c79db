package branches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"translation-manager/core/diffmerge"
	"translation-manager/feature/branches/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Compile-time check that the store satisfies the merge engine's contract.
var _ diffmerge.Store = (*Store)(nil)

// Store is the KeySet data access layer: it materializes and mutates a
// branch's full key/value state and owns the copy-on-write clone logic.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on top of the given database connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateSpace creates a space together with its default branch.
func (s *Store) CreateSpace(ctx context.Context, name, defaultBranchName string) (*models.Space, *models.Branch, error) {
	if defaultBranchName == "" {
		defaultBranchName = "main"
	}

	now := time.Now().UTC()
	space := &models.Space{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	branch := &models.Branch{
		ID:        uuid.NewString(),
		SpaceID:   space.ID,
		Name:      defaultBranchName,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(space).Error; err != nil {
			return fmt.Errorf("failed to create space: %w", err)
		}
		if err := tx.Create(branch).Error; err != nil {
			return fmt.Errorf("failed to create default branch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return space, branch, nil
}

// GetSpace returns a space by id.
func (s *Store) GetSpace(ctx context.Context, spaceID string) (*models.Space, error) {
	var space models.Space
	err := s.db.WithContext(ctx).First(&space, "id = ?", spaceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &diffmerge.NotFoundError{Resource: "space", ID: spaceID}
	}
	if err != nil {
		return nil, err
	}
	return &space, nil
}

// ListSpaces returns all spaces ordered by name.
func (s *Store) ListSpaces(ctx context.Context) ([]models.Space, error) {
	var spaces []models.Space
	if err := s.db.WithContext(ctx).Order("name").Find(&spaces).Error; err != nil {
		return nil, err
	}
	return spaces, nil
}

// GetBranch returns a branch by id.
func (s *Store) GetBranch(ctx context.Context, branchID string) (*models.Branch, error) {
	var branch models.Branch
	err := s.db.WithContext(ctx).First(&branch, "id = ?", branchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &diffmerge.NotFoundError{Resource: "branch", ID: branchID}
	}
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// ListBranches returns a space's branches ordered by name.
func (s *Store) ListBranches(ctx context.Context, spaceID string) ([]models.Branch, error) {
	var branchList []models.Branch
	if err := s.db.WithContext(ctx).Where("space_id = ?", spaceID).Order("name").Find(&branchList).Error; err != nil {
		return nil, err
	}
	return branchList, nil
}

// CreateBranch clones a new branch from a base branch. Every translation key
// and translation row of the base is copied with fresh identities inside a
// single transaction, and the cloned state is preserved as the branch's
// creation snapshot for later three-way diffs. Partial clones are never
// observable.
func (s *Store) CreateBranch(ctx context.Context, spaceID, name, baseBranchID string) (*models.Branch, error) {
	base, err := s.GetBranch(ctx, baseBranchID)
	if err != nil {
		return nil, err
	}
	if base.SpaceID != spaceID {
		return nil, &diffmerge.ValidationError{Reason: "base branch belongs to a different space"}
	}

	now := time.Now().UTC()
	branch := &models.Branch{
		ID:           uuid.NewString(),
		SpaceID:      spaceID,
		BaseBranchID: &base.ID,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(branch).Error; err != nil {
			return fmt.Errorf("failed to create branch: %w", err)
		}

		state, err := bulkClone(tx, base.ID, branch.ID, now)
		if err != nil {
			return err
		}

		snapshot, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to serialize branch snapshot: %w", err)
		}
		if err := tx.Create(&models.BranchSnapshot{
			BranchID:  branch.ID,
			State:     snapshot,
			CreatedAt: now,
		}).Error; err != nil {
			return fmt.Errorf("failed to store branch snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// bulkClone copies every key and translation row from source to the new
// branch, generating fresh identities but preserving key names, language
// codes, and values. It returns the cloned state.
func bulkClone(tx *gorm.DB, sourceBranchID, newBranchID string, now time.Time) (diffmerge.BranchState, error) {
	var keys []models.TranslationKey
	if err := tx.Where("branch_id = ?", sourceBranchID).Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("failed to load source keys: %w", err)
	}

	state := make(diffmerge.BranchState, len(keys))
	if len(keys) == 0 {
		return state, nil
	}

	keyIDs := make([]string, 0, len(keys))
	for _, k := range keys {
		keyIDs = append(keyIDs, k.ID)
	}
	var translations []models.Translation
	if err := tx.Where("key_id IN ?", keyIDs).Find(&translations).Error; err != nil {
		return nil, fmt.Errorf("failed to load source translations: %w", err)
	}

	byKeyID := make(map[string][]models.Translation, len(keys))
	for _, t := range translations {
		byKeyID[t.KeyID] = append(byKeyID[t.KeyID], t)
	}

	newKeys := make([]models.TranslationKey, 0, len(keys))
	newTranslations := make([]models.Translation, 0, len(translations))
	for _, k := range keys {
		newKey := models.TranslationKey{
			ID:          uuid.NewString(),
			BranchID:    newBranchID,
			Key:         k.Key,
			Description: k.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		newKeys = append(newKeys, newKey)

		values := make(map[string]string)
		for _, t := range byKeyID[k.ID] {
			newTranslations = append(newTranslations, models.Translation{
				ID:           uuid.NewString(),
				KeyID:        newKey.ID,
				LanguageCode: t.LanguageCode,
				Value:        t.Value,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			values[t.LanguageCode] = t.Value
		}
		state[k.Key] = values
	}

	if err := tx.CreateInBatches(newKeys, 500).Error; err != nil {
		return nil, fmt.Errorf("failed to clone keys: %w", err)
	}
	if len(newTranslations) > 0 {
		if err := tx.CreateInBatches(newTranslations, 500).Error; err != nil {
			return nil, fmt.Errorf("failed to clone translations: %w", err)
		}
	}
	return state, nil
}

// DeleteBranch removes a branch together with its keys, translations, and
// snapshot. The default branch and branches referenced by an environment
// pointer cannot be deleted. Sibling branches are untouched.
func (s *Store) DeleteBranch(ctx context.Context, branchID string) error {
	branch, err := s.GetBranch(ctx, branchID)
	if err != nil {
		return err
	}
	if branch.IsDefault {
		return &diffmerge.ValidationError{Reason: "the default branch cannot be deleted"}
	}

	var refs int64
	if err := s.db.WithContext(ctx).Model(&models.Environment{}).Where("branch_id = ?", branchID).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return &diffmerge.ValidationError{Reason: fmt.Sprintf("branch is referenced by %d environment(s)", refs)}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Model(&models.TranslationKey{}).Select("id").Where("branch_id = ?", branchID),
		).Delete(&models.Translation{}).Error; err != nil {
			return fmt.Errorf("failed to delete translations: %w", err)
		}
		if err := tx.Where("branch_id = ?", branchID).Delete(&models.TranslationKey{}).Error; err != nil {
			return fmt.Errorf("failed to delete keys: %w", err)
		}
		if err := tx.Where("branch_id = ?", branchID).Delete(&models.BranchSnapshot{}).Error; err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
		if err := tx.Delete(&models.Branch{}, "id = ?", branchID).Error; err != nil {
			return fmt.Errorf("failed to delete branch: %w", err)
		}
		return nil
	})
}

// UpsertTranslation sets the value of a (key, language) pair on a branch,
// creating the key row if necessary, and moves the branch's version forward.
func (s *Store) UpsertTranslation(ctx context.Context, branchID, keyName, language, value, description string) error {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		key, err := findOrCreateKey(tx, branchID, keyName, description, now)
		if err != nil {
			return err
		}

		var translation models.Translation
		err = tx.Where("key_id = ? AND language_code = ?", key.ID, language).First(&translation).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			translation = models.Translation{
				ID:           uuid.NewString(),
				KeyID:        key.ID,
				LanguageCode: language,
				Value:        value,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(&translation).Error; err != nil {
				return fmt.Errorf("failed to create translation: %w", err)
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&translation).Updates(map[string]any{"value": value, "updated_at": now}).Error; err != nil {
				return fmt.Errorf("failed to update translation: %w", err)
			}
		}

		return touchBranch(tx, branchID, now)
	})
}

// DeleteKey removes a key and all its translations from a branch.
func (s *Store) DeleteKey(ctx context.Context, branchID, keyName string) error {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var key models.TranslationKey
		err := tx.Where("branch_id = ? AND `key` = ?", branchID, keyName).First(&key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &diffmerge.NotFoundError{Resource: "key", ID: keyName}
		}
		if err != nil {
			return err
		}
		if err := tx.Where("key_id = ?", key.ID).Delete(&models.Translation{}).Error; err != nil {
			return fmt.Errorf("failed to delete translations: %w", err)
		}
		if err := tx.Delete(&key).Error; err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
		return touchBranch(tx, branchID, now)
	})
}

// LoadState materializes the full key/value state of a branch. The state is
// always read in its entirety: absence of a key is itself meaningful to the
// diff engine, so partial loads are never returned.
func (s *Store) LoadState(ctx context.Context, branchID string) (diffmerge.BranchState, error) {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}

	var keys []models.TranslationKey
	if err := s.db.WithContext(ctx).Where("branch_id = ?", branchID).Find(&keys).Error; err != nil {
		return nil, err
	}

	state := make(diffmerge.BranchState, len(keys))
	if len(keys) == 0 {
		return state, nil
	}

	keyIDs := make([]string, 0, len(keys))
	nameByID := make(map[string]string, len(keys))
	for _, k := range keys {
		keyIDs = append(keyIDs, k.ID)
		nameByID[k.ID] = k.Key
		state[k.Key] = map[string]string{}
	}

	var translations []models.Translation
	if err := s.db.WithContext(ctx).Where("key_id IN ?", keyIDs).Find(&translations).Error; err != nil {
		return nil, err
	}
	for _, t := range translations {
		state[nameByID[t.KeyID]][t.LanguageCode] = t.Value
	}
	return state, nil
}

// AncestorState resolves the shared-ancestor state for a branch pair from
// creation snapshots. Direct parent/child pairs use the child's snapshot;
// sibling branches cloned from the same base use the source's snapshot.
// Unrelated branches have no lineage and diff without an ancestor.
func (s *Store) AncestorState(ctx context.Context, sourceBranchID, targetBranchID string) (diffmerge.BranchState, bool, error) {
	source, err := s.GetBranch(ctx, sourceBranchID)
	if err != nil {
		return nil, false, err
	}
	target, err := s.GetBranch(ctx, targetBranchID)
	if err != nil {
		return nil, false, err
	}

	var snapshotBranchID string
	switch {
	case source.BaseBranchID != nil && *source.BaseBranchID == target.ID:
		snapshotBranchID = source.ID
	case target.BaseBranchID != nil && *target.BaseBranchID == source.ID:
		snapshotBranchID = target.ID
	case source.BaseBranchID != nil && target.BaseBranchID != nil && *source.BaseBranchID == *target.BaseBranchID:
		snapshotBranchID = source.ID
	default:
		return nil, false, nil
	}

	var snapshot models.BranchSnapshot
	err = s.db.WithContext(ctx).First(&snapshot, "branch_id = ?", snapshotBranchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Lineage is recorded but the snapshot is gone; treated as no
		// shared ancestor.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var state diffmerge.BranchState
	if err := json.Unmarshal(snapshot.State, &state); err != nil {
		return nil, false, fmt.Errorf("failed to decode branch snapshot: %w", err)
	}
	return state, true, nil
}

// BranchVersion returns the branch's optimistic concurrency marker.
func (s *Store) BranchVersion(ctx context.Context, branchID string) (diffmerge.BranchVersion, error) {
	branch, err := s.GetBranch(ctx, branchID)
	if err != nil {
		return diffmerge.BranchVersion{}, err
	}
	return diffmerge.BranchVersion{UpdatedAt: branch.UpdatedAt}, nil
}

// ApplyChangeSet performs all change instructions against a branch as one
// transaction. Any failure rolls the entire set back; half-applied merges
// are never observable.
func (s *Store) ApplyChangeSet(ctx context.Context, branchID string, changes []diffmerge.Change) error {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, change := range changes {
			if err := applyChange(tx, branchID, change, now); err != nil {
				return err
			}
		}
		return touchBranch(tx, branchID, now)
	})
}

// applyChange executes a single change instruction inside the transaction.
func applyChange(tx *gorm.DB, branchID string, change diffmerge.Change, now time.Time) error {
	if change.Delete && change.Language == "" {
		// Whole-key deletion (deletion propagation).
		var key models.TranslationKey
		err := tx.Where("branch_id = ? AND `key` = ?", branchID, change.Key).First(&key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("key_id = ?", key.ID).Delete(&models.Translation{}).Error; err != nil {
			return fmt.Errorf("failed to delete translations for key %s: %w", change.Key, err)
		}
		if err := tx.Delete(&key).Error; err != nil {
			return fmt.Errorf("failed to delete key %s: %w", change.Key, err)
		}
		return nil
	}

	key, err := findOrCreateKey(tx, branchID, change.Key, "", now)
	if err != nil {
		return err
	}

	var translation models.Translation
	err = tx.Where("key_id = ? AND language_code = ?", key.ID, change.Language).First(&translation).Error
	notFound := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !notFound {
		return err
	}

	if change.Delete {
		if notFound {
			return nil
		}
		if err := tx.Delete(&translation).Error; err != nil {
			return fmt.Errorf("failed to delete translation (%s, %s): %w", change.Key, change.Language, err)
		}
		return nil
	}

	if notFound {
		translation = models.Translation{
			ID:           uuid.NewString(),
			KeyID:        key.ID,
			LanguageCode: change.Language,
			Value:        change.Value,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&translation).Error; err != nil {
			return fmt.Errorf("failed to create translation (%s, %s): %w", change.Key, change.Language, err)
		}
		return nil
	}

	if err := tx.Model(&translation).Updates(map[string]any{"value": change.Value, "updated_at": now}).Error; err != nil {
		return fmt.Errorf("failed to update translation (%s, %s): %w", change.Key, change.Language, err)
	}
	return nil
}

// findOrCreateKey looks up a key row by name, creating it when missing.
func findOrCreateKey(tx *gorm.DB, branchID, keyName, description string, now time.Time) (*models.TranslationKey, error) {
	var key models.TranslationKey
	err := tx.Where("branch_id = ? AND `key` = ?", branchID, keyName).First(&key).Error
	if err == nil {
		return &key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key = models.TranslationKey{
		ID:          uuid.NewString(),
		BranchID:    branchID,
		Key:         keyName,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Create(&key).Error; err != nil {
		return nil, fmt.Errorf("failed to create key %s: %w", keyName, err)
	}
	return &key, nil
}

// touchBranch moves the branch's version marker forward.
func touchBranch(tx *gorm.DB, branchID string, now time.Time) error {
	return tx.Model(&models.Branch{}).Where("id = ?", branchID).Update("updated_at", now).Error
}
