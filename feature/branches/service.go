package branches

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"translation-manager/core/diffmerge"
	"translation-manager/core/storage"
	"translation-manager/feature/branches/models"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles space and branch operations and fronts the diff/merge engine.
type Service struct {
	store  *Store
	engine *diffmerge.Engine
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new branches service.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	store := NewStore(db)
	return &Service{
		store:  store,
		engine: diffmerge.NewEngine(store, logger),
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Store exposes the underlying data access layer.
func (s *Service) Store() *Store {
	return s.store
}

// CreateSpace creates a space with its default branch.
func (s *Service) CreateSpace(ctx context.Context, name, defaultBranchName string) (*models.Space, *models.Branch, error) {
	return s.store.CreateSpace(ctx, name, defaultBranchName)
}

// GetSpace returns a space by id.
func (s *Service) GetSpace(ctx context.Context, spaceID string) (*models.Space, error) {
	return s.store.GetSpace(ctx, spaceID)
}

// ListSpaces returns all spaces.
func (s *Service) ListSpaces(ctx context.Context) ([]models.Space, error) {
	return s.store.ListSpaces(ctx)
}

// CreateBranch clones a branch from a base branch. When no base is given the
// space's default branch is used.
func (s *Service) CreateBranch(ctx context.Context, spaceID, name, baseBranchID string) (*models.Branch, error) {
	if baseBranchID == "" {
		branchList, err := s.store.ListBranches(ctx, spaceID)
		if err != nil {
			return nil, err
		}
		for _, b := range branchList {
			if b.IsDefault {
				baseBranchID = b.ID
				break
			}
		}
		if baseBranchID == "" {
			return nil, &diffmerge.NotFoundError{Resource: "default branch for space", ID: spaceID}
		}
	}
	return s.store.CreateBranch(ctx, spaceID, name, baseBranchID)
}

// ListBranches returns a space's branches.
func (s *Service) ListBranches(ctx context.Context, spaceID string) ([]models.Branch, error) {
	return s.store.ListBranches(ctx, spaceID)
}

// DeleteBranch removes a branch (unless it is the default or referenced by
// an environment).
func (s *Service) DeleteBranch(ctx context.Context, branchID string) error {
	return s.store.DeleteBranch(ctx, branchID)
}

// BranchState returns the full key/value state of a branch.
func (s *Service) BranchState(ctx context.Context, branchID string) (diffmerge.BranchState, error) {
	return s.store.LoadState(ctx, branchID)
}

// SetTranslation sets the value of a (key, language) pair on a branch.
func (s *Service) SetTranslation(ctx context.Context, branchID, key, language, value, description string) error {
	return s.store.UpsertTranslation(ctx, branchID, key, language, value, description)
}

// DeleteKey removes a key and all its translations from a branch.
func (s *Service) DeleteKey(ctx context.Context, branchID, key string) error {
	return s.store.DeleteKey(ctx, branchID, key)
}

// Diff computes the structural difference between two branches. Read-only.
func (s *Service) Diff(ctx context.Context, sourceBranchID, targetBranchID string) (*diffmerge.DiffResult, error) {
	return s.engine.DiffBranches(ctx, sourceBranchID, targetBranchID)
}

// Merge applies the source branch's changes to the target branch.
func (s *Service) Merge(ctx context.Context, sourceBranchID, targetBranchID string, resolutions []diffmerge.Resolution, opts diffmerge.MergeOptions) (*diffmerge.MergeResult, error) {
	return s.engine.Merge(ctx, sourceBranchID, targetBranchID, resolutions, opts)
}

// ExportSnapshot serializes a branch's full state to JSON and uploads it to
// object storage. Returns the object name.
func (s *Service) ExportSnapshot(ctx context.Context, branchID string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	branch, err := s.store.GetBranch(ctx, branchID)
	if err != nil {
		return "", err
	}
	state, err := s.store.LoadState(ctx, branchID)
	if err != nil {
		return "", err
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize branch state: %w", err)
	}

	objectName := fmt.Sprintf("exports/%s/%s-%s.json", branch.SpaceID, branch.Name, time.Now().UTC().Format("20060102T150405Z"))
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	s.logger.Info("Branch snapshot exported",
		zap.String("branch", branch.Name),
		zap.String("object", objectName),
		zap.Int("keys", len(state)),
	)
	return objectName, nil
}
