package diffmerge

import (
	"context"

	"go.uber.org/zap"
)

// Store is the persistence interface the merge engine operates against.
// Implementations must make BulkClone-style copies and ApplyChangeSet fully
// transactional: partial writes are never observable.
type Store interface {
	// LoadState materializes the full key/value state of a branch.
	// Returns *NotFoundError when the branch does not exist.
	LoadState(ctx context.Context, branchID string) (BranchState, error)

	// AncestorState returns the shared-ancestor state for a branch pair and
	// whether the pair has any shared lineage at all.
	AncestorState(ctx context.Context, sourceBranchID, targetBranchID string) (BranchState, bool, error)

	// BranchVersion returns the branch's optimistic concurrency marker.
	BranchVersion(ctx context.Context, branchID string) (BranchVersion, error)

	// ApplyChangeSet performs all change instructions against a branch as a
	// single transaction and moves the branch's version marker forward.
	ApplyChangeSet(ctx context.Context, branchID string, changes []Change) error
}

// Engine orchestrates diff computation, resolution validation, and the
// transactional application of a merge.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine creates a merge engine on top of the given store.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// DiffBranches loads both branch states (and the shared ancestor, when the
// branches are related) and computes their structural difference. It is a
// read-only operation and takes no locks.
func (e *Engine) DiffBranches(ctx context.Context, sourceBranchID, targetBranchID string) (*DiffResult, error) {
	source, err := e.store.LoadState(ctx, sourceBranchID)
	if err != nil {
		return nil, err
	}
	target, err := e.store.LoadState(ctx, targetBranchID)
	if err != nil {
		return nil, err
	}
	ancestor, hasLineage, err := e.store.AncestorState(ctx, sourceBranchID, targetBranchID)
	if err != nil {
		return nil, err
	}
	if !hasLineage {
		ancestor = nil
	}
	return Diff(source, target, ancestor), nil
}

// Merge applies the source branch's changes to the target branch.
//
// When conflicts exist and are not fully covered by resolutions or the bulk
// policy, the merge terminates in StateAwaitingResolution without mutating
// any data, and the returned error is a *ConflictError carrying the conflict
// list. Every other apply-phase failure rolls the transaction back in full.
func (e *Engine) Merge(ctx context.Context, sourceBranchID, targetBranchID string, resolutions []Resolution, opts MergeOptions) (*MergeResult, error) {
	// Version observed at diff time, re-checked before applying.
	version, err := e.store.BranchVersion(ctx, targetBranchID)
	if err != nil {
		return nil, err
	}

	diff, err := e.DiffBranches(ctx, sourceBranchID, targetBranchID)
	if err != nil {
		return nil, err
	}

	result := &MergeResult{State: StateComputed}

	var resolvedChanges []Change
	if diff.HasConflicts() {
		resolvedChanges, err = ResolveConflicts(diff.Conflicts, resolutions, opts.Policy)
		if err != nil {
			if verr, ok := err.(*ValidationError); ok && verr.Unresolved {
				// Conflicts not fully covered: the normal blocked path,
				// reported as structured data, zero mutation.
				result.State = StateAwaitingResolution
				result.Conflicts = diff.Conflicts
				return result, &ConflictError{Conflicts: diff.Conflicts}
			}
			return nil, err
		}
		result.Summary.ConflictsResolved = len(diff.Conflicts)
	} else if err := ValidateResolutions(nil, resolutions, opts.Policy); err != nil {
		// Resolutions supplied for a conflict-free merge are rejected so a
		// stale resolution set cannot silently apply to the wrong diff.
		return nil, err
	}

	changes := e.buildChangeSet(diff, resolvedChanges, opts, &result.Summary)
	result.MergedCount = len(changes)

	if opts.DryRun {
		result.Success = true
		return result, nil
	}

	if len(changes) == 0 {
		// Nothing to write: an already-merged pair is a no-op, not an error.
		result.State = StateApplied
		result.Success = true
		return result, nil
	}

	// Stale-diff protection: abort instead of overwriting concurrent work.
	current, err := e.store.BranchVersion(ctx, targetBranchID)
	if err != nil {
		return nil, err
	}
	if !current.Equal(version) {
		result.State = StateAborted
		return result, &ConcurrencyError{BranchID: targetBranchID}
	}

	if err := e.store.ApplyChangeSet(ctx, targetBranchID, changes); err != nil {
		result.State = StateAborted
		if _, ok := err.(*ConcurrencyError); ok {
			return result, err
		}
		return result, &TransactionError{Err: err}
	}

	e.logger.Info("Merge applied",
		zap.String("source", sourceBranchID),
		zap.String("target", targetBranchID),
		zap.Int("merged", result.MergedCount),
		zap.Int("conflicts_resolved", result.Summary.ConflictsResolved),
	)

	result.State = StateApplied
	result.Success = true
	return result, nil
}

// buildChangeSet flattens a diff plus resolved conflicts into write
// instructions for the target branch and fills in the aggregate summary.
func (e *Engine) buildChangeSet(diff *DiffResult, resolved []Change, opts MergeOptions, summary *MergeSummary) []Change {
	var changes []Change

	for _, added := range diff.Added {
		for _, lang := range unionLanguages(added.Values, nil) {
			changes = append(changes, Change{Key: added.Key, Language: lang, Value: added.Values[lang]})
		}
		summary.KeysAdded++
	}

	for _, mod := range diff.Modified {
		if mod.Side != SideSource {
			// The target side won; it already holds the value.
			continue
		}
		if mod.Source == nil {
			changes = append(changes, Change{Key: mod.Key, Language: mod.Language, Delete: true})
		} else {
			changes = append(changes, Change{Key: mod.Key, Language: mod.Language, Value: *mod.Source})
		}
		summary.ValuesUpdated++
	}

	changes = append(changes, resolved...)
	summary.ValuesUpdated += len(resolved)

	if opts.PropagateDeletions {
		for _, removed := range diff.Removed {
			changes = append(changes, Change{Key: removed.Key, Delete: true})
			summary.KeysDeleted++
		}
	}

	return changes
}
