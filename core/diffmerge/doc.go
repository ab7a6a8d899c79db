// Package diffmerge implements the branch diff/merge engine: structural
// comparison of two branches at (key, language) granularity, three-way
// conflict classification against a shared ancestor, and transactional
// all-or-nothing merge application.
//
// The engine is designed to handle branches with tens of thousands of keys by:
//   - Operating on fully materialized in-memory states (hash-map indexed)
//   - Using O(1) membership tests instead of nested iteration
//   - Keeping cost near-linear in the total number of (key, language) pairs
//
// # Architecture
//
// The engine consists of three main components:
//
// 1. Diff: a pure function classifying differences as added, removed, clean
// modifications, and conflicts. Output is deterministically ordered (key,
// then language), so repeated diffs of unchanged states are byte-identical
// and safe to cache or compute in parallel.
//
// 2. Resolver: validates caller-supplied resolutions (useSource, useTarget,
// or an explicit override) against the conflict set and turns them into
// concrete change instructions. Bulk favorSource/favorTarget policies cover
// conflicts without an explicit resolution.
//
// 3. Engine: orchestrates the merge state machine. Conflicts without full
// resolution coverage terminate in AwaitingResolution with zero mutation;
// otherwise every addition, clean modification, and resolved conflict is
// written to the target branch in a single transaction through the Store
// interface. An optimistic version check on the target branch aborts the
// merge when it changed since the diff was computed.
//
// # Usage Example
//
//	engine := diffmerge.NewEngine(store, logger)
//
//	// Read-only diff
//	diff, err := engine.DiffBranches(ctx, featureID, mainID)
//
//	// Merge with a resolution
//	res := []diffmerge.Resolution{{Key: "btn.save", Language: "en", Kind: diffmerge.UseSource}}
//	result, err := engine.Merge(ctx, featureID, mainID, res, diffmerge.MergeOptions{})
//
// # Error Model
//
// Typed errors separate expected control flow from faults: *ConflictError
// (blocked merge, carries the conflict list), *ValidationError (malformed
// resolutions), *NotFoundError, *ConcurrencyError, and *TransactionError
// (apply failed, transaction rolled back in full).
package diffmerge
