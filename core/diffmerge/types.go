package diffmerge

import "time"

// BranchState is the fully materialized key/value state of a branch:
// key name -> language code -> value. Absence of a language entry means
// "untranslated", which is distinct from an empty string value.
type BranchState map[string]map[string]string

// Side identifies which branch of a diff a change belongs to.
type Side string

const (
	// SideSource is the branch changes are merged from.
	SideSource Side = "source"
	// SideTarget is the branch changes are merged into.
	SideTarget Side = "target"
)

// AddedKey describes a key present in the source branch but absent in the target.
type AddedKey struct {
	// Key is the translation key name.
	Key string `json:"key"`

	// Values maps language codes to the source branch's values.
	Values map[string]string `json:"values"`
}

// RemovedKey describes a key present in the target branch but absent in the source.
// Removed entries are reported for visibility; they are only applied when the
// caller opts into deletion propagation.
type RemovedKey struct {
	// Key is the translation key name.
	Key string `json:"key"`

	// Values maps language codes to the target branch's values.
	Values map[string]string `json:"values"`
}

// Modification describes a clean (non-conflicting) change to a single
// (key, language) pair: only one side diverged from the ancestor, so that
// side wins naturally.
type Modification struct {
	// Key is the translation key name.
	Key string `json:"key"`

	// Language is the language code the change applies to.
	Language string `json:"language"`

	// Side is the branch that diverged from the ancestor. When the branches
	// share no ancestor this is always SideSource.
	Side Side `json:"side"`

	// Source is the source branch's value. Nil means untranslated.
	Source *string `json:"source"`

	// Target is the target branch's value. Nil means untranslated.
	Target *string `json:"target"`
}

// Conflict describes a (key, language) pair where both branches diverged
// independently from the shared ancestor value and disagree with each other.
type Conflict struct {
	// Key is the translation key name.
	Key string `json:"key"`

	// Language is the language code the conflict applies to.
	Language string `json:"language"`

	// Ancestor is the shared ancestor value. Nil means untranslated.
	Ancestor *string `json:"ancestor"`

	// Source is the source branch's value. Nil means untranslated.
	Source *string `json:"source"`

	// Target is the target branch's value. Nil means untranslated.
	Target *string `json:"target"`
}

// DiffResult is the structured difference between two branch states.
// All slices are sorted lexicographically by key name, then language code,
// so repeated diffs of identical states are byte-identical.
type DiffResult struct {
	// Added contains keys present in source but not in target.
	Added []AddedKey `json:"added"`

	// Removed contains keys present in target but not in source.
	Removed []RemovedKey `json:"removed"`

	// Modified contains clean per-language modifications.
	Modified []Modification `json:"modified"`

	// Conflicts contains per-language conflicts requiring resolution.
	Conflicts []Conflict `json:"conflicts"`
}

// HasConflicts reports whether the diff contains unresolved conflicts.
func (d *DiffResult) HasConflicts() bool {
	return len(d.Conflicts) > 0
}

// ResolutionKind selects how a single conflict is resolved.
type ResolutionKind string

const (
	// UseSource resolves a conflict with the source branch's value.
	UseSource ResolutionKind = "useSource"
	// UseTarget resolves a conflict by keeping the target branch's value.
	UseTarget ResolutionKind = "useTarget"
	// Override resolves a conflict with an explicit replacement value.
	Override ResolutionKind = "override"
)

// Resolution binds a resolution choice to a single conflicting (key, language) pair.
type Resolution struct {
	// Key is the translation key name of the conflict.
	Key string `json:"key"`

	// Language is the language code of the conflict.
	Language string `json:"language"`

	// Kind is the resolution choice.
	Kind ResolutionKind `json:"kind"`

	// Value is the replacement value. Only used when Kind is Override.
	Value string `json:"value,omitempty"`
}

// Policy is a bulk resolution covering every conflict that has no explicit
// per-pair resolution.
type Policy string

const (
	// PolicyNone requires every conflict to carry an explicit resolution.
	PolicyNone Policy = ""
	// PolicyFavorSource resolves remaining conflicts with the source value.
	PolicyFavorSource Policy = "favorSource"
	// PolicyFavorTarget resolves remaining conflicts with the target value.
	PolicyFavorTarget Policy = "favorTarget"
)

// Change is a single write instruction for the apply phase.
type Change struct {
	// Key is the translation key name.
	Key string `json:"key"`

	// Language is the language code. Empty combined with Delete removes the
	// whole key and every translation under it.
	Language string `json:"language"`

	// Value is the new value. Ignored when Delete is set.
	Value string `json:"value"`

	// Delete removes the translation (or the whole key, see Language).
	Delete bool `json:"delete"`
}

// MergeState is the state machine position a merge call terminated in.
type MergeState string

const (
	// StateComputed means the diff has been computed but nothing was applied
	// (dry-run merges terminate here).
	StateComputed MergeState = "computed"
	// StateAwaitingResolution means conflicts exist and are not fully covered
	// by resolutions or a bulk policy. No data was mutated.
	StateAwaitingResolution MergeState = "awaiting_resolution"
	// StateApplied means all changes were committed.
	StateApplied MergeState = "applied"
	// StateAborted means the apply transaction was rolled back in full.
	StateAborted MergeState = "aborted"
)

// MergeOptions controls merge behavior.
type MergeOptions struct {
	// Policy is the bulk conflict resolution policy, if any.
	Policy Policy

	// PropagateDeletions applies Removed entries as deletions on the target.
	// Off by default: removals are reported for visibility only.
	PropagateDeletions bool

	// DryRun computes the full change set but applies nothing.
	DryRun bool
}

// MergeResult is the outcome of a merge call.
type MergeResult struct {
	// State is the terminal state of the merge state machine.
	State MergeState `json:"state"`

	// Success is true when the merge was applied (or would apply cleanly,
	// for dry runs).
	Success bool `json:"success"`

	// MergedCount is the number of (key, language) pairs actually written.
	MergedCount int `json:"merged_count"`

	// Conflicts lists unresolved conflicts when the merge is blocked.
	Conflicts []Conflict `json:"conflicts,omitempty"`

	// Summary provides aggregate counts of the applied change set.
	Summary MergeSummary `json:"summary"`
}

// MergeSummary provides aggregate statistics for a merge.
type MergeSummary struct {
	// KeysAdded counts keys created on the target.
	KeysAdded int `json:"keys_added"`

	// ValuesUpdated counts translations written from clean modifications
	// and resolved conflicts.
	ValuesUpdated int `json:"values_updated"`

	// KeysDeleted counts keys removed by deletion propagation.
	KeysDeleted int `json:"keys_deleted"`

	// ConflictsResolved counts conflicts covered by resolutions or policy.
	ConflictsResolved int `json:"conflicts_resolved"`
}

// BranchVersion is the optimistic concurrency marker of a branch. It is the
// branch's updatedAt timestamp; any write to the branch moves it forward.
type BranchVersion struct {
	UpdatedAt time.Time
}

// Equal reports whether two version markers match.
func (v BranchVersion) Equal(other BranchVersion) bool {
	return v.UpdatedAt.Equal(other.UpdatedAt)
}
