package diffmerge

import "sort"

// Diff classifies the differences between a source and target branch state,
// optionally informed by a common-ancestor state (pass nil when the branches
// share no lineage).
//
// Diff is pure: it has no side effects, takes no locks, and produces
// identical output for identical inputs, so it is safe to run concurrently
// against the same states. Cost is near-linear in the total number of
// (key, language) pairs across both branches.
func Diff(source, target, ancestor BranchState) *DiffResult {
	result := &DiffResult{
		Added:     []AddedKey{},
		Removed:   []RemovedKey{},
		Modified:  []Modification{},
		Conflicts: []Conflict{},
	}

	// Union of key names from both sides, using map membership for O(1)
	// presence tests.
	for key, sourceValues := range source {
		targetValues, inTarget := target[key]
		if !inTarget {
			result.Added = append(result.Added, AddedKey{Key: key, Values: copyValues(sourceValues)})
			continue
		}
		diffKey(result, key, sourceValues, targetValues, ancestor[key], ancestor != nil)
	}

	for key, targetValues := range target {
		if _, inSource := source[key]; !inSource {
			result.Removed = append(result.Removed, RemovedKey{Key: key, Values: copyValues(targetValues)})
		}
	}

	sortResult(result)
	return result
}

// diffKey classifies per-language changes for a key present on both sides.
// hasAncestor distinguishes "no shared lineage" from "the ancestor simply
// lacks this key": a key added independently on both sides still conflicts.
func diffKey(result *DiffResult, key string, sourceValues, targetValues, ancestorValues map[string]string, hasAncestor bool) {
	for _, lang := range unionLanguages(sourceValues, targetValues) {
		sv, sok := sourceValues[lang]
		tv, tok := targetValues[lang]

		// Equal values (including equal absence) are not a change.
		if sok == tok && sv == tv {
			continue
		}

		if !hasAncestor {
			// No shared lineage: classified as a clean modification favoring
			// the source value.
			result.Modified = append(result.Modified, Modification{
				Key:      key,
				Language: lang,
				Side:     SideSource,
				Source:   optional(sv, sok),
				Target:   optional(tv, tok),
			})
			continue
		}

		av, aok := ancestorValues[lang]
		sourceDiverged := sok != aok || sv != av
		targetDiverged := tok != aok || tv != av

		switch {
		case sourceDiverged && targetDiverged:
			// Both sides moved away from the ancestor and disagree. Sides
			// that converged on the same value were already dropped by the
			// equality check above.
			result.Conflicts = append(result.Conflicts, Conflict{
				Key:      key,
				Language: lang,
				Ancestor: optional(av, aok),
				Source:   optional(sv, sok),
				Target:   optional(tv, tok),
			})
		case sourceDiverged:
			result.Modified = append(result.Modified, Modification{
				Key:      key,
				Language: lang,
				Side:     SideSource,
				Source:   optional(sv, sok),
				Target:   optional(tv, tok),
			})
		case targetDiverged:
			result.Modified = append(result.Modified, Modification{
				Key:      key,
				Language: lang,
				Side:     SideTarget,
				Source:   optional(sv, sok),
				Target:   optional(tv, tok),
			})
		}
	}
}

// unionLanguages returns the sorted union of language codes on both sides.
func unionLanguages(sourceValues, targetValues map[string]string) []string {
	seen := make(map[string]struct{}, len(sourceValues)+len(targetValues))
	for lang := range sourceValues {
		seen[lang] = struct{}{}
	}
	for lang := range targetValues {
		seen[lang] = struct{}{}
	}

	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// sortResult orders every category by key name, then language code, so that
// repeated diffs are reproducible across calls and processes.
func sortResult(result *DiffResult) {
	sort.Slice(result.Added, func(i, j int) bool {
		return result.Added[i].Key < result.Added[j].Key
	})
	sort.Slice(result.Removed, func(i, j int) bool {
		return result.Removed[i].Key < result.Removed[j].Key
	})
	sort.Slice(result.Modified, func(i, j int) bool {
		a, b := result.Modified[i], result.Modified[j]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		return a.Language < b.Language
	})
	sort.Slice(result.Conflicts, func(i, j int) bool {
		a, b := result.Conflicts[i], result.Conflicts[j]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		return a.Language < b.Language
	})
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for lang, value := range values {
		out[lang] = value
	}
	return out
}

func optional(value string, present bool) *string {
	if !present {
		return nil
	}
	v := value
	return &v
}
