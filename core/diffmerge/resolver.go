package diffmerge

// ValidateResolutions checks caller-supplied resolutions against the conflict
// set produced by Diff. Every resolution must reference an actual conflict,
// and every conflict must be covered by a resolution or the bulk policy.
func ValidateResolutions(conflicts []Conflict, resolutions []Resolution, policy Policy) error {
	if policy != PolicyNone && policy != PolicyFavorSource && policy != PolicyFavorTarget {
		return &ValidationError{Reason: "unknown policy " + string(policy)}
	}

	index := make(map[[2]string]struct{}, len(conflicts))
	for _, c := range conflicts {
		index[[2]string{c.Key, c.Language}] = struct{}{}
	}

	resolved := make(map[[2]string]struct{}, len(resolutions))
	for _, r := range resolutions {
		pair := [2]string{r.Key, r.Language}
		if _, ok := index[pair]; !ok {
			return &ValidationError{Key: r.Key, Language: r.Language, Reason: "does not reference a conflicting pair"}
		}
		if _, dup := resolved[pair]; dup {
			return &ValidationError{Key: r.Key, Language: r.Language, Reason: "resolved more than once"}
		}
		switch r.Kind {
		case UseSource, UseTarget, Override:
		default:
			return &ValidationError{Key: r.Key, Language: r.Language, Reason: "unknown resolution kind " + string(r.Kind)}
		}
		resolved[pair] = struct{}{}
	}

	if policy == PolicyNone {
		for _, c := range conflicts {
			if _, ok := resolved[[2]string{c.Key, c.Language}]; !ok {
				return &ValidationError{Key: c.Key, Language: c.Language, Reason: "conflict left unresolved and no bulk policy given", Unresolved: true}
			}
		}
	}

	return nil
}

// ResolveConflicts turns a validated conflict set into concrete change
// instructions for the apply phase. Conflicts without an explicit resolution
// fall back to the bulk policy. UseTarget resolutions keep the target value
// and therefore produce no write.
func ResolveConflicts(conflicts []Conflict, resolutions []Resolution, policy Policy) ([]Change, error) {
	if err := ValidateResolutions(conflicts, resolutions, policy); err != nil {
		return nil, err
	}

	byPair := make(map[[2]string]Resolution, len(resolutions))
	for _, r := range resolutions {
		byPair[[2]string{r.Key, r.Language}] = r
	}

	changes := make([]Change, 0, len(conflicts))
	for _, c := range conflicts {
		r, ok := byPair[[2]string{c.Key, c.Language}]
		if !ok {
			switch policy {
			case PolicyFavorSource:
				r = Resolution{Key: c.Key, Language: c.Language, Kind: UseSource}
			case PolicyFavorTarget:
				r = Resolution{Key: c.Key, Language: c.Language, Kind: UseTarget}
			}
		}

		switch r.Kind {
		case UseSource:
			if c.Source == nil {
				// Source side is untranslated: resolving in its favor
				// removes the target translation.
				changes = append(changes, Change{Key: c.Key, Language: c.Language, Delete: true})
			} else {
				changes = append(changes, Change{Key: c.Key, Language: c.Language, Value: *c.Source})
			}
		case UseTarget:
			// Target already holds the winning value.
		case Override:
			changes = append(changes, Change{Key: c.Key, Language: c.Language, Value: r.Value})
		}
	}

	return changes, nil
}
