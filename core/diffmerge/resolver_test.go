package diffmerge_test

import (
	"testing"

	"translation-manager/core/diffmerge"

	"github.com/stretchr/testify/assert"
)

func sampleConflicts() []diffmerge.Conflict {
	return []diffmerge.Conflict{
		{Key: "btn.save", Language: "en", Ancestor: strp("Save"), Source: strp("Save changes"), Target: strp("Save now")},
		{Key: "btn.save", Language: "de", Ancestor: strp("Speichern"), Source: strp("Sichern"), Target: strp("Jetzt speichern")},
	}
}

func TestValidateResolutionsFullCoverage(t *testing.T) {
	resolutions := []diffmerge.Resolution{
		{Key: "btn.save", Language: "en", Kind: diffmerge.UseSource},
		{Key: "btn.save", Language: "de", Kind: diffmerge.UseTarget},
	}

	err := diffmerge.ValidateResolutions(sampleConflicts(), resolutions, diffmerge.PolicyNone)
	assert.NoError(t, err)
}

func TestValidateResolutionsUncoveredConflict(t *testing.T) {
	resolutions := []diffmerge.Resolution{
		{Key: "btn.save", Language: "en", Kind: diffmerge.UseSource},
	}

	err := diffmerge.ValidateResolutions(sampleConflicts(), resolutions, diffmerge.PolicyNone)
	assert.Error(t, err)

	verr, ok := err.(*diffmerge.ValidationError)
	assert.True(t, ok)
	assert.True(t, verr.Unresolved)
	assert.Equal(t, "btn.save", verr.Key)
	assert.Equal(t, "de", verr.Language)
}

func TestValidateResolutionsPolicyCoversRemainder(t *testing.T) {
	resolutions := []diffmerge.Resolution{
		{Key: "btn.save", Language: "en", Kind: diffmerge.Override, Value: "Save all"},
	}

	err := diffmerge.ValidateResolutions(sampleConflicts(), resolutions, diffmerge.PolicyFavorTarget)
	assert.NoError(t, err)
}

func TestValidateResolutionsRejectsNonConflictingPair(t *testing.T) {
	resolutions := []diffmerge.Resolution{
		{Key: "btn.unknown", Language: "en", Kind: diffmerge.UseSource},
	}

	err := diffmerge.ValidateResolutions(sampleConflicts(), resolutions, diffmerge.PolicyNone)
	assert.Error(t, err)

	verr, ok := err.(*diffmerge.ValidationError)
	assert.True(t, ok)
	assert.False(t, verr.Unresolved)
	assert.Contains(t, verr.Error(), "does not reference a conflicting pair")
}

func TestValidateResolutionsRejectsDuplicates(t *testing.T) {
	resolutions := []diffmerge.Resolution{
		{Key: "btn.save", Language: "en", Kind: diffmerge.UseSource},
		{Key: "btn.save", Language: "en", Kind: diffmerge.UseTarget},
	}

	err := diffmerge.ValidateResolutions(sampleConflicts(), resolutions, diffmerge.PolicyFavorSource)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "resolved more than once")
}

func TestValidateResolutionsRejectsUnknownKind(t *testing.T) {
	resolutions := []diffmerge.Resolution{
		{Key: "btn.save", Language: "en", Kind: "coinflip"},
	}

	err := diffmerge.ValidateResolutions(sampleConflicts(), resolutions, diffmerge.PolicyFavorSource)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resolution kind")
}

func TestValidateResolutionsRejectsUnknownPolicy(t *testing.T) {
	err := diffmerge.ValidateResolutions(sampleConflicts(), nil, "favorChaos")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown policy")
}

func TestResolveConflictsExplicitChoices(t *testing.T) {
	resolutions := []diffmerge.Resolution{
		{Key: "btn.save", Language: "en", Kind: diffmerge.UseSource},
		{Key: "btn.save", Language: "de", Kind: diffmerge.Override, Value: "Speichern!"},
	}

	changes, err := diffmerge.ResolveConflicts(sampleConflicts(), resolutions, diffmerge.PolicyNone)
	assert.NoError(t, err)
	assert.Len(t, changes, 2)

	assert.Equal(t, diffmerge.Change{Key: "btn.save", Language: "en", Value: "Save changes"}, changes[0])
	assert.Equal(t, diffmerge.Change{Key: "btn.save", Language: "de", Value: "Speichern!"}, changes[1])
}

func TestResolveConflictsUseTargetProducesNoWrite(t *testing.T) {
	changes, err := diffmerge.ResolveConflicts(sampleConflicts(), nil, diffmerge.PolicyFavorTarget)
	assert.NoError(t, err)
	assert.Empty(t, changes)
}

func TestResolveConflictsFavorSourcePolicy(t *testing.T) {
	changes, err := diffmerge.ResolveConflicts(sampleConflicts(), nil, diffmerge.PolicyFavorSource)
	assert.NoError(t, err)
	assert.Len(t, changes, 2)
	assert.Equal(t, "Save changes", changes[0].Value)
	assert.Equal(t, "Sichern", changes[1].Value)
}

func TestResolveConflictsUntranslatedSourceDeletes(t *testing.T) {
	conflicts := []diffmerge.Conflict{
		{Key: "btn.save", Language: "de", Ancestor: strp("Speichern"), Source: nil, Target: strp("Sichern")},
	}

	changes, err := diffmerge.ResolveConflicts(conflicts, nil, diffmerge.PolicyFavorSource)
	assert.NoError(t, err)
	assert.Len(t, changes, 1)
	assert.True(t, changes[0].Delete)
	assert.Equal(t, "de", changes[0].Language)
}

func TestResolveConflictsInvalidInputReturnsNoChanges(t *testing.T) {
	changes, err := diffmerge.ResolveConflicts(sampleConflicts(), nil, diffmerge.PolicyNone)
	assert.Error(t, err)
	assert.Nil(t, changes)
}
