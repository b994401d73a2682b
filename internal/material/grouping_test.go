package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupTargets_NeverPlacesTwoRootSiblingsTogether(t *testing.T) {
	root1 := ptr("r1")
	candidates := []TargetCandidate{
		{LemmaID: "a", RootID: root1},
		{LemmaID: "b", RootID: root1},
		{LemmaID: "c", RootID: nil},
	}

	groups := GroupTargets(candidates, 2, 4)

	for _, g := range groups {
		assert.False(t, containsBoth(g, "a", "b"), "a and b share a root and must never land in the same group")
	}
}

func TestGroupTargets_FillsGroupsUpToMax(t *testing.T) {
	candidates := []TargetCandidate{
		{LemmaID: "a"}, {LemmaID: "b"}, {LemmaID: "c"}, {LemmaID: "d"}, {LemmaID: "e"},
	}

	groups := GroupTargets(candidates, 2, 4)

	assert.Len(t, groups, 2)
	assert.Len(t, groups[0], 4)
	assert.Len(t, groups[1], 1)
}

func TestGroupTargets_EmptyInputReturnsNoGroups(t *testing.T) {
	groups := GroupTargets(nil, 2, 4)
	assert.Empty(t, groups)
}

func containsBoth(group []string, a, b string) bool {
	hasA, hasB := false, false
	for _, id := range group {
		if id == a {
			hasA = true
		}
		if id == b {
			hasB = true
		}
	}
	return hasA && hasB
}
