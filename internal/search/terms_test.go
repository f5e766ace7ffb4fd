package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGroups(t *testing.T) {
	groups := BuildGroups([]string{"Vintage", "  ", "Kitchen!!", ""})

	require.Len(t, groups, 2)
	assert.Equal(t, TermGroup{Term: "vintage", Variants: []string{"vintage"}}, groups[0])
	assert.Equal(t, TermGroup{Term: "kitchen", Variants: []string{"kitchen"}}, groups[1])
}

func TestGroupsFromFacets(t *testing.T) {
	table := DefaultVariationTable()

	groups := GroupsFromFacets(table, []string{"Whimsical", "Vintage", ""})

	require.Len(t, groups, 2)
	assert.Equal(t, "whimsical", groups[0].Term)
	assert.True(t, groups[0].HasVariant("whimsy"))
	assert.Equal(t, "vintage", groups[1].Term)
	assert.True(t, groups[1].HasVariant("retro"))
}

func TestMergeGroups_UnionsVariants(t *testing.T) {
	merged := MergeGroups([]TermGroup{
		{Term: "vintage", Variants: []string{"vintage", "retro"}},
		{Term: "Vintage!", Variants: []string{"antique", "retro"}},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "vintage", merged[0].Term)
	assert.Equal(t, []string{"vintage", "retro", "antique"}, merged[0].Variants)
}

func TestMergeGroups_FirstSeenOrder(t *testing.T) {
	merged := MergeGroups([]TermGroup{
		{Term: "cozy", Variants: []string{"cozy"}},
		{Term: "gift", Variants: []string{"gift"}},
		{Term: "cozy", Variants: []string{"snug"}},
		{Term: "vintage", Variants: []string{"vintage"}},
	})

	assert.Equal(t, []string{"cozy", "gift", "vintage"}, Terms(merged))
}

func TestMergeGroups_CanonicalAlwaysPresent(t *testing.T) {
	// A group arriving without its own term in Variants still ends up
	// with the canonical term as the first variant.
	merged := MergeGroups([]TermGroup{
		{Term: "kitchen", Variants: []string{"cooking"}},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, []string{"kitchen", "cooking"}, merged[0].Variants)
}

func TestMergeGroups_DropsEmptyTerms(t *testing.T) {
	merged := MergeGroups([]TermGroup{
		{Term: "   ", Variants: []string{"ghost"}},
		{Term: "real", Variants: []string{"real"}},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "real", merged[0].Term)
}

func TestMergeGroups_OrderInsensitiveKeys(t *testing.T) {
	a := []TermGroup{
		{Term: "vintage", Variants: []string{"retro"}},
		{Term: "gift", Variants: []string{"present"}},
	}
	b := []TermGroup{
		{Term: "gift", Variants: []string{"present"}},
		{Term: "vintage", Variants: []string{"retro"}},
	}

	mergedA := MergeGroups(a)
	mergedB := MergeGroups(b)

	// Key order follows input order, but the key sets and variant
	// unions agree regardless of arrival order.
	require.Len(t, mergedA, 2)
	require.Len(t, mergedB, 2)
	assert.ElementsMatch(t, Terms(mergedA), Terms(mergedB))
	for _, g := range mergedA {
		for _, h := range mergedB {
			if h.Term == g.Term {
				assert.ElementsMatch(t, g.Variants, h.Variants)
			}
		}
	}
}
