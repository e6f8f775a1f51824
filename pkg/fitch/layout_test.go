package fitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_MatchesRoleOf(t *testing.T) {
	docs := []string{
		nestedProof,
		"",
		"1 | A",
		"1 | A\n  |----\n2 | A           Reit: 1",
		"1 | | A\n2 | B\n3 | | | C\n  | | |---\n4 | | | C\n5 | | D",
		"1 | A\n\n  |----\n\n2 | A",
		"  |----\n1 | | B\n  | |---\n2 | | B\n3 | B → B",
	}

	for _, doc := range docs {
		layout := Analyze(doc)
		lines := SplitLines(doc)
		assert.Equal(t, len(lines), layout.Len())
		for row := range lines {
			assert.Equal(t, RoleOf(lines, row), layout.Role(row), "doc %q row %d", doc, row)
			assert.Equal(t, DepthOf(lines[row]), layout.Depth(row))
		}
	}
}

func TestLayout_OutOfRange(t *testing.T) {
	layout := Analyze("1 | A")
	assert.Equal(t, 1, layout.Depth(-1))
	assert.Equal(t, 1, layout.Depth(3))
	assert.Equal(t, RolePremise, layout.Role(3))
	assert.Equal(t, "", layout.Line(3))
}

func TestLayoutCache(t *testing.T) {
	var cache LayoutCache

	first := cache.Get("1 | A")
	assert.Same(t, first, cache.Get("1 | A"))

	second := cache.Get("1 | A\n  |----")
	assert.NotSame(t, first, second)
	assert.Equal(t, RoleScopeBar, second.Role(1))

	cache.Invalidate()
	assert.NotSame(t, second, cache.Get("1 | A\n  |----"))
}
