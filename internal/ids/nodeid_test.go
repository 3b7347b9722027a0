package ids_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph/cie/internal/ids"
)

func TestNodeIdDeterministic(t *testing.T) {
	a := ids.NewNodeId("repo1", "m.py", ids.LanguagePython, ids.NodeKindFunction, "a", 0, 13)
	b := ids.NewNodeId("repo1", "m.py", ids.LanguagePython, ids.NodeKindFunction, "a", 0, 13)
	assert.Equal(t, a, b)
	assert.Equal(t, a.String(), b.String())
}

func TestNodeIdDistinguishesSpan(t *testing.T) {
	a := ids.NewNodeId("repo1", "m.py", ids.LanguagePython, ids.NodeKindFunction, "a", 0, 13)
	b := ids.NewNodeId("repo1", "m.py", ids.LanguagePython, ids.NodeKindFunction, "a", 1, 14)
	assert.NotEqual(t, a, b)
}

func TestNodeIdDistinguishesConcatenationBoundary(t *testing.T) {
	// repo_id="a" + file_path="bc" must not collide with repo_id="ab" + file_path="c"
	a := ids.NewNodeId("a", "bc", ids.LanguageGo, ids.NodeKindFunction, "f", 0, 1)
	b := ids.NewNodeId("ab", "c", ids.LanguageGo, ids.NodeKindFunction, "f", 0, 1)
	assert.NotEqual(t, a, b)
}

func TestNodeIdRoundTripsThroughString(t *testing.T) {
	id := ids.NewNodeId("repo1", "util.py", ids.LanguagePython, ids.NodeKindClass, "Base", 10, 40)
	parsed, err := ids.ParseNodeId(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseNodeIdRejectsMalformed(t *testing.T) {
	_, err := ids.ParseNodeId("not-hex")
	assert.Error(t, err)

	_, err = ids.ParseNodeId("ab")
	assert.Error(t, err)
}

func TestSpanInvariants(t *testing.T) {
	s := ids.NewSpan(0, 10, 1, 2, 1, 5)
	assert.True(t, s.Contains(ids.NewSpan(2, 8, 1, 2, 1, 5)))
	assert.False(t, s.Contains(ids.NewSpan(2, 20, 1, 3, 1, 5)))
}

func TestSpanPanicsOnInvertedRange(t *testing.T) {
	assert.Panics(t, func() {
		ids.NewSpan(10, 0, 1, 1, 1, 1)
	})
}

func TestLanguageFromExtension(t *testing.T) {
	assert.Equal(t, ids.LanguagePython, ids.LanguageFromExtension(".py"))
	assert.Equal(t, ids.LanguageGo, ids.LanguageFromExtension(".go"))
	assert.Equal(t, ids.LanguageUnknown, ids.LanguageFromExtension(".zig"))
}
