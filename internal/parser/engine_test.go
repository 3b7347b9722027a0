package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	cieerrors "github.com/codegraph/cie/internal/errors"
	"github.com/codegraph/cie/internal/ids"
)

func TestParseFile_NoExtensionFailsParseError(t *testing.T) {
	e := NewEngine(NewDefaultRegistry())
	_, err := e.ParseFile(ParseContext{FilePath: "Makefile", Content: []byte("x")})
	require.Error(t, err)
	var pe *cieerrors.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseFile_UnknownExtensionFailsValidationError(t *testing.T) {
	e := NewEngine(NewDefaultRegistry())
	_, err := e.ParseFile(ParseContext{FilePath: "foo.zig", Content: []byte("x")})
	require.Error(t, err)
	var ve *cieerrors.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, ".zig", ve.Provided)
}

func TestClassInstantiationHeuristic_PerLanguage(t *testing.T) {
	require.True(t, ClassInstantiationHeuristic(languageSpecs[0].Language)) // python
	found := false
	for _, spec := range languageSpecs {
		if spec.Language.String() == "go" {
			require.False(t, spec.ClassInstantiationHeuristic)
			found = true
		}
	}
	require.True(t, found)
}

func TestIsInvalidCallName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"foo", false},
		{"", true},
		{"   ", true},
		{"!!!", true},
		{"_private", false},
	}
	for _, c := range cases {
		got := isInvalidCallName(ids.NodeKindCall, c.name)
		require.Equal(t, c.want, got, c.name)
	}
}
