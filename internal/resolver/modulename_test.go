package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModuleName(t *testing.T) {
	cases := map[string]string{
		"util.py":                  "util",
		"pkg/sub/util.py":          "pkg.sub.util",
		"pkg/__init__.py":          "pkg",
		"pkg/sub/__init__.py":      "pkg.sub",
		"a/b/c.ts":                 "a.b.c",
		"./rel/path.js":            "rel.path",
	}
	for in, want := range cases {
		require.Equal(t, want, ModuleName(in), in)
	}
}
