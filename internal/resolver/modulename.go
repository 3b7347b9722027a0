package resolver

import (
	"path/filepath"
	"strings"
)

// ModuleName derives a dotted module name from a file path, per §4.7:
// strip the language's source extension, replace path separators with
// '.', and collapse a trailing Python package initializer
// (`__init__`) to its parent directory name.
func ModuleName(path string) string {
	clean := filepath.ToSlash(path)
	clean = strings.TrimPrefix(clean, "./")
	ext := filepath.Ext(clean)
	if ext != "" {
		clean = strings.TrimSuffix(clean, ext)
	}

	parts := strings.Split(clean, "/")
	var filtered []string
	for _, p := range parts {
		if p != "" {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return ""
	}
	if filtered[len(filtered)-1] == "__init__" {
		filtered = filtered[:len(filtered)-1]
	}
	if len(filtered) == 0 {
		return ""
	}
	return strings.Join(filtered, ".")
}
