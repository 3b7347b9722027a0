package parser

import (
	"strings"
	"sync"

	"github.com/codegraph/cie/internal/ids"
)

// Registry maps language tags and file extensions to Parser Plug-ins
// (C2). Concurrent-safe for registration and lookup; registration is
// rare, lookup is hot, matching the teacher's lock discipline for its
// rarely-mutated, frequently-read maps.
type Registry struct {
	mu      sync.RWMutex
	plugins map[ids.Language]Plugin
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[ids.Language]Plugin)}
}

// Register maps plugin.Language() to plugin. Last registration wins
// for a given tag, per §4.2.
func (r *Registry) Register(plugin Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[plugin.Language()] = plugin
}

// Get returns the plugin registered for lang, if any.
func (r *Registry) Get(lang ids.Language) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[lang]
	return p, ok
}

// GetByExtension resolves ext (including the leading dot,
// case-insensitive) to a Language via the fixed extension table, then
// to its registered plugin.
func (r *Registry) GetByExtension(ext string) (Plugin, bool) {
	lang := ids.LanguageFromExtension(strings.ToLower(ext))
	if lang == ids.LanguageUnknown {
		return nil, false
	}
	return r.Get(lang)
}

// NewDefaultRegistry registers one Plugin per language the Language
// enumeration names, mirroring the teacher's NewTreeSitterParser
// registering one setup function per extension group.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, spec := range languageSpecs {
		r.Register(newTreeSitterPlugin(spec))
	}
	return r
}
