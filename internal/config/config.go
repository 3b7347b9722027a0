// Package config loads and validates the engine's project configuration,
// following the teacher's layered KDL-file-plus-defaults approach
// (internal/config in the source repo): a `.cie.kdl` file at the project
// root, merged with an optional global `~/.cie.kdl`, falling back to
// built-in defaults when neither is present.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Config is the engine's full runtime configuration: project location,
// index limits, performance knobs, file inclusion/exclusion, and content
// index settings.
type Config struct {
	Version     int
	Project     Project
	Index       Index
	Performance Performance
	Content     ContentSettings
	Include     []string
	Exclude     []string
}

// Project locates the repository being indexed.
type Project struct {
	Root string
	Name string
}

// Index holds indexing limits and watch settings. MaxFileSize is
// enforced: bulk-parse discovery and the watcher skip larger files
// rather than truncating them. MaxTotalSizeMB, MaxFileCount,
// FollowSymlinks and RespectGitignore are loaded and validated but not
// consulted by discovery or the watcher.
type Index struct {
	MaxFileSize      int64
	MaxTotalSizeMB   int64
	MaxFileCount     int
	FollowSymlinks   bool
	RespectGitignore bool
	WatchMode        bool
	WatchDebounceMs  int
}

// Performance holds worker-count and timing knobs. They are loaded and
// validated; the parser engine, coordinator and resolver do not read them.
type Performance struct {
	ParallelFileWorkers int // 0 = auto-detect in ValidateAndSetDefaults (NumCPU-1, at least 1)
	ParseTimeoutSec     int
	ResolveDebounceMs   int
}

// ContentSettings controls the content index (C10).
type ContentSettings struct {
	MaxChunkLines   int
	DefaultContext  int
	MaxSearchResult int
}

const (
	DefaultMaxFileSize  = 10 * 1024 * 1024
	DefaultMaxTotalSize = 500
	DefaultMaxFileCount = 50000
)

// Load resolves configuration for a project rooted at path: when both
// the global `~/.cie.kdl` and the project's own `.cie.kdl` exist they
// are combined by mergeConfigs (the project wins on scalar fields);
// when only one exists it is used as loaded; when neither exists the
// defaults are returned.
func Load(rootDir string) (*Config, error) {
	searchDir := rootDir
	if searchDir == "" {
		searchDir = "."
	}

	var base *Config
	if home, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(home); err == nil && globalCfg != nil {
			base = globalCfg
		}
	}

	project, err := LoadKDL(searchDir)
	if err != nil {
		return nil, err
	}

	switch {
	case base != nil && project != nil:
		return mergeConfigs(base, project), nil
	case project != nil:
		return project, nil
	case base != nil:
		base.Project.Root = absOrSelf(searchDir)
		return base, nil
	}

	return defaultConfig(searchDir), nil
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func defaultConfig(root string) *Config {
	cfg := &Config{
		Version: 1,
		Project: Project{Root: absOrSelf(root)},
		Index: Index{
			MaxFileSize:      DefaultMaxFileSize,
			MaxTotalSizeMB:   DefaultMaxTotalSize,
			MaxFileCount:     DefaultMaxFileCount,
			FollowSymlinks:   false,
			RespectGitignore: true,
			WatchMode:        true,
			WatchDebounceMs:  50,
		},
		Performance: Performance{
			ParallelFileWorkers: runtime.NumCPU(),
			ParseTimeoutSec:     10,
			ResolveDebounceMs:   200,
		},
		Content: ContentSettings{
			MaxChunkLines:   200,
			DefaultContext:  0,
			MaxSearchResult: 100,
		},
		Include: []string{},
		Exclude: defaultExcludes,
	}
	cfg.EnrichExclusionsWithBuildArtifacts()
	return cfg
}

// defaultExcludes mirrors the teacher's baseline exclusion set: VCS
// metadata, dependency directories, build output, and common binary
// formats that would otherwise waste parser/content-index cycles.
var defaultExcludes = []string{
	"**/.git/**",
	"**/.*/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/out/**",
	"**/target/**",
	"**/bin/**",
	"**/obj/**",
	"**/__pycache__/**",
	"**/*.pyc",
	"**/*.min.js",
	"**/*.min.css",
}

// mergeConfigs combines a base (global) config with a project config:
// the project wins on scalar fields, exclusions are unioned, inclusions
// fall back to base only when the project specifies none.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		seen := make(map[string]bool, len(base.Exclude)+len(project.Exclude))
		merged.Exclude = make([]string, 0, len(base.Exclude)+len(project.Exclude))
		for _, p := range base.Exclude {
			if !seen[p] {
				seen[p] = true
				merged.Exclude = append(merged.Exclude, p)
			}
		}
		for _, p := range project.Exclude {
			if !seen[p] {
				seen[p] = true
				merged.Exclude = append(merged.Exclude, p)
			}
		}
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}

	return &merged
}

// EnrichExclusionsWithBuildArtifacts detects per-language build output
// directories under the project root and folds them into Exclude.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Project.Root == "" {
		return
	}
	detector := NewBuildArtifactDetector(c.Project.Root)
	detected := detector.DetectOutputDirectories()
	if len(detected) == 0 {
		return
	}
	c.Exclude = DeduplicatePatterns(append(c.Exclude, detected...))
}
