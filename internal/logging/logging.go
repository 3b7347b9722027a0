// Package logging provides the engine's structured diagnostics,
// grounded on the teacher's internal/debug package (package-scoped
// Log/LogIndexing-style helpers, an MCP-mode output suppression flag)
// generalized to level filtering parsed from CIE_LOG instead of a
// single boolean build flag, since an MCP server talking JSON-RPC
// over stdio must never let an unfiltered log line corrupt the wire
// protocol (§6/§7).
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is a logging severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelOff disables all output; the zero value of a misparsed
	// CIE_LOG falls back to LevelInfo, never LevelOff, so failures
	// stay visible.
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "OFF"
	}
}

var (
	mu        sync.Mutex
	minLevel  = LevelInfo
	pkgFilter string
	mcpMode   bool
	out       io.Writer = os.Stderr
	std                 = log.New(os.Stderr, "", log.LstdFlags)
)

func init() {
	parseCIELog(os.Getenv("CIE_LOG"))
}

// parseCIELog accepts "<level>" or "<level>:<package-substring>", case
// insensitive, mirroring RUST_LOG's level[:target] shape without its
// full directive grammar — the engine has far fewer packages to filter.
func parseCIELog(spec string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return
	}
	level := spec
	filter := ""
	if idx := strings.Index(spec, ":"); idx >= 0 {
		level = spec[:idx]
		filter = spec[idx+1:]
	}
	switch strings.ToLower(level) {
	case "debug":
		minLevel = LevelDebug
	case "info":
		minLevel = LevelInfo
	case "warn", "warning":
		minLevel = LevelWarn
	case "error":
		minLevel = LevelError
	case "off":
		minLevel = LevelOff
	}
	pkgFilter = filter
}

// SetMCPMode suppresses all output when enabled: an MCP server's
// stdio transport is the JSON-RPC wire itself, so nothing may write to
// it outside the protocol layer (§6, §7's ProtocolViolationError).
func SetMCPMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	mcpMode = enabled
}

// SetOutput redirects log output, for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	std = log.New(w, "", log.LstdFlags)
}

// SetLevel overrides the minimum level, for tests or programmatic config.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

func logf(level Level, component, format string, args ...interface{}) {
	mu.Lock()
	suppressed := mcpMode || level < minLevel
	filter := pkgFilter
	w := out
	l := std
	mu.Unlock()

	if suppressed {
		return
	}
	if filter != "" && component != "" && !strings.Contains(component, filter) {
		return
	}
	if w == nil {
		return
	}
	prefix := "[" + level.String() + "]"
	if component != "" {
		prefix = "[" + level.String() + ":" + component + "]"
	}
	l.Printf("%s %s", prefix, fmt.Sprintf(format, args...))
}

// Debugf logs at Debug level with no component tag.
func Debugf(format string, args ...interface{}) { logf(LevelDebug, "", format, args...) }

// Infof logs at Info level with no component tag.
func Infof(format string, args ...interface{}) { logf(LevelInfo, "", format, args...) }

// Warnf logs at Warn level with no component tag.
func Warnf(format string, args ...interface{}) { logf(LevelWarn, "", format, args...) }

// Errorf logs at Error level with no component tag.
func Errorf(format string, args ...interface{}) { logf(LevelError, "", format, args...) }

// Component returns a logger bound to a package/component name, the
// way the teacher's Log(component, ...) helpers scope INDEX/SEARCH/MCP
// output without separate global functions per area.
type Component struct {
	name string
}

// NewComponent returns a Component-scoped logger.
func NewComponent(name string) Component { return Component{name: name} }

func (c Component) Debugf(format string, args ...interface{}) { logf(LevelDebug, c.name, format, args...) }
func (c Component) Infof(format string, args ...interface{})  { logf(LevelInfo, c.name, format, args...) }
func (c Component) Warnf(format string, args ...interface{})  { logf(LevelWarn, c.name, format, args...) }
func (c Component) Errorf(format string, args ...interface{}) { logf(LevelError, c.name, format, args...) }
