package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codegraph/cie/internal/errors"
)

func TestParseError(t *testing.T) {
	err := errors.NewParseError("main.py", "unexpected indent")
	assert.Equal(t, "parse error in main.py: unexpected indent", err.Error())
}

func TestUnsupportedLanguageError(t *testing.T) {
	err := errors.NewUnsupportedLanguageError(".zig")
	assert.Contains(t, err.Error(), ".zig")
}

func TestValidationError(t *testing.T) {
	err := errors.NewValidationError("max_depth", "must be positive", -1)
	assert.Contains(t, err.Error(), "max_depth")
	assert.Contains(t, err.Error(), "-1")
}

func TestIOErrorUnwraps(t *testing.T) {
	underlying := stderrors.New("permission denied")
	err := errors.NewIOError("/root/secret", "read", underlying)
	assert.True(t, stderrors.Is(err, underlying))
	assert.Contains(t, err.Error(), "/root/secret")
}

func TestWatcherError(t *testing.T) {
	err := errors.NewWatcherError("inotify limit reached")
	assert.Contains(t, err.Error(), "inotify limit reached")
}

func TestProtocolViolationError(t *testing.T) {
	err := errors.NewProtocolViolationError("graph.get_node", "42", nil)
	assert.Contains(t, err.Error(), "graph.get_node")
	assert.Contains(t, err.Error(), "42")
}

func TestTimeoutError(t *testing.T) {
	err := errors.NewTimeoutError("parse_file", 5200, 5000)
	assert.Contains(t, err.Error(), "parse_file")
	assert.Contains(t, err.Error(), "5200")
}

func TestInternalError(t *testing.T) {
	err := errors.NewInternalError("nil graph store")
	assert.Contains(t, err.Error(), "nil graph store")
}

func TestMultiErrorFiltersNilAndSummarizes(t *testing.T) {
	e1 := errors.NewParseError("a.py", "bad syntax")
	e2 := errors.NewIOError("b.py", "read", stderrors.New("boom"))

	multi := errors.NewMultiError([]error{e1, nil, e2})
	assert.Len(t, multi.Errors, 2)
	assert.Contains(t, multi.Error(), "2 errors occurred")

	single := errors.NewMultiError([]error{e1})
	assert.Equal(t, e1.Error(), single.Error())

	assert.Nil(t, errors.NewMultiError(nil))
}
