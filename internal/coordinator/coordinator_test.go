package coordinator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraph/cie/internal/config"
)

func testCoordinator(t *testing.T, root string) *Coordinator {
	cfg := &config.Config{
		Project: config.Project{Root: root, Name: "t"},
		Index: config.Index{
			MaxFileSize:     1 << 20,
			WatchMode:       false,
			WatchDebounceMs: 20,
		},
		Content: config.ContentSettings{MaxChunkLines: 0},
		Include: []string{"**/*.py", "**/*.go"},
		Exclude: []string{"**/.git/**"},
	}
	c, err := New(cfg, "r")
	require.NoError(t, err)
	return c
}

func TestDiscoverFiles_RespectsIncludeExclude(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("x = 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("skip me\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "ignored.py"), []byte("x = 1\n"), 0644))

	c := testCoordinator(t, root)
	files, err := c.discoverFiles(root)
	require.NoError(t, err)

	require.Contains(t, files, filepath.Join(root, "a.py"))
	require.NotContains(t, files, filepath.Join(root, "b.txt"))
	for _, f := range files {
		require.NotContains(t, f, ".git")
	}
}

func TestDiscoverFiles_SkipsOversizedFile(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, 200)
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.py"), big, 0644))

	cfg := &config.Config{
		Project: config.Project{Root: root, Name: "t"},
		Index:   config.Index{MaxFileSize: 10},
		Include: []string{"**/*.py"},
	}
	c, err := New(cfg, "r")
	require.NoError(t, err)

	files, err := c.discoverFiles(root)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestRemoveFile_ClearsGraphAndContent(t *testing.T) {
	root := t.TempDir()
	c := testCoordinator(t, root)

	c.Content.IndexFile("a.md", []byte("hello"), nil)
	require.NotEmpty(t, c.Content.GetFile("a.md"))

	c.RemoveFile("a.md")
	require.Empty(t, c.Content.GetFile("a.md"))
}
