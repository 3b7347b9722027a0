package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/codegraph/cie/internal/config"
	"github.com/codegraph/cie/internal/coordinator"
)

func testServer(t *testing.T) (*Server, *coordinator.Coordinator) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("def foo():\n    pass\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# hello\n\nworld\n"), 0644))

	cfg := &config.Config{
		Project: config.Project{Root: root, Name: "t"},
		Index:   config.Index{MaxFileSize: 1 << 20},
		Include: []string{"**/*.py", "**/*.md"},
	}
	coord, err := coordinator.New(cfg, "r")
	require.NoError(t, err)
	require.NoError(t, coord.IndexRepo(context.Background(), root))

	return New(coord), coord
}

func callTool(t *testing.T, fn func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error), args any) string {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)

	result, err := fn(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: raw},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleGetNodesByKind_ReturnsIndexedFunction(t *testing.T) {
	srv, _ := testServer(t)
	raw, err := json.Marshal(map[string]string{"kind": "function"})
	require.NoError(t, err)

	result, err := srv.handleGetNodesByKind(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: raw},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
}

func TestHandleGetNodesByKind_UnknownKindErrors(t *testing.T) {
	srv, _ := testServer(t)
	raw, err := json.Marshal(map[string]string{"kind": "not-a-kind"})
	require.NoError(t, err)

	_, err = srv.handleGetNodesByKind(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: raw},
	})
	require.Error(t, err)
}

func TestHandleContentSearch_FindsIndexedDoc(t *testing.T) {
	srv, _ := testServer(t)
	out := callTool(t, srv.handleContentSearch, map[string]any{"text": "hello"})
	require.Contains(t, out, "README.md")
}

func TestHandleContentFindFiles_MatchesGlob(t *testing.T) {
	srv, _ := testServer(t)
	out := callTool(t, srv.handleContentFindFiles, map[string]any{"pattern": "**"})
	require.Contains(t, out, "README.md")
}

func TestHandleResolveAll_Succeeds(t *testing.T) {
	srv, _ := testServer(t)
	out := callTool(t, srv.handleResolveAll, map[string]any{})
	require.Contains(t, out, "edges_added")
}

func TestHandleClearCache_Succeeds(t *testing.T) {
	srv, _ := testServer(t)
	out := callTool(t, srv.handleClearCache, map[string]any{})
	require.Contains(t, out, `"ok":true`)
}
