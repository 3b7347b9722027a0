// Package mcpserver exposes the core's graph/content/engine/resolver
// operations as MCP tools over stdio, grounded on the teacher's
// internal/mcp package (mcp.NewServer + AddTool + jsonschema.Schema
// input schemas + mcp.StdioTransport), reduced to the language-neutral
// tool set §6 names instead of the teacher's large grep-flag surface.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codegraph/cie/internal/content"
	"github.com/codegraph/cie/internal/coordinator"
	"github.com/codegraph/cie/internal/graph"
	"github.com/codegraph/cie/internal/ids"
	"github.com/codegraph/cie/internal/logging"
)

var log = logging.NewComponent("mcpserver")

// Server wraps a Coordinator behind the MCP tool set §6 names.
// graph.apply_patch is intentionally not registered here: §6 marks it
// internal, not an MCP client operation.
type Server struct {
	coord *coordinator.Coordinator
	mcp   *mcp.Server
}

// New builds a Server over coord, ready to Run once tools are
// registered.
func New(coord *coordinator.Coordinator) *Server {
	s := &Server{
		coord: coord,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "cie-mcp-server",
			Version: "0.1.0",
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves the MCP protocol over newline-delimited stdin/stdout
// until ctx is cancelled, matching §6's transport contract exactly.
func (s *Server) Run(ctx context.Context) error {
	logging.SetMCPMode(true)
	defer logging.SetMCPMode(false)
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "graph.get_node",
		Description: "Look up one graph node by its NodeId.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"id": {Type: "string", Description: "NodeId as a 32-character hex string"},
			},
			Required: []string{"id"},
		},
	}, s.handleGetNode)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "graph.get_nodes_in_file",
		Description: "List every graph node whose File equals the given path.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"path": {Type: "string"}},
			Required:   []string{"path"},
		},
	}, s.handleGetNodesInFile)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "graph.get_nodes_by_kind",
		Description: "List every graph node of the given kind (e.g. \"function\", \"class\").",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"kind": {Type: "string"}},
			Required:   []string{"kind"},
		},
	}, s.handleGetNodesByKind)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "graph.find_path",
		Description: "Find the shortest edge path between two nodes.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"src":       {Type: "string"},
				"dst":       {Type: "string"},
				"max_depth": {Type: "integer"},
			},
			Required: []string{"src", "dst"},
		},
	}, s.handleFindPath)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "graph.find_dependencies",
		Description: "Find nodes the given node depends on, filtered by dependency type (direct, calls, imports, reads, writes, transitive).",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"id":        {Type: "string"},
				"type":      {Type: "string"},
				"max_depth": {Type: "integer"},
			},
			Required: []string{"id"},
		},
	}, s.handleFindDependencies)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "graph.find_references",
		Description: "Find nodes that call or reference the given node.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"id": {Type: "string"}},
			Required:   []string{"id"},
		},
	}, s.handleFindReferences)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "content.search",
		Description: "Search the content index (documentation, configuration, comments) by literal text or regex.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text":           {Type: "string"},
				"regex":          {Type: "boolean"},
				"case_sensitive": {Type: "boolean"},
				"max_results":    {Type: "integer"},
				"context_lines":  {Type: "integer"},
				"include":        {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"exclude":        {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			},
			Required: []string{"text"},
		},
	}, s.handleContentSearch)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "content.find_files",
		Description: "List indexed file paths matching a glob pattern.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"pattern": {Type: "string"}},
			Required:   []string{"pattern"},
		},
	}, s.handleContentFindFiles)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "content.stats",
		Description: "Return per-content-type file and chunk counts.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleContentStats)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "engine.parse_file",
		Description: "Fully reparse a file and apply the resulting patch to the graph and content index.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"path": {Type: "string"}},
			Required:   []string{"path"},
		},
	}, s.handleParseFile)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "engine.parse_incremental",
		Description: "Reparse a file reusing its cached tree when present.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"path": {Type: "string"}},
			Required:   []string{"path"},
		},
	}, s.handleParseIncremental)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "engine.clear_cache",
		Description: "Drop every cached parse tree.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleClearCache)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "resolver.resolve_all",
		Description: "Rebuild module indices and run the import/call/class-instantiation/inheritance resolution passes.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleResolveAll)
}

func textResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}, nil
}

func decodeArgs(req *mcp.CallToolRequest, v any) error {
	return json.Unmarshal(req.Params.Arguments, v)
}

func (s *Server) handleGetNode(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct{ ID string `json:"id"` }
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	id, err := ids.ParseNodeId(args.ID)
	if err != nil {
		return nil, err
	}
	node, ok := s.coord.Store.GetNode(id)
	if !ok {
		return textResult(map[string]any{"found": false})
	}
	return textResult(node)
}

func (s *Server) handleGetNodesInFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct{ Path string `json:"path"` }
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	return textResult(s.coord.Store.GetNodesInFile(args.Path))
}

func (s *Server) handleGetNodesByKind(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct{ Kind string `json:"kind"` }
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	kind, ok := parseNodeKind(args.Kind)
	if !ok {
		return nil, fmt.Errorf("mcpserver: unknown node kind %q", args.Kind)
	}
	return textResult(s.coord.Store.GetNodesByKind(kind))
}

func (s *Server) handleFindPath(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Src      string `json:"src"`
		Dst      string `json:"dst"`
		MaxDepth int    `json:"max_depth"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	src, err := ids.ParseNodeId(args.Src)
	if err != nil {
		return nil, err
	}
	dst, err := ids.ParseNodeId(args.Dst)
	if err != nil {
		return nil, err
	}
	path, found := s.coord.Store.FindPath(src, dst, args.MaxDepth)
	return textResult(map[string]any{"found": found, "path": path})
}

func (s *Server) handleFindDependencies(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		MaxDepth int    `json:"max_depth"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	id, err := ids.ParseNodeId(args.ID)
	if err != nil {
		return nil, err
	}
	depType, ok := parseDepType(args.Type)
	if !ok {
		return nil, fmt.Errorf("mcpserver: unknown dependency type %q", args.Type)
	}
	return textResult(s.coord.Store.FindDependencies(id, depType, args.MaxDepth))
}

func (s *Server) handleFindReferences(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct{ ID string `json:"id"` }
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	id, err := ids.ParseNodeId(args.ID)
	if err != nil {
		return nil, err
	}
	return textResult(s.coord.Store.FindReferences(id))
}

func (s *Server) handleContentSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Text          string   `json:"text"`
		Regex         bool     `json:"regex"`
		CaseSensitive bool     `json:"case_sensitive"`
		MaxResults    int      `json:"max_results"`
		ContextLines  int      `json:"context_lines"`
		Include       []string `json:"include"`
		Exclude       []string `json:"exclude"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	mode := content.MatchLiteral
	if args.Regex {
		mode = content.MatchRegex
	}
	results, err := s.coord.Content.Search(content.SearchQuery{
		Text:          args.Text,
		Mode:          mode,
		CaseSensitive: args.CaseSensitive,
		MaxResults:    args.MaxResults,
		ContextLines:  args.ContextLines,
		IncludeGlobs:  args.Include,
		ExcludeGlobs:  args.Exclude,
	})
	if err != nil {
		return nil, err
	}
	return textResult(results)
}

func (s *Server) handleContentFindFiles(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct{ Pattern string `json:"pattern"` }
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	return textResult(s.coord.Content.FindFiles(args.Pattern))
}

func (s *Server) handleContentStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.coord.Content.Stats())
}

func (s *Server) handleParseFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct{ Path string `json:"path"` }
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	result, err := s.coord.ParseFile(args.Path)
	if err != nil {
		return nil, err
	}
	return textResult(map[string]any{"nodes": len(result.Nodes), "edges": len(result.Edges)})
}

func (s *Server) handleParseIncremental(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct{ Path string `json:"path"` }
	if err := decodeArgs(req, &args); err != nil {
		return nil, err
	}
	result, err := s.coord.ParseIncremental(args.Path)
	if err != nil {
		return nil, err
	}
	return textResult(map[string]any{"nodes": len(result.Nodes), "edges": len(result.Edges)})
}

func (s *Server) handleClearCache(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.coord.ClearCache()
	return textResult(map[string]any{"ok": true})
}

func (s *Server) handleResolveAll(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patch := s.coord.ResolveAll()
	log.Infof("resolve_all added %d edges", len(patch.EdgesAdd))
	return textResult(map[string]any{"edges_added": len(patch.EdgesAdd)})
}

func parseNodeKind(s string) (ids.NodeKind, bool) {
	for k := ids.NodeKindModule; k <= ids.NodeKindLiteral; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func parseDepType(s string) (graph.DependencyType, bool) {
	switch s {
	case "", "direct":
		return graph.DepDirect, true
	case "calls":
		return graph.DepCalls, true
	case "imports":
		return graph.DepImports, true
	case "reads":
		return graph.DepReads, true
	case "writes":
		return graph.DepWrites, true
	case "transitive":
		return graph.DepTransitive, true
	default:
		return 0, false
	}
}
