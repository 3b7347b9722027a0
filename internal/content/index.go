package content

import (
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/codegraph/cie/internal/parser"
)

// Index is the Content Index (C10): a file-keyed store of ContentNodes
// with the same single-writer/many-readers discipline as
// internal/graph.Store, independently locked (§5).
type Index struct {
	mu sync.RWMutex

	nodes      map[string]*ContentNode
	indexedAt  map[string]time.Time
	kindCount  map[ContentKind]int
	chunkCount map[ContentKind]int

	maxChunkLines int
	nowFn         func() time.Time
}

// New returns an empty Index. maxChunkLines bounds IndexFile's
// chunking (config.ContentSettings.MaxChunkLines); 0 means one chunk
// per file.
func New(maxChunkLines int) *Index {
	return &Index{
		nodes:         make(map[string]*ContentNode),
		indexedAt:     make(map[string]time.Time),
		kindCount:     make(map[ContentKind]int),
		chunkCount:    make(map[ContentKind]int),
		maxChunkLines: maxChunkLines,
		nowFn:         time.Now,
	}
}

func (idx *Index) now() time.Time {
	if idx.nowFn != nil {
		return idx.nowFn()
	}
	return time.Now()
}

// IndexFile implements §4.9's index_file(path, content): detect
// language from extension; a recognized source language produces a
// Code ContentNode plus, when tree is non-nil, Comment ContentNodes
// extracted from the CST; otherwise a Documentation or Configuration
// ContentNode by format.
func (idx *Index) IndexFile(path string, contentBytes []byte, tree *parser.CST) []*ContentNode {
	contentType := ClassifyContentType(path)
	text := string(contentBytes)

	var produced []*ContentNode

	codeNode := &ContentNode{
		Path:   path,
		Type:   contentType,
		Chunks: chunkText(text, idx.maxChunkLines),
	}
	produced = append(produced, codeNode)

	if contentType.Kind == ContentKindCode && tree != nil {
		if comments := tree.Comments(contentBytes); len(comments) > 0 {
			commentNode := &ContentNode{
				Path: path,
				Type: ContentType{Kind: ContentKindComment, Language: contentType.Language},
			}
			for _, c := range comments {
				commentNode.Chunks = append(commentNode.Chunks, ContentChunk{
					Span:     c.Span,
					Text:     c.Text,
					Metadata: map[string]any{},
				})
			}
			produced = append(produced, commentNode)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(path)
	for _, n := range produced {
		idx.storeLocked(n)
	}
	idx.indexedAt[path] = idx.now()
	return produced
}

// RemoveFile implements §4.9's remove_file(path): drop every
// ContentNode recorded under path.
func (idx *Index) RemoveFile(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(path)
	delete(idx.indexedAt, path)
}

func (idx *Index) removeLocked(path string) {
	// A path may have produced multiple ContentNodes (Code + Comment);
	// nodes are keyed by path+kind internally so both are dropped.
	for key, n := range idx.nodes {
		if n.Path == path {
			idx.kindCount[n.Type.Kind]--
			idx.chunkCount[n.Type.Kind] -= len(n.Chunks)
			delete(idx.nodes, key)
		}
	}
}

func (idx *Index) storeLocked(n *ContentNode) {
	key := n.Path + "#" + n.Type.Kind.String()
	idx.nodes[key] = n
	idx.kindCount[n.Type.Kind]++
	idx.chunkCount[n.Type.Kind] += len(n.Chunks)
}

// GetFile returns every ContentNode recorded for path.
func (idx *Index) GetFile(path string) []*ContentNode {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []*ContentNode
	for _, n := range idx.nodes {
		if n.Path == path {
			out = append(out, n)
		}
	}
	return out
}

// FindFiles implements §6's content.find_files(pattern): every indexed
// path matching a doublestar glob pattern, deduplicated across the
// Code/Documentation/Comment ContentNodes a single path may produce.
func (idx *Index) FindFiles(pattern string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, n := range idx.nodes {
		if seen[n.Path] {
			continue
		}
		if ok, _ := doublestar.Match(pattern, n.Path); ok {
			seen[n.Path] = true
			out = append(out, n.Path)
		}
	}
	return out
}

// TypeStats is the per-ContentType count Stats returns.
type TypeStats struct {
	FileCount  int
	ChunkCount int
}

// Stats implements the supplemented ContentIndex.Stats() operation:
// per-ContentType file/chunk counts, for observability without
// walking the whole index.
func (idx *Index) Stats() map[ContentKind]TypeStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[ContentKind]TypeStats, len(idx.kindCount))
	for k, count := range idx.kindCount {
		out[k] = TypeStats{FileCount: count, ChunkCount: idx.chunkCount[k]}
	}
	return out
}
