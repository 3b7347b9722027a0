package content

import (
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

// MatchMode selects how SearchQuery.Text is interpreted.
type MatchMode int

const (
	MatchLiteral MatchMode = iota
	MatchRegex
)

// SearchQuery is the filter+scoring contract §4.9 names for Search.
type SearchQuery struct {
	Text          string
	Mode          MatchMode
	TypeFilter    *ContentKind
	IncludeGlobs  []string
	ExcludeGlobs  []string
	MaxResults    int
	CaseSensitive bool
	ContextLines  int
}

// SearchResult is one matching chunk plus its relevance score and
// requested surrounding context, per §4.9.
type SearchResult struct {
	Path          string
	Chunk         ContentChunk
	Score         float64
	Line          int
	Column        int
	ContextBefore []string
	ContextAfter  []string
}

// Search implements §4.9's search(query) -> [SearchResult]: relevance
// is frequency x recency, comparable only within one query's result
// set, as the contract requires. Literal-mode scoring also folds in
// stemmed-term overlap and Jaro-Winkler similarity so a typo or a verb
// tense mismatch still surfaces a result, grounded on the teacher's
// internal/semantic Stemmer/FuzzyMatcher; regex mode skips fuzzy
// scoring since the regex itself already expresses the intended
// flexibility.
func (idx *Index) Search(q SearchQuery) ([]SearchResult, error) {
	var re *regexp.Regexp
	if q.Mode == MatchRegex {
		pattern := q.Text
		if !q.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		re = compiled
	}

	queryTerms := stemTerms(tokenize(q.Text))

	idx.mu.RLock()
	nodes := make([]*ContentNode, 0, len(idx.nodes))
	for _, n := range idx.nodes {
		nodes = append(nodes, n)
	}
	now := idx.now()
	indexedAt := make(map[string]time.Time, len(idx.indexedAt))
	for k, v := range idx.indexedAt {
		indexedAt[k] = v
	}
	idx.mu.RUnlock()

	var results []SearchResult
	for _, node := range nodes {
		if q.TypeFilter != nil && node.Type.Kind != *q.TypeFilter {
			continue
		}
		if !pathMatchesGlobs(node.Path, q.IncludeGlobs, q.ExcludeGlobs) {
			continue
		}
		recency := recencyWeight(now, indexedAt[node.Path])

		for _, chunk := range node.Chunks {
			matches := findMatches(chunk.Text, q, re, queryTerms)
			if len(matches) == 0 {
				continue
			}
			m := matches[0]
			score := m.frequency * recency
			line, col := lineColAt(chunk.Text, m.offset)
			before, after := contextLines(chunk.Text, line, q.ContextLines)
			results = append(results, SearchResult{
				Path:          node.Path,
				Chunk:         chunk,
				Score:         score,
				Line:          chunk.Span.StartLine + line - 1,
				Column:        col,
				ContextBefore: before,
				ContextAfter:  after,
			})
		}
	}

	sortResultsByScoreDesc(results)
	if q.MaxResults > 0 && len(results) > q.MaxResults {
		results = results[:q.MaxResults]
	}
	return results, nil
}

type matchHit struct {
	offset    int
	frequency float64
}

func findMatches(text string, q SearchQuery, re *regexp.Regexp, queryTerms []string) []matchHit {
	if q.Mode == MatchRegex {
		locs := re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			return nil
		}
		freq := float64(len(locs))
		out := make([]matchHit, 0, len(locs))
		for _, loc := range locs {
			out = append(out, matchHit{offset: loc[0], frequency: freq})
		}
		return out
	}

	haystack := text
	needle := q.Text
	if !q.CaseSensitive {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}

	var offsets []int
	if needle != "" {
		start := 0
		for {
			idx := strings.Index(haystack[start:], needle)
			if idx < 0 {
				break
			}
			offsets = append(offsets, start+idx)
			start += idx + len(needle)
		}
	}

	fuzzyBoost := fuzzyOverlapScore(queryTerms, tokenize(text))
	if len(offsets) == 0 {
		if fuzzyBoost <= 0 {
			return nil
		}
		return []matchHit{{offset: 0, frequency: fuzzyBoost}}
	}

	freq := float64(len(offsets)) + fuzzyBoost
	out := make([]matchHit, 0, len(offsets))
	for _, off := range offsets {
		out = append(out, matchHit{offset: off, frequency: freq})
	}
	return out
}

// fuzzyOverlapScore rewards chunks whose stemmed vocabulary is close
// to the query's even without an exact substring hit, using
// Jaro-Winkler similarity per term pair.
func fuzzyOverlapScore(queryTerms, chunkTerms []string) float64 {
	if len(queryTerms) == 0 || len(chunkTerms) == 0 {
		return 0
	}
	chunkStems := stemTerms(chunkTerms)
	var total float64
	for _, qt := range queryTerms {
		best := 0.0
		for _, ct := range chunkStems {
			score, err := edlib.StringsSimilarity(qt, ct, edlib.JaroWinkler)
			if err != nil {
				continue
			}
			if float64(score) > best {
				best = float64(score)
			}
		}
		if best >= 0.85 {
			total += best
		}
	}
	return total
}

func tokenize(s string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range s {
		if isWordRune(r) {
			cur.WriteRune(r)
		} else if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func stemTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if len(t) < 3 {
			out = append(out, strings.ToLower(t))
			continue
		}
		out = append(out, porter2.Stem(strings.ToLower(t)))
	}
	return out
}

// recencyWeight decays toward a floor of 0.1 as a file ages, so a
// frequency tie always favors the more recently indexed file without
// ever zeroing out an old one.
func recencyWeight(now, indexed time.Time) float64 {
	if indexed.IsZero() {
		return 1.0
	}
	age := now.Sub(indexed)
	if age < 0 {
		age = 0
	}
	hours := age.Hours()
	weight := 1.0 / (1.0 + hours/24.0)
	if weight < 0.1 {
		return 0.1
	}
	return weight
}

func pathMatchesGlobs(path string, include, exclude []string) bool {
	for _, pattern := range exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, pattern := range include {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

func lineColAt(text string, offset int) (line, col int) {
	line = 1
	lastNL := -1
	for i := 0; i < offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			lastNL = i
		}
	}
	col = offset - lastNL
	return line, col
}

func contextLines(text string, matchLine, n int) (before, after []string) {
	if n <= 0 {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	idx := matchLine - 1
	start := idx - n
	if start < 0 {
		start = 0
	}
	if idx >= 0 && idx <= len(lines) {
		before = append(before, lines[start:idx]...)
	}
	end := idx + 1 + n
	if end > len(lines) {
		end = len(lines)
	}
	if idx+1 <= len(lines) && idx+1 <= end {
		after = append(after, lines[idx+1:end]...)
	}
	return before, after
}

func sortResultsByScoreDesc(results []SearchResult) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j-1].Score < results[j].Score; j-- {
			results[j-1], results[j] = results[j], results[j-1]
		}
	}
}
