// Package resolver implements the Symbol Resolver (C7): builds
// module/qualified-name indices over the current graph and runs the
// import/call/class-instantiation/inheritance resolution passes that
// create the cross-file edges single-file Mappers cannot, grounded on
// the teacher's internal/symbollinker package (per-language resolvers
// run after extraction to link imports and calls across files)
// generalized to the uniform Node/Edge graph.
package resolver

import (
	"sort"
	"strings"
	"unicode"

	"github.com/codegraph/cie/internal/graph"
	"github.com/codegraph/cie/internal/ids"
	"github.com/codegraph/cie/internal/parser"
)

// exportableKinds are the NodeKinds §4.7 names as eligible for
// module_symbols/qualified_symbols: {Class, Function, Variable}.
var exportableKinds = map[ids.NodeKind]bool{
	ids.NodeKindClass:    true,
	ids.NodeKindFunction: true,
	ids.NodeKindVariable: true,
}

// initializerNames gives the per-language initializer-method
// convention §4.7's class-instantiation pass resolves to, when one of
// the class's Contains children is a Method with that name.
var initializerNames = map[ids.Language]string{
	ids.LanguagePython:     "__init__",
	ids.LanguageJavaScript: "constructor",
	ids.LanguageTypeScript: "constructor",
	ids.LanguageJava:       "",
}

// Resolver builds the module/qualified-name indices and runs the
// resolution passes of §4.7 against a graph.Store.
type Resolver struct {
	store *graph.Store

	moduleOf        map[string]string        // file path -> module name
	moduleSymbols   map[string][]*graph.Node // module name -> exportable nodes
	qualifiedSymbol map[string]*graph.Node   // "module.symbol" -> node
}

// New returns a Resolver over store.
func New(store *graph.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveAll runs the full resolution pipeline (§4.7): it rebuilds the
// module/qualified-name indices from the store's current state, then
// runs the imports, calls, class-instantiation, and inheritance
// passes in order, applying every edge they produce through a single
// patch. Dangling edges (either endpoint absent, or an invalid Call
// name per §4.3/§4.7) are skipped rather than inserted (testable
// properties #9, #10).
func (r *Resolver) ResolveAll() *graph.Patch {
	r.buildIndices()

	patch := graph.NewPatch("", "")
	patch.EdgesAdd = append(patch.EdgesAdd, r.resolveImports()...)
	patch.EdgesAdd = append(patch.EdgesAdd, r.resolveCalls()...)
	patch.EdgesAdd = append(patch.EdgesAdd, r.resolveClassInstantiations()...)
	patch.EdgesAdd = append(patch.EdgesAdd, r.resolveInheritance()...)

	r.store.ApplyPatch(patch)
	return patch
}

func (r *Resolver) buildIndices() {
	r.moduleOf = make(map[string]string)
	r.moduleSymbols = make(map[string][]*graph.Node)
	r.qualifiedSymbol = make(map[string]*graph.Node)

	r.store.IterFileIndex(func(path string, nodeIDs []ids.NodeId) {
		module := ModuleName(path)
		r.moduleOf[path] = module
		for _, id := range nodeIDs {
			n, ok := r.store.GetNode(id)
			if !ok || !exportableKinds[n.Kind] {
				continue
			}
			r.moduleSymbols[module] = append(r.moduleSymbols[module], n)
			r.qualifiedSymbol[module+"."+n.Name] = n
		}
	})
}

// resolveImports implements §4.7 pass 1: for each Import node, parse
// its (module, symbol?) and emit Imports edges against
// qualified_symbols / module_symbols.
func (r *Resolver) resolveImports() []graph.Edge {
	var edges []graph.Edge
	for _, n := range r.store.GetNodesByKind(ids.NodeKindImport) {
		module := n.Name
		symbol, _ := n.Metadata["symbol"].(string)

		if symbol != "" {
			if target, ok := r.qualifiedSymbol[module+"."+symbol]; ok {
				edges = append(edges, graph.Edge{Source: n.ID, Target: target.ID, Kind: ids.EdgeKindImports})
			}
			continue
		}
		for _, target := range r.moduleSymbols[module] {
			edges = append(edges, graph.Edge{Source: n.ID, Target: target.ID, Kind: ids.EdgeKindImports})
		}
	}
	return edges
}

// importedSymbolsOf returns the names reachable from file via an
// Imports edge originating from one of file's own Import nodes,
// mapped to the target node — used by both the calls pass (step b)
// and the class-instantiation pass's "imported" resolution tier.
func (r *Resolver) importedSymbolsOf(file string, imports []graph.Edge) map[string]*graph.Node {
	out := make(map[string]*graph.Node)
	fileImportIDs := make(map[ids.NodeId]bool)
	for _, n := range r.store.GetNodesInFile(file) {
		if n.Kind == ids.NodeKindImport {
			fileImportIDs[n.ID] = true
		}
	}
	for _, e := range imports {
		if !fileImportIDs[e.Source] {
			continue
		}
		target, ok := r.store.GetNode(e.Target)
		if !ok {
			continue
		}
		out[target.Name] = target
	}
	return out
}

// resolveCalls implements §4.7 pass 2: local function/method in F,
// else a symbol imported into F, else unresolved (dropped).
func (r *Resolver) resolveCalls() []graph.Edge {
	importEdges := r.resolveImports()
	var edges []graph.Edge

	byFile := map[string][]*graph.Node{}
	r.store.IterFileIndex(func(path string, nodeIDs []ids.NodeId) {
		for _, id := range nodeIDs {
			if n, ok := r.store.GetNode(id); ok {
				byFile[path] = append(byFile[path], n)
			}
		}
	})

	for file, nodes := range byFile {
		localFuncs := map[string]*graph.Node{}
		for _, n := range nodes {
			if n.Kind == ids.NodeKindFunction || n.Kind == ids.NodeKindMethod {
				localFuncs[n.Name] = n
			}
		}
		imported := r.importedSymbolsOf(file, importEdges)

		for _, n := range nodes {
			if n.Kind != ids.NodeKindCall || isInvalidName(n.Name) {
				continue
			}
			var target *graph.Node
			if local, ok := localFuncs[n.Name]; ok {
				target = local
			} else if imp, ok := imported[n.Name]; ok {
				target = imp
			}
			if target == nil {
				continue
			}
			edges = append(edges, graph.Edge{Source: n.ID, Target: target.ID, Kind: ids.EdgeKindCalls})
		}
	}
	return edges
}

// resolveClassInstantiations implements §4.7 pass 3: a Call whose
// name begins with an uppercase letter is a potential instantiation;
// resolve the Class locally, then via imports, then globally, and if
// found emit a Calls edge to its initializer method when present.
// Languages without the initial-uppercase convention (Go, Rust) opt
// out via parser.ClassInstantiationHeuristic.
func (r *Resolver) resolveClassInstantiations() []graph.Edge {
	importEdges := r.resolveImports()
	var edges []graph.Edge

	globalClasses := map[string][]*graph.Node{}
	for _, n := range r.store.GetNodesByKind(ids.NodeKindClass) {
		globalClasses[n.Name] = append(globalClasses[n.Name], n)
	}

	r.store.IterFileIndex(func(file string, nodeIDs []ids.NodeId) {
		var calls []*graph.Node
		localClasses := map[string]*graph.Node{}
		var lang ids.Language
		for _, id := range nodeIDs {
			n, ok := r.store.GetNode(id)
			if !ok {
				continue
			}
			lang = n.Language
			if n.Kind == ids.NodeKindClass {
				localClasses[n.Name] = n
			}
			if n.Kind == ids.NodeKindCall {
				calls = append(calls, n)
			}
		}
		if !parser.ClassInstantiationHeuristic(lang) {
			return
		}
		imported := r.importedSymbolsOf(file, importEdges)

		for _, call := range calls {
			if isInvalidName(call.Name) || !startsUpper(call.Name) {
				continue
			}
			class := resolveClass(call.Name, localClasses, imported, globalClasses)
			if class == nil {
				continue
			}
			initName := initializerNames[lang]
			if initName == "" {
				continue
			}
			for _, childEdge := range r.store.GetOutgoingEdges(class.ID) {
				if childEdge.Kind != ids.EdgeKindContains {
					continue
				}
				child, ok := r.store.GetNode(childEdge.Target)
				if ok && child.Kind == ids.NodeKindMethod && child.Name == initName {
					edges = append(edges, graph.Edge{Source: call.ID, Target: child.ID, Kind: ids.EdgeKindCalls})
					break
				}
			}
		}
	})
	return edges
}

func resolveClass(name string, local map[string]*graph.Node, imported map[string]*graph.Node, global map[string][]*graph.Node) *graph.Node {
	if n, ok := local[name]; ok {
		return n
	}
	if n, ok := imported[name]; ok && n.Kind == ids.NodeKindClass {
		return n
	}
	if candidates, ok := global[name]; ok && len(candidates) > 0 {
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID.String() < candidates[j].ID.String() })
		return candidates[0]
	}
	return nil
}

// resolveInheritance implements §4.7 pass 4: for each Class node,
// examine its outgoing Contains edges whose target is a Call node (the
// mapper represents a base-class mention as a Call, per §4.5/§9's
// design note); attempt to resolve that Call's name to a Class the
// same way pass 3 does, and if resolved, emit a Calls edge from the
// child Class to the parent Class (the "upgraded inheritance link").
// Runs independently of the calls pass over the same pre-resolution
// snapshot: a base-class mention that pass 2 already resolved (e.g.
// because the base class was imported, so its name also satisfied the
// ordinary call lookup) still gets its upgraded Class-to-Class edge
// here — the two passes produce distinct edges from the same Call
// node, not a single either/or resolution.
func (r *Resolver) resolveInheritance() []graph.Edge {
	importEdges := r.resolveImports()
	var edges []graph.Edge

	globalClasses := map[string][]*graph.Node{}
	for _, n := range r.store.GetNodesByKind(ids.NodeKindClass) {
		globalClasses[n.Name] = append(globalClasses[n.Name], n)
	}

	for _, class := range r.store.GetNodesByKind(ids.NodeKindClass) {
		file := class.File
		imported := r.importedSymbolsOf(file, importEdges)
		localClasses := map[string]*graph.Node{}
		for _, n := range r.store.GetNodesInFile(file) {
			if n.Kind == ids.NodeKindClass {
				localClasses[n.Name] = n
			}
		}

		for _, e := range r.store.GetOutgoingEdges(class.ID) {
			if e.Kind != ids.EdgeKindContains {
				continue
			}
			child, ok := r.store.GetNode(e.Target)
			if !ok || child.Kind != ids.NodeKindCall {
				continue
			}
			if isInvalidName(child.Name) {
				continue
			}
			parent := resolveClass(child.Name, localClasses, imported, globalClasses)
			if parent == nil || parent.ID == class.ID {
				continue
			}
			edges = append(edges, graph.Edge{Source: class.ID, Target: parent.ID, Kind: ids.EdgeKindCalls})
		}
	}
	return edges
}

// isInvalidName implements the invalid-name filter shared by every
// resolution step (§4.7): empty, whitespace-only, or purely-punctuation
// Call names never produce edges.
func isInvalidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return true
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return false
		}
	}
	return true
}

func startsUpper(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}
