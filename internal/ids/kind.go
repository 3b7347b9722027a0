package ids

// NodeKind is the closed enumeration of graph node kinds, covering the
// union of constructs mappers emit across languages. Unknown kinds from
// future mappers must be treated as opaque by consumers; the engine
// itself only ever produces the kinds below.
type NodeKind int

const (
	NodeKindUnknown NodeKind = iota
	NodeKindModule
	NodeKindFunction
	NodeKindMethod
	NodeKindClass
	NodeKindStruct
	NodeKindEnum
	NodeKindInterface // Trait/Interface
	NodeKindImpl
	NodeKindParameter
	NodeKindVariable
	NodeKindCall
	NodeKindImport
	NodeKindAttribute // Attribute/Decorator
	NodeKindLifetime
	NodeKindLiteral
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindModule:
		return "module"
	case NodeKindFunction:
		return "function"
	case NodeKindMethod:
		return "method"
	case NodeKindClass:
		return "class"
	case NodeKindStruct:
		return "struct"
	case NodeKindEnum:
		return "enum"
	case NodeKindInterface:
		return "interface"
	case NodeKindImpl:
		return "impl"
	case NodeKindParameter:
		return "parameter"
	case NodeKindVariable:
		return "variable"
	case NodeKindCall:
		return "call"
	case NodeKindImport:
		return "import"
	case NodeKindAttribute:
		return "attribute"
	case NodeKindLifetime:
		return "lifetime"
	case NodeKindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// EdgeKind is the closed enumeration of relationships between nodes.
type EdgeKind int

const (
	EdgeKindUnknown EdgeKind = iota
	EdgeKindCalls
	EdgeKindImports
	EdgeKindReads
	EdgeKindWrites
	EdgeKindExtends // Extends/Implements; declared, not inferred — see DESIGN.md for why the resolver's inheritance upgrade (§4.5/§4.7) emits Calls instead
	EdgeKindContains
	EdgeKindReferences
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeKindCalls:
		return "calls"
	case EdgeKindImports:
		return "imports"
	case EdgeKindReads:
		return "reads"
	case EdgeKindWrites:
		return "writes"
	case EdgeKindExtends:
		return "extends"
	case EdgeKindContains:
		return "contains"
	case EdgeKindReferences:
		return "references"
	default:
		return "unknown"
	}
}
