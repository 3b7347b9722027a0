package parser

import (
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/codegraph/cie/internal/ids"
)

// languageSpec binds one Language tag to its tree-sitter grammar and
// the query that drives the generic AST Mapper (C4). Captures follow
// the convention `@<kind>` for the node itself and `@<kind>.name` for
// the identifier text feeding Node.Name; `@import.source` carries the
// module path text and the optional `@import.symbol` the imported
// member, matching §4.7's `(module, symbol?)` import-name shape.
type languageSpec struct {
	Language ids.Language
	TSLang   func() unsafe.Pointer
	Query    string
	// ClassInstantiationHeuristic enables §4.3/§9's initial-uppercase
	// Call-as-instantiation resolution for this language; Go and Rust
	// have no such naming convention and opt out (SPEC_FULL §3
	// clarification).
	ClassInstantiationHeuristic bool
}

var languageSpecs = []languageSpec{
	{
		Language:                    ids.LanguagePython,
		TSLang:                      tree_sitter_python.Language,
		ClassInstantiationHeuristic: true,
		Query: `
(function_definition name: (identifier) @function.name) @function
(class_definition name: (identifier) @class.name) @class
(call function: (identifier) @call.name) @call
(call function: (attribute attribute: (identifier) @call.name)) @call
(import_statement name: (dotted_name) @import.source) @import
(import_from_statement
  module_name: (dotted_name) @import.source
  name: (dotted_name) @import.symbol) @import
(assignment left: (identifier) @variable.name) @variable
(decorator) @attribute
(class_definition superclasses: (argument_list (identifier) @call.name) @call)
`,
	},
	{
		Language:                    ids.LanguageJavaScript,
		TSLang:                      tree_sitter_javascript.Language,
		ClassInstantiationHeuristic: true,
		Query: `
(function_declaration name: (identifier) @function.name) @function
(generator_function_declaration name: (identifier) @function.name) @function
(variable_declarator
  name: (identifier) @function.name
  value: [(arrow_function) (function_expression) (generator_function)]) @function
(variable_declarator
  name: (identifier) @variable.name
  value: (_) @variable.value) @variable
(method_definition name: (property_identifier) @method.name) @method
(class_declaration name: (identifier) @class.name) @class
(import_statement source: (string) @import.source) @import
(call_expression function: (identifier) @call.name) @call
(call_expression function: (member_expression property: (property_identifier) @call.name)) @call
(class_heritage (extends_clause value: (identifier) @call.name) @call)
`,
	},
	{
		Language:                    ids.LanguageTypeScript,
		TSLang:                      func() unsafe.Pointer { return tree_sitter_typescript.LanguageTypescript() },
		ClassInstantiationHeuristic: true,
		Query: `
(function_declaration name: (identifier) @function.name) @function
(variable_declarator
  name: (identifier) @function.name
  value: [(arrow_function) (function_expression)]) @function
(variable_declarator
  name: (identifier) @variable.name
  value: (_) @variable.value) @variable
(method_definition name: (property_identifier) @method.name) @method
(class_declaration name: (type_identifier) @class.name) @class
(interface_declaration name: (type_identifier) @interface.name) @interface
(import_statement source: (string) @import.source) @import
(call_expression function: (identifier) @call.name) @call
(call_expression function: (member_expression property: (property_identifier) @call.name)) @call
(class_heritage (extends_clause value: (identifier) @call.name) @call)
`,
	},
	{
		Language:                    ids.LanguageRust,
		TSLang:                      tree_sitter_rust.Language,
		ClassInstantiationHeuristic: false,
		Query: `
(function_item name: (identifier) @function.name) @function
(struct_item name: (type_identifier) @struct.name) @struct
(enum_item name: (type_identifier) @enum.name) @enum
(trait_item name: (type_identifier) @interface.name) @interface
(impl_item type: (type_identifier) @impl.name) @impl
(call_expression function: (identifier) @call.name) @call
(call_expression function: (field_expression field: (field_identifier) @call.name)) @call
(use_declaration argument: (_) @import.source) @import
(attribute_item) @attribute
`,
	},
	{
		Language:                    ids.LanguageJava,
		TSLang:                      tree_sitter_java.Language,
		ClassInstantiationHeuristic: true,
		Query: `
(method_declaration name: (identifier) @method.name) @method
(class_declaration name: (identifier) @class.name) @class
(interface_declaration name: (identifier) @interface.name) @interface
(method_invocation name: (identifier) @call.name) @call
(object_creation_expression type: (type_identifier) @call.name) @call
(import_declaration (scoped_identifier) @import.source) @import
(class_declaration superclass: (superclass (type_identifier) @call.name) @call)
`,
	},
	{
		Language:                    ids.LanguageGo,
		TSLang:                      tree_sitter_go.Language,
		ClassInstantiationHeuristic: false,
		Query: `
(function_declaration name: (identifier) @function.name) @function
(method_declaration name: (field_identifier) @method.name) @method
(type_spec name: (type_identifier) @struct.name type: (struct_type)) @struct
(type_spec name: (type_identifier) @interface.name type: (interface_type)) @interface
(call_expression function: (identifier) @call.name) @call
(call_expression function: (selector_expression field: (field_identifier) @call.name)) @call
(import_spec path: (interpreted_string_literal) @import.source) @import
`,
	},
	{
		Language:                    ids.LanguageC,
		TSLang:                      tree_sitter_c.Language,
		ClassInstantiationHeuristic: false,
		Query: `
(function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
(struct_specifier name: (type_identifier) @struct.name) @struct
(call_expression function: (identifier) @call.name) @call
(preproc_include path: (_) @import.source) @import
`,
	},
	{
		Language:                    ids.LanguageCpp,
		TSLang:                      tree_sitter_cpp.Language,
		ClassInstantiationHeuristic: false,
		Query: `
(function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
(class_specifier name: (type_identifier) @class.name) @class
(struct_specifier name: (type_identifier) @struct.name) @struct
(call_expression function: (identifier) @call.name) @call
(call_expression function: (field_expression field: (field_identifier) @call.name)) @call
(preproc_include path: (_) @import.source) @import
`,
	},
}

// classInstantiationHeuristics is consulted by the Symbol Resolver
// (C7) for the per-language hook §4.3/§9 calls for, without the
// resolver importing this package's tree-sitter dependency surface.
var classInstantiationHeuristics = func() map[ids.Language]bool {
	m := make(map[ids.Language]bool, len(languageSpecs))
	for _, spec := range languageSpecs {
		m[spec.Language] = spec.ClassInstantiationHeuristic
	}
	return m
}()

// ClassInstantiationHeuristic reports whether lang uses the
// initial-uppercase Call-as-instantiation convention.
func ClassInstantiationHeuristic(lang ids.Language) bool {
	return classInstantiationHeuristics[lang]
}

func newSitterLanguage(spec languageSpec) *sitter.Language {
	return sitter.NewLanguage(spec.TSLang())
}
