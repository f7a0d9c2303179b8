package model

// SymbolKind is the category of a resolved symbol.
type SymbolKind string

// Symbol kinds reported by symbol providers.
const (
	SymbolPackage  SymbolKind = "package"
	SymbolType     SymbolKind = "type"
	SymbolVar      SymbolKind = "var"
	SymbolConst    SymbolKind = "const"
	SymbolFunc     SymbolKind = "func"
	SymbolMethod   SymbolKind = "method"
	SymbolField    SymbolKind = "field"
	SymbolEmbedded SymbolKind = "embedded-field"
	SymbolLabel    SymbolKind = "label"
	SymbolOther    SymbolKind = "other"
)

// Symbol is the resolved meaning of an identifier.
type Symbol struct {
	ID       string
	Name     string
	Kind     SymbolKind
	Package  string
	Exported bool
	Builtin  bool
	TopLevel bool
	// Imported is the imported package's own name, for SymbolPackage.
	Imported string
	// Scope names where the symbol's name must be unique among its siblings,
	// such as the struct declaring a field. Empty means the package.
	Scope string
}

// NodeRef locates a node inside a program.
type NodeRef struct {
	Document DocumentID
	Path     NodePath
}

// SymbolView answers symbol queries for the trees it was computed from.
// Resolve returns false when the node has no known symbol; callers treat that as
// "does not apply" rather than as an error.
type SymbolView interface {
	Resolve(n *Node) (Symbol, bool)
	AllReferences(sym Symbol) []NodeRef
}
