package rules

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

var identifierKinds = map[string]bool{
	"identifier":       true,
	"field_identifier": true,
	"type_identifier":  true,
}

type identifierCase struct{}

// NewIdentifierCase creates the rule that renames unexported snake_case
// declarations to mixedCaps in every file that references them.
func NewIdentifierCase() domain.GlobalSemanticRule {
	return &identifierCase{}
}

func (r *identifierCase) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "IdentifierCase",
		Description: "Rename unexported snake_case names to mixedCaps",
		Capability:  domain.GlobalSemantic,
		Ordinal:     IdentifierCaseOrdinal,
		Grammars:    []m.Grammar{m.GrammarGo},
	}
}

type rename struct {
	sym m.Symbol
	to  string
}

func (r *identifierCase) Plan(ctx context.Context, program *m.Program, view m.SymbolView) ([]m.Edit, error) {
	used := make(map[string]bool)
	renames := make(map[string]rename)

	for _, doc := range program.Documents() {
		if doc.Grammar != m.GrammarGo {
			continue
		}

		for _, leaf := range m.Leaves(doc.Root) {
			if !identifierKinds[leaf.Node.Kind()] {
				continue
			}

			tok, _ := leaf.Node.Token()
			used[tok.Text] = true

			sym, ok := view.Resolve(leaf.Node)
			if !ok || !renameable(sym) {
				continue
			}

			if to, ok := mixedCaps(sym.Name); ok {
				renames[sym.ID] = rename{sym: sym, to: to}
			}
		}
	}

	if len(renames) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(renames))
	for id := range renames {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	// targets by scope and new name
	targets := make(map[[2]string]string, len(renames))

	var edits []m.Edit

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rn := renames[id]
		if used[rn.to] {
			return nil, fmt.Errorf("rename %s to %s: %w", rn.sym.Name, rn.to, domain.ErrNameCollision)
		}

		key := [2]string{scopeOf(rn.sym), rn.to}
		if other, ok := targets[key]; ok {
			return nil, fmt.Errorf("rename %s and %s to %s: %w", other, rn.sym.Name, rn.to, domain.ErrNameCollision)
		}

		targets[key] = rn.sym.Name

		refs, err := renameEdits(program, view.AllReferences(rn.sym), rn)
		if err != nil {
			return nil, err
		}

		edits = append(edits, refs...)
	}

	return edits, nil
}

func renameEdits(program *m.Program, refs []m.NodeRef, rn rename) ([]m.Edit, error) {
	seen := make(map[string]bool, len(refs))
	edits := make([]m.Edit, 0, len(refs))

	for _, ref := range refs {
		key := string(ref.Document) + "@" + ref.Path.String()
		if seen[key] {
			continue
		}

		seen[key] = true

		doc, ok := program.Get(ref.Document)
		if !ok {
			return nil, fmt.Errorf("reference to unknown document %s", ref.Document)
		}

		leaf, ok := doc.Root.At(ref.Path)
		if !ok {
			return nil, fmt.Errorf("stale reference %s in %s", ref.Path, ref.Document)
		}

		tok, ok := leaf.Token()
		if !ok || tok.Text != rn.sym.Name {
			return nil, fmt.Errorf("reference %s in %s is not %s", ref.Path, ref.Document, rn.sym.Name)
		}

		edits = append(edits, m.Edit{
			Document:    ref.Document,
			Path:        ref.Path,
			Replacement: leaf.WithToken(tok.WithText(rn.to)),
		})
	}

	return edits, nil
}

// scopeOf returns where sym's name must be unique: its declaring struct for a
// field, its package otherwise.
func scopeOf(sym m.Symbol) string {
	if sym.Scope != "" {
		return sym.Scope
	}

	return sym.Package
}

func renameable(sym m.Symbol) bool {
	if sym.Exported || sym.Builtin || sym.Imported != "" {
		return false
	}

	switch sym.Kind {
	case m.SymbolField:
		return true
	case m.SymbolVar, m.SymbolConst, m.SymbolType, m.SymbolFunc:
		return sym.TopLevel
	default:
		return false
	}
}

// initialisms are written in one case in Go names: userID, not userId.
var initialisms = map[string]bool{
	"ACL": true, "API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "GUID": true, "HTML": true, "HTTP": true, "HTTPS": true, "ID": true,
	"IP": true, "JSON": true, "LHS": true, "QPS": true, "RAM": true, "RHS": true,
	"RPC": true, "SLA": true, "SMTP": true, "SQL": true, "SSH": true, "TCP": true,
	"TLS": true, "TTL": true, "UDP": true, "UI": true, "UID": true, "UUID": true,
	"URI": true, "URL": true, "UTF8": true, "VM": true, "XML": true, "XMPP": true,
	"XSRF": true, "XSS": true,
}

// mixedCaps converts snake_case to mixedCaps, upper-casing known initialisms
// after the first word. Names that start with an underscore, contain no inner
// underscore or are entirely upper case are left alone.
func mixedCaps(name string) (string, bool) {
	if !strings.Contains(name, "_") || strings.HasPrefix(name, "_") || strings.ToUpper(name) == name {
		return "", false
	}

	parts := strings.Split(name, "_")

	var b strings.Builder

	b.WriteString(parts[0])

	for _, p := range parts[1:] {
		if p == "" {
			continue
		}

		if upper := strings.ToUpper(p); initialisms[upper] {
			b.WriteString(upper)
			continue
		}

		r, size := utf8.DecodeRuneInString(p)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(p[size:])
	}

	out := b.String()
	if out == name {
		return "", false
	}

	return out, true
}
