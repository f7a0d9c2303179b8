package rules

import (
	"context"
	"testing"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importDecl(aliasTrailing m.TriviaList, alias, path string) (*m.Node, *m.Node) {
	aliasLeaf := tok("package_identifier", alias, nil, aliasTrailing)

	root := m.NewNode("source_file",
		m.NewNode("import_declaration",
			tok("import", "import", nil, m.TriviaList{ws(" ")}),
			m.NewNode("import_spec",
				aliasLeaf,
				tok("interpreted_string_literal", path, nil, m.TriviaList{nl()}),
			),
		),
		eof(nil),
	)

	return root, aliasLeaf
}

func TestRedundantImportAlias(t *testing.T) {
	tests := []struct {
		name     string
		trailing m.TriviaList
		alias    string
		path     string
		symbol   *m.Symbol
		want     string
	}{
		{
			name:     "alias repeats package name",
			trailing: m.TriviaList{ws(" ")},
			alias:    "yaml",
			path:     `"gopkg.in/yaml.v3"`,
			symbol:   &m.Symbol{ID: "pkg:yaml", Name: "yaml", Kind: m.SymbolPackage, Imported: "yaml"},
			want:     "import \"gopkg.in/yaml.v3\"\n",
		},
		{
			name:     "comment after alias is kept",
			trailing: m.TriviaList{ws(" "), {Kind: m.TriviaBlockComment, Text: "/* std */"}, ws(" ")},
			alias:    "fmt",
			path:     `"fmt"`,
			symbol:   &m.Symbol{ID: "pkg:fmt", Name: "fmt", Kind: m.SymbolPackage, Imported: "fmt"},
			want:     "import  /* std */ \"fmt\"\n",
		},
		{
			name:     "renaming alias",
			trailing: m.TriviaList{ws(" ")},
			alias:    "m",
			path:     `"example.com/model"`,
			symbol:   &m.Symbol{ID: "pkg:m", Name: "m", Kind: m.SymbolPackage, Imported: "model"},
			want:     "import m \"example.com/model\"\n",
		},
		{
			name:     "unresolved",
			trailing: m.TriviaList{ws(" ")},
			alias:    "fmt",
			path:     `"fmt"`,
			want:     "import fmt \"fmt\"\n",
		},
		{
			name:     "not a package",
			trailing: m.TriviaList{ws(" ")},
			alias:    "fmt",
			path:     `"fmt"`,
			symbol:   &m.Symbol{ID: "var:fmt", Name: "fmt", Kind: m.SymbolVar},
			want:     "import fmt \"fmt\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, alias := importDecl(tt.trailing, tt.alias, tt.path)

			view := newSymbolView()
			if tt.symbol != nil {
				view.symbols[alias] = *tt.symbol
			}

			rule := NewRedundantImportAlias()

			out, changed, err := rule.RewriteWithSymbols(context.Background(), m.GrammarGo, root, view)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Text())

			if !changed {
				assert.Same(t, root, out)
				return
			}

			again, changedAgain, err := rule.RewriteWithSymbols(context.Background(), m.GrammarGo, out, view)
			require.NoError(t, err)
			assert.False(t, changedAgain)
			assert.Same(t, out, again)
		})
	}
}

func goDoc(id string, words ...string) *m.Document {
	leaves := make([]*m.Node, 0, len(words)+1)
	for i, w := range words {
		var trailing m.TriviaList
		if i < len(words)-1 {
			trailing = m.TriviaList{ws(" ")}
		}

		leaves = append(leaves, tok("identifier", w, nil, trailing))
	}

	leaves = append(leaves, eof(m.TriviaList{nl()}))

	return m.NewDocument(m.Path(id), m.GrammarGo, m.NewNode("source_file", leaves...))
}

func program(t *testing.T, docs ...*m.Document) *m.Program {
	t.Helper()

	p := m.NewProgram()
	for _, d := range docs {
		require.NoError(t, p.Add(d))
	}

	return p
}

func applyEdits(t *testing.T, p *m.Program, edits []m.Edit) map[m.DocumentID]string {
	t.Helper()

	out := make(map[m.DocumentID]string)

	for _, doc := range p.Documents() {
		root := doc.Root

		for _, e := range edits {
			if e.Document != doc.ID {
				continue
			}

			var err error
			root, err = root.ReplaceAt(e.Path, e.Replacement)
			require.NoError(t, err)
		}

		out[doc.ID] = root.Text()
	}

	return out
}

func topLevel(id, name string) m.Symbol {
	return m.Symbol{ID: id, Name: name, Kind: m.SymbolVar, Package: "a", TopLevel: true}
}

func TestIdentifierCase_RenamesAcrossDocuments(t *testing.T) {
	a := goDoc("a.go", "var", "max_len", "int")
	b := goDoc("b.go", "use", "max_len", "max_len")
	p := program(t, a, b)

	view := newSymbolView()
	sym := topLevel("a.max_len", "max_len")
	view.bind(a, "max_len", sym)
	view.bind(b, "max_len", sym)

	edits, err := NewIdentifierCase().Plan(context.Background(), p, view)
	require.NoError(t, err)
	require.Len(t, edits, 3)

	got := applyEdits(t, p, edits)
	assert.Equal(t, "var maxLen int\n", got["a.go"])
	assert.Equal(t, "use maxLen maxLen\n", got["b.go"])
}

func TestIdentifierCase_DuplicateReferencesCollapse(t *testing.T) {
	a := goDoc("a.go", "var", "max_len")
	p := program(t, a)

	view := newSymbolView()
	sym := topLevel("a.max_len", "max_len")
	view.bind(a, "max_len", sym)
	view.refs[sym.ID] = append(view.refs[sym.ID], view.refs[sym.ID]...)

	edits, err := NewIdentifierCase().Plan(context.Background(), p, view)
	require.NoError(t, err)
	assert.Len(t, edits, 1)
}

func TestIdentifierCase_NothingToRename(t *testing.T) {
	a := goDoc("a.go", "var", "maxLen", "Exported_Name", "local_var")
	p := program(t, a)

	view := newSymbolView()
	view.bind(a, "Exported_Name", m.Symbol{ID: "e", Name: "Exported_Name", Kind: m.SymbolVar, Exported: true, TopLevel: true})
	view.bind(a, "local_var", m.Symbol{ID: "l", Name: "local_var", Kind: m.SymbolVar})

	edits, err := NewIdentifierCase().Plan(context.Background(), p, view)
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestIdentifierCase_Collisions(t *testing.T) {
	t.Run("target already used", func(t *testing.T) {
		a := goDoc("a.go", "var", "max_len", "maxLen")
		p := program(t, a)

		view := newSymbolView()
		view.bind(a, "max_len", topLevel("a.max_len", "max_len"))

		edits, err := NewIdentifierCase().Plan(context.Background(), p, view)
		require.ErrorIs(t, err, domain.ErrNameCollision)
		assert.Nil(t, edits)
	})

	t.Run("two names map to one target", func(t *testing.T) {
		a := goDoc("a.go", "max_len", "max__len")
		p := program(t, a)

		view := newSymbolView()
		view.bind(a, "max_len", topLevel("a.max_len", "max_len"))
		view.bind(a, "max__len", topLevel("a.max__len", "max__len"))

		_, err := NewIdentifierCase().Plan(context.Background(), p, view)
		require.ErrorIs(t, err, domain.ErrNameCollision)
	})
}

func field(id, name, scope string) m.Symbol {
	return m.Symbol{ID: id, Name: name, Kind: m.SymbolField, Package: "a", Scope: scope}
}

func TestIdentifierCase_FieldsOfDifferentStructs(t *testing.T) {
	a := goDoc("a.go", "type", "user", "user_id")
	b := goDoc("b.go", "type", "order", "user_id")
	p := program(t, a, b)

	view := newSymbolView()
	view.bind(a, "user_id", field("a.go#20", "user_id", "a.go#12"))
	view.bind(b, "user_id", field("b.go#21", "user_id", "b.go#13"))

	edits, err := NewIdentifierCase().Plan(context.Background(), p, view)
	require.NoError(t, err)
	require.Len(t, edits, 2)

	got := applyEdits(t, p, edits)
	assert.Equal(t, "type user userID\n", got["a.go"])
	assert.Equal(t, "type order userID\n", got["b.go"])
}

func TestIdentifierCase_FieldsOfOneStructCollide(t *testing.T) {
	a := goDoc("a.go", "type", "user", "user_id", "user__id")
	p := program(t, a)

	view := newSymbolView()
	view.bind(a, "user_id", field("a.go#20", "user_id", "a.go#12"))
	view.bind(a, "user__id", field("a.go#28", "user__id", "a.go#12"))

	_, err := NewIdentifierCase().Plan(context.Background(), p, view)
	require.ErrorIs(t, err, domain.ErrNameCollision)
}

func TestIdentifierCase_IgnoresOtherGrammars(t *testing.T) {
	doc := m.NewDocument("a.py", m.GrammarPython, m.NewNode("module", tok("identifier", "max_len", nil, nil), eof(nil)))
	p := program(t, doc)

	view := newSymbolView()
	view.bind(doc, "max_len", topLevel("a.max_len", "max_len"))

	edits, err := NewIdentifierCase().Plan(context.Background(), p, view)
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestIdentifierCase_StaleReference(t *testing.T) {
	a := goDoc("a.go", "var", "max_len")
	p := program(t, a)

	view := newSymbolView()
	sym := topLevel("a.max_len", "max_len")
	view.bind(a, "max_len", sym)
	view.refs[sym.ID] = append(view.refs[sym.ID], m.NodeRef{Document: "a.go", Path: m.NodePath{0}})

	_, err := NewIdentifierCase().Plan(context.Background(), p, view)
	require.Error(t, err)
}

func TestMixedCaps(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"max_len", "maxLen", true},
		{"http_server_url", "httpServerURL", true},
		{"user_id", "userID", true},
		{"parse_json_api", "parseJSONAPI", true},
		{"id_value", "idValue", true},
		{"user_Id", "userID", true},
		{"a_b", "aB", true},
		{"max__len", "maxLen", true},
		{"plain", "", false},
		{"_private", "", false},
		{"MAX_LEN", "", false},
		{"camelCase", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := mixedCaps(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenameable(t *testing.T) {
	tests := []struct {
		name string
		sym  m.Symbol
		want bool
	}{
		{"top-level var", m.Symbol{Kind: m.SymbolVar, TopLevel: true}, true},
		{"top-level func", m.Symbol{Kind: m.SymbolFunc, TopLevel: true}, true},
		{"field", m.Symbol{Kind: m.SymbolField}, true},
		{"local var", m.Symbol{Kind: m.SymbolVar}, false},
		{"exported", m.Symbol{Kind: m.SymbolType, TopLevel: true, Exported: true}, false},
		{"builtin", m.Symbol{Kind: m.SymbolFunc, TopLevel: true, Builtin: true}, false},
		{"method", m.Symbol{Kind: m.SymbolMethod, TopLevel: true}, false},
		{"package", m.Symbol{Kind: m.SymbolPackage, Imported: "fmt"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renameable(tt.sym))
		})
	}
}
