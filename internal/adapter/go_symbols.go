package adapter

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// GoSymbolProvider resolves Go identifiers with go/types. It renders the current
// tree, type-checks the text and maps every identifier back to its tree leaf.
type GoSymbolProvider struct {
	mu       sync.Mutex
	fset     *token.FileSet
	importer types.Importer
	fs       afs.Service
	modules  map[string]string // directory -> module path
}

// NewGoSymbolProvider creates a GoSymbolProvider that imports dependencies from source.
func NewGoSymbolProvider() *GoSymbolProvider {
	fset := token.NewFileSet()

	return &GoSymbolProvider{
		fset:     fset,
		importer: importer.ForCompiler(fset, "source", nil),
		fs:       afs.New(),
		modules:  make(map[string]string),
	}
}

// DocumentSymbols type-checks one file on its own. Identifiers declared in other
// files of the package stay unresolved.
func (p *GoSymbolProvider) DocumentSymbols(ctx context.Context, doc *m.Document) (m.SymbolView, error) {
	view := newGoSymbolView()
	if doc.Grammar != m.GrammarGo {
		return view, nil
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, string(doc.Path), doc.Root.Text(), parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.Path, err)
	}

	unit := goUnit{doc: doc, file: file}

	result, _ := p.check(ctx, fset, p.packagePath(ctx, filepath.Dir(string(doc.Path)), file.Name.Name), []goUnit{unit})
	view.index(fset, result, []goUnit{unit})

	return view, nil
}

// ProgramSymbols type-checks every Go package of the program. A package is left
// unresolved when some of its files are not in the program or when it does not
// type-check, so that callers never act on a partial reference set.
func (p *GoSymbolProvider) ProgramSymbols(ctx context.Context, program *m.Program) (m.SymbolView, error) {
	view := newGoSymbolView()
	fset := token.NewFileSet()
	packages := make(map[string][]goUnit)

	for _, doc := range program.Documents() {
		if doc.Grammar != m.GrammarGo {
			continue
		}

		file, err := parser.ParseFile(fset, string(doc.Path), doc.Root.Text(), parser.SkipObjectResolution)
		if err != nil {
			slog.Debug("Skipping unparsable Go document", "document", doc.ID, "error", err)
			continue
		}

		key := filepath.Dir(string(doc.Path)) + "|" + file.Name.Name
		packages[key] = append(packages[key], goUnit{doc: doc, file: file})
	}

	keys := make([]string, 0, len(packages))
	for k := range packages {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		units := packages[key]
		dir, name, _ := strings.Cut(key, "|")

		if !p.complete(ctx, dir, name, units) {
			slog.Debug("Package not fully in program, leaving it unresolved", "dir", dir, "package", name)
			continue
		}

		result, errs := p.check(ctx, fset, p.packagePath(ctx, dir, name), units)
		if len(errs) > 0 {
			slog.Debug("Package does not type-check, leaving it unresolved", "dir", dir, "package", name, "error", errors.Join(errs...))
			continue
		}

		view.index(fset, result, units)
	}

	return view, nil
}

type goUnit struct {
	doc  *m.Document
	file *ast.File
}

// check type-checks units and returns the recorded objects, the import paths that
// failed and every other type error.
func (p *GoSymbolProvider) check(_ context.Context, fset *token.FileSet, pkgPath string, units []goUnit) (*checked, []error) {
	failedImports := make(map[string]bool)

	var errs []error

	conf := types.Config{
		Importer: lockedImporter{p},
		Error: func(err error) {
			var terr types.Error
			if errors.As(err, &terr) && strings.HasPrefix(terr.Msg, "could not import ") {
				if imported, ok := importPathOf(terr.Msg); ok {
					failedImports[imported] = true
				}

				return
			}

			errs = append(errs, err)
		},
	}

	info := &types.Info{
		Defs: make(map[*ast.Ident]types.Object),
		Uses: make(map[*ast.Ident]types.Object),
	}

	files := make([]*ast.File, len(units))
	for i, u := range units {
		files[i] = u.file
	}

	// errors are collected by conf.Error
	pkg, _ := conf.Check(pkgPath, fset, files, info)

	return &checked{pkg: pkg, info: info, failedImports: failedImports, owners: fieldOwners(fset, files, info)}, errs
}

type checked struct {
	pkg           *types.Package
	info          *types.Info
	failedImports map[string]bool
	owners        map[*types.Var]string // field -> declaring struct
}

// fieldOwners names the struct type declaring each field by its position.
func fieldOwners(fset *token.FileSet, files []*ast.File, info *types.Info) map[*types.Var]string {
	owners := make(map[*types.Var]string)

	for _, f := range files {
		ast.Inspect(f, func(n ast.Node) bool {
			st, ok := n.(*ast.StructType)
			if !ok || st.Fields == nil {
				return true
			}

			pos := fset.Position(st.Pos())
			owner := fmt.Sprintf("%s#%d", pos.Filename, pos.Offset)

			for _, field := range st.Fields.List {
				for _, name := range field.Names {
					if v, ok := info.Defs[name].(*types.Var); ok {
						owners[v] = owner
					}
				}
			}

			return true
		})
	}

	return owners
}

func importPathOf(msg string) (string, bool) {
	rest := strings.TrimPrefix(msg, "could not import ")

	quoted, _, _ := strings.Cut(rest, " ")

	imported, err := strconv.Unquote(quoted)
	if err != nil {
		return "", false
	}

	return imported, true
}

// lockedImporter serializes access to the shared source importer.
type lockedImporter struct {
	p *GoSymbolProvider
}

func (l lockedImporter) Import(path string) (*types.Package, error) {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()

	return l.p.importer.Import(path)
}

func (l lockedImporter) ImportFrom(path, dir string, mode types.ImportMode) (*types.Package, error) {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()

	if from, ok := l.p.importer.(types.ImporterFrom); ok {
		return from.ImportFrom(path, dir, mode)
	}

	return l.p.importer.Import(path)
}

// complete reports whether every file of package name in dir is among units.
func (p *GoSymbolProvider) complete(ctx context.Context, dir, name string, units []goUnit) bool {
	objects, err := p.fs.List(ctx, dir)
	if err != nil {
		return true
	}

	have := make(map[string]bool, len(units))
	for _, u := range units {
		have[filepath.Base(string(u.doc.Path))] = true
	}

	fset := token.NewFileSet()

	for _, obj := range objects {
		if obj.IsDir() || filepath.Ext(obj.Name()) != ".go" || have[obj.Name()] {
			continue
		}

		file := filepath.Join(dir, obj.Name())

		content, err := p.fs.DownloadWithURL(ctx, file)
		if err != nil {
			return false
		}

		f, err := parser.ParseFile(fset, file, content, parser.PackageClauseOnly)
		if err != nil || f.Name.Name == name {
			return false
		}
	}

	return true
}

// packagePath derives the import path of dir from the enclosing go.mod.
func (p *GoSymbolProvider) packagePath(ctx context.Context, dir, name string) string {
	p.mu.Lock()
	cached, ok := p.modules[dir]
	p.mu.Unlock()

	if ok {
		return cached
	}

	pkgPath := name

	for cur := dir; ; cur = filepath.Dir(cur) {
		modPath := filepath.Join(cur, "go.mod")

		if exists, _ := p.fs.Exists(ctx, modPath); exists {
			if data, err := p.fs.DownloadWithURL(ctx, modPath); err == nil {
				if mod := modfile.ModulePath(data); mod != "" {
					rel, _ := filepath.Rel(cur, dir)
					pkgPath = path.Join(mod, filepath.ToSlash(rel))
				}
			}

			break
		}

		if filepath.Dir(cur) == cur {
			break
		}
	}

	p.mu.Lock()
	p.modules[dir] = pkgPath
	p.mu.Unlock()

	return pkgPath
}

type goSymbolView struct {
	byLeaf map[*m.Node]m.Symbol
	refs   map[string][]m.NodeRef
}

func newGoSymbolView() *goSymbolView {
	return &goSymbolView{
		byLeaf: make(map[*m.Node]m.Symbol),
		refs:   make(map[string][]m.NodeRef),
	}
}

func (v *goSymbolView) Resolve(n *m.Node) (m.Symbol, bool) {
	sym, ok := v.byLeaf[n]
	return sym, ok
}

func (v *goSymbolView) AllReferences(sym m.Symbol) []m.NodeRef {
	refs := v.refs[sym.ID]
	out := make([]m.NodeRef, len(refs))
	copy(out, refs)

	return out
}

func (v *goSymbolView) index(fset *token.FileSet, c *checked, units []goUnit) {
	type leafAt struct {
		node *m.Node
		path m.NodePath
	}

	for _, u := range units {
		leaves := make(map[int]leafAt)
		for _, l := range m.Leaves(u.doc.Root) {
			leaves[l.Offset] = leafAt{node: l.Node, path: l.Path}
		}

		record := func(id *ast.Ident, obj types.Object) {
			if obj == nil {
				return
			}

			l, ok := leaves[fset.Position(id.Pos()).Offset]
			if !ok {
				return
			}

			if tok, _ := l.node.Token(); tok.Text != id.Name {
				return
			}

			sym := symbolOf(fset, obj, c)

			v.byLeaf[l.node] = sym
			v.refs[sym.ID] = append(v.refs[sym.ID], m.NodeRef{Document: u.doc.ID, Path: l.path})
		}

		for id, obj := range c.info.Defs {
			if fset.File(id.Pos()) == fset.File(u.file.Pos()) {
				record(id, obj)
			}
		}

		for id, obj := range c.info.Uses {
			if fset.File(id.Pos()) == fset.File(u.file.Pos()) {
				record(id, obj)
			}
		}
	}
}

func symbolOf(fset *token.FileSet, obj types.Object, c *checked) m.Symbol {
	sym := m.Symbol{
		Name:     obj.Name(),
		Exported: obj.Exported(),
		Builtin:  obj.Pkg() == nil,
	}

	if obj.Pkg() != nil {
		sym.Package = obj.Pkg().Path()
		sym.TopLevel = obj.Parent() == obj.Pkg().Scope()
	}

	switch o := obj.(type) {
	case *types.PkgName:
		sym.Kind = m.SymbolPackage
		if !c.failedImports[o.Imported().Path()] {
			sym.Imported = o.Imported().Name()
		}
	case *types.TypeName:
		sym.Kind = m.SymbolType
	case *types.Const:
		sym.Kind = m.SymbolConst
	case *types.Var:
		switch {
		case o.Embedded():
			sym.Kind = m.SymbolEmbedded
		case o.IsField():
			sym.Kind = m.SymbolField
			sym.Scope = c.owners[o.Origin()]
		default:
			sym.Kind = m.SymbolVar
		}
	case *types.Func:
		sym.Kind = m.SymbolFunc
		if sig, ok := o.Type().(*types.Signature); ok && sig.Recv() != nil {
			sym.Kind = m.SymbolMethod
		}
	case *types.Label:
		sym.Kind = m.SymbolLabel
	default:
		sym.Kind = m.SymbolOther
	}

	// objects of imported packages carry positions from the importer's file set
	if obj.Pkg() == nil || obj.Pkg() != c.pkg || !obj.Pos().IsValid() {
		sym.ID = sym.Package + "." + sym.Name
		return sym
	}

	pos := fset.Position(obj.Pos())
	sym.ID = fmt.Sprintf("%s#%d", pos.Filename, pos.Offset)

	return sym
}
