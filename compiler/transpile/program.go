package transpile

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"sort"
	"strings"

	"golang.org/x/tools/go/gcexportdata"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// EmitResult reports the outcome of Program.Emit.
type EmitResult struct {
	Diagnostics Diagnostics
	// Emitted lists the output paths handed to the host, in order.
	Emitted []string
	// CodeSkipped is set when the compiled code artifact was not produced.
	CodeSkipped bool
}

// Program compiles a set of root files forming one package.
type Program struct {
	roots []string
	opts  Options
	host  Host
	fset  *token.FileSet

	diags     Diagnostics
	imports   map[string]*types.Package
	importing map[string]bool
}

// NewProgram returns a program over the root files. All file access goes
// through host.
func NewProgram(roots []string, opts Options, host Host) *Program {
	return &Program{
		roots:     roots,
		opts:      opts,
		host:      host,
		fset:      token.NewFileSet(),
		imports:   make(map[string]*types.Package),
		importing: make(map[string]bool),
	}
}

// Emit compiles the program and writes its artifacts through the host. It
// never fails: problems are reported as diagnostics, and artifacts written
// before a problem was found stay written.
func (p *Program) Emit() *EmitResult {
	res := &EmitResult{}
	files := p.parseRoots()
	if len(files) == 0 {
		res.CodeSkipped = true
		res.Diagnostics = p.diags
		return res
	}
	info := &types.Info{
		Types:        make(map[ast.Expr]types.TypeAndValue),
		Defs:         make(map[*ast.Ident]types.Object),
		Uses:         make(map[*ast.Ident]types.Object),
		Implicits:    make(map[ast.Node]types.Object),
		Instances:    make(map[*ast.Ident]types.Instance),
		Scopes:       make(map[ast.Node]*types.Scope),
		Selections:   make(map[*ast.SelectorExpr]*types.Selection),
		FileVersions: make(map[*ast.File]string),
	}
	conf := p.typesConfig(CategoryType)
	conf.DisableUnusedImportCheck = !p.opts.Strict
	pkg, _ := conf.Check(p.packagePath(), p.fset, files, info)

	base := strings.TrimSuffix(p.roots[0], ".go")
	if p.opts.Declaration {
		if data, err := p.exportData(pkg); err != nil {
			p.report(CategoryEmit, err)
		} else {
			p.write(res, base+DeclarationExt, data)
		}
	}

	switch {
	case p.diags.HasErrors():
		res.CodeSkipped = true
		p.report(CategoryEmit, fmt.Errorf("compiled code for %s not emitted: package has errors", pkg.Path()))
	case p.opts.EmitFormat != EmitSSA:
		res.CodeSkipped = true
		p.report(CategoryEmit, fmt.Errorf("unsupported emit format %q", p.opts.EmitFormat))
	default:
		code, err := p.buildSSA(pkg, files, info)
		if err != nil {
			res.CodeSkipped = true
			p.report(CategoryEmit, err)
			break
		}
		p.write(res, base+CodeExt, code)
	}
	res.Diagnostics = p.diags
	return res
}

// Import implements types.Importer. Imports resolve to library stubs read
// through the host, and are type-checked once per program.
func (p *Program) Import(importPath string) (*types.Package, error) {
	if importPath == "unsafe" {
		return types.Unsafe, nil
	}
	if pkg, ok := p.imports[importPath]; ok {
		return pkg, nil
	}
	if p.importing[importPath] {
		return nil, fmt.Errorf("import cycle through %q", importPath)
	}
	file := p.opts.LibraryFile(importPath)
	if !p.opts.InLib(file) {
		return nil, fmt.Errorf("package %q is not part of the library set (no %s)", importPath, file)
	}
	p.importing[importPath] = true
	defer delete(p.importing, importPath)

	f, err := p.host.ReadSource(p.fset, path.Join(p.opts.LibDir, file))
	if err != nil {
		if f == nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		p.report(CategoryImport, err)
	}
	conf := p.typesConfig(CategoryImport)
	conf.IgnoreFuncBodies = true
	pkg, _ := conf.Check(importPath, p.fset, []*ast.File{f}, nil)
	p.imports[importPath] = pkg
	return pkg, nil
}

func (p *Program) parseRoots() []*ast.File {
	files := make([]*ast.File, 0, len(p.roots))
	for _, root := range p.roots {
		f, err := p.host.ReadSource(p.fset, root)
		if err != nil {
			p.report(CategorySyntax, err)
		}
		if f != nil {
			files = append(files, f)
		}
	}
	return files
}

func (p *Program) typesConfig(category Category) *types.Config {
	return &types.Config{
		GoVersion: p.opts.GoVersion,
		Importer:  p,
		Sizes:     types.SizesFor("gc", p.opts.GOARCH),
		Error: func(err error) {
			var terr types.Error
			if errors.As(err, &terr) && strings.HasPrefix(terr.Msg, "could not import") {
				p.report(CategoryImport, err)
				return
			}
			p.report(category, err)
		},
	}
}

func (p *Program) packagePath() string {
	if p.opts.PackagePath != "" {
		return p.opts.PackagePath
	}
	return path.Dir(p.roots[0])
}

func (p *Program) exportData(pkg *types.Package) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("export %s: %v", pkg.Path(), r)
		}
	}()
	var buf bytes.Buffer
	if err := gcexportdata.Write(&buf, p.fset, pkg); err != nil {
		return nil, fmt.Errorf("export %s: %w", pkg.Path(), err)
	}
	return buf.Bytes(), nil
}

// buildSSA builds the package and renders the package summary followed by
// every function that belongs to it.
func (p *Program) buildSSA(pkg *types.Package, files []*ast.File, info *types.Info) (code []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build %s: %v", pkg.Path(), r)
		}
	}()
	mode := ssa.BuilderMode(0)
	if p.opts.Strict {
		mode |= ssa.SanityCheckFunctions
	}
	prog := ssa.NewProgram(p.fset, mode)
	created := make(map[*types.Package]bool)
	var createAll func([]*types.Package)
	createAll = func(pkgs []*types.Package) {
		for _, imp := range pkgs {
			if created[imp] {
				continue
			}
			created[imp] = true
			prog.CreatePackage(imp, nil, nil, true)
			createAll(imp.Imports())
		}
	}
	createAll(pkg.Imports())
	ssaPkg := prog.CreatePackage(pkg, files, info, false)
	ssaPkg.Build()

	var fns []*ssa.Function
	for fn := range ssautil.AllFunctions(prog) {
		if fn.Pkg == ssaPkg && fn.Blocks != nil {
			fns = append(fns, fn)
		}
	}
	sort.Slice(fns, func(i, j int) bool {
		return fns[i].String() < fns[j].String()
	})
	var buf bytes.Buffer
	ssa.WritePackage(&buf, ssaPkg)
	for _, fn := range fns {
		buf.WriteByte('\n')
		ssa.WriteFunction(&buf, fn)
	}
	return buf.Bytes(), nil
}

func (p *Program) write(res *EmitResult, name string, data []byte) {
	if err := p.host.WriteOutput(name, data); err != nil {
		p.report(CategoryEmit, fmt.Errorf("write %s: %w", name, err))
		return
	}
	res.Emitted = append(res.Emitted, name)
}

func (p *Program) report(category Category, err error) {
	p.diags = append(p.diags, diagnosticsOf(category, err)...)
}

var _ types.Importer = (*Program)(nil)
