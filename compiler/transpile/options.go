package transpile

import (
	"slices"
	"strings"
)

// EmitFormat selects the compiled code representation.
type EmitFormat string

// EmitSSA writes the SSA form of every function of the package.
const EmitSSA EmitFormat = "ssa"

// Artifact suffixes, replacing the ".go" suffix of the root file.
const (
	CodeExt        = ".ssa"
	DeclarationExt = ".export"
)

// Options is the compile configuration.
type Options struct {
	// EmitFormat of the compiled code artifact.
	EmitFormat EmitFormat
	// GOOS and GOARCH of the target, used for type sizes.
	GOOS, GOARCH string
	// GoVersion is the language level, e.g. "go1.22".
	GoVersion string
	// Declaration enables the type declaration artifact.
	Declaration bool
	// Strict reports unused imports and sanity checks the built code.
	Strict bool
	// Lib is the fixed library set. Imports resolve only to these stubs.
	Lib []string
	// Paths maps import paths to library stubs, overriding the file name
	// derived from the import path.
	Paths map[string]string
	// LibDir is the directory library stubs are requested from.
	LibDir string
	// PackagePath of the compiled package. Defaults to the directory of the
	// first root file.
	PackagePath string
}

// DefaultLib is the library set a generated client compiles against.
var DefaultLib = []string{
	"lib.context.d.go",
	"lib.time.d.go",
	"lib.runtime.d.go",
}

// DefaultOptions returns the compile configuration used for generated clients.
func DefaultOptions() Options {
	return Options{
		EmitFormat:  EmitSSA,
		GOOS:        "linux",
		GOARCH:      "amd64",
		GoVersion:   "go1.22",
		Declaration: true,
		Strict:      true,
		Lib:         slices.Clone(DefaultLib),
	}
}

// LibraryFile returns the stub file name an import path resolves to.
func (o Options) LibraryFile(importPath string) string {
	if f, ok := o.Paths[importPath]; ok {
		return f
	}
	return "lib." + strings.ReplaceAll(importPath, "/", ".") + ".d.go"
}

// InLib reports whether the stub file is part of the library set.
func (o Options) InLib(file string) bool {
	return slices.Contains(o.Lib, file)
}

// WithPath returns a copy of o that resolves importPath to the stub file.
func (o Options) WithPath(importPath, file string) Options {
	paths := make(map[string]string, len(o.Paths)+1)
	for k, v := range o.Paths {
		paths[k] = v
	}
	paths[importPath] = file
	o.Paths = paths
	return o
}
