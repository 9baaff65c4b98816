package transpile

import (
	"go/ast"
	"go/parser"
	"go/token"
	"maps"
	"path"
	"strings"
	"sync"
)

// VirtualFile is a source unit that only exists in memory.
type VirtualFile struct {
	Path    string
	Content string
}

// FileMap maps output paths to file contents.
type FileMap map[string]string

// CaptureFunc decides whether an emitted output is captured into memory.
type CaptureFunc func(path string) bool

// DefaultCapture captures outputs located under root. The test is on
// cleaned path segments, so "root-other/x" and "a/root/x" are not captured.
func DefaultCapture(root string) CaptureFunc {
	root = path.Clean(root)
	return func(p string) bool {
		p = path.Clean(p)
		return p != root && strings.HasPrefix(p, root+"/")
	}
}

// Overlay is a Host that serves one virtual source unit from memory, retargets
// library lookups of its delegate and captures outputs instead of writing
// them. An Overlay belongs to a single compile; the parsed unit is cached for
// the lifetime of the overlay and is bound to the first FileSet it was parsed
// into.
type Overlay struct {
	delegate Host
	source   VirtualFile
	capture  CaptureFunc

	mu       sync.Mutex
	parsed   *ast.File
	parseErr error
	parses   int
	files    FileMap
}

// NewOverlay returns an overlay serving source over delegate. A nil capture
// drops every output.
func NewOverlay(delegate Host, source VirtualFile, capture CaptureFunc) *Overlay {
	return &Overlay{
		delegate: delegate,
		source:   source,
		capture:  capture,
		files:    make(FileMap),
	}
}

// ReadSource implements Host.
func (o *Overlay) ReadSource(fset *token.FileSet, p string) (*ast.File, error) {
	if p == o.source.Path {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.parsed == nil && o.parseErr == nil {
			o.parses++
			o.parsed, o.parseErr = parser.ParseFile(fset, p, o.source.Content, ParseMode)
		}
		return o.parsed, o.parseErr
	}
	return o.delegate.ReadSource(fset, RedirectToLib(p, o.delegate.FileExists))
}

// WriteOutput implements Host. Outputs rejected by the capture predicate are
// discarded without error.
func (o *Overlay) WriteOutput(p string, data []byte) error {
	if o.capture == nil || !o.capture(p) {
		return nil
	}
	o.mu.Lock()
	o.files[p] = string(data)
	o.mu.Unlock()
	return nil
}

// FileExists implements Host.
func (o *Overlay) FileExists(p string) bool {
	return p == o.source.Path || o.delegate.FileExists(p)
}

// Files returns a copy of the captured outputs.
func (o *Overlay) Files() FileMap {
	o.mu.Lock()
	defer o.mu.Unlock()
	return maps.Clone(o.files)
}

var _ Host = (*Overlay)(nil)
