package transpile

import (
	"embed"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"regexp"

	"github.com/spf13/afero"
)

// Host is the file access capability of the compiler.
type Host interface {
	// ReadSource parses the file at path into fset.
	ReadSource(fset *token.FileSet, path string) (*ast.File, error)
	// WriteOutput persists an emitted artifact.
	WriteOutput(path string, data []byte) error
	// FileExists reports whether path can be read.
	FileExists(path string) bool
}

// ParseMode is the parser mode used for every file the compiler reads.
const ParseMode = parser.ParseComments | parser.SkipObjectResolution

// FileSystemHost is a Host backed by a real file system.
type FileSystemHost struct {
	fs afero.Fs
}

// NewFileSystemHost returns a host reading from and writing to fs.
func NewFileSystemHost(fs afero.Fs) *FileSystemHost {
	return &FileSystemHost{fs: fs}
}

//go:embed lib
var libFS embed.FS

// DefaultHost returns a read-only host over the embedded library stubs.
// Stubs live in a lib/ subdirectory and are found through RedirectToLib.
func DefaultHost() *FileSystemHost {
	return NewFileSystemHost(afero.NewReadOnlyFs(afero.FromIOFS{FS: libFS}))
}

// ReadSource implements Host.
func (h *FileSystemHost) ReadSource(fset *token.FileSet, path string) (*ast.File, error) {
	data, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return nil, err
	}
	return parser.ParseFile(fset, path, data, ParseMode)
}

// WriteOutput implements Host.
func (h *FileSystemHost) WriteOutput(path string, data []byte) error {
	return afero.WriteFile(h.fs, path, data, 0o644)
}

// FileExists implements Host.
func (h *FileSystemHost) FileExists(path string) bool {
	ok, err := afero.Exists(h.fs, path)
	return ok && err == nil
}

var libFilePattern = regexp.MustCompile(`^lib\.(.*?)\.d\.go$`)

// RedirectToLib retargets a library stub lookup that misses its direct path
// to the lib/ directory next to it, keeping the file name. Any other path,
// or a stub that exists where it was asked for, is returned unchanged.
func RedirectToLib(fileName string, exists func(string) bool) string {
	base := path.Base(fileName)
	if !libFilePattern.MatchString(base) || exists(fileName) {
		return fileName
	}
	return path.Join(path.Dir(fileName), "lib", base)
}

var _ Host = (*FileSystemHost)(nil)
