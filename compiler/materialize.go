package compiler

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/photon/internal/logger"
	"github.com/syssam/photon/runtime"
)

// RuntimeDir is the directory of the runtime package inside the output.
const RuntimeDir = "runtime"

// DeclarationFile is the name of the runtime declaration document.
const DeclarationFile = "index.d.go"

// Materialize writes files into outputDir, then copies the runtime package
// into outputDir/runtime and writes its declaration document there. Missing
// directories are created. A failure stops the remaining phases without
// removing what was already written.
func Materialize(fsys afero.Fs, files FileMap, outputDir string) error {
	if err := fsys.MkdirAll(outputDir, 0o755); err != nil {
		return &FileSystemError{Phase: "mkdir", Path: outputDir, Cause: err}
	}
	var g errgroup.Group
	for name, content := range files {
		target := filepath.Join(outputDir, filepath.FromSlash(name))
		g.Go(func() error {
			return writeFile(fsys, "write", target, []byte(content))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	runtimeDir := filepath.Join(outputDir, RuntimeDir)
	if err := copyRuntime(fsys, runtimeDir); err != nil {
		return err
	}
	return writeFile(fsys, "declaration", filepath.Join(runtimeDir, DeclarationFile), []byte(runtime.Declaration))
}

func copyRuntime(fsys afero.Fs, dir string) error {
	return fs.WalkDir(runtime.Assets, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &FileSystemError{Phase: "copy-runtime", Path: p, Cause: err}
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(runtime.Assets, p)
		if err != nil {
			return &FileSystemError{Phase: "copy-runtime", Path: p, Cause: err}
		}
		return writeFile(fsys, "copy-runtime", filepath.Join(dir, filepath.FromSlash(p)), data)
	})
}

func writeFile(fsys afero.Fs, phase, name string, data []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return &FileSystemError{Phase: phase, Path: name, Cause: err}
	}
	if err := afero.WriteFile(fsys, name, data, 0o644); err != nil {
		return &FileSystemError{Phase: phase, Path: name, Cause: err}
	}
	return nil
}

// GenerateOptions configures GenerateClient.
type GenerateOptions struct {
	BuildOptions
	// OutputDir receives the client.
	OutputDir string
	// Fs is the output file system. Defaults to the OS file system.
	Fs afero.Fs
}

// GenerateClient builds the client and materializes it into
// opts.OutputDir. A Cwd naming a .yml project file is replaced by its
// directory.
func GenerateClient(ctx context.Context, opts GenerateOptions) error {
	if strings.HasSuffix(opts.Cwd, ".yml") {
		opts.Cwd = filepath.Dir(opts.Cwd)
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	files, err := BuildClient(ctx, opts.BuildOptions)
	if err != nil {
		return err
	}
	if err := Materialize(opts.Fs, files, opts.OutputDir); err != nil {
		return err
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("compiler")
	}
	log.Infow("client generated",
		logger.FieldPath, opts.OutputDir,
		logger.FieldCount, len(files))
	return nil
}
