package compiler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syssam/photon/compiler/gen"
	"github.com/syssam/photon/compiler/load"
	"github.com/syssam/photon/compiler/project"
	"github.com/syssam/photon/compiler/transpile"
	"github.com/syssam/photon/internal/logger"
	"github.com/syssam/photon/runtime"
	"github.com/syssam/photon/runtime/dmmf"
)

// MetadataService turns schema text into a schema document.
type MetadataService interface {
	GetDMMF(ctx context.Context, datamodel, binaryPath string) (*dmmf.Document, error)
}

// ConfigEngine resolves the datasources and generators of a schema and
// prints a document back to schema text.
type ConfigEngine interface {
	GetConfig(ctx context.Context, datamodel, cwd string) (*project.Config, error)
	PrintSchema(ctx context.Context, doc *dmmf.Document, cfg *project.Config) (string, error)
}

// Emitter renders the client source.
type Emitter interface {
	Emit(ctx context.Context, in gen.Input) (string, error)
}

var (
	_ MetadataService = (*load.Service)(nil)
	_ ConfigEngine    = (*project.Engine)(nil)
	_ Emitter         = (*gen.Generator)(nil)
)

// Reporter receives the diagnostics of a compile.
type Reporter func(transpile.Diagnostic)

// BuildOptions configures BuildClient.
type BuildOptions struct {
	// Datamodel is the schema text.
	Datamodel string
	// Cwd is the project directory, used for relative datasource paths and
	// .env lookup.
	Cwd string
	// Transpile compiles the client in memory instead of returning its
	// source.
	Transpile bool
	// RuntimePath is the import path of the runtime package.
	// Defaults to runtime.ImportPath.
	RuntimePath string
	// Browser makes the client talk to a remote engine.
	Browser bool
	// BinaryPath of a metadata engine. Empty uses the built-in parser.
	BinaryPath string

	Metadata MetadataService
	Config   ConfigEngine
	Emitter  Emitter

	// Compiler is the compile configuration. The zero value uses
	// transpile.DefaultOptions.
	Compiler transpile.Options
	// Host serves library stubs to the compiler. Defaults to the embedded
	// stubs.
	Host transpile.Host
	// Capture selects the compiler outputs kept. Defaults to the outputs
	// under VirtualRoot.
	Capture  transpile.CaptureFunc
	Reporter Reporter
	Logger   *zap.SugaredLogger
}

func (o *BuildOptions) defaults() error {
	if o.Logger == nil {
		o.Logger = logger.Named("compiler")
	}
	if o.RuntimePath == "" {
		o.RuntimePath = runtime.ImportPath
	}
	if o.Metadata == nil {
		o.Metadata = load.NewService(load.WithLogger(o.Logger))
	}
	if o.Config == nil {
		o.Config = project.NewEngine(project.WithLogger(o.Logger))
	}
	if o.Emitter == nil {
		g, err := gen.NewGenerator()
		if err != nil {
			return err
		}
		o.Emitter = g
	}
	if o.Compiler.EmitFormat == "" {
		o.Compiler = transpile.DefaultOptions()
	}
	if o.Capture == nil {
		o.Capture = transpile.DefaultCapture(VirtualRoot)
	}
	return nil
}

// logReporter logs each diagnostic at warn level.
func logReporter(log *zap.SugaredLogger) Reporter {
	return func(d transpile.Diagnostic) {
		log.Warnw("compile diagnostic",
			logger.FieldCategory, d.Category,
			logger.FieldFile, d.Pos.Filename,
			logger.FieldLine, d.Pos.Line,
			logger.FieldError, d.Message)
	}
}

// BuildClient generates the client for opts.Datamodel and returns its files
// keyed relative to the output directory. Errors of the collaborators are
// returned unchanged. Compile diagnostics go to opts.Reporter and never fail
// the build.
func BuildClient(ctx context.Context, opts BuildOptions) (FileMap, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	log := opts.Logger.With(logger.FieldBuildID, uuid.NewString())
	if opts.Reporter == nil {
		opts.Reporter = logReporter(log)
	}

	doc, err := opts.Metadata.GetDMMF(ctx, opts.Datamodel, opts.BinaryPath)
	if err != nil {
		return nil, err
	}
	cfg, err := opts.Config.GetConfig(ctx, opts.Datamodel, opts.Cwd)
	if err != nil {
		return nil, err
	}
	bare, err := opts.Config.PrintSchema(ctx, doc, &project.Config{})
	if err != nil {
		return nil, err
	}
	src, err := opts.Emitter.Emit(ctx, gen.Input{
		Document:    doc,
		Cwd:         opts.Cwd,
		Datamodel:   bare,
		RuntimePath: opts.RuntimePath,
		Browser:     opts.Browser,
		Datasources: cfg.Datasources,
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("client source emitted", logger.FieldSize, len(src))

	if !opts.Transpile {
		return NormalizeFileMap(FileMap{VirtualPath: src}, VirtualRoot), nil
	}

	files, diags := transpile.TranspileFile(
		transpile.VirtualFile{Path: VirtualPath, Content: src},
		transpile.Config{
			Options: opts.Compiler.WithPath(opts.RuntimePath, "lib.runtime.d.go"),
			Host:    opts.Host,
			Capture: opts.Capture,
		},
	)
	for _, d := range diags {
		opts.Reporter(d)
	}
	log.Infow("client compiled",
		logger.FieldCount, len(files),
		"diagnostics", len(diags),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return NormalizeFileMap(files, VirtualRoot), nil
}
