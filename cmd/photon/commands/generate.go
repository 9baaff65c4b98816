package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/photon/compiler"
	"github.com/syssam/photon/internal/logger"
)

// DefaultSchema is the schema file read when --schema is not set.
const DefaultSchema = "schema.prisma"

// debouncePeriod collapses the burst of events an editor save produces.
const debouncePeriod = 200 * time.Millisecond

// GenerateCmd generates a client.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the client for a schema",
	Long: `Generate the Go client for a schema into an output directory.

The output directory receives the client (index.go, or index.ssa and
index.export with --transpile) and a runtime/ directory holding the runtime
package and its declaration document.

Every flag can also be set in photon.yml or as PHOTON_<FLAG>, e.g.
PHOTON_OUTPUT=./db.

Examples:
  photon generate --schema db/schema.prisma --output db/client
  photon generate --binary-path ./query-engine
  photon generate --watch`,
	RunE: runGenerate,
}

func init() {
	f := GenerateCmd.Flags()
	f.StringP("schema", "s", DefaultSchema, "Schema file")
	f.StringP("output", "o", "photon", "Output directory")
	f.Bool("transpile", false, "Compile the client in memory and write the compiled artifacts")
	f.String("runtime-path", "", "Import path of the runtime package (default: github.com/syssam/photon/runtime)")
	f.Bool("browser", false, "Generate a client for a remote query engine")
	f.String("binary-path", "", "Query engine binary used to read the schema")
	f.BoolP("watch", "w", false, "Regenerate when the schema changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	generate := func(ctx context.Context) error {
		return generateOnce(ctx, v, afero.NewOsFs())
	}
	ctx := contextOf(cmd)
	if err := generate(ctx); err != nil {
		if !v.GetBool("watch") {
			return err
		}
		logger.Named("generate").Errorw("generation failed", logger.FieldError, err)
	}
	if !v.GetBool("watch") {
		return nil
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return watchSchema(ctx, v.GetString("schema"), generate)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// generateOnce reads the schema and materializes its client.
func generateOnce(ctx context.Context, v *viper.Viper, fsys afero.Fs) error {
	schemaPath := v.GetString("schema")
	datamodel, err := afero.ReadFile(fsys, schemaPath)
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "read schema %s", schemaPath),
			"pass the schema file with --schema",
		)
	}
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", schemaPath)
	}
	out := v.GetString("output")
	start := time.Now()
	err = compiler.GenerateClient(ctx, compiler.GenerateOptions{
		BuildOptions: compiler.BuildOptions{
			Datamodel:   string(datamodel),
			Cwd:         filepath.Dir(abs),
			Transpile:   v.GetBool("transpile"),
			RuntimePath: v.GetString("runtime-path"),
			Browser:     v.GetBool("browser"),
			BinaryPath:  v.GetString("binary-path"),
		},
		OutputDir: out,
		Fs:        fsys,
	})
	if err != nil {
		return withHint(errors.Wrapf(err, "generate client from %s", schemaPath))
	}
	logger.Named("generate").Infow("client written",
		logger.FieldPath, out,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}

// watchSchema runs generate after every change of the schema file until ctx
// is done. Failed generations are logged and watching continues.
func watchSchema(ctx context.Context, schemaPath string, generate func(context.Context) error) error {
	log := logger.Named("watch")
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer w.Close()

	// Editors replace files on save, so the directory is watched.
	target := filepath.Clean(schemaPath)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(target))
	}
	log.Infow("watching schema", logger.FieldFile, target)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			debounce = time.After(debouncePeriod)
		case <-debounce:
			debounce = nil
			if err := generate(ctx); err != nil {
				log.Errorw("generation failed", logger.FieldError, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}
