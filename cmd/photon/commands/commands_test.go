package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/syssam/photon/compiler/gen"
	"github.com/syssam/photon/compiler/load"
	"github.com/syssam/photon/compiler/project"
	"github.com/syssam/photon/runtime/dmmf"
)

const schema = `datasource db {
  provider = "sqlite"
  url      = "file:dev.db"
}

model User {
  id    Int    @id
  email String @unique
}
`

func TestGenerateOnce(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/proj/schema.prisma", []byte(schema), 0o644))

	t.Run("source", func(t *testing.T) {
		v := viper.New()
		v.Set("schema", "/proj/schema.prisma")
		v.Set("output", "/proj/client")
		require.NoError(t, generateOnce(context.Background(), v, fsys))

		src, err := afero.ReadFile(fsys, "/proj/client/index.go")
		require.NoError(t, err)
		assert.Contains(t, string(src), "type UserDelegate struct")
		assert.Contains(t, string(src), "file:/proj/dev.db")

		ok, err := afero.Exists(fsys, "/proj/client/runtime/index.d.go")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("transpile", func(t *testing.T) {
		v := viper.New()
		v.Set("schema", "/proj/schema.prisma")
		v.Set("output", "/proj/compiled")
		v.Set("transpile", true)
		require.NoError(t, generateOnce(context.Background(), v, fsys))

		for _, name := range []string{"index.ssa", "index.export"} {
			ok, err := afero.Exists(fsys, "/proj/compiled/"+name)
			require.NoError(t, err)
			assert.True(t, ok, name)
		}
	})

	t.Run("missing schema", func(t *testing.T) {
		v := viper.New()
		v.Set("schema", "/nowhere/schema.prisma")
		err := generateOnce(context.Background(), v, fsys)
		require.Error(t, err)
		assert.Contains(t, errors.FlattenHints(err), "--schema")
	})

	t.Run("invalid schema", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fsys, "/bad/schema.prisma", []byte("model User {\n  id Int @id\n"), 0o644))
		v := viper.New()
		v.Set("schema", "/bad/schema.prisma")
		v.Set("output", "/bad/out")
		err := generateOnce(context.Background(), v, fsys)
		require.Error(t, err)
		assert.ErrorIs(t, err, load.ErrInvalidSchema)
		assert.Contains(t, errors.FlattenHints(err), "line")
	})
}

func TestWithHint(t *testing.T) {
	err := withHint(&load.LoadError{Line: 3, Message: "bad"})
	assert.Contains(t, errors.FlattenHints(err), "line 3")

	err = withHint(&project.ResolutionError{Block: "db", Message: "bad"})
	assert.Contains(t, errors.FlattenHints(err), `"db"`)

	err = withHint(gen.NewSchemaError("Client", "", "generated name Client is reserved", nil))
	assert.Contains(t, errors.FlattenHints(err), "not Client")

	err = withHint(gen.NewConfigError("RuntimePath", nil, "runtime import path cannot be empty"))
	assert.Contains(t, errors.FlattenHints(err), "--runtime-path")

	err = withHint(errors.Wrap(gen.NewGenerationError("render", "format client source", nil), "generate"))
	assert.Contains(t, errors.FlattenHints(err), "--verbose")

	plain := errors.New("plain")
	assert.Same(t, plain, withHint(plain))
}

func TestDMMFCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.prisma")
	require.NoError(t, os.WriteFile(path, []byte(schema), 0o644))

	run := func(t *testing.T, args ...string) string {
		t.Helper()
		var out bytes.Buffer
		DMMFCmd.SetOut(&out)
		DMMFCmd.SetArgs(append([]string{"--schema", path}, args...))
		require.NoError(t, DMMFCmd.Execute())
		return out.String()
	}

	t.Run("json", func(t *testing.T) {
		var doc dmmf.Document
		require.NoError(t, json.Unmarshal([]byte(run(t, "--format", "json")), &doc))
		require.Len(t, doc.Datamodel.Models, 1)
		assert.Equal(t, "User", doc.Datamodel.Models[0].Name)
		assert.Equal(t, "findManyUser", doc.Mappings[0].FindMany)
	})

	t.Run("yaml", func(t *testing.T) {
		var doc dmmf.Document
		require.NoError(t, yaml.Unmarshal([]byte(run(t, "--format", "yaml")), &doc))
		require.Len(t, doc.Datamodel.Models, 1)
		assert.Equal(t, "User", doc.Datamodel.Models[0].Name)
	})

	t.Run("unknown format", func(t *testing.T) {
		DMMFCmd.SetArgs([]string{"--schema", path, "--format", "toml"})
		err := DMMFCmd.Execute()
		require.Error(t, err)
		assert.Contains(t, errors.FlattenHints(err), "json or yaml")
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	VersionCmd.SetOut(&out)
	VersionCmd.SetArgs([]string{"--json"})
	require.NoError(t, VersionCmd.Execute())

	var info VersionInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.Platform)
}

func TestWatchSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.prisma")
	require.NoError(t, os.WriteFile(path, []byte(schema), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchSchema(ctx, path, func(context.Context) error {
			calls <- struct{}{}
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		// Rewrite until the watcher is registered and reports the change.
		_ = os.WriteFile(path, []byte(schema+"\n"), 0o644)
		select {
		case <-calls:
			return true
		default:
			return false
		}
	}, 5*time.Second, 3*debouncePeriod)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	cancel()
	require.NoError(t, <-done)
}
