package load

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	p := filepath.Join(t.TempDir(), "engine")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return p
}

func TestServiceBuiltin(t *testing.T) {
	doc, err := NewService().GetDMMF(context.Background(), blogSchema, "")
	require.NoError(t, err)
	assert.Len(t, doc.Datamodel.Models, 2)
	assert.Len(t, doc.Mappings, 2)

	_, err = NewService().GetDMMF(context.Background(), "model {", "")
	assert.True(t, IsLoadError(err))
}

func TestServiceEngine(t *testing.T) {
	t.Run("decodes engine output", func(t *testing.T) {
		bin := writeScript(t, `test -n "$PHOTON_DML" || exit 1
echo '{"datamodel":{"models":[{"name":"User","fields":[{"name":"id","kind":"scalar","type":"String","isRequired":true,"isId":true}]}],"enums":[]}}'`)
		doc, err := NewService().GetDMMF(context.Background(), "model User { }", bin)
		require.NoError(t, err)
		require.Len(t, doc.Datamodel.Models, 1)
		assert.Equal(t, "User", doc.Datamodel.Models[0].Name)
		require.Len(t, doc.Mappings, 1)
		assert.Equal(t, "findOneUser", doc.Mappings[0].FindOne)
	})

	t.Run("engine failure", func(t *testing.T) {
		bin := writeScript(t, "echo boom >&2\nexit 3")
		_, err := NewService().GetDMMF(context.Background(), "", bin)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEngine))
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("invalid output", func(t *testing.T) {
		bin := writeScript(t, "echo not-json")
		_, err := NewService().GetDMMF(context.Background(), "", bin)
		assert.True(t, errors.Is(err, ErrInvalidSchema))
	})
}
