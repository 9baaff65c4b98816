// Package commands implements the photon command line.
package commands

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/photon/compiler/gen"
	"github.com/syssam/photon/compiler/load"
	"github.com/syssam/photon/compiler/project"
)

// ConfigName is the optional project file read from the working directory.
const ConfigName = "photon"

// EnvPrefix prefixes environment variables overriding flags,
// e.g. PHOTON_OUTPUT.
const EnvPrefix = "PHOTON"

// loadConfig layers flags over PHOTON_* variables over photon.yml.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read photon.yml")
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.Wrap(err, "bind flags")
	}
	return v, nil
}

// withHint attaches a user facing hint to schema and configuration errors.
func withHint(err error) error {
	var loadErr *load.LoadError
	if errors.As(err, &loadErr) && loadErr.Line > 0 {
		return errors.WithHintf(err, "check the schema near line %d", loadErr.Line)
	}
	var resErr *project.ResolutionError
	if errors.As(err, &resErr) {
		return errors.WithHintf(err, "check the %q block; env() variables are also read from .env", resErr.Block)
	}
	switch {
	case errors.Is(err, load.ErrEngine):
		return errors.WithHint(err, "unset --binary-path to use the built-in schema parser")
	case gen.IsSchemaError(err):
		return errors.WithHint(err, "rename the model, enum or field so its Go name is unique and not Client, NewClient or Datamodel")
	case gen.IsConfigError(err):
		return errors.WithHint(err, "check --runtime-path and the generator options")
	case gen.IsGenerationError(err):
		return errors.WithHint(err, "rerun with --verbose to see which phase failed")
	}
	return err
}
