package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/photon/compiler/load"
)

// DMMFCmd prints the schema document of a schema.
var DMMFCmd = &cobra.Command{
	Use:   "dmmf",
	Short: "Print the schema document of a schema",
	Long: `Parse a schema and print the resulting document: models, enums and the
action names of every model.

Examples:
  photon dmmf
  photon dmmf --schema db/schema.prisma --format yaml
  photon dmmf --binary-path ./query-engine`,
	RunE: runDMMF,
}

func init() {
	f := DMMFCmd.Flags()
	f.StringP("schema", "s", DefaultSchema, "Schema file")
	f.StringP("format", "f", "json", "Output format: json or yaml")
	f.String("binary-path", "", "Query engine binary used to read the schema")
}

func runDMMF(cmd *cobra.Command, args []string) error {
	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	schemaPath := v.GetString("schema")
	datamodel, err := afero.ReadFile(afero.NewOsFs(), schemaPath)
	if err != nil {
		return errors.Wrapf(err, "read schema %s", schemaPath)
	}
	doc, err := load.NewService().GetDMMF(contextOf(cmd), string(datamodel), v.GetString("binary-path"))
	if err != nil {
		return withHint(errors.Wrapf(err, "load %s", schemaPath))
	}

	var out []byte
	switch format := v.GetString("format"); format {
	case "json":
		out, err = json.MarshalIndent(doc, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(doc)
	default:
		return errors.WithHint(errors.Newf("unknown format %q", format), "use json or yaml")
	}
	if err != nil {
		return errors.Wrap(err, "encode document")
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
	return err
}
