package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/syssam/photon/cmd/photon/commands"
	"github.com/syssam/photon/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "photon",
	Short: "photon - typed Go clients from a data model schema",
	Long: `photon generates a Go client from a schema file.

Available commands:
  generate - Generate the client into an output directory
  dmmf     - Print the schema document of a schema
  version  - Show version information

Examples:
  photon generate                          # schema.prisma -> ./photon
  photon generate --transpile              # compile the client in memory
  photon generate --watch                  # regenerate when the schema changes
  photon dmmf --format yaml                # inspect the parsed schema`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json-logs")
		verbose, _ := cmd.Flags().GetBool("verbose")
		if err := logger.Initialize(jsonOutput, verbose); err != nil {
			return errors.Wrap(err, "initialize logger")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON lines")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.DMMFCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		logger.Cleanup()
		os.Exit(1)
	}
}
