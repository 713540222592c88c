package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/localmock/localmock/pkg/cli/internal/output"
	"github.com/localmock/localmock/pkg/config"
)

// DefaultGenerateOutput is where generated configurations are written.
const DefaultGenerateOutput = "config/dummy_config.json"

var generateCmd = &cobra.Command{
	Use:   "generate [count] [output]",
	Short: "Generate a configuration with dummy endpoints",
	Long: `Generate a configuration file with count GET endpoints named /api/dummy1..N.

Each endpoint answers with an id, a message, the current timestamp and a fresh
request id. A .yaml or .yml output is written as YAML.`,
	Example: `  # Five endpoints in config/dummy_config.json
  localmock generate

  # Twenty endpoints in mocks.yaml
  localmock generate 20 mocks.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count := config.DefaultDummyEndpoints
		path := DefaultGenerateOutput

		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[0], err)
			}
			if n < 0 {
				return fmt.Errorf("invalid count %d: must not be negative", n)
			}
			count = n
		}
		if len(args) > 1 {
			path = args[1]
		}

		if err := config.SaveDocument(path, config.GenerateDummy(count)); err != nil {
			return err
		}
		output.Success(stdout(cmd), "Generated %d dummy endpoints in %s", count, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
