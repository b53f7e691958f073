/*
PURPOSE:
  Defines the 'list-models' subcommand.
  Helps verify connectivity and model availability before a long run.

REQUIREMENTS:
  User-specified:
  - List models available on the Ollama host.

  Implementation-discovered:
  - Useful validation step before committing to a multi-hour suite.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.GetModels()

ERROR HANDLING:
  - Returns the error if the host is unreachable.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  norsk-eval list-models

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/client.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oyvindlg/norsk-eval/internal/config"
	"github.com/oyvindlg/norsk-eval/internal/engine"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List models available on the Ollama host",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		e := engine.New(cfg)
		fmt.Printf("Querying %s...\n", cfg.BaseURL)
		models, err := e.GetModels()
		if err != nil {
			return err
		}
		for _, m := range models {
			fmt.Printf("- %s\n", m)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
}
