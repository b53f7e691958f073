/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full evaluation: golden set × selected models.

REQUIREMENTS:
  User-specified:
  - Required --tests flag pointing at the JSONL golden set.
  - Optional output prefix and two model-set selection switches.

  Implementation-discovered:
  - Need to load config first, then apply flag overrides.
  - A broken golden set must abort before any querying starts.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config, internal/testset

ERROR HANDLING:
  - Returns error if config load, test load, or the engine run fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Load Tests -> Select Models ->
    Engine.Run.

USAGE:
  norsk-eval run -t tests.jsonl -o eval_results --norwegian-only

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/oyvindlg/norsk-eval/internal/config"
	"github.com/oyvindlg/norsk-eval/internal/engine"
	"github.com/oyvindlg/norsk-eval/internal/testset"
)

var (
	testsFile         string
	outputOverride    string
	norwegianOnly     bool
	internationalOnly bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the evaluation suite",
	Long: `Runs every golden-set question against every selected model, in order,
one query at a time. Each query is a single best-effort attempt: timeouts
and failures are recorded in the results as sentinel values and never
abort the run.

Results are saved as <prefix>.json (rewritten after every completed
question, so an interrupted run keeps everything finished so far) and
<prefix>.csv (tab-separated, written at the end).`,
	Example: `  # Evaluate all configured models
  norsk-eval run -t data/golden_sets/tests.jsonl

  # Only the Norwegian-tuned models, custom output prefix
  norsk-eval run -t tests.jsonl --norwegian-only -o norwegian_run

  # Only the international baselines
  norsk-eval run -t tests.jsonl --international-only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2. Overrides
		if outputOverride != "" {
			cfg.OutputPrefix = outputOverride
		}

		// 3. Load golden set (fatal on malformed input, before any querying)
		tests, err := testset.Load(testsFile)
		if err != nil {
			return err
		}

		// 4. Execution
		models := cfg.SelectModels(norwegianOnly, internationalOnly)
		_, err = engine.Run(cmd.Context(), engine.New(cfg), cfg, tests, models)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&testsFile, "tests", "t", "", "Path to JSONL file containing test questions")
	runCmd.Flags().StringVarP(&outputOverride, "output", "o", "", "Output file prefix (default: eval_results)")
	runCmd.Flags().BoolVar(&norwegianOnly, "norwegian-only", false, "Only test Norwegian models")
	runCmd.Flags().BoolVar(&internationalOnly, "international-only", false, "Only test international models")
	_ = runCmd.MarkFlagRequired("tests")
}
