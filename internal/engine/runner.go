/*
PURPOSE:
  High-level runner that orchestrates the evaluation process.
  Loops through test cases -> models, queries each pair, and persists
  results incrementally.

REQUIREMENTS:
  User-specified:
  - Strictly sequential: one query at a time, tests in file order,
    models in selection order.
  - Crash-proof persistence: rewrite the JSON snapshot after every
    completed test case, so the file on disk is always a complete,
    valid document covering every finished test.
  - Tab-separated table written once at the end.

  Implementation-discovered:
  - Needs to report per-query progress to the CLI (current/total,
    test id, model name).
  - The query client is consumed through a small interface so the
    loop is testable without a live Ollama.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/run.go
  - Uses: internal/engine (client), internal/output

ERROR HANDLING:
  - Query failures are data (Outcome) and never stop the loop.
  - Snapshot or table write failures are fatal: a run that cannot
    persist its results has no useful continuation.

IMPLEMENTATION RULES:
  - Iterate tests (outer), models (inner).
  - A test's bundle is appended and persisted only after every model
    answered; the snapshot never holds a partially-filled bundle.
  - Empty test or model lists still produce both artifacts.

USAGE:
  run, err := engine.Run(ctx, engine.New(cfg), cfg, tests, models)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/client.go
  - internal/output/json.go
  - internal/output/csv.go

MAINTENANCE:
  - Update iteration logic if parallelism is ever introduced
    (it deliberately is not today).
*/

package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/oyvindlg/norsk-eval/internal/config"
	"github.com/oyvindlg/norsk-eval/internal/model"
	"github.com/oyvindlg/norsk-eval/internal/output"
)

// Querier issues a single model query. Satisfied by *Engine.
type Querier interface {
	Query(ctx context.Context, modelID, prompt string) model.Outcome
}

// Run executes the full evaluation suite and returns the completed run.
// Both artifacts (<prefix>.json, <prefix>.csv) exist when it returns.
func Run(ctx context.Context, q Querier, cfg *config.Config, tests []model.TestCase, models []model.ModelSpec) (*model.Run, error) {
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}

	run := &model.Run{
		Timestamp: time.Now(),
		Models:    names,
		Tests:     make([]model.TestResult, 0, len(tests)),
	}

	output.PrintRunHeader(len(tests), names)

	snapshotPath := cfg.OutputPrefix + ".json"
	tablePath := cfg.OutputPrefix + ".csv"

	// Write the (possibly degenerate) snapshot up front so the file
	// exists from the first moment a crash could happen.
	if err := output.WriteSnapshot(snapshotPath, run); err != nil {
		return nil, fmt.Errorf("failed to write snapshot %s: %w", snapshotPath, err)
	}

	total := len(tests) * len(models)
	current := 0
	bar := newProgressBar(total)

	for _, tc := range tests {
		result := model.TestResult{
			ID:        tc.ID,
			Question:  tc.Question,
			Category:  tc.Category,
			Responses: make(map[string]model.Outcome, len(models)),
		}

		for _, m := range models {
			current++
			bar.Describe(fmt.Sprintf("[%d/%d] %s: %s", current, total, tc.ID, m.Name))
			output.Logger.Info("Querying model",
				"progress", fmt.Sprintf("%d/%d", current, total),
				"test", tc.ID,
				"model", m.Name,
			)

			outcome := q.Query(ctx, m.ID, tc.Question)
			result.Responses[m.Name] = outcome
			if outcome.Kind != model.OutcomeText {
				output.Logger.Warn("Query failed", "test", tc.ID, "model", m.Name, "result", outcome.Render())
			}
			_ = bar.Add(1)
		}

		run.Tests = append(run.Tests, result)
		if err := output.WriteSnapshot(snapshotPath, run); err != nil {
			return nil, fmt.Errorf("failed to write snapshot %s: %w", snapshotPath, err)
		}
	}
	_ = bar.Finish()

	output.Logger.Info("Generating table", "path", tablePath)
	if err := output.WriteTable(tablePath, run); err != nil {
		return nil, fmt.Errorf("failed to write table %s: %w", tablePath, err)
	}

	output.PrintRunSummary(snapshotPath, tablePath, len(tests), len(models))
	return run, nil
}

// newProgressBar builds the per-query progress bar. It renders on
// stderr so artifacts and logs on stdout stay clean.
func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Querying"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
