/*
PURPOSE:
  Writes the results table as a tab-separated file for spreadsheet
  import.

REQUIREMENTS:
  User-specified:
  - Tab-separated, not comma: model responses are full of commas and
    embedded newlines, and Excel imports TSV cleanly.
  - One header row (ID, Category, Question, then one column per model
    in run order), one row per test case in run order.
  - Responses truncated to their first 500 characters.

  Implementation-discovered:
  - Row/column integrity requires scrubbing embedded tabs and newlines
    from every field before joining; with that done, plain joins
    produce the exact expected bytes. encoding/csv would add quoting
    the downstream spreadsheet workflow does not expect.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go
  - Consumes: internal/model.Run

ERROR HANDLING:
  - Returns error on file creation or write failure (fatal upstream).

IMPLEMENTATION RULES:
  - Scrub first, then truncate.
  - Truncate by characters, not bytes; responses are UTF-8 Norwegian.

USAGE:
  err := output.WriteTable("eval_results.csv", run)

SELF-HEALING INSTRUCTIONS:
  - If columns change, update the header and row construction
    together.

RELATED FILES:
  - internal/model/types.go
  - internal/output/json.go

MAINTENANCE:
  - Update when the table gains columns.
*/

package output

import (
	"bufio"
	"os"
	"strings"

	"github.com/oyvindlg/norsk-eval/internal/model"
)

// maxCellRunes caps a response cell in the table. The full text lives
// in the JSON snapshot.
const maxCellRunes = 500

// WriteTable writes the tab-separated results table once, at the end
// of a run.
func WriteTable(path string, run *model.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	header := append([]string{"ID", "Category", "Question"}, run.Models...)
	if _, err := w.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		f.Close()
		return err
	}

	for _, t := range run.Tests {
		row := make([]string, 0, 3+len(run.Models))
		row = append(row, scrubField(t.ID), scrubField(t.Category), scrubField(t.Question))
		for _, name := range run.Models {
			var cell string
			if outcome, ok := t.Responses[name]; ok {
				cell = outcome.Render()
			}
			row = append(row, truncateRunes(scrubField(cell), maxCellRunes))
		}
		if _, err := w.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			f.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// scrubField replaces embedded tabs and newlines with single spaces so
// a field can never break the row/column grid.
func scrubField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// truncateRunes cuts s to at most n characters.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
