/*
PURPOSE:
  Writes the structured results snapshot to a JSON file.
  The snapshot is fully rewritten after every completed test case.

REQUIREMENTS:
  User-specified:
  - Crash-proof: the file on disk is always a syntactically complete
    document holding every finished test bundle, never a partial one.
  - Norwegian text (æ/ø/å) must be stored literally, not escaped.
  - Two-space indentation for readability.

  Implementation-discovered:
  - Full rewrite, not append: a JSON array cannot be appended to and
    stay valid.
  - Outcomes are rendered to their sentinel strings here, at the
    serialization boundary; the in-memory run keeps them tagged.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go
  - Consumes: internal/model.Run

ERROR HANDLING:
  - Returns error on file creation or write failure (fatal upstream).

IMPLEMENTATION RULES:
  - Use encoding/json with SetIndent and SetEscapeHTML(false).
  - Scope the file handle to one write; open, rewrite, close.

USAGE:
  err := output.WriteSnapshot("eval_results.json", run)

SELF-HEALING INSTRUCTIONS:
  - If the document shape changes, update snapshotDoc and the
    consumers of the artifact together.

RELATED FILES:
  - internal/model/types.go
  - internal/output/csv.go

MAINTENANCE:
  - Update snapshotDoc when the result document gains fields.
*/

package output

import (
	"encoding/json"
	"os"
	"time"

	"github.com/oyvindlg/norsk-eval/internal/model"
)

// snapshotDoc mirrors the on-disk layout of the results file.
type snapshotDoc struct {
	Timestamp string         `json:"timestamp"`
	Models    []string       `json:"models"`
	Tests     []snapshotTest `json:"tests"`
}

type snapshotTest struct {
	ID        string            `json:"id"`
	Question  string            `json:"question"`
	Category  string            `json:"category"`
	Responses map[string]string `json:"responses"`
}

// WriteSnapshot rewrites path with the entire run so far.
func WriteSnapshot(path string, run *model.Run) error {
	doc := snapshotDoc{
		Timestamp: run.Timestamp.Format(time.RFC3339),
		Models:    run.Models,
		Tests:     make([]snapshotTest, 0, len(run.Tests)),
	}
	if doc.Models == nil {
		doc.Models = []string{}
	}
	for _, t := range run.Tests {
		responses := make(map[string]string, len(t.Responses))
		for name, outcome := range t.Responses {
			responses[name] = outcome.Render()
		}
		doc.Tests = append(doc.Tests, snapshotTest{
			ID:        t.ID,
			Question:  t.Question,
			Category:  t.Category,
			Responses: responses,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
