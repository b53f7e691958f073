/*
PURPOSE:
  Loads the golden-set test questions from a JSONL file.
  One JSON object per line, one TestCase per non-blank line.

REQUIREMENTS:
  User-specified:
  - Preserve file order.
  - Accept "question" or the shorthand "q" for the prompt text.
  - Default id to "unknown" and category to "general".

  Implementation-discovered:
  - Blank lines appear in hand-edited golden sets and must be skipped.
  - A malformed line means a broken golden set; do not skip or repair,
    fail the run before any querying starts.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/run.go
  - Produces: internal/model.TestCase

ERROR HANDLING:
  - Unreadable file or invalid JSON line returns an error (fatal
    upstream). The error names the offending line.

IMPLEMENTATION RULES:
  - bufio.Scanner line-wise, same as the engine's stream parsing.
  - Long prompt lines are expected; raise the scanner buffer cap.

USAGE:
  tests, err := testset.Load("tests.jsonl")

SELF-HEALING INSTRUCTIONS:
  - If records gain fields, extend the line struct here and the
    TestCase model.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update when the golden-set record format changes.
*/

package testset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/oyvindlg/norsk-eval/internal/model"
)

// maxLineBytes bounds a single JSONL record. Golden-set prompts run
// long but never near this.
const maxLineBytes = 1024 * 1024

// Load reads test cases from a JSONL file, one per non-blank line, in
// file order.
func Load(path string) ([]model.TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open test file: %w", err)
	}
	defer f.Close()

	var tests []model.TestCase
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec struct {
			ID       string `json:"id"`
			Question string `json:"question"`
			Q        string `json:"q"`
			Category string `json:"category"`
		}
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("invalid test record at %s:%d: %w", path, lineNo, err)
		}

		tc := model.TestCase{
			ID:       rec.ID,
			Question: rec.Question,
			Category: rec.Category,
		}
		// "question" wins when non-empty, "q" is the fallback alias.
		if tc.Question == "" {
			tc.Question = rec.Q
		}
		if tc.ID == "" {
			tc.ID = "unknown"
		}
		if tc.Category == "" {
			tc.Category = "general"
		}
		tests = append(tests, tc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read test file %s: %w", path, err)
	}

	return tests, nil
}
