/*
PURPOSE:
  Defines the core data structures used throughout norsk-eval.
  These models represent test cases, model references, query outcomes,
  and the aggregate result of one evaluation run.

REQUIREMENTS:
  User-specified:
  - One record per test question (id, question, category).
  - Track which models were evaluated, by display name.
  - Failures must end up in the artifacts, not abort the run.

  Implementation-discovered:
  - Query failures need to be distinguishable programmatically
    (timeout vs error vs missing payload field), so the outcome is a
    tagged value; the sentinel strings are produced only when results
    are serialized.

ARCHITECTURE INTEGRATION:
  - Used by: internal/testset, internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Sentinel literals live here, next to the type that renders them.

USAGE:
  out := model.TextOutcome("Oslo")
  out.Render() // "Oslo"

SELF-HEALING INSTRUCTIONS:
  - If a new failure class is needed, add an OutcomeKind and extend
    Render().

RELATED FILES:
  - internal/engine/client.go
  - internal/output/json.go
  - internal/output/csv.go

MAINTENANCE:
  - Update when the result document gains new fields.
*/

package model

import (
	"fmt"
	"time"
)

// TestCase is one evaluation prompt plus metadata, loaded from the
// golden-set JSONL file. Immutable once loaded.
type TestCase struct {
	ID       string
	Question string
	Category string
}

// ModelSpec is a named reference to one Ollama model.
type ModelSpec struct {
	Name string `yaml:"name"` // display name, e.g. "NB-Llama-3.2-3B"
	ID   string `yaml:"id"`   // Ollama model id, e.g. "llama3.2:3b"
}

// OutcomeKind classifies the result of a single query.
type OutcomeKind int

const (
	OutcomeText       OutcomeKind = iota // model returned text
	OutcomeNoResponse                    // payload valid but no response field
	OutcomeTimeout                       // bounded wait exceeded
	OutcomeError                         // everything else (network, bad payload, ...)
)

// Sentinel literals rendered into the artifacts for failed queries.
const (
	SentinelNoResponse = "[NO RESPONSE]"
	SentinelTimeout    = "[TIMEOUT]"
)

// Outcome is the tagged result of querying one model with one question.
// Exactly one query produces exactly one Outcome; there is no retry.
type Outcome struct {
	Kind OutcomeKind
	Text string // model output when Kind == OutcomeText
	Err  string // failure description when Kind == OutcomeError
}

// TextOutcome wraps successful model output.
func TextOutcome(text string) Outcome {
	return Outcome{Kind: OutcomeText, Text: text}
}

// NoResponseOutcome marks a payload that carried no response field.
func NoResponseOutcome() Outcome {
	return Outcome{Kind: OutcomeNoResponse}
}

// TimeoutOutcome marks a query that exceeded the bounded wait.
func TimeoutOutcome() Outcome {
	return Outcome{Kind: OutcomeTimeout}
}

// ErrorOutcome wraps any other failure with its description.
func ErrorOutcome(err error) Outcome {
	return Outcome{Kind: OutcomeError, Err: err.Error()}
}

// Render collapses the outcome to the string stored in the artifacts.
// Failures share the value space of real output on purpose: the run
// must survive flaky queries, and the sentinels make failed pairs
// visible directly in the results without a separate error log.
func (o Outcome) Render() string {
	switch o.Kind {
	case OutcomeNoResponse:
		return SentinelNoResponse
	case OutcomeTimeout:
		return SentinelTimeout
	case OutcomeError:
		return fmt.Sprintf("[ERROR: %s]", o.Err)
	default:
		return o.Text
	}
}

// TestResult bundles every model's outcome for one test case,
// keyed by ModelSpec.Name.
type TestResult struct {
	ID        string
	Question  string
	Category  string
	Responses map[string]Outcome
}

// Run is the aggregate result of one evaluation invocation.
// It is mutated additively by the engine (one TestResult appended at a
// time) and persisted after every completed test case.
type Run struct {
	Timestamp time.Time
	Models    []string // display names, in run order
	Tests     []TestResult
}
