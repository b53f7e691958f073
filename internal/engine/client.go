/*
PURPOSE:
  Core engine for interacting with the Ollama API.
  Handles model discovery and single-attempt generation queries.

REQUIREMENTS:
  User-specified:
  - One blocking /api/generate call per (test, model) pair, with a
    token cap and fixed temperature.
  - A query must never abort the run: every failure mode collapses to
    a tagged Outcome.
  - List available models (for the list-models command).

  Implementation-discovered:
  - Needs http.Client with a timeout; the client timeout is the only
    bound on a query (no retries, no cancellation mid-query).
  - An absent "response" key must be told apart from an empty string,
    so the payload field is decoded as a pointer.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go, internal/cli
  - Uses: internal/config, internal/model

ERROR HANDLING:
  - Query: never returns an error. Timeouts become OutcomeTimeout,
    anything else OutcomeError, missing response field
    OutcomeNoResponse.
  - GetModels: returns errors normally; it runs before a suite, where
    failing fast is the right call.

IMPLEMENTATION RULES:
  - Use net/http.
  - Do not inspect the HTTP status on /api/generate: the backend puts
    its errors in the JSON body, and a parseable body without a
    response field is a NO RESPONSE, whatever the status line said.

USAGE:
  e := engine.New(cfg)
  out := e.Query(ctx, "llama3.2:3b", "Hva er hovedstaden i Norge?")

SELF-HEALING INSTRUCTIONS:
  - If the Ollama API changes, update endpoints (/api/tags,
    /api/generate) and the payload structs.

RELATED FILES:
  - internal/config/config.go
  - internal/model/types.go

MAINTENANCE:
  - Update for new Ollama generation options.
*/

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/oyvindlg/norsk-eval/internal/config"
	"github.com/oyvindlg/norsk-eval/internal/model"
)

// Engine handles Ollama interactions.
type Engine struct {
	Config *config.Config
	Client *http.Client
}

// New creates a new Engine. The client timeout is the bounded wait for
// a whole query, model loading included.
func New(cfg *config.Config) *Engine {
	return &Engine{
		Config: cfg,
		Client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// generateRequest is the /api/generate payload.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
}

// GetModels returns a list of available models from the Ollama host.
func (e *Engine) GetModels() ([]string, error) {
	resp, err := e.Client.Get(fmt.Sprintf("%s/api/tags", e.Config.BaseURL))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var payload struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	var names []string
	for _, m := range payload.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Query issues one best-effort generation call for modelID and returns
// a tagged Outcome. It never returns an error and never retries; a
// multi-hour batch run must not die over one flaky call.
func (e *Engine) Query(ctx context.Context, modelID, prompt string) model.Outcome {
	payload := generateRequest{
		Model:  modelID,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			NumPredict:  e.Config.NumPredict,
			Temperature: e.Config.Temperature,
		},
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return model.ErrorOutcome(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/api/generate", e.Config.BaseURL), bytes.NewReader(reqBody))
	if err != nil {
		return model.ErrorOutcome(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return model.TimeoutOutcome()
		}
		return model.ErrorOutcome(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		// The timeout can also fire mid-body on a slow generation.
		if isTimeout(err) {
			return model.TimeoutOutcome()
		}
		return model.ErrorOutcome(fmt.Errorf("failed to read response body: %w", err))
	}

	var data struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(bodyBytes, &data); err != nil {
		return model.ErrorOutcome(fmt.Errorf("invalid JSON from backend: %w", err))
	}

	if data.Response == nil {
		return model.NoResponseOutcome()
	}
	return model.TextOutcome(*data.Response)
}

// isTimeout reports whether err is the bounded wait expiring, as
// opposed to a connection or protocol failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
