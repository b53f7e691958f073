/*
PURPOSE:
  Defines the configuration structure and loading logic for norsk-eval.
  Carries the default model catalogs (Norwegian-tuned vs international
  baselines) and the Ollama request parameters.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the Ollama URL, request timeout, and
    generation options.
  - Ship usable default catalogs so the tool works with no config file.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Model selection is a pure function of the two CLI switches, so it
    belongs here with the catalogs rather than in the CLI layer.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing config file falls back to defaults (not an error).

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should match the published evaluation setup
    (num_predict 250, temperature 0.7, 300s timeout).

USAGE:
  cfg, err := config.Load("norsk_eval.yaml")
  models := cfg.SelectModels(false, false)

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update
    DefaultConfig().

RELATED FILES:
  - internal/cli/run.go
  - internal/engine/client.go

MAINTENANCE:
  - Update when adding new tuning parameters or catalog entries.
*/

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oyvindlg/norsk-eval/internal/model"
)

// Config represents the full configuration for norsk-eval.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// NumPredict caps generated token count per query. Bounds worst-case
	// latency and guards against runaway generation loops.
	NumPredict   int     `yaml:"num_predict"`
	Temperature  float64 `yaml:"temperature"`
	OutputPrefix string  `yaml:"output_prefix"`

	// Model catalogs. Overridable from the config file; the defaults
	// are the published comparison set.
	NorwegianModels     []model.ModelSpec `yaml:"norwegian_models"`
	InternationalModels []model.ModelSpec `yaml:"international_models"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:11434",
		RequestTimeout: 300 * time.Second,
		NumPredict:     250,
		Temperature:    0.7,
		OutputPrefix:   "eval_results",
		NorwegianModels: []model.ModelSpec{
			{Name: "NB-Llama-3.2-3B", ID: "hf.co/NbAiLab/nb-llama-3.2-3B-Q4_K_M-GGUF:latest"},
		},
		InternationalModels: []model.ModelSpec{
			{Name: "Llama-3.2-3B", ID: "llama3.2:3b"},
			{Name: "Mistral-7B", ID: "mistral:7b"},
			{Name: "Llama-3.1-8B", ID: "llama3.1:8b"},
		},
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		defaults := []string{"norsk_eval.yaml", "eval.yaml"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name // record which file we loaded
				found = true
				break
			}
		}
		if !found {
			// No config file found, return default
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// SelectModels resolves the effective ordered model list from the two
// selection switches. Default (neither set) is the Norwegian group
// followed by the international group. When both switches are set the
// Norwegian-only branch wins silently; that resolution order is relied
// on by existing invocations, so it must not change.
func (c *Config) SelectModels(norwegianOnly, internationalOnly bool) []model.ModelSpec {
	switch {
	case norwegianOnly:
		return c.NorwegianModels
	case internationalOnly:
		return c.InternationalModels
	default:
		combined := make([]model.ModelSpec, 0, len(c.NorwegianModels)+len(c.InternationalModels))
		combined = append(combined, c.NorwegianModels...)
		combined = append(combined, c.InternationalModels...)
		return combined
	}
}
