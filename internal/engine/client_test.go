package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyvindlg/norsk-eval/internal/config"
	"github.com/oyvindlg/norsk-eval/internal/model"
)

func testEngine(t *testing.T, handler http.HandlerFunc) *Engine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.RequestTimeout = 2 * time.Second
	return New(cfg)
}

func TestQuery_Success(t *testing.T) {
	var gotPath string
	var gotBody []byte
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"response":"Oslo","done":true}`))
	})

	out := e.Query(context.Background(), "llama3.2:3b", "Hva er hovedstaden i Norge?")
	assert.Equal(t, model.OutcomeText, out.Kind)
	assert.Equal(t, "Oslo", out.Render())
	assert.Equal(t, "/api/generate", gotPath)

	var req struct {
		Model   string `json:"model"`
		Prompt  string `json:"prompt"`
		Stream  bool   `json:"stream"`
		Options struct {
			NumPredict  int     `json:"num_predict"`
			Temperature float64 `json:"temperature"`
		} `json:"options"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &req))
	assert.Equal(t, "llama3.2:3b", req.Model)
	assert.Equal(t, "Hva er hovedstaden i Norge?", req.Prompt)
	assert.False(t, req.Stream)
	assert.Equal(t, 250, req.Options.NumPredict)
	assert.InDelta(t, 0.7, req.Options.Temperature, 1e-9)
}

func TestQuery_EmptyResponseFieldIsText(t *testing.T) {
	// Present-but-empty is real (if useless) model output, not NO RESPONSE.
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"","done":true}`))
	})
	out := e.Query(context.Background(), "m", "p")
	assert.Equal(t, model.OutcomeText, out.Kind)
	assert.Equal(t, "", out.Render())
}

func TestQuery_MissingResponseField(t *testing.T) {
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"done":true}`))
	})
	out := e.Query(context.Background(), "m", "p")
	assert.Equal(t, model.OutcomeNoResponse, out.Kind)
	assert.Equal(t, "[NO RESPONSE]", out.Render())
}

func TestQuery_BackendErrorBodyWithoutResponseField(t *testing.T) {
	// Ollama reports unknown models as {"error": ...} with a non-200
	// status; the body parses but carries no response field.
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'nope' not found"}`))
	})
	out := e.Query(context.Background(), "nope", "p")
	assert.Equal(t, "[NO RESPONSE]", out.Render())
}

func TestQuery_Timeout(t *testing.T) {
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"response":"too late"}`))
	})
	e.Config.RequestTimeout = 50 * time.Millisecond
	e.Client.Timeout = 50 * time.Millisecond

	out := e.Query(context.Background(), "m", "p")
	assert.Equal(t, model.OutcomeTimeout, out.Kind)
	assert.Equal(t, "[TIMEOUT]", out.Render())
}

func TestQuery_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	cfg := config.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.RequestTimeout = 2 * time.Second
	e := New(cfg)

	out := e.Query(context.Background(), "m", "p")
	assert.Equal(t, model.OutcomeError, out.Kind)
	assert.True(t, strings.HasPrefix(out.Render(), "[ERROR: "))
	assert.True(t, strings.HasSuffix(out.Render(), "]"))
}

func TestQuery_MalformedPayload(t *testing.T) {
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`this is not json`))
	})
	out := e.Query(context.Background(), "m", "p")
	assert.Equal(t, model.OutcomeError, out.Kind)
	assert.Contains(t, out.Render(), "invalid JSON from backend")
}

func TestGetModels(t *testing.T) {
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"llama3.2:3b"},{"name":"mistral:7b"}]}`))
	})

	models, err := e.GetModels()
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3.2:3b", "mistral:7b"}, models)
}

func TestGetModels_BadStatus(t *testing.T) {
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := e.GetModels()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad status")
}
