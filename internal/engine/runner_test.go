package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyvindlg/norsk-eval/internal/config"
	"github.com/oyvindlg/norsk-eval/internal/model"
)

// stubQuerier returns canned outcomes keyed by model id, counting calls.
type stubQuerier struct {
	outcomes map[string]model.Outcome
	calls    int
	panicAt  int // if > 0, panic on this call number (simulated crash)
}

func (s *stubQuerier) Query(ctx context.Context, modelID, prompt string) model.Outcome {
	s.calls++
	if s.panicAt > 0 && s.calls == s.panicAt {
		panic("simulated crash")
	}
	if out, ok := s.outcomes[modelID]; ok {
		return out
	}
	return model.TextOutcome("svar fra " + modelID)
}

// snapshotFile mirrors the on-disk snapshot layout for assertions.
type snapshotFile struct {
	Timestamp string   `json:"timestamp"`
	Models    []string `json:"models"`
	Tests     []struct {
		ID        string            `json:"id"`
		Question  string            `json:"question"`
		Category  string            `json:"category"`
		Responses map[string]string `json:"responses"`
	} `json:"tests"`
}

func readSnapshot(t *testing.T, path string) snapshotFile {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap snapshotFile
	require.NoError(t, json.Unmarshal(data, &snap))
	return snap
}

func runConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OutputPrefix = filepath.Join(t.TempDir(), "eval_results")
	return cfg
}

var twoModels = []model.ModelSpec{
	{Name: "A", ID: "a-id"},
	{Name: "B", ID: "b-id"},
}

func TestRun_FullSuite(t *testing.T) {
	cfg := runConfig(t)
	tests := []model.TestCase{
		{ID: "t1", Question: "Hva er hovedstaden i Norge?", Category: "geo"},
		{ID: "t2", Question: "Hvem skrev Peer Gynt?", Category: "kultur"},
	}
	q := &stubQuerier{outcomes: map[string]model.Outcome{
		"a-id": model.TextOutcome("Oslo"),
		"b-id": model.ErrorOutcome(fmt.Errorf("refused")),
	}}

	run, err := Run(context.Background(), q, cfg, tests, twoModels)
	require.NoError(t, err)
	assert.Equal(t, 4, q.calls)
	assert.Equal(t, []string{"A", "B"}, run.Models)
	require.Len(t, run.Tests, 2)
	assert.Equal(t, "t1", run.Tests[0].ID)
	assert.Equal(t, model.OutcomeError, run.Tests[0].Responses["B"].Kind)

	snap := readSnapshot(t, cfg.OutputPrefix+".json")
	assert.Equal(t, []string{"A", "B"}, snap.Models)
	require.Len(t, snap.Tests, 2)
	assert.Equal(t, "Oslo", snap.Tests[0].Responses["A"])
	assert.Equal(t, "[ERROR: refused]", snap.Tests[0].Responses["B"])

	table, err := os.ReadFile(cfg.OutputPrefix + ".csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(table), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID\tCategory\tQuestion\tA\tB", lines[0])
	assert.Equal(t, "t1\tgeo\tHva er hovedstaden i Norge?\tOslo\t[ERROR: refused]", lines[1])
}

func TestRun_SnapshotNeverHoldsPartialBundle(t *testing.T) {
	cfg := runConfig(t)
	tests := []model.TestCase{
		{ID: "t1", Question: "q1", Category: "c"},
		{ID: "t2", Question: "q2", Category: "c"},
		{ID: "t3", Question: "q3", Category: "c"},
	}
	// Crash mid-way through the second test case (call 3 of 6).
	q := &stubQuerier{panicAt: 3}

	func() {
		defer func() {
			require.NotNil(t, recover(), "expected simulated crash")
		}()
		_, _ = Run(context.Background(), q, cfg, tests, twoModels)
	}()

	// The snapshot holds exactly the one fully completed bundle, with
	// responses from every model.
	snap := readSnapshot(t, cfg.OutputPrefix+".json")
	require.Len(t, snap.Tests, 1)
	assert.Equal(t, "t1", snap.Tests[0].ID)
	assert.Len(t, snap.Tests[0].Responses, 2)

	// No table on a crashed run; it is written at the end only.
	_, err := os.Stat(cfg.OutputPrefix + ".csv")
	assert.True(t, os.IsNotExist(err))
}

func TestRun_ZeroTests(t *testing.T) {
	cfg := runConfig(t)
	q := &stubQuerier{}

	run, err := Run(context.Background(), q, cfg, nil, twoModels)
	require.NoError(t, err)
	assert.Empty(t, run.Tests)
	assert.Zero(t, q.calls)

	snap := readSnapshot(t, cfg.OutputPrefix+".json")
	assert.Equal(t, []string{"A", "B"}, snap.Models)
	assert.Empty(t, snap.Tests)

	table, err := os.ReadFile(cfg.OutputPrefix + ".csv")
	require.NoError(t, err)
	assert.Equal(t, "ID\tCategory\tQuestion\tA\tB\n", string(table))
}

func TestRun_ZeroModels(t *testing.T) {
	cfg := runConfig(t)
	tests := []model.TestCase{{ID: "t1", Question: "q", Category: "c"}}
	q := &stubQuerier{}

	run, err := Run(context.Background(), q, cfg, tests, nil)
	require.NoError(t, err)
	require.Len(t, run.Tests, 1)
	assert.Empty(t, run.Tests[0].Responses)
	assert.Zero(t, q.calls)

	snap := readSnapshot(t, cfg.OutputPrefix+".json")
	assert.Empty(t, snap.Models)

	table, err := os.ReadFile(cfg.OutputPrefix + ".csv")
	require.NoError(t, err)
	assert.Equal(t, "ID\tCategory\tQuestion\nt1\tc\tq\n", string(table))
}

func TestRun_SnapshotWriteFailureIsFatal(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputPrefix = filepath.Join(t.TempDir(), "no-such-dir", "eval_results")

	_, err := Run(context.Background(), &stubQuerier{}, cfg, nil, twoModels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write snapshot")
}
