package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	etp "github.com/pumped-fn/etp-sizing"
	"github.com/pumped-fn/etp-sizing/pkg/engine"
)

func resetFlags() {
	verbose = false
	scenarioPath, metricsPath, groupName, format = "", "", "", "table"
	graphRoot, dbPath = etp.NameOf(engine.InletInputs), "etp-sizing.db"
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	resetFlags()
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(resetFlags)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func scenarioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mill.yaml")
	body := "session: cli-mill\nclient:\n  industry: Paper\n  productionCapacity: \"300\"\n  specificCOD: \"50\"\ninlet:\n  TSS: \"4000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestComputeJSON(t *testing.T) {
	out := run(t, "compute", "-f", scenarioFile(t), "--format", "json")

	var snap struct {
		SessionID string `json:"sessionId"`
		Inlet     []struct {
			Name, Value string
		} `json:"inlet"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "cli-mill", snap.SessionID)
	assert.Equal(t, "12269.94", snap.Inlet[0].Value)
}

func TestComputeTable(t *testing.T) {
	out := run(t, "compute")
	for _, want := range []string{"Water quality", "Air Blower", "Urea Dosing", "Running power", "985.00"} {
		assert.Contains(t, out, want)
	}
}

func TestValues(t *testing.T) {
	out := run(t, "values")
	assert.Contains(t, out, "polishingEquipment")

	out = run(t, "values", "--group", "flows")
	assert.Contains(t, out, "anaerobicFlow")
	assert.Contains(t, out, "985.00")
}

func TestGraph(t *testing.T) {
	out := run(t, "graph", "--root", "designBasis")
	assert.Contains(t, out, "designBasis")
	assert.Contains(t, out, "filtration")
}

func TestExportAndHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "etp.db")
	metrics := filepath.Join(t.TempDir(), "etp.prom")

	out := run(t, "export", "-f", scenarioFile(t), "--db", db, "--metrics", metrics)
	assert.Contains(t, out, "cli-mill@")

	out = run(t, "history", "--db", db, "cli-mill")
	assert.Contains(t, out, "cli-mill")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "etp_passes_total")
}

func TestCommandsWithoutSessionKeepMetricsFile(t *testing.T) {
	db := filepath.Join(t.TempDir(), "etp.db")
	metrics := filepath.Join(t.TempDir(), "etp.prom")

	run(t, "export", "-f", scenarioFile(t), "--db", db, "--metrics", metrics)
	before, err := os.ReadFile(metrics)
	require.NoError(t, err)

	run(t, "history", "--db", db, "--metrics", metrics)
	after, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Contains(t, string(after), "etp_passes_total")
}
