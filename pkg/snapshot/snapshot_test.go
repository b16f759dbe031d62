package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pumped-fn/etp-sizing/pkg/engine"
	"github.com/pumped-fn/etp-sizing/pkg/model"
)

func session(t *testing.T, id string) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.WithSessionID(id))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Dispose() })
	return e
}

func snap(t *testing.T, e *engine.Engine) model.Snapshot {
	t.Helper()
	s, err := e.Snapshot()
	require.NoError(t, err)
	return s
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	s := snap(t, session(t, "json"))
	require.NoError(t, NewJSONExporter(&buf).Export(context.Background(), s))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "json", decoded["sessionId"])
	assert.Contains(t, decoded, "guarantees")
	assert.Contains(t, buf.String(), "\n  \"")
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	s := snap(t, session(t, "yaml"))
	require.NoError(t, NewYAMLExporter(&buf).Export(context.Background(), s))

	var decoded struct {
		SessionID string `yaml:"sessionId"`
		Sludge    struct {
			TotalSludge string `yaml:"totalSludge"`
		} `yaml:"sludge"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "yaml", decoded.SessionID)
	assert.Equal(t, s.Sludge.TotalSludge, decoded.Sludge.TotalSludge)
}

func TestExportHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Multi{NewJSONExporter(&buf), NewYAMLExporter(&buf)}.Export(ctx, model.Snapshot{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "etp.db"))
	require.NoError(t, err)
	defer store.Close()

	e := session(t, "plant-a")
	first := snap(t, e)
	require.NoError(t, store.Export(ctx, first))

	_, err = e.SetParameterValue(model.ListInlet, model.ParamSCOD, "3600")
	require.NoError(t, err)
	second := snap(t, e)
	require.NoError(t, store.Export(ctx, second))
	require.NoError(t, store.Export(ctx, second))

	latest, err := store.Load(ctx, "plant-a", 0)
	require.NoError(t, err)
	if diff := cmp.Diff(second, latest, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("latest snapshot mismatch (-want +got):\n%s", diff)
	}

	older, err := store.Load(ctx, "plant-a", first.Version)
	require.NoError(t, err)
	assert.Equal(t, first.Inlet, older.Inlet)

	entries, err := store.List(ctx, "plant-a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.Version, entries[0].Version)
	assert.Equal(t, second.Version, entries[1].Version)
	assert.True(t, entries[1].TakenAt.Equal(second.TakenAt))
}

func TestSQLiteStoreListsEverySession(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	for _, id := range []string{"b", "a"} {
		require.NoError(t, store.Export(ctx, snap(t, session(t, id))))
	}

	entries, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].SessionID)
	assert.Equal(t, "b", entries[1].SessionID)

	_, err = store.Load(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}
