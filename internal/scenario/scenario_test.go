package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pumped-fn/etp-sizing/pkg/engine"
	"github.com/pumped-fn/etp-sizing/pkg/model"
)

const paperYAML = `name: paper mill
session: mill-1
client:
  clientName: Acme Board
  industry: paper
  productionCapacity: "300"
  specificCOD: "50"
inlet:
  TSS: "4000"
design:
  mgfRate: "15"
equipment:
  - name: DAP Dosing
    required: true
  - name: DAF Unit
    supply: client
    fields:
      moc: SS304
`

const otherTOML = `name = "starch line"

[client]
industry = "Starch"

[inlet]
Flow = "800"
sCOD = "4200"

[[equipment]]
name = "Air Blower"
[equipment.fields]
selectedMotorHP = "20"
`

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newEngine(t *testing.T, f *File) *engine.Engine {
	t.Helper()
	var opts []engine.Option
	if f.Session != "" {
		opts = append(opts, engine.WithSessionID(f.Session))
	}
	e, err := engine.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Dispose() })
	return e
}

func TestLoadAndApplyYAML(t *testing.T) {
	f, err := Load(write(t, "paper.yaml", paperYAML))
	require.NoError(t, err)
	assert.Equal(t, "paper mill", f.Name)

	e := newEngine(t, f)
	changed, err := f.Apply(e)
	require.NoError(t, err)
	assert.Equal(t, 9, changed)

	snap, err := e.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "mill-1", snap.SessionID)
	assert.Equal(t, model.IndustryPaper, snap.Client.Industry)
	assert.Equal(t, "12269.94", snap.Inlet[0].Value)
	assert.Equal(t, "10000.00", snap.Anaerobic[0].Value)

	for _, d := range snap.Dosing {
		if d.Name == model.DAPDosing {
			assert.True(t, d.Required)
		}
	}
	for _, spec := range snap.Equipment {
		if spec.Name == model.DAFUnit {
			assert.Equal(t, model.SupplyClient, spec.Supply)
			assert.Equal(t, "SS304", spec.Fields["moc"])
		}
	}
}

func TestLoadAndApplyTOML(t *testing.T) {
	f, err := Load(write(t, "starch.toml", otherTOML))
	require.NoError(t, err)

	e := newEngine(t, f)
	_, err = f.Apply(e)
	require.NoError(t, err)

	flows, err := e.GroupValue("flows")
	require.NoError(t, err)
	assert.Equal(t, "inlet-first", flows["mode"])
	assert.Equal(t, "800.00", flows["inletFlow"])
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvIndustry, "Fish")
	t.Setenv(EnvInletFlow, "1500")

	f, err := Load(write(t, "starch.toml", otherTOML))
	require.NoError(t, err)
	assert.Equal(t, "Fish", f.Client["industry"])
	assert.Equal(t, "1500", f.Inlet["Flow"])

	t.Setenv(EnvIndustry, "Steel")
	_, err = Load(write(t, "starch.toml", otherTOML))
	assert.ErrorIs(t, err, engine.ErrInvalidIndustry)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	cases := map[string]struct {
		name, body string
	}{
		"unknown parameter": {"a.yaml", "inlet:\n  Colour: \"5\"\n"},
		"non numeric value": {"b.yaml", "inlet:\n  sCOD: lots\n"},
		"unknown equipment": {"c.yaml", "equipment:\n  - name: Cooling Tower\n"},
		"bad supply":        {"d.yaml", "equipment:\n  - name: DAF Unit\n    supply: vendor\n"},
		"unknown yaml key":  {"e.yaml", "clients:\n  industry: paper\n"},
		"unknown toml key":  {"f.toml", "[clients]\nindustry = \"paper\"\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, tc.name, tc.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(write(t, "scenario.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestApplyStopsAtEngineOwnedField(t *testing.T) {
	f := &File{
		Client: map[string]string{"industry": "Paper"},
		Inlet:  map[string]string{"Flow": "900"},
	}
	require.NoError(t, f.Validate())

	e := newEngine(t, f)
	changed, err := f.Apply(e)
	assert.ErrorIs(t, err, engine.ErrCalculatedField)
	assert.Equal(t, 1, changed)
}
