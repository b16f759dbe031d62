package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultListsShareIDsNamesAndUnits(t *testing.T) {
	inlet, anaerobic := DefaultInlet(), DefaultAnaerobic()
	require.Len(t, inlet, ParameterCount)
	require.Len(t, anaerobic, ParameterCount)

	for i := range inlet {
		assert.Equal(t, i+1, inlet[i].ID)
		assert.Equal(t, inlet[i].ID, anaerobic[i].ID)
		assert.Equal(t, inlet[i].Name, anaerobic[i].Name)
		assert.Equal(t, inlet[i].Unit, anaerobic[i].Unit)
	}

	assert.Equal(t, "600", inlet[ParamTSS-1].Value)
	assert.Equal(t, "300", anaerobic[ParamTSS-1].Value)
	assert.Empty(t, anaerobic[ParamFlow-1].Value)
	assert.Empty(t, inlet[ParamTCOD-1].Value)
}

func TestParameterListWithCopies(t *testing.T) {
	list := DefaultInlet()
	next := list.With(ParamSCOD, "4000")

	assert.Equal(t, "3000", list[ParamSCOD-1].Value)
	assert.Equal(t, 4000.0, next.Num(ParamSCOD))
	assert.Zero(t, next.Num(99))
}

func TestParameterNameLookup(t *testing.T) {
	id, ok := ParameterID("NH4-N")
	require.True(t, ok)
	assert.Equal(t, ParamNH4, id)

	name, ok := ParameterName(ParamCalcium)
	require.True(t, ok)
	assert.Equal(t, "Calcium", name)

	_, ok = ParameterName(0)
	assert.False(t, ok)
}

func TestParseIndustry(t *testing.T) {
	ind, ok := ParseIndustry(" paper ")
	require.True(t, ok)
	assert.Equal(t, IndustryPaper, ind)

	_, ok = ParseIndustry("Steel")
	assert.False(t, ok)
}

func TestFieldSetters(t *testing.T) {
	g, ok := DefaultGuarantees().With("dafTSSRemoval", "90")
	require.True(t, ok)
	assert.Equal(t, "90", g.DAFTSSRemoval)

	_, ok = DefaultGuarantees().With("unknown", "1")
	assert.False(t, ok)

	d, ok := DefaultDesignBasis().With("mgfRate", "15")
	require.True(t, ok)
	assert.Equal(t, "15", d.MGFRate)

	c, ok := DefaultClientInfo().With("loopWaterCOD", "2000")
	require.True(t, ok)
	assert.Equal(t, "2000", c.LoopWaterCOD)

	_, ok = DefaultClientInfo().With("industry", "Paper")
	assert.False(t, ok)
	assert.True(t, IsLoadField("anaerobicNLoad"))
}

func TestCatalogue(t *testing.T) {
	defs := Catalogue()
	require.Len(t, defs, 24)

	blower, ok := Lookup(AirBlower)
	require.True(t, ok)
	assert.True(t, blower.IsCalculated("config"))
	assert.True(t, blower.IsUserField("selectedMotorHP"))
	assert.False(t, blower.IsUserField("config"))

	dap, ok := Lookup(DAPDosing)
	require.True(t, ok)
	assert.False(t, dap.Required)
	assert.True(t, dap.IsCalculated("agitator.capacity"))

	hcl, ok := Lookup(HClDosing)
	require.True(t, ok)
	assert.False(t, hcl.Agitator)
	assert.False(t, hcl.IsUserField("agitator.rpm"))
}

func TestInputsModifyIsDeep(t *testing.T) {
	in := DefaultInputs()
	out, ok := in.Modify(PrimarySludgePump, func(item *EquipmentInput) {
		item.Fields["head"] = "18"
	})
	require.True(t, ok)

	before, _ := in.Find(PrimarySludgePump)
	after, _ := out.Find(PrimarySludgePump)
	assert.Equal(t, "15", before.Field("head"))
	assert.Equal(t, "18", after.Field("head"))

	_, ok = in.Modify("Cooling Tower", func(*EquipmentInput) {})
	assert.False(t, ok)
}

func TestDosingSystemOf(t *testing.T) {
	spec := EquipmentSpec{
		Name:     UreaDosing,
		Required: true,
		Supply:   SupplyEDI,
		Fields:   map[string]string{"pump.head": "10", "agitator.rpm": "960"},
		Calculated: map[string]string{
			"demand":            "52.17",
			"pump.capacity":     "21.74",
			"agitator.capacity": "0.37",
		},
	}

	sys := DosingSystemOf(spec)
	assert.Equal(t, "Urea", sys.Chemical)
	assert.Equal(t, "52.17", sys.DemandKgPerDay)
	assert.Equal(t, "21.74", sys.Pump.Capacity)
	require.NotNil(t, sys.Agitator)
	assert.Equal(t, "0.37", sys.Agitator.Capacity)
	assert.Equal(t, "960", sys.Agitator.RPM)

	sys = DosingSystemOf(EquipmentSpec{Name: HClDosing})
	assert.Nil(t, sys.Agitator)
}
