package engine

import (
	"strconv"

	etp "github.com/pumped-fn/etp-sizing"
	"github.com/pumped-fn/etp-sizing/pkg/formula"
	"github.com/pumped-fn/etp-sizing/pkg/model"
)

// sizer computes the calculated fields of one registry item from its user
// fields and the stage results captured by the closure.
type sizer struct {
	name string
	size func(in model.EquipmentInput) map[string]string
}

// sizeItems builds the records of a registry group. A required item is sized
// from current state. A disabled item keeps the calculated fields it had; it
// is sized once when it has none yet.
func sizeItems(ctx *etp.ResolveCtx, inputs model.Inputs, sizers []sizer) []model.EquipmentSpec {
	prior, _ := etp.Prior[[]model.EquipmentSpec](ctx)

	out := make([]model.EquipmentSpec, 0, len(sizers))
	for _, s := range sizers {
		in, _ := inputs.Find(s.name)
		spec := model.EquipmentSpec{
			Name:     s.name,
			Required: in.Required,
			Supply:   in.Supply,
			Fields:   copyFields(in.Fields),
		}
		if old, ok := findSpec(prior, s.name); ok && !in.Required {
			spec.Calculated = copyFields(old.Calculated)
		} else {
			spec.Calculated = s.size(in)
		}
		out = append(out, spec)
	}
	return out
}

func findSpec(specs []model.EquipmentSpec, name string) (model.EquipmentSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return model.EquipmentSpec{}, false
}

func copyFields(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// pumpSizer sizes a pump at capacity (m3/h) against its head field.
func pumpSizer(name, capacity string) sizer {
	return sizer{name: name, size: func(in model.EquipmentInput) map[string]string {
		return map[string]string{
			"capacity": capacity,
			"power":    formula.PumpPowerKW(formula.Num(capacity), formula.Num(in.Field("head"))),
		}
	}}
}

func fixedSizer(name string, fields map[string]string) sizer {
	return sizer{name: name, size: func(model.EquipmentInput) map[string]string {
		return copyFields(fields)
	}}
}

func processSizers(a AnaerobicStage, p PrimaryStage, f DAFStage) []sizer {
	return []sizer{
		fixedSizer(model.PrimaryClarifier, map[string]string{
			"area":         p.SurfaceArea,
			"diameter":     p.Diameter,
			"sludgeVolume": p.SludgeVolume,
		}),
		pumpSizer(model.PrimarySludgePump, p.SludgePumpCapacity),
		pumpSizer(model.AnaerobicFeedPump, a.FeedPumpCapacity),
		fixedSizer(model.AnaerobicReactor, map[string]string{
			"volume":     a.ReactorVolume,
			"biogas":     a.BiogasNm3,
			"codRemoved": a.SCODRemovedKg,
		}),
		fixedSizer(model.DAFUnit, map[string]string{
			"capacity":     f.Capacity,
			"sludgeVolume": f.SludgeVolume,
		}),
	}
}

func biologicalSizers(a AerationStage, b BlowerStage, s SecondaryStage) []sizer {
	blower := sizer{name: model.AirBlower, size: func(in model.EquipmentInput) map[string]string {
		motor := formula.CalculateMotorQuantity(formula.Num(b.HPRequired), formula.Num(in.Field("selectedMotorHP")))
		return map[string]string{
			"airflow":          b.Airflow,
			"power":            b.PowerKW,
			"hpRequired":       b.HPRequired,
			"quantityRequired": strconv.Itoa(motor.QuantityRequired),
			"standby":          strconv.Itoa(motor.Standby),
			"totalUnits":       strconv.Itoa(motor.TotalUnits),
			"config":           motor.Config,
		}
	}}

	return []sizer{
		fixedSizer(model.AerationTank, map[string]string{
			"volume": a.Volume,
			"length": a.Length,
			"width":  a.Width,
			"depth":  a.Depth,
			"hrt":    a.HRT,
		}),
		blower,
		fixedSizer(model.Diffusers, map[string]string{"count": strconv.Itoa(b.Diffusers)}),
		fixedSizer(model.SecondaryClarifier, map[string]string{
			"area":         s.SurfaceArea,
			"diameter":     s.Diameter,
			"sludgeVolume": s.SludgeVolume,
		}),
		pumpSizer(model.RASPump, s.RASCapacity),
		pumpSizer(model.SecondarySludgePump, s.SludgePumpCapacity),
	}
}

func filterFields(f formula.FilterSizing) map[string]string {
	return map[string]string{
		"designFlow":   f.DesignFlow,
		"areaRequired": f.AreaRequired,
		"unitArea":     f.UnitArea,
		"units":        strconv.Itoa(f.Units),
		"actualArea":   f.ActualArea,
		"backwashFlow": f.BackwashFlow,
	}
}

func polishingSizers(f FiltrationStage, s model.SludgeCalculationState) []sizer {
	backwash := sizer{name: model.BackwashPump, size: func(in model.EquipmentInput) map[string]string {
		return map[string]string{
			"capacity": f.BackwashFlow,
			"volume":   f.BackwashVolume,
			"power":    formula.PumpPowerKW(formula.Num(f.BackwashFlow), formula.Num(in.Field("head"))),
		}
	}}

	return []sizer{
		pumpSizer(model.FilterFeedPump, f.DesignFlow),
		fixedSizer(model.MultigradeFilter, filterFields(f.MGF)),
		fixedSizer(model.ActivatedCarbonFilter, filterFields(f.ACF)),
		backwash,
		fixedSizer(model.SludgeDewatering, map[string]string{
			"capacity":      s.DewateringCapacity,
			"holdingVolume": s.HoldingVolume,
		}),
		pumpSizer(model.SludgeTransferPump, s.DewateringCapacity),
	}
}

// sludgeBalance combines the three sources. A source is enabled when its
// clarifier or flotation unit is required, and takes that item's consistency.
func sludgeBalance(p PrimaryStage, f DAFStage, s SecondaryStage, inputs model.Inputs, design model.DesignBasis) model.SludgeCalculationState {
	source := func(name, volume string) (model.SludgeSource, formula.SludgeSource) {
		in, _ := inputs.Find(name)
		calc := formula.SludgeSource{
			Enabled:     in.Required,
			Volume:      formula.Num(volume),
			Consistency: formula.Num(in.Field("consistency")),
		}
		view := model.SludgeSource{
			Enabled:     in.Required,
			Volume:      volume,
			Consistency: formula.Fixed(calc.Consistency),
		}
		return view, calc
	}

	primary, fp := source(model.PrimaryClarifier, p.SludgeVolume)
	daf, fd := source(model.DAFUnit, f.SludgeVolume)
	secondary, fs := source(model.SecondaryClarifier, s.SludgeVolume)

	total := formula.TotalSludge(fp, fd, fs)
	consistency := formula.FinalConsistency(fp, fd, fs)
	tons := formula.TonsSolids(formula.Num(total), formula.Num(consistency))
	poly := formula.KgPolyRequired(formula.Num(tons))

	return model.SludgeCalculationState{
		Primary:            primary,
		DAF:                daf,
		Secondary:          secondary,
		TotalSludge:        total,
		FinalConsistency:   consistency,
		TonsSolids:         tons,
		KgPolyRequired:     poly,
		PrepTankVolume:     formula.PrepTankVolumeLiters(formula.Num(poly)),
		DosingTankVolume:   formula.DosingTankVolumeLiters(formula.Num(poly)),
		DewateringCapacity: formula.HourlyFlow(formula.Num(total), formula.Num(design.DewateringHours)),
		HoldingVolume:      total,
	}
}

// chemical describes how a daily demand turns into a metering pump and tank.
type chemical struct {
	name     string
	demand   string
	strength float64 // percent
	density  float64 // kg/l
	hours    float64
	// tank overrides the storage-based tank volume when set.
	tank string
}

// Strengths (percent by weight) and densities (kg/l) as dosed.
const (
	neatStrength      = 100
	polySolutionPct   = 0.6
	phosphoricDensity = 1.685
	causticDensity    = 1.5
	hclDensity        = 1.16
	dilutedDensity    = 1.0
)

func chemicals(n NutrientStage, s model.SludgeCalculationState, d model.DesignBasis) []chemical {
	dosingHours := formula.Num(d.DosingHours)
	return []chemical{
		{name: model.UreaDosing, demand: n.UreaKg, strength: formula.Num(d.UreaStrength), density: dilutedDensity, hours: dosingHours},
		{name: model.PhosphoricAcidDosing, demand: n.PhosphoricAcidKg, strength: neatStrength, density: phosphoricDensity, hours: dosingHours},
		{name: model.DAPDosing, demand: n.DAPKg, strength: formula.Num(d.DAPStrength), density: dilutedDensity, hours: dosingHours},
		{name: model.CausticDosing, demand: n.CausticKg, strength: neatStrength, density: causticDensity, hours: dosingHours},
		{name: model.HClDosing, demand: n.HClKg, strength: neatStrength, density: hclDensity, hours: dosingHours},
		{name: model.MicronutrientDosing, demand: n.MicronutrientsLtr, strength: neatStrength, density: dilutedDensity, hours: dosingHours},
		{
			name:     model.PolyDosing,
			demand:   s.KgPolyRequired,
			strength: polySolutionPct,
			density:  dilutedDensity,
			hours:    formula.Num(d.DewateringHours),
			tank:     s.DosingTankVolume,
		},
	}
}

func dosingSizers(n NutrientStage, s model.SludgeCalculationState, d model.DesignBasis) []sizer {
	storageDays := formula.Num(d.StorageDays)
	powerDensity := formula.Num(d.AgitatorPowerDensity)

	var out []sizer
	for _, c := range chemicals(n, s, d) {
		def, _ := model.Lookup(c.name)
		out = append(out, sizer{name: c.name, size: func(in model.EquipmentInput) map[string]string {
			lph := formula.DosingPumpLPH(formula.Num(c.demand), c.strength, c.density, c.hours)
			tank := c.tank
			if tank == "" {
				tank = formula.DosingTankLiters(formula.Num(lph), c.hours, storageDays)
			}
			fields := map[string]string{
				"demand":        c.demand,
				"pump.capacity": lph,
				"pump.power":    formula.PumpPowerKW(formula.Num(lph)/1000, formula.Num(in.Field("pump.head"))),
				"tank.capacity": tank,
			}
			if def.Agitator {
				fields["agitator.capacity"] = formula.AgitatorKW(formula.Num(tank), powerDensity)
			}
			return fields
		}})
	}
	return out
}

// powerSummary sums the running power of required items only.
func powerSummary(reg model.Registry) model.PowerSummary {
	var items []model.PowerItem
	total := 0.0
	add := func(name, kw string) {
		v := formula.Num(kw)
		if !(v > 0) {
			return
		}
		items = append(items, model.PowerItem{Name: name, KW: formula.Fixed(v)})
		total += v
	}

	for _, spec := range reg.Equipment {
		if spec.Required {
			add(spec.Name, spec.Calculated["power"])
		}
	}
	for _, spec := range reg.Dosing {
		if !spec.Required {
			continue
		}
		add(spec.Name+" pump", spec.Calculated["pump.power"])
		add(spec.Name+" agitator", spec.Calculated["agitator.capacity"])
	}

	if items == nil {
		items = []model.PowerItem{}
	}
	return model.PowerSummary{Items: items, TotalKW: formula.Fixed(total)}
}
