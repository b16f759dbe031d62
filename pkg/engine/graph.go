package engine

import (
	etp "github.com/pumped-fn/etp-sizing"
	"github.com/pumped-fn/etp-sizing/pkg/formula"
	"github.com/pumped-fn/etp-sizing/pkg/model"
)

type (
	paramCtl    = *etp.Controller[model.ParameterList]
	clientCtl   = *etp.Controller[model.ClientInfo]
	guaranteeCt = *etp.Controller[model.Guarantees]
	designCtl   = *etp.Controller[model.DesignBasis]
	inputsCtl   = *etp.Controller[model.Inputs]
)

// Inputs. Their factories give the session defaults; edit commands replace
// the values through etp.Update.
var (
	InletInputs = etp.Provide(func(*etp.ResolveCtx) (model.ParameterList, error) {
		return model.DefaultInlet(), nil
	}, etp.WithName("inletInputs"))

	AnaerobicInputs = etp.Provide(func(*etp.ResolveCtx) (model.ParameterList, error) {
		return model.DefaultAnaerobic(), nil
	}, etp.WithName("anaerobicInputs"))

	ClientInputs = etp.Provide(func(*etp.ResolveCtx) (model.ClientInfo, error) {
		return model.DefaultClientInfo(), nil
	}, etp.WithName("clientInfo"))

	GuaranteeInputs = etp.Provide(func(*etp.ResolveCtx) (model.Guarantees, error) {
		return model.DefaultGuarantees(), nil
	}, etp.WithName("guarantees"))

	DesignInputs = etp.Provide(func(*etp.ResolveCtx) (model.DesignBasis, error) {
		return model.DefaultDesignBasis(), nil
	}, etp.WithName("designBasis"))

	EquipmentInputs = etp.Provide(func(*etp.ResolveCtx) (model.Inputs, error) {
		return model.DefaultInputs(), nil
	}, etp.WithName("equipmentInputs"))
)

// Flow derivation and the two settled parameter lists.
var (
	Flows = etp.Derive3(
		ClientInputs.Reactive(),
		InletInputs.Reactive(),
		AnaerobicInputs.Reactive(),
		func(ctx *etp.ResolveCtx, client clientCtl, inlet, anaerobic paramCtl) (FlowState, error) {
			c := client.MustGet()
			return StrategyFor(c.Industry).Derive(c, inlet.MustGet(), anaerobic.MustGet()), nil
		},
		etp.WithName("flows"),
	)

	InletParameters = etp.Derive2(
		InletInputs.Reactive(),
		Flows.Reactive(),
		func(ctx *etp.ResolveCtx, inputs paramCtl, flows *etp.Controller[FlowState]) (model.ParameterList, error) {
			list := inputs.MustGet()
			if f := flows.MustGet(); f.Mode == (paperFlow{}).Mode() {
				list = list.With(model.ParamFlow, f.InletFlow)
			}
			return withTCOD(list), nil
		},
		etp.WithName("inletParameters"),
	)

	AnaerobicParameters = etp.Derive2(
		AnaerobicInputs.Reactive(),
		Flows.Reactive(),
		func(ctx *etp.ResolveCtx, inputs paramCtl, flows *etp.Controller[FlowState]) (model.ParameterList, error) {
			list := inputs.MustGet().With(model.ParamFlow, flows.MustGet().AnaerobicFlow)
			return withTCOD(list), nil
		},
		etp.WithName("anaerobicParameters"),
	)
)

func withTCOD(list model.ParameterList) model.ParameterList {
	tcod := formula.TCOD(list.Num(model.ParamSCOD), list.Num(model.ParamTSS), list.Num(model.ParamFOG))
	return list.With(model.ParamTCOD, tcod)
}

// Process stages.
var (
	Loads = etp.Derive3(
		InletParameters.Reactive(),
		AnaerobicParameters.Reactive(),
		ClientInputs.Reactive(),
		func(ctx *etp.ResolveCtx, inletCtl, anaCtl paramCtl, client clientCtl) (model.Loads, error) {
			in, ana, c := inletCtl.MustGet(), anaCtl.MustGet(), client.MustGet()
			inFlow, anaFlow := in.Num(model.ParamFlow), ana.Num(model.ParamFlow)
			return model.Loads{
				InletSCODLoad:     formula.Load(inFlow, in.Num(model.ParamSCOD)),
				InletTCODLoad:     formula.Load(inFlow, in.Num(model.ParamTCOD)),
				InletBODLoad:      formula.Load(inFlow, in.Num(model.ParamBOD)),
				InletTSSLoad:      formula.Load(inFlow, in.Num(model.ParamTSS)),
				AnaerobicSCODLoad: formula.Load(anaFlow, ana.Num(model.ParamSCOD)),
				AnaerobicTCODLoad: formula.Load(anaFlow, ana.Num(model.ParamTCOD)),
				AnaerobicBODLoad:  formula.Load(anaFlow, ana.Num(model.ParamBOD)),
				AnaerobicTSSLoad:  formula.Load(anaFlow, ana.Num(model.ParamTSS)),
				AnaerobicNLoad:    formula.Load(anaFlow, ana.Num(model.ParamNH4)),
				AnaerobicPLoad:    formula.Load(anaFlow, ana.Num(model.ParamPO4)),
				PaperCODLoad:      formula.PaperCODLoad(formula.Num(c.ProductionCapacity), formula.Num(c.SpecificCOD)),
			}, nil
		},
		etp.WithName("loads"),
	)

	Anaerobic = etp.Derive3(
		AnaerobicParameters.Reactive(),
		GuaranteeInputs.Reactive(),
		DesignInputs.Reactive(),
		func(ctx *etp.ResolveCtx, anaCtl paramCtl, g guaranteeCt, d designCtl) (AnaerobicStage, error) {
			ana, guar, design := anaCtl.MustGet(), g.MustGet(), d.MustGet()
			flow := ana.Num(model.ParamFlow)
			codLoad := formula.Load(flow, ana.Num(model.ParamTCOD))
			removed := formula.SCODRemovedKg(flow, ana.Num(model.ParamSCOD), formula.Num(guar.AnaerobicCODRemoval))
			return AnaerobicStage{
				CODLoad:          codLoad,
				SCODRemovedKg:    removed,
				ReactorVolume:    formula.ReactorVolume(formula.Num(codLoad), formula.Num(design.AnaerobicOLR)),
				BiogasNm3:        formula.BiogasNm3(formula.Num(removed), formula.Num(guar.BiogasYield)),
				FeedPumpCapacity: formula.HourlyFlow(flow, 24),
			}, nil
		},
		etp.WithName("anaerobic"),
	)

	Primary = etp.Derive3(
		Flows.Reactive(),
		AnaerobicParameters.Reactive(),
		DesignInputs.Reactive(),
		func(ctx *etp.ResolveCtx, flows *etp.Controller[FlowState], anaCtl paramCtl, d designCtl) (PrimaryStage, error) {
			f, design := flows.MustGet(), d.MustGet()
			area := formula.SurfaceArea(formula.Num(f.InletFlow), formula.Num(design.PrimarySOR))
			return PrimaryStage{
				TSSRemovedKg:       f.TSSRemovedKg,
				SurfaceArea:        area,
				Diameter:           formula.CircularDiameter(formula.Num(area)),
				SludgeVolume:       formula.PrimarySludgeVolume(formula.Num(f.TSSRemovedKg)),
				SludgePumpCapacity: formula.PrimarySludgePumpCapacity(anaCtl.MustGet().Num(model.ParamFlow)),
			}, nil
		},
		etp.WithName("primary"),
	)

	DAF = etp.Derive2(
		AnaerobicParameters.Reactive(),
		GuaranteeInputs.Reactive(),
		func(ctx *etp.ResolveCtx, anaCtl paramCtl, g guaranteeCt) (DAFStage, error) {
			ana := anaCtl.MustGet()
			flow := ana.Num(model.ParamFlow)
			return DAFStage{
				Capacity: formula.HourlyFlow(flow, 24),
				SludgeVolume: formula.DAFSludgeVolume(flow, ana.Num(model.ParamTSS), ana.Num(model.ParamFOG),
					formula.Num(g.MustGet().DAFTSSRemoval)),
			}, nil
		},
		etp.WithName("daf"),
	)

	Aeration = etp.Derive3(
		AnaerobicParameters.Reactive(),
		GuaranteeInputs.Reactive(),
		DesignInputs.Reactive(),
		func(ctx *etp.ResolveCtx, anaCtl paramCtl, g guaranteeCt, d designCtl) (AerationStage, error) {
			ana, design := anaCtl.MustGet(), d.MustGet()
			flow := ana.Num(model.ParamFlow)
			bodLoad := formula.AerationBODLoad(flow, ana.Num(model.ParamBOD), formula.Num(g.MustGet().AnaerobicBODRemoval))
			volume := formula.AerationVolume(formula.Num(bodLoad), formula.Num(design.FMRatio), formula.Num(design.MLSS))
			width := formula.TankWidth(formula.Num(volume), formula.Num(design.AerationDepth))
			return AerationStage{
				BODLoad:        bodLoad,
				Volume:         volume,
				Width:          width,
				Length:         formula.Fixed(2 * formula.Num(width)),
				Depth:          formula.Fixed(formula.Num(design.AerationDepth)),
				HRT:            formula.HRTHours(formula.Num(volume), flow),
				AirRequirement: formula.AirRequirement(formula.Num(bodLoad) / 24),
			}, nil
		},
		etp.WithName("aeration"),
	)

	Blower = etp.Derive2(
		Aeration.Reactive(),
		DesignInputs.Reactive(),
		func(ctx *etp.ResolveCtx, aer *etp.Controller[AerationStage], d designCtl) (BlowerStage, error) {
			a, design := aer.MustGet(), d.MustGet()
			air := formula.Num(a.AirRequirement)
			// diffuser submergence plus 0.5 m of pipe and diffuser loss
			head := formula.Fixed(formula.Num(a.Depth) + 0.5)
			if !(air > 0) {
				return BlowerStage{Airflow: formula.Zero, Head: head, PowerKW: formula.Zero, HPRequired: formula.Zero}, nil
			}
			power := formula.BlowerPowerKW(air, formula.Num(head))
			return BlowerStage{
				Airflow:    a.AirRequirement,
				Head:       head,
				PowerKW:    power,
				HPRequired: formula.KWToHP(formula.Num(power)),
				Diffusers:  formula.DiffuserCount(air, formula.Num(design.AirPerDiffuser)),
			}, nil
		},
		etp.WithName("blower"),
	)

	Secondary = etp.Derive3(
		AnaerobicParameters.Reactive(),
		Aeration.Reactive(),
		DesignInputs.Reactive(),
		func(ctx *etp.ResolveCtx, anaCtl paramCtl, aer *etp.Controller[AerationStage], d designCtl) (SecondaryStage, error) {
			ana := anaCtl.MustGet()
			flow := ana.Num(model.ParamFlow)
			volume := formula.SecondarySludgeVolume(flow, ana.Num(model.ParamTSS),
				formula.Num(aer.MustGet().BODLoad), ana.Num(model.ParamCalcium))
			area := formula.SurfaceArea(flow, formula.Num(d.MustGet().SecondarySOR))
			return SecondaryStage{
				SludgeVolume:       volume,
				SurfaceArea:        area,
				Diameter:           formula.CircularDiameter(formula.Num(area)),
				RASCapacity:        formula.HourlyFlow(flow, 24),
				SludgePumpCapacity: formula.HourlyFlow(formula.Num(volume), 24),
			}, nil
		},
		etp.WithName("secondary"),
	)

	Nutrients = etp.Derive3(
		AnaerobicParameters.Reactive(),
		GuaranteeInputs.Reactive(),
		DesignInputs.Reactive(),
		func(ctx *etp.ResolveCtx, anaCtl paramCtl, g guaranteeCt, d designCtl) (NutrientStage, error) {
			ana, design := anaCtl.MustGet(), d.MustGet()
			flow := ana.Num(model.ParamFlow)
			removed := formula.SCODRemovedKg(flow, ana.Num(model.ParamSCOD), formula.Num(g.MustGet().AnaerobicCODRemoval))
			nReq := formula.NRequiredTheoretical(formula.Num(removed))
			nNet := formula.NNet(formula.Num(nReq), flow, ana.Num(model.ParamNH4))
			pReq := formula.PRequiredTheoretical(formula.Num(removed))
			pNet := formula.PNet(formula.Num(pReq), flow, ana.Num(model.ParamPO4))
			return NutrientStage{
				SCODRemovedKg:     removed,
				NRequired:         nReq,
				NNet:              nNet,
				UreaKg:            formula.UreaKgPerDay(formula.Num(nNet)),
				PRequired:         pReq,
				PNet:              pNet,
				PhosphoricAcidKg:  formula.PhosphoricAcidKgPerDay(formula.Num(pNet)),
				DAPKg:             formula.DAPKgPerDay(formula.Num(pNet)),
				CausticKg:         formula.CausticKgPerDay(flow, ana.Num(model.ParamAlkalinity), formula.Num(design.CausticTargetAlkalinity)),
				HClKg:             formula.HClKgPerDay(flow, ana.Num(model.ParamPH), formula.Num(design.HClTriggerPH), formula.Num(design.HClDose)),
				MicronutrientsLtr: formula.MicronutrientLitersPerDay(formula.Num(removed), formula.Num(design.MicronutrientDose)),
			}, nil
		},
		etp.WithName("nutrients"),
	)

	Filtration = etp.Derive3(
		AnaerobicParameters.Reactive(),
		DesignInputs.Reactive(),
		EquipmentInputs.Reactive(),
		func(ctx *etp.ResolveCtx, anaCtl paramCtl, d designCtl, inputs inputsCtl) (FiltrationStage, error) {
			design, in := d.MustGet(), inputs.MustGet()
			flow := formula.HourlyFlow(anaCtl.MustGet().Num(model.ParamFlow), formula.Num(design.FilterHours))
			size := func(name, rate string) formula.FilterSizing {
				item, _ := in.Find(name)
				return formula.SizeFilter(formula.Num(flow), formula.Num(rate), formula.Num(item.Field("diameter")),
					formula.Num(design.BackwashRate), formula.Num(design.BackwashTime))
			}
			mgf := size(model.MultigradeFilter, design.MGFRate)
			acf := size(model.ActivatedCarbonFilter, design.ACFRate)
			return FiltrationStage{
				DesignFlow:     flow,
				MGF:            mgf,
				ACF:            acf,
				BackwashFlow:   larger(mgf.BackwashFlow, acf.BackwashFlow),
				BackwashVolume: larger(mgf.BackwashVolume, acf.BackwashVolume),
			}, nil
		},
		etp.WithName("filtration"),
	)
)

func larger(a, b string) string {
	if formula.Num(b) > formula.Num(a) {
		return b
	}
	return a
}

// Sludge balance, chemical dosing and treated water.
var (
	Sludge = etp.Derive5(
		Primary.Reactive(),
		DAF.Reactive(),
		Secondary.Reactive(),
		EquipmentInputs.Reactive(),
		DesignInputs.Reactive(),
		func(ctx *etp.ResolveCtx, p *etp.Controller[PrimaryStage], f *etp.Controller[DAFStage],
			s *etp.Controller[SecondaryStage], inputs inputsCtl, d designCtl) (model.SludgeCalculationState, error) {
			return sludgeBalance(p.MustGet(), f.MustGet(), s.MustGet(), inputs.MustGet(), d.MustGet()), nil
		},
		etp.WithName("sludge"),
	)

	Dosing = etp.Derive4(
		Nutrients.Reactive(),
		Sludge.Reactive(),
		DesignInputs.Reactive(),
		EquipmentInputs.Reactive(),
		func(ctx *etp.ResolveCtx, n *etp.Controller[NutrientStage], s *etp.Controller[model.SludgeCalculationState],
			d designCtl, inputs inputsCtl) ([]model.EquipmentSpec, error) {
			return sizeItems(ctx, inputs.MustGet(), dosingSizers(n.MustGet(), s.MustGet(), d.MustGet())), nil
		},
		etp.WithName("dosing"),
	)

	Treated = etp.Derive2(
		AnaerobicParameters.Reactive(),
		GuaranteeInputs.Reactive(),
		func(ctx *etp.ResolveCtx, anaCtl paramCtl, g guaranteeCt) (model.TreatedWater, error) {
			ana, guar := anaCtl.MustGet(), g.MustGet()
			codAna, codAer := formula.Num(guar.AnaerobicCODRemoval), formula.Num(guar.AerobicCODRemoval)
			return model.TreatedWater{
				SCOD: formula.TreatedConcentration(ana.Num(model.ParamSCOD), codAna, codAer),
				TCOD: formula.TreatedConcentration(ana.Num(model.ParamTCOD), codAna, codAer),
				BOD: formula.TreatedConcentration(ana.Num(model.ParamBOD),
					formula.Num(guar.AnaerobicBODRemoval), formula.Num(guar.AerobicBODRemoval)),
				TSS: formula.TreatedConcentration(ana.Num(model.ParamTSS), formula.Num(guar.DAFTSSRemoval), 0),
			}, nil
		},
		etp.WithName("treated"),
	)
)

// Equipment registry.
var (
	ProcessEquipment = etp.Derive4(
		EquipmentInputs.Reactive(),
		Anaerobic.Reactive(),
		Primary.Reactive(),
		DAF.Reactive(),
		func(ctx *etp.ResolveCtx, inputs inputsCtl, a *etp.Controller[AnaerobicStage],
			p *etp.Controller[PrimaryStage], f *etp.Controller[DAFStage]) ([]model.EquipmentSpec, error) {
			return sizeItems(ctx, inputs.MustGet(), processSizers(a.MustGet(), p.MustGet(), f.MustGet())), nil
		},
		etp.WithName("processEquipment"),
	)

	BiologicalEquipment = etp.Derive4(
		EquipmentInputs.Reactive(),
		Aeration.Reactive(),
		Blower.Reactive(),
		Secondary.Reactive(),
		func(ctx *etp.ResolveCtx, inputs inputsCtl, a *etp.Controller[AerationStage],
			b *etp.Controller[BlowerStage], s *etp.Controller[SecondaryStage]) ([]model.EquipmentSpec, error) {
			return sizeItems(ctx, inputs.MustGet(), biologicalSizers(a.MustGet(), b.MustGet(), s.MustGet())), nil
		},
		etp.WithName("biologicalEquipment"),
	)

	PolishingEquipment = etp.Derive3(
		EquipmentInputs.Reactive(),
		Filtration.Reactive(),
		Sludge.Reactive(),
		func(ctx *etp.ResolveCtx, inputs inputsCtl, f *etp.Controller[FiltrationStage],
			s *etp.Controller[model.SludgeCalculationState]) ([]model.EquipmentSpec, error) {
			return sizeItems(ctx, inputs.MustGet(), polishingSizers(f.MustGet(), s.MustGet())), nil
		},
		etp.WithName("polishingEquipment"),
	)

	Registry = etp.Derive4(
		ProcessEquipment.Reactive(),
		BiologicalEquipment.Reactive(),
		PolishingEquipment.Reactive(),
		Dosing.Reactive(),
		func(ctx *etp.ResolveCtx, process, bio, polishing, dosing *etp.Controller[[]model.EquipmentSpec]) (model.Registry, error) {
			var equipment []model.EquipmentSpec
			equipment = append(equipment, process.MustGet()...)
			equipment = append(equipment, bio.MustGet()...)
			equipment = append(equipment, polishing.MustGet()...)
			return model.Registry{Equipment: equipment, Dosing: dosing.MustGet()}, nil
		},
		etp.WithName("registry"),
	)

	Power = etp.Derive1(
		Registry.Reactive(),
		func(ctx *etp.ResolveCtx, reg *etp.Controller[model.Registry]) (model.PowerSummary, error) {
			return powerSummary(reg.MustGet()), nil
		},
		etp.WithName("power"),
	)
)

// Group is a named derived cell exposed through value maps.
type Group struct {
	Name string
	Cell etp.AnyCell
}

// Groups returns the derived groups in dependency order.
func Groups() []Group {
	cells := []etp.AnyCell{
		Flows, InletParameters, AnaerobicParameters,
		Loads, Anaerobic, Primary, DAF, Aeration, Blower, Secondary, Nutrients, Filtration,
		Sludge, Dosing, Treated, ProcessEquipment, BiologicalEquipment, PolishingEquipment,
		Registry, Power,
	}
	out := make([]Group, len(cells))
	for i, c := range cells {
		out[i] = Group{Name: etp.NameOf(c), Cell: c}
	}
	return out
}

// InputCells returns the input cells.
func InputCells() []Group {
	cells := []etp.AnyCell{InletInputs, AnaerobicInputs, ClientInputs, GuaranteeInputs, DesignInputs, EquipmentInputs}
	out := make([]Group, len(cells))
	for i, c := range cells {
		out[i] = Group{Name: etp.NameOf(c), Cell: c}
	}
	return out
}
