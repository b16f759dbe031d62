package engine

import (
	"github.com/pumped-fn/etp-sizing/pkg/formula"
	"github.com/pumped-fn/etp-sizing/pkg/model"
)

// FlowStrategy derives the inlet and anaerobic feed flows for an industry.
type FlowStrategy interface {
	Mode() string
	Derive(client model.ClientInfo, inlet, anaerobic model.ParameterList) FlowState
}

var strategies = map[model.Industry]FlowStrategy{
	model.IndustryPaper: paperFlow{},
}

// StrategyFor returns the flow strategy of an industry. Industries without a
// dedicated strategy take the inlet flow as the primary input.
func StrategyFor(industry model.Industry) FlowStrategy {
	if s, ok := strategies[industry]; ok {
		return s
	}
	return inletFirstFlow{}
}

// inletFirstFlow takes the inlet flow as entered and subtracts the primary
// sludge draw-off to get the anaerobic feed flow.
type inletFirstFlow struct{}

func (inletFirstFlow) Mode() string { return "inlet-first" }

func (f inletFirstFlow) Derive(_ model.ClientInfo, inlet, anaerobic model.ParameterList) FlowState {
	inletFlow := formula.Fixed(inlet.Num(model.ParamFlow))
	removed := formula.TSSRemovedKg(formula.Num(inletFlow), inlet.Num(model.ParamTSS), anaerobic.Num(model.ParamTSS))
	return FlowState{
		Mode:          f.Mode(),
		InletFlow:     inletFlow,
		AnaerobicFlow: formula.AnaerobicFlowFromInlet(formula.Num(inletFlow), formula.Num(removed)),
		TSSRemovedKg:  removed,
	}
}

// paperFlow derives the anaerobic feed flow from production and back-derives
// the inlet flow. When the back-derivation is not defined the entered inlet
// flow is kept.
type paperFlow struct{}

func (paperFlow) Mode() string { return "paper" }

func (f paperFlow) Derive(client model.ClientInfo, inlet, anaerobic model.ParameterList) FlowState {
	codLoad := formula.PaperCODLoad(formula.Num(client.ProductionCapacity), formula.Num(client.SpecificCOD))
	anaFlow := formula.PaperAnaerobicFlow(formula.Num(codLoad), formula.Num(client.LoopWaterCOD))

	tssIn, tssAna := inlet.Num(model.ParamTSS), anaerobic.Num(model.ParamTSS)
	inletFlow, derived := formula.PaperInletFlow(formula.Num(anaFlow), tssIn, tssAna)
	if !derived {
		inletFlow = formula.Fixed(inlet.Num(model.ParamFlow))
	}

	return FlowState{
		Mode:          f.Mode(),
		InletFlow:     inletFlow,
		AnaerobicFlow: anaFlow,
		TSSRemovedKg:  formula.TSSRemovedKg(formula.Num(inletFlow), tssIn, tssAna),
		InletDerived:  derived,
	}
}
