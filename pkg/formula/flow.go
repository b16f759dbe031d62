package formula

import "math"

// Sludge leaving a clarifier is taken at 2% consistency: 20 kg solids per m3.
const sludgeKgPerM3 = 0.02 * 1000

// paperGuard is the smallest denominator for which the Paper-mode inlet flow
// is back-derived.
const paperGuard = 0.1

// Load is a daily mass load in kg/day: flow (m3/day) × concentration (mg/l) / 1000.
func Load(flow, conc float64) string {
	return Fixed(flow * conc / 1000)
}

// TCOD is total COD from its soluble, suspended and fat fractions.
func TCOD(sCOD, tss, fog float64) string {
	return Fixed(sCOD + tss + 1.5*fog)
}

// PaperCODLoad is the COD load of a paper mill in kg/day.
func PaperCODLoad(productionTPD, specificCOD float64) string {
	return Fixed(productionTPD * specificCOD)
}

// PaperAnaerobicFlow derives the anaerobic feed flow (m3/day) from the mill's
// COD load and the loop-water COD.
func PaperAnaerobicFlow(codLoad, loopWaterCOD float64) string {
	return Fixed(safeDiv(codLoad, loopWaterCOD) * 1000)
}

// PaperInletFlow back-derives the inlet flow from the anaerobic feed flow.
// ok is false when the denominator is 0.1 or less; the caller then keeps
// the inlet flow it has.
func PaperInletFlow(anaerobicFlow, tssInlet, tssAnaerobic float64) (flow string, ok bool) {
	denominator := 1 - (tssInlet-tssAnaerobic)/20000
	if !(denominator > paperGuard) {
		return Zero, false
	}
	return Fixed(anaerobicFlow / denominator), true
}

// TSSRemovedKg is the suspended solids removed ahead of the anaerobic stage (kg/day).
func TSSRemovedKg(inletFlow, tssInlet, tssAnaerobic float64) string {
	return Fixed(inletFlow * (tssInlet - tssAnaerobic) / 1000)
}

// AnaerobicFlowFromInlet subtracts the sludge drawn off with the removed
// solids from the inlet flow.
func AnaerobicFlowFromInlet(inletFlow, tssRemovedKg float64) string {
	return Fixed(math.Max(0, inletFlow-tssRemovedKg/sludgeKgPerM3))
}

// HourlyFlow spreads a daily volume over the operating hours (m3/h).
func HourlyFlow(perDay, hours float64) string {
	return Fixed(safeDiv(perDay, hours))
}

// SurfaceArea is the clarifier area for a surface overflow rate (m2).
func SurfaceArea(flow, overflowRate float64) string {
	return Fixed(safeDiv(flow, overflowRate))
}

// CircularDiameter is the diameter of a circle with the given area (m).
func CircularDiameter(area float64) string {
	if !(area > 0) {
		return Zero
	}
	return Fixed(math.Sqrt(4 * area / math.Pi))
}

// TreatedConcentration applies two successive removal efficiencies.
func TreatedConcentration(conc, firstPercent, secondPercent float64) string {
	return Fixed(conc * (1 - firstPercent/100) * (1 - secondPercent/100))
}
