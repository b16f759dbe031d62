package formula

import "math"

// Nutrient demand follows COD:N:P = 500:5:1 for the anaerobic stage.
const (
	codPerNutrientRatio = 500
	nitrogenShare       = 5
	phosphorusShare     = 1
)

// Product factors.
const (
	ureaNitrogen     = 0.46
	phosphoricFactor = 0.85 * 0.32
	dapPhosphorus    = 0.235
	causticPerAlk    = 0.8 // kg NaOH per kg alkalinity as CaCO3
	causticLyeShare  = 0.48
	hclAcidShare     = 0.33
)

// StandardMotorsKW are the motor ratings agitators are rounded up to.
var StandardMotorsKW = []float64{0.37, 0.55, 0.75, 1.1, 1.5, 2.2, 3.7, 5.5, 7.5, 11, 15}

// SCODRemovedKg is the soluble COD removed in the anaerobic stage (kg/day).
func SCODRemovedKg(anaerobicFlow, anaerobicSCOD, efficiencyPercent float64) string {
	return Fixed(anaerobicFlow * anaerobicSCOD * efficiencyPercent / 100000)
}

// NRequiredTheoretical is the nitrogen demand of the removed COD (kg/day).
func NRequiredTheoretical(scodRemovedKg float64) string {
	return Fixed(scodRemovedKg / codPerNutrientRatio * nitrogenShare)
}

// NNet is the nitrogen demand not covered by ammonia in the feed (kg/day).
func NNet(nRequired, anaerobicFlow, nh4 float64) string {
	return Fixed(math.Max(0, nRequired-anaerobicFlow*nh4/1000))
}

// UreaKgPerDay converts net nitrogen to urea.
func UreaKgPerDay(nNet float64) string {
	return Fixed(nNet / ureaNitrogen)
}

// PRequiredTheoretical is the phosphorus demand of the removed COD (kg/day).
func PRequiredTheoretical(scodRemovedKg float64) string {
	return Fixed(scodRemovedKg / codPerNutrientRatio * phosphorusShare)
}

// PNet is the phosphorus demand not covered by phosphate in the feed (kg/day).
func PNet(pRequired, anaerobicFlow, po4 float64) string {
	return Fixed(math.Max(0, pRequired-anaerobicFlow*po4/1000))
}

// PhosphoricAcidKgPerDay converts net phosphorus to phosphoric acid product.
func PhosphoricAcidKgPerDay(pNet float64) string {
	return Fixed(pNet / phosphoricFactor)
}

// DAPKgPerDay converts net phosphorus to diammonium phosphate.
func DAPKgPerDay(pNet float64) string {
	return Fixed(pNet / dapPhosphorus)
}

// CausticKgPerDay is the 48% lye needed to lift alkalinity to target (kg/day).
func CausticKgPerDay(flow, alkalinity, targetAlkalinity float64) string {
	deficit := math.Max(0, targetAlkalinity-alkalinity)
	return Fixed(flow * deficit / 1000 * causticPerAlk / causticLyeShare)
}

// HClKgPerDay is the 33% acid dosed when the feed pH exceeds the trigger (kg/day).
func HClKgPerDay(flow, pH, triggerPH, doseMgPerL float64) string {
	if !(pH > triggerPH) {
		return Zero
	}
	return Fixed(flow * doseMgPerL / 1000 / hclAcidShare)
}

// MicronutrientLitersPerDay doses trace elements per tonne of COD removed.
func MicronutrientLitersPerDay(scodRemovedKg, litersPerTon float64) string {
	return Fixed(scodRemovedKg / 1000 * litersPerTon)
}

// DosingPumpLPH is the metering pump capacity for a daily product demand.
// strengthPercent is the solution strength; density is kg/l.
func DosingPumpLPH(kgPerDay, strengthPercent, density, hours float64) string {
	if !(strengthPercent > 0) || !(density > 0) {
		return Zero
	}
	return Fixed(safeDiv(kgPerDay*100/strengthPercent/density, hours))
}

// DosingTankLiters holds the pump's throughput for the storage period.
func DosingTankLiters(lph, hours, days float64) string {
	return Fixed(math.Max(0, lph) * hours * days)
}

// AgitatorKW is the standard motor for mixing a tank at a power density
// (kW per m3). It is 0 for an empty tank.
func AgitatorKW(tankLiters, kwPerM3 float64) string {
	required := tankLiters / 1000 * kwPerM3
	if !(tankLiters > 0) || !(required > 0) {
		return Zero
	}
	for _, kw := range StandardMotorsKW {
		if kw >= required {
			return Fixed(kw)
		}
	}
	return Fixed(StandardMotorsKW[len(StandardMotorsKW)-1])
}
