package formula

import "math"

// dafKgPerM3 is the solids content of DAF float (3% consistency).
const dafKgPerM3 = 30

// polyKgPerTonSolids is the polyelectrolyte dose for dewatering.
const polyKgPerTonSolids = 3

// polySolutionKgPerM3 is the strength of the prepared poly solution.
const polySolutionKgPerM3 = 6

// SludgeSource is one contributor to the sludge balance.
type SludgeSource struct {
	Enabled     bool
	Volume      float64 // m3/day
	Consistency float64 // percent
}

// PrimarySludgeVolume is the primary sludge drawn off at 2% (m3/day).
func PrimarySludgeVolume(tssRemovedKg float64) string {
	return Fixed(math.Max(0, tssRemovedKg) / sludgeKgPerM3)
}

// PrimarySludgePumpCapacity sizes the primary sludge pump at 30% of the
// anaerobic feed flow (m3/h).
func PrimarySludgePumpCapacity(anaerobicFlow float64) string {
	return Fixed(0.30 * anaerobicFlow / 24)
}

// DAFSludgeVolume is the float removed by the DAF unit (m3/day).
func DAFSludgeVolume(flow, tss, fog, removalPercent float64) string {
	solidsKg := flow * (tss + fog) * removalPercent / 100 / 1000
	return Fixed(math.Max(0, solidsKg) / dafKgPerM3)
}

// SecondarySludgeVolume is the biological and chemical sludge from the
// aerobic stage (m3/day). Calcium above 250 mg/l precipitates.
func SecondarySludgeVolume(flow, tss, bodLoad, calcium float64) string {
	inert := flow * 1.1 * tss / 1000
	biological := 0.6 * bodLoad
	chemical := 2.5 * math.Max(0, calcium-250) * flow / 1000
	return Fixed((inert + biological + chemical) / 20)
}

// TotalSludge sums the volumes of the enabled sources (m3/day).
func TotalSludge(sources ...SludgeSource) string {
	total := 0.0
	for _, s := range sources {
		if s.Enabled {
			total += s.Volume
		}
	}
	return Fixed(total)
}

// FinalConsistency is the volume-weighted consistency of the enabled sources
// (percent). It is "0.00" when their total volume is not positive.
func FinalConsistency(sources ...SludgeSource) string {
	var volume, weighted float64
	for _, s := range sources {
		if !s.Enabled {
			continue
		}
		volume += s.Volume
		weighted += s.Volume * s.Consistency
	}
	if !(volume > 0) {
		return Zero
	}
	return Fixed(weighted / volume)
}

// TonsSolids is the dry solids in the combined sludge (t/day).
func TonsSolids(totalSludge, finalConsistency float64) string {
	return Fixed(totalSludge * finalConsistency * 10 / 1000)
}

// KgPolyRequired is the daily polyelectrolyte demand (kg/day).
func KgPolyRequired(tonsSolids float64) string {
	return Fixed(tonsSolids * polyKgPerTonSolids)
}

// PrepTankVolumeLiters is the poly preparation tank volume (l).
func PrepTankVolumeLiters(kgPoly float64) string {
	return Fixed(kgPoly * 1000 / polySolutionKgPerM3)
}

// DosingTankVolumeLiters is the poly dosing tank volume (l); it holds the
// same batch as the preparation tank.
func DosingTankVolumeLiters(kgPoly float64) string {
	return PrepTankVolumeLiters(kgPoly)
}
