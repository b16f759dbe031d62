package formula

import "math"

// FilterArea is the bed area of a circular filter shell (m2).
func FilterArea(diameter float64) string {
	if !(diameter > 0) {
		return Zero
	}
	return Fixed(math.Pi * diameter * diameter / 4)
}

// AreaRequired is the bed area needed at a filtration rate (m2).
func AreaRequired(flow, rate float64) string {
	return Fixed(safeDiv(flow, rate))
}

// NumberOfUnits is the number of shells needed to provide areaRequired.
func NumberOfUnits(areaRequired, unitArea float64) int {
	if !(unitArea > 0) {
		return 0
	}
	return ceilCount(areaRequired / unitArea)
}

// ActualArea is the installed bed area (m2).
func ActualArea(units int, unitArea float64) string {
	if units <= 0 {
		return Zero
	}
	return Fixed(float64(units) * unitArea)
}

// BackwashFlow is the backwash water flow (m3/h).
func BackwashFlow(backwashRate, actualArea float64) string {
	return Fixed(backwashRate * actualArea)
}

// BackwashPumpCapacity is the water volume of one backwash (m3).
func BackwashPumpCapacity(backwashFlow, backwashMinutes float64) string {
	return Fixed(backwashFlow * backwashMinutes / 60)
}

// FilterSizing is the chained result for one filtration stage.
type FilterSizing struct {
	DesignFlow     string `json:"designFlow"`
	AreaRequired   string `json:"areaRequired"`
	UnitArea       string `json:"unitArea"`
	Units          int    `json:"units"`
	ActualArea     string `json:"actualArea"`
	BackwashFlow   string `json:"backwashFlow"`
	BackwashVolume string `json:"backwashVolume"`
}

// SizeFilter chains the filter formulas. Each step reads the formatted result
// of the previous one, so rounding matches the individual formulas.
func SizeFilter(designFlow, rate, diameter, backwashRate, backwashMinutes float64) FilterSizing {
	out := FilterSizing{
		DesignFlow:   Fixed(designFlow),
		AreaRequired: AreaRequired(designFlow, rate),
		UnitArea:     FilterArea(diameter),
	}
	out.Units = NumberOfUnits(Num(out.AreaRequired), Num(out.UnitArea))
	out.ActualArea = ActualArea(out.Units, Num(out.UnitArea))
	out.BackwashFlow = BackwashFlow(backwashRate, Num(out.ActualArea))
	out.BackwashVolume = BackwashPumpCapacity(Num(out.BackwashFlow), backwashMinutes)
	return out
}
