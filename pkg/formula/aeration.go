package formula

import (
	"fmt"
	"math"
)

const (
	pumpEfficiency   = 0.6
	blowerEfficiency = 0.6
	kwToHP           = 1.341
	gravity          = 9.81
)

// AirRequirement is the process air for a BOD load (m3/h): 1.5 kg O2 per kg
// BOD, 1.2 kg/m3 air, 21% oxygen and 12% transfer efficiency.
func AirRequirement(bodPerHour float64) string {
	return Fixed(bodPerHour * 1.5 * 1.2 / 0.21 / 0.12)
}

// AerationBODLoad is the BOD reaching the aeration tank (kg/day).
func AerationBODLoad(anaerobicFlow, bod, anaerobicBODRemoval float64) string {
	return Fixed(anaerobicFlow * bod * (1 - anaerobicBODRemoval/100) / 1000)
}

// AerationVolume is the tank volume for an F/M ratio and MLSS (m3).
func AerationVolume(bodLoad, fmRatio, mlss float64) string {
	return Fixed(safeDiv(bodLoad, fmRatio*mlss/1000))
}

// TankWidth is the width of a tank twice as long as it is wide (m).
func TankWidth(volume, depth float64) string {
	area := safeDiv(volume, depth)
	if !(area > 0) {
		return Zero
	}
	return Fixed(math.Sqrt(area / 2))
}

// HRTHours is the hydraulic retention time (h).
func HRTHours(volume, flowPerDay float64) string {
	return Fixed(safeDiv(volume, flowPerDay) * 24)
}

// DiffuserCount is the number of diffusers for an air flow.
func DiffuserCount(airM3h, perDiffuser float64) int {
	if !(perDiffuser > 0) {
		return 0
	}
	return ceilCount(airM3h / perDiffuser)
}

// BlowerPowerKW is the shaft power to deliver air against a water head (kW).
func BlowerPowerKW(airM3h, headM float64) string {
	return Fixed(airM3h / 3600 * headM * gravity / blowerEfficiency)
}

// PumpPowerKW is the shaft power of a pump (kW).
func PumpPowerKW(flowM3h, headM float64) string {
	return Fixed(flowM3h * headM * gravity / 3600 / pumpEfficiency)
}

// KWToHP converts kilowatts to horsepower.
func KWToHP(kw float64) string {
	return Fixed(kw * kwToHP)
}

// ReactorVolume is the anaerobic reactor volume for an organic loading rate (m3).
func ReactorVolume(codLoad, olr float64) string {
	return Fixed(safeDiv(codLoad, olr))
}

// BiogasNm3 is the daily biogas production (Nm3/day).
func BiogasNm3(scodRemovedKg, yield float64) string {
	return Fixed(scodRemovedKg * yield)
}

// MotorConfig is a duty/standby motor arrangement.
type MotorConfig struct {
	QuantityRequired int    `json:"quantityRequired"`
	Standby          int    `json:"standby"`
	TotalUnits       int    `json:"totalUnits"`
	Config           string `json:"config"`
}

// ZeroMotorConfig is returned when there is nothing to drive.
var ZeroMotorConfig = MotorConfig{Config: "0 W + 0 S"}

// CalculateMotorQuantity splits a required rating over units of the selected
// size and adds exactly one standby.
func CalculateMotorQuantity(hpRatingRequired, selectedMotorHP float64) MotorConfig {
	hpRatingRequired = finite(hpRatingRequired)
	selectedMotorHP = finite(selectedMotorHP)
	if hpRatingRequired <= 0 || selectedMotorHP <= 0 {
		return ZeroMotorConfig
	}
	quantity := ceilCount(hpRatingRequired / selectedMotorHP)
	if quantity == 0 {
		return ZeroMotorConfig
	}
	return MotorConfig{
		QuantityRequired: quantity,
		Standby:          1,
		TotalUnits:       quantity + 1,
		Config:           fmt.Sprintf("%d W + 1 S", quantity),
	}
}
