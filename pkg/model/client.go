package model

import "strings"

// Industry selects how flows are derived.
type Industry string

const (
	IndustryPaper   Industry = "Paper"
	IndustryStarch  Industry = "Starch"
	IndustryEthanol Industry = "Ethanol"
	IndustryPotato  Industry = "Potato"
	IndustryFish    Industry = "Fish"
	IndustryPharma  Industry = "Pharma"
	IndustryOther   Industry = "Other"
)

// Industries lists the accepted industry modes.
var Industries = []Industry{
	IndustryPaper, IndustryStarch, IndustryEthanol, IndustryPotato,
	IndustryFish, IndustryPharma, IndustryOther,
}

// ParseIndustry matches an industry name case-insensitively.
func ParseIndustry(s string) (Industry, bool) {
	s = strings.TrimSpace(s)
	for _, ind := range Industries {
		if strings.EqualFold(string(ind), s) {
			return ind, true
		}
	}
	return "", false
}

// ClientInfo holds the user-entered client fields.
type ClientInfo struct {
	ClientName         string   `json:"clientName" yaml:"clientName"`
	Location           string   `json:"location" yaml:"location"`
	Industry           Industry `json:"industry" yaml:"industry"`
	ProductionCapacity string   `json:"productionCapacity" yaml:"productionCapacity"`
	SpecificCOD        string   `json:"specificCOD" yaml:"specificCOD"`
	LoopWaterCOD       string   `json:"loopWaterCOD" yaml:"loopWaterCOD"`
}

// DefaultClientInfo returns the session defaults.
func DefaultClientInfo() ClientInfo {
	return ClientInfo{
		Industry:           IndustryOther,
		ProductionCapacity: "100",
		SpecificCOD:        "30",
		LoopWaterCOD:       "1500",
	}
}

// With returns a copy with a text field replaced. Industry is not settable
// here since it must be parsed first. ok is false for unknown fields.
func (c ClientInfo) With(field, value string) (ClientInfo, bool) {
	switch field {
	case "clientName":
		c.ClientName = value
	case "location":
		c.Location = value
	case "productionCapacity":
		c.ProductionCapacity = value
	case "specificCOD":
		c.SpecificCOD = value
	case "loopWaterCOD":
		c.LoopWaterCOD = value
	default:
		return c, false
	}
	return c, true
}

// Loads are the auto-calculated daily mass loads (kg/day).
type Loads struct {
	InletSCODLoad     string `json:"inletSCODLoad" yaml:"inletSCODLoad"`
	InletTCODLoad     string `json:"inletTCODLoad" yaml:"inletTCODLoad"`
	InletBODLoad      string `json:"inletBODLoad" yaml:"inletBODLoad"`
	InletTSSLoad      string `json:"inletTSSLoad" yaml:"inletTSSLoad"`
	AnaerobicSCODLoad string `json:"anaerobicSCODLoad" yaml:"anaerobicSCODLoad"`
	AnaerobicTCODLoad string `json:"anaerobicTCODLoad" yaml:"anaerobicTCODLoad"`
	AnaerobicBODLoad  string `json:"anaerobicBODLoad" yaml:"anaerobicBODLoad"`
	AnaerobicTSSLoad  string `json:"anaerobicTSSLoad" yaml:"anaerobicTSSLoad"`
	AnaerobicNLoad    string `json:"anaerobicNLoad" yaml:"anaerobicNLoad"`
	AnaerobicPLoad    string `json:"anaerobicPLoad" yaml:"anaerobicPLoad"`
	PaperCODLoad      string `json:"paperCODLoad" yaml:"paperCODLoad"`
}

// LoadFields are the names of the engine-owned client fields.
var LoadFields = []string{
	"inletSCODLoad", "inletTCODLoad", "inletBODLoad", "inletTSSLoad",
	"anaerobicSCODLoad", "anaerobicTCODLoad", "anaerobicBODLoad", "anaerobicTSSLoad",
	"anaerobicNLoad", "anaerobicPLoad", "paperCODLoad",
}

// IsLoadField reports whether field is an auto-calculated load.
func IsLoadField(field string) bool {
	for _, f := range LoadFields {
		if f == field {
			return true
		}
	}
	return false
}

// Guarantees are the removal efficiencies (percent) and biogas yield
// (Nm3 per kg COD removed) promised for the plant.
type Guarantees struct {
	AnaerobicCODRemoval string `json:"anaerobicCODRemoval" yaml:"anaerobicCODRemoval"`
	AnaerobicBODRemoval string `json:"anaerobicBODRemoval" yaml:"anaerobicBODRemoval"`
	AerobicCODRemoval   string `json:"aerobicCODRemoval" yaml:"aerobicCODRemoval"`
	AerobicBODRemoval   string `json:"aerobicBODRemoval" yaml:"aerobicBODRemoval"`
	DAFTSSRemoval       string `json:"dafTSSRemoval" yaml:"dafTSSRemoval"`
	BiogasYield         string `json:"biogasYield" yaml:"biogasYield"`
}

// DefaultGuarantees returns the session defaults.
func DefaultGuarantees() Guarantees {
	return Guarantees{
		AnaerobicCODRemoval: "80",
		AnaerobicBODRemoval: "85",
		AerobicCODRemoval:   "70",
		AerobicBODRemoval:   "90",
		DAFTSSRemoval:       "85",
		BiogasYield:         "0.42",
	}
}

func (g *Guarantees) field(name string) *string {
	switch name {
	case "anaerobicCODRemoval":
		return &g.AnaerobicCODRemoval
	case "anaerobicBODRemoval":
		return &g.AnaerobicBODRemoval
	case "aerobicCODRemoval":
		return &g.AerobicCODRemoval
	case "aerobicBODRemoval":
		return &g.AerobicBODRemoval
	case "dafTSSRemoval":
		return &g.DAFTSSRemoval
	case "biogasYield":
		return &g.BiogasYield
	}
	return nil
}

// With returns a copy with one field replaced. ok is false for unknown fields.
func (g Guarantees) With(name, value string) (Guarantees, bool) {
	p := g.field(name)
	if p == nil {
		return g, false
	}
	*p = value
	return g, true
}

// DesignBasis holds the tunable design assumptions.
type DesignBasis struct {
	AnaerobicOLR            string `json:"anaerobicOLR" yaml:"anaerobicOLR"`
	MLSS                    string `json:"mlss" yaml:"mlss"`
	FMRatio                 string `json:"fmRatio" yaml:"fmRatio"`
	AerationDepth           string `json:"aerationDepth" yaml:"aerationDepth"`
	AirPerDiffuser          string `json:"airPerDiffuser" yaml:"airPerDiffuser"`
	PrimarySOR              string `json:"primarySOR" yaml:"primarySOR"`
	SecondarySOR            string `json:"secondarySOR" yaml:"secondarySOR"`
	FilterHours             string `json:"filterHours" yaml:"filterHours"`
	MGFRate                 string `json:"mgfRate" yaml:"mgfRate"`
	ACFRate                 string `json:"acfRate" yaml:"acfRate"`
	BackwashRate            string `json:"backwashRate" yaml:"backwashRate"`
	BackwashTime            string `json:"backwashTime" yaml:"backwashTime"`
	DewateringHours         string `json:"dewateringHours" yaml:"dewateringHours"`
	DosingHours             string `json:"dosingHours" yaml:"dosingHours"`
	StorageDays             string `json:"storageDays" yaml:"storageDays"`
	UreaStrength            string `json:"ureaStrength" yaml:"ureaStrength"`
	DAPStrength             string `json:"dapStrength" yaml:"dapStrength"`
	CausticTargetAlkalinity string `json:"causticTargetAlkalinity" yaml:"causticTargetAlkalinity"`
	HClTriggerPH            string `json:"hclTriggerPH" yaml:"hclTriggerPH"`
	HClDose                 string `json:"hclDose" yaml:"hclDose"`
	MicronutrientDose       string `json:"micronutrientDose" yaml:"micronutrientDose"`
	AgitatorPowerDensity    string `json:"agitatorPowerDensity" yaml:"agitatorPowerDensity"`
}

// DefaultDesignBasis returns the session defaults.
func DefaultDesignBasis() DesignBasis {
	return DesignBasis{
		AnaerobicOLR:            "12",
		MLSS:                    "3500",
		FMRatio:                 "0.15",
		AerationDepth:           "5",
		AirPerDiffuser:          "8",
		PrimarySOR:              "24",
		SecondarySOR:            "16",
		FilterHours:             "20",
		MGFRate:                 "12",
		ACFRate:                 "10",
		BackwashRate:            "30",
		BackwashTime:            "10",
		DewateringHours:         "20",
		DosingHours:             "24",
		StorageDays:             "1",
		UreaStrength:            "10",
		DAPStrength:             "10",
		CausticTargetAlkalinity: "1500",
		HClTriggerPH:            "8.5",
		HClDose:                 "50",
		MicronutrientDose:       "1.0",
		AgitatorPowerDensity:    "0.15",
	}
}

func (d *DesignBasis) field(name string) *string {
	switch name {
	case "anaerobicOLR":
		return &d.AnaerobicOLR
	case "mlss":
		return &d.MLSS
	case "fmRatio":
		return &d.FMRatio
	case "aerationDepth":
		return &d.AerationDepth
	case "airPerDiffuser":
		return &d.AirPerDiffuser
	case "primarySOR":
		return &d.PrimarySOR
	case "secondarySOR":
		return &d.SecondarySOR
	case "filterHours":
		return &d.FilterHours
	case "mgfRate":
		return &d.MGFRate
	case "acfRate":
		return &d.ACFRate
	case "backwashRate":
		return &d.BackwashRate
	case "backwashTime":
		return &d.BackwashTime
	case "dewateringHours":
		return &d.DewateringHours
	case "dosingHours":
		return &d.DosingHours
	case "storageDays":
		return &d.StorageDays
	case "ureaStrength":
		return &d.UreaStrength
	case "dapStrength":
		return &d.DAPStrength
	case "causticTargetAlkalinity":
		return &d.CausticTargetAlkalinity
	case "hclTriggerPH":
		return &d.HClTriggerPH
	case "hclDose":
		return &d.HClDose
	case "micronutrientDose":
		return &d.MicronutrientDose
	case "agitatorPowerDensity":
		return &d.AgitatorPowerDensity
	}
	return nil
}

// With returns a copy with one field replaced. ok is false for unknown fields.
func (d DesignBasis) With(name, value string) (DesignBasis, bool) {
	p := d.field(name)
	if p == nil {
		return d, false
	}
	*p = value
	return d, true
}
