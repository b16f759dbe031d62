package model

import "time"

// SludgeSource is one of the three sludge contributors.
type SludgeSource struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Volume      string `json:"volume" yaml:"volume"`
	Consistency string `json:"consistency" yaml:"consistency"`
}

// SludgeCalculationState is the combined sludge balance and what it implies
// for polymer dosing and dewatering.
type SludgeCalculationState struct {
	Primary            SludgeSource `json:"primary" yaml:"primary"`
	DAF                SludgeSource `json:"daf" yaml:"daf"`
	Secondary          SludgeSource `json:"secondary" yaml:"secondary"`
	TotalSludge        string       `json:"totalSludge" yaml:"totalSludge"`
	FinalConsistency   string       `json:"finalConsistency" yaml:"finalConsistency"`
	TonsSolids         string       `json:"tonsSolids" yaml:"tonsSolids"`
	KgPolyRequired     string       `json:"kgPolyRequired" yaml:"kgPolyRequired"`
	PrepTankVolume     string       `json:"prepTankVolume" yaml:"prepTankVolume"`
	DosingTankVolume   string       `json:"dosingTankVolume" yaml:"dosingTankVolume"`
	DewateringCapacity string       `json:"dewateringCapacity" yaml:"dewateringCapacity"`
	HoldingVolume      string       `json:"holdingVolume" yaml:"holdingVolume"`
}

// TreatedWater is the predicted outlet quality after both biological stages.
type TreatedWater struct {
	SCOD string `json:"sCOD" yaml:"sCOD"`
	TCOD string `json:"tCOD" yaml:"tCOD"`
	BOD  string `json:"bod" yaml:"bod"`
	TSS  string `json:"tss" yaml:"tss"`
}

// PowerItem is the running power of one required item.
type PowerItem struct {
	Name string `json:"name" yaml:"name"`
	KW   string `json:"kw" yaml:"kw"`
}

// PowerSummary is the installed running power of the required items.
type PowerSummary struct {
	Items   []PowerItem `json:"items" yaml:"items"`
	TotalKW string      `json:"totalKW" yaml:"totalKW"`
}

// Clone returns a copy with its own item slice.
func (p PowerSummary) Clone() PowerSummary {
	if p.Items != nil {
		p.Items = append([]PowerItem(nil), p.Items...)
	}
	return p
}

// Registry is the settled equipment registry.
type Registry struct {
	Equipment []EquipmentSpec `json:"equipment" yaml:"equipment"`
	Dosing    []EquipmentSpec `json:"dosing" yaml:"dosing"`
}

// Find returns the record for name from either list.
func (r Registry) Find(name string) (EquipmentSpec, bool) {
	for _, list := range [][]EquipmentSpec{r.Equipment, r.Dosing} {
		for _, spec := range list {
			if spec.Name == name {
				return spec, true
			}
		}
	}
	return EquipmentSpec{}, false
}

// ValidationIssue is a condition the edit layer should surface. It is never
// an error of the engine.
type ValidationIssue struct {
	Subject string `json:"subject" yaml:"subject"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// Snapshot is a read-only, settled copy of the whole session state.
type Snapshot struct {
	SessionID string                       `json:"sessionId" yaml:"sessionId"`
	Version   uint64                       `json:"version" yaml:"version"`
	TakenAt   time.Time                    `json:"takenAt" yaml:"takenAt"`
	Inlet     ParameterList                `json:"inlet" yaml:"inlet"`
	Anaerobic ParameterList                `json:"anaerobic" yaml:"anaerobic"`
	Client    ClientInfo                   `json:"client" yaml:"client"`
	Loads     Loads                        `json:"loads" yaml:"loads"`
	Guarantee Guarantees                   `json:"guarantees" yaml:"guarantees"`
	Design    DesignBasis                  `json:"design" yaml:"design"`
	Equipment []EquipmentSpec              `json:"equipment" yaml:"equipment"`
	Dosing    []DosingSystem               `json:"dosing" yaml:"dosing"`
	Sludge    SludgeCalculationState       `json:"sludge" yaml:"sludge"`
	Power     PowerSummary                 `json:"power" yaml:"power"`
	Treated   TreatedWater                 `json:"treated" yaml:"treated"`
	Groups    map[string]map[string]string `json:"groups" yaml:"groups"`
	Issues    []ValidationIssue            `json:"issues,omitempty" yaml:"issues,omitempty"`
}
