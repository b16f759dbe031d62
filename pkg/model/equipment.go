package model

import (
	"maps"
	"strings"
)

// Supply says which party supplies an item. It is informational only.
type Supply string

const (
	SupplyEDI    Supply = "EDI"
	SupplyClient Supply = "Client"
)

// ParseSupply matches a supply name case-insensitively.
func ParseSupply(s string) (Supply, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(SupplyEDI)):
		return SupplyEDI, true
	case strings.EqualFold(strings.TrimSpace(s), string(SupplyClient)):
		return SupplyClient, true
	}
	return "", false
}

// Kind separates process equipment from chemical dosing systems.
type Kind int

const (
	KindEquipment Kind = iota
	KindDosing
)

// Equipment names.
const (
	PrimaryClarifier      = "Primary Clarifier"
	PrimarySludgePump     = "Primary Sludge Pump"
	AnaerobicFeedPump     = "Anaerobic Feed Pump"
	AnaerobicReactor      = "Anaerobic Reactor"
	DAFUnit               = "DAF Unit"
	AerationTank          = "Aeration Tank"
	AirBlower             = "Air Blower"
	Diffusers             = "Diffusers"
	SecondaryClarifier    = "Secondary Clarifier"
	RASPump               = "RAS Pump"
	SecondarySludgePump   = "Secondary Sludge Pump"
	FilterFeedPump        = "Filter Feed Pump"
	MultigradeFilter      = "Multigrade Filter"
	ActivatedCarbonFilter = "Activated Carbon Filter"
	BackwashPump          = "Backwash Pump"
	SludgeDewatering      = "Sludge Dewatering"
	SludgeTransferPump    = "Sludge Transfer Pump"
)

// Dosing system names.
const (
	UreaDosing           = "Urea Dosing"
	PhosphoricAcidDosing = "Phosphoric Acid Dosing"
	DAPDosing            = "DAP Dosing"
	CausticDosing        = "Caustic Dosing"
	HClDosing            = "HCl Dosing"
	MicronutrientDosing  = "Micronutrient Dosing"
	PolyDosing           = "Poly Dosing"
)

// EquipmentDef is a catalogue entry: which fields the engine calculates and
// which user fields exist with their defaults.
type EquipmentDef struct {
	Name       string
	Kind       Kind
	Chemical   string
	Agitator   bool
	Required   bool
	Calculated []string
	Defaults   map[string]string
}

// IsCalculated reports whether field is engine-owned.
func (d EquipmentDef) IsCalculated(field string) bool {
	for _, f := range d.Calculated {
		if f == field {
			return true
		}
	}
	return false
}

// IsUserField reports whether field is a user field of the item.
func (d EquipmentDef) IsUserField(field string) bool {
	_, ok := d.Defaults[field]
	return ok
}

var (
	clarifierCalc = []string{"area", "diameter", "sludgeVolume"}
	pumpCalc      = []string{"capacity", "power"}
	filterCalc    = []string{"designFlow", "areaRequired", "unitArea", "units", "actualArea", "backwashFlow"}
	dosingCalc    = []string{"demand", "pump.capacity", "pump.power", "tank.capacity"}
)

func pump(moc, typ, head, qty string) map[string]string {
	fields := map[string]string{"moc": moc, "head": head, "qty": qty}
	if typ != "" {
		fields["type"] = typ
	}
	return fields
}

func equipment(name string, calc []string, defaults map[string]string) EquipmentDef {
	return EquipmentDef{Name: name, Kind: KindEquipment, Required: true, Calculated: calc, Defaults: defaults}
}

func dosing(name, chemical string, agitator, required bool, pumpType, tankMOC string) EquipmentDef {
	calc := append([]string(nil), dosingCalc...)
	defaults := map[string]string{
		"pump.head": "10",
		"pump.type": pumpType,
		"pump.moc":  "PP",
		"pump.qty":  "2",
		"tank.moc":  tankMOC,
		"tank.qty":  "1",
	}
	if agitator {
		calc = append(calc, "agitator.capacity")
		defaults["agitator.rpm"] = "960"
		defaults["agitator.moc"] = "SS316"
		defaults["agitator.qty"] = "1"
	}
	return EquipmentDef{
		Name:       name,
		Kind:       KindDosing,
		Chemical:   chemical,
		Agitator:   agitator,
		Required:   required,
		Calculated: calc,
		Defaults:   defaults,
	}
}

var catalogue = []EquipmentDef{
	equipment(PrimaryClarifier, clarifierCalc, map[string]string{"moc": "RCC", "consistency": "2"}),
	equipment(PrimarySludgePump, pumpCalc, pump("CI", "Screw", "15", "2")),
	equipment(AnaerobicFeedPump, pumpCalc, pump("CI", "Centrifugal", "20", "2")),
	equipment(AnaerobicReactor, []string{"volume", "biogas", "codRemoved"}, map[string]string{"moc": "RCC"}),
	equipment(DAFUnit, []string{"capacity", "sludgeVolume"}, map[string]string{"moc": "MSEP", "consistency": "3"}),
	equipment(AerationTank, []string{"volume", "length", "width", "depth", "hrt"}, map[string]string{"moc": "RCC"}),
	equipment(AirBlower,
		[]string{"airflow", "power", "hpRequired", "quantityRequired", "standby", "totalUnits", "config"},
		map[string]string{"moc": "CI", "type": "Twin Lobe", "selectedMotorHP": "15"}),
	equipment(Diffusers, []string{"count"}, map[string]string{"moc": "EPDM", "type": "Fine Bubble Disc"}),
	equipment(SecondaryClarifier, clarifierCalc, map[string]string{"moc": "RCC", "consistency": "1"}),
	equipment(RASPump, pumpCalc, pump("CI", "Centrifugal", "12", "2")),
	equipment(SecondarySludgePump, pumpCalc, pump("CI", "Screw", "15", "2")),
	equipment(FilterFeedPump, pumpCalc, pump("CI", "Centrifugal", "35", "2")),
	equipment(MultigradeFilter, filterCalc, map[string]string{"moc": "MSEP", "diameter": "2.0"}),
	equipment(ActivatedCarbonFilter, filterCalc, map[string]string{"moc": "MSEP", "diameter": "2.0"}),
	equipment(BackwashPump, []string{"capacity", "volume", "power"}, pump("CI", "", "20", "1")),
	equipment(SludgeDewatering, []string{"capacity", "holdingVolume"}, map[string]string{"moc": "SS304", "type": "Screw Press"}),
	equipment(SludgeTransferPump, pumpCalc, pump("CI", "Screw", "20", "2")),

	dosing(UreaDosing, "Urea", true, true, "Diaphragm", "HDPE"),
	dosing(PhosphoricAcidDosing, "Phosphoric Acid", false, true, "Diaphragm", "HDPE"),
	dosing(DAPDosing, "DAP", true, false, "Diaphragm", "HDPE"),
	dosing(CausticDosing, "Caustic", true, true, "Diaphragm", "MSRL"),
	dosing(HClDosing, "HCl", false, false, "Diaphragm", "HDPE"),
	dosing(MicronutrientDosing, "Micronutrients", true, true, "Diaphragm", "HDPE"),
	dosing(PolyDosing, "Poly", true, true, "Screw", "SS304"),
}

// Catalogue returns every equipment and dosing definition in registry order.
func Catalogue() []EquipmentDef {
	out := make([]EquipmentDef, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup finds a catalogue entry by name.
func Lookup(name string) (EquipmentDef, bool) {
	for _, def := range catalogue {
		if def.Name == name {
			return def, true
		}
	}
	return EquipmentDef{}, false
}

// EquipmentInput is the user-owned part of an item.
type EquipmentInput struct {
	Name     string            `json:"name" yaml:"name"`
	Required bool              `json:"required" yaml:"required"`
	Supply   Supply            `json:"supply" yaml:"supply"`
	Fields   map[string]string `json:"fields" yaml:"fields"`
}

// Field returns a user field, empty when unset.
func (in EquipmentInput) Field(name string) string {
	return in.Fields[name]
}

// Inputs is the user-owned registry, in catalogue order.
type Inputs []EquipmentInput

// DefaultInputs returns the session defaults for every catalogue entry.
func DefaultInputs() Inputs {
	out := make(Inputs, 0, len(catalogue))
	for _, def := range catalogue {
		fields := make(map[string]string, len(def.Defaults))
		for k, v := range def.Defaults {
			fields[k] = v
		}
		out = append(out, EquipmentInput{
			Name:     def.Name,
			Required: def.Required,
			Supply:   SupplyEDI,
			Fields:   fields,
		})
	}
	return out
}

// Find returns the input for name.
func (in Inputs) Find(name string) (EquipmentInput, bool) {
	for _, item := range in {
		if item.Name == name {
			return item, true
		}
	}
	return EquipmentInput{}, false
}

// Modify returns a deep copy with fn applied to the named item. ok is false
// when no item has that name.
func (in Inputs) Modify(name string, fn func(*EquipmentInput)) (Inputs, bool) {
	out := make(Inputs, len(in))
	found := false
	for i, item := range in {
		fields := make(map[string]string, len(item.Fields))
		for k, v := range item.Fields {
			fields[k] = v
		}
		item.Fields = fields
		if item.Name == name {
			fn(&item)
			found = true
		}
		out[i] = item
	}
	return out, found
}

// EquipmentSpec is one registry record: user fields plus the engine's
// calculated fields.
type EquipmentSpec struct {
	Name       string            `json:"name" yaml:"name"`
	Required   bool              `json:"required" yaml:"required"`
	Supply     Supply            `json:"supply" yaml:"supply"`
	Fields     map[string]string `json:"fields" yaml:"fields"`
	Calculated map[string]string `json:"calculated" yaml:"calculated"`
}

// Clone returns a copy with its own field maps.
func (s EquipmentSpec) Clone() EquipmentSpec {
	s.Fields = maps.Clone(s.Fields)
	s.Calculated = maps.Clone(s.Calculated)
	return s
}

// CloneSpecs clones every record of specs.
func CloneSpecs(specs []EquipmentSpec) []EquipmentSpec {
	if specs == nil {
		return nil
	}
	out := make([]EquipmentSpec, len(specs))
	for i, spec := range specs {
		out[i] = spec.Clone()
	}
	return out
}

// Value returns a calculated field if present, else a user field.
func (s EquipmentSpec) Value(field string) string {
	if v, ok := s.Calculated[field]; ok {
		return v
	}
	return s.Fields[field]
}

// DosingPump is the metering pump of a dosing system.
type DosingPump struct {
	Capacity string `json:"capacity" yaml:"capacity"`
	Power    string `json:"power" yaml:"power"`
	Head     string `json:"head" yaml:"head"`
	Type     string `json:"type" yaml:"type"`
	MOC      string `json:"moc" yaml:"moc"`
	Qty      string `json:"qty" yaml:"qty"`
}

// DosingTank is the solution tank of a dosing system.
type DosingTank struct {
	Capacity string `json:"capacity" yaml:"capacity"`
	MOC      string `json:"moc" yaml:"moc"`
	Qty      string `json:"qty" yaml:"qty"`
}

// Agitator mixes a dosing tank.
type Agitator struct {
	Capacity string `json:"capacity" yaml:"capacity"`
	RPM      string `json:"rpm" yaml:"rpm"`
	MOC      string `json:"moc" yaml:"moc"`
	Qty      string `json:"qty" yaml:"qty"`
}

// DosingSystem is the structured view of a dosing registry record.
type DosingSystem struct {
	Name           string     `json:"name" yaml:"name"`
	Chemical       string     `json:"chemical" yaml:"chemical"`
	Required       bool       `json:"required" yaml:"required"`
	Supply         Supply     `json:"supply" yaml:"supply"`
	DemandKgPerDay string     `json:"demandKgPerDay" yaml:"demandKgPerDay"`
	Pump           DosingPump `json:"pump" yaml:"pump"`
	Tank           DosingTank `json:"tank" yaml:"tank"`
	Agitator       *Agitator  `json:"agitator,omitempty" yaml:"agitator,omitempty"`
}

// DosingSystemOf builds the structured view of a dosing record.
func DosingSystemOf(spec EquipmentSpec) DosingSystem {
	def, _ := Lookup(spec.Name)
	out := DosingSystem{
		Name:           spec.Name,
		Chemical:       def.Chemical,
		Required:       spec.Required,
		Supply:         spec.Supply,
		DemandKgPerDay: spec.Value("demand"),
		Pump: DosingPump{
			Capacity: spec.Value("pump.capacity"),
			Power:    spec.Value("pump.power"),
			Head:     spec.Value("pump.head"),
			Type:     spec.Value("pump.type"),
			MOC:      spec.Value("pump.moc"),
			Qty:      spec.Value("pump.qty"),
		},
		Tank: DosingTank{
			Capacity: spec.Value("tank.capacity"),
			MOC:      spec.Value("tank.moc"),
			Qty:      spec.Value("tank.qty"),
		},
	}
	if def.Agitator {
		out.Agitator = &Agitator{
			Capacity: spec.Value("agitator.capacity"),
			RPM:      spec.Value("agitator.rpm"),
			MOC:      spec.Value("agitator.moc"),
			Qty:      spec.Value("agitator.qty"),
		}
	}
	return out
}
