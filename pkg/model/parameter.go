// Package model holds the session state of a sizing run: the two water
// quality parameter lists, client and guarantee fields, design basis,
// the equipment registry and the settled snapshot handed to exporters.
//
// Every numeric field is a numeric string as entered or as formatted by the
// formula package. Values are plain data; the engine owns all writes.
package model

import "github.com/pumped-fn/etp-sizing/pkg/formula"

// ListID names one of the two parameter lists.
type ListID string

const (
	ListInlet     ListID = "inlet"
	ListAnaerobic ListID = "anaerobic"
)

// Parameter IDs, stable across both lists.
const (
	ParamFlow = iota + 1
	ParamTemperature
	ParamPH
	ParamSCOD
	ParamTCOD
	ParamBOD
	ParamTSS
	ParamVFA
	ParamAlkalinity
	ParamFOG
	ParamNH4
	ParamPO4
	ParamSulphate
	ParamCalcium
	ParamTDS
	ParamChlorides
	ParamSilica
)

// ParameterCount is the number of entries in each list.
const ParameterCount = ParamSilica

// Parameter is one water quality entry.
type Parameter struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Unit  string `json:"unit" yaml:"unit"`
	Value string `json:"value" yaml:"value"`
}

// ParameterList is an ordered list of the 17 parameters.
type ParameterList []Parameter

type paramDef struct {
	name, unit       string
	inlet, anaerobic string
}

// Derived entries default to the empty string and are filled by the engine.
var paramDefs = [ParameterCount]paramDef{
	{"Flow", "m3/day", "1000", ""},
	{"Temperature", "°C", "35", "35"},
	{"pH", "–", "7.0", "7.0"},
	{"sCOD", "mg/l", "3000", "3000"},
	{"tCOD", "mg/l", "", ""},
	{"BOD", "mg/l", "1500", "1500"},
	{"TSS", "mg/l", "600", "300"},
	{"VFA", "meq/l", "5", "5"},
	{"Alkalinity", "mg/l as CaCO3", "800", "800"},
	{"FOG", "mg/l", "50", "50"},
	{"NH4-N", "mg/l", "20", "20"},
	{"PO4-P", "mg/l", "5", "5"},
	{"Sulphate", "mg/l", "200", "200"},
	{"Calcium", "mg/l", "150", "150"},
	{"TDS", "mg/l", "2500", "2500"},
	{"Chlorides", "mg/l", "400", "400"},
	{"Silica", "mg/l", "30", "30"},
}

// DefaultInlet returns the session defaults of the inlet list.
func DefaultInlet() ParameterList {
	return defaultList(ListInlet)
}

// DefaultAnaerobic returns the session defaults of the anaerobic feed list.
func DefaultAnaerobic() ParameterList {
	return defaultList(ListAnaerobic)
}

func defaultList(id ListID) ParameterList {
	list := make(ParameterList, ParameterCount)
	for i, def := range paramDefs {
		value := def.inlet
		if id == ListAnaerobic {
			value = def.anaerobic
		}
		list[i] = Parameter{ID: i + 1, Name: def.name, Unit: def.unit, Value: value}
	}
	return list
}

// ParameterName returns the name shared by both lists for an ID.
func ParameterName(id int) (string, bool) {
	if id < 1 || id > ParameterCount {
		return "", false
	}
	return paramDefs[id-1].name, true
}

// ParameterID looks an ID up by name.
func ParameterID(name string) (int, bool) {
	for i, def := range paramDefs {
		if def.name == name {
			return i + 1, true
		}
	}
	return 0, false
}

// Get returns the entry with the given ID.
func (l ParameterList) Get(id int) (Parameter, bool) {
	for _, p := range l {
		if p.ID == id {
			return p, true
		}
	}
	return Parameter{}, false
}

// Num returns the numeric value of an entry, 0 when absent or unparsable.
func (l ParameterList) Num(id int) float64 {
	p, ok := l.Get(id)
	if !ok {
		return 0
	}
	return formula.Num(p.Value)
}

// Clone returns a copy that shares nothing with l.
func (l ParameterList) Clone() ParameterList {
	if l == nil {
		return nil
	}
	out := make(ParameterList, len(l))
	copy(out, l)
	return out
}

// With returns a copy of the list with one value replaced.
func (l ParameterList) With(id int, value string) ParameterList {
	out := make(ParameterList, len(l))
	copy(out, l)
	for i := range out {
		if out[i].ID == id {
			out[i].Value = value
		}
	}
	return out
}
