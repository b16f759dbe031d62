package engine

import "github.com/pumped-fn/etp-sizing/pkg/formula"

// FlowState is the output of the flow derivation.
type FlowState struct {
	Mode          string `json:"mode"`
	InletFlow     string `json:"inletFlow"`
	AnaerobicFlow string `json:"anaerobicFlow"`
	TSSRemovedKg  string `json:"tssRemovedKg"`
	// InletDerived is true when the inlet flow was back-derived from the
	// anaerobic feed flow.
	InletDerived bool `json:"inletDerived"`
}

// AnaerobicStage sizes the anaerobic reactor.
type AnaerobicStage struct {
	CODLoad          string `json:"codLoad"`
	SCODRemovedKg    string `json:"scodRemovedKg"`
	ReactorVolume    string `json:"reactorVolume"`
	BiogasNm3        string `json:"biogasNm3"`
	FeedPumpCapacity string `json:"feedPumpCapacity"`
}

// PrimaryStage sizes the primary clarifier and its sludge draw-off.
type PrimaryStage struct {
	TSSRemovedKg       string `json:"tssRemovedKg"`
	SurfaceArea        string `json:"surfaceArea"`
	Diameter           string `json:"diameter"`
	SludgeVolume       string `json:"sludgeVolume"`
	SludgePumpCapacity string `json:"sludgePumpCapacity"`
}

// DAFStage sizes the flotation unit.
type DAFStage struct {
	Capacity     string `json:"capacity"`
	SludgeVolume string `json:"sludgeVolume"`
}

// AerationStage sizes the aeration tank.
type AerationStage struct {
	BODLoad        string `json:"bodLoad"`
	Volume         string `json:"volume"`
	Length         string `json:"length"`
	Width          string `json:"width"`
	Depth          string `json:"depth"`
	HRT            string `json:"hrt"`
	AirRequirement string `json:"airRequirement"`
}

// BlowerStage sizes the air supply.
type BlowerStage struct {
	Airflow    string `json:"airflow"`
	Head       string `json:"head"`
	PowerKW    string `json:"powerKW"`
	HPRequired string `json:"hpRequired"`
	Diffusers  int    `json:"diffusers"`
}

// SecondaryStage sizes the secondary clarifier and its pumps.
type SecondaryStage struct {
	SludgeVolume       string `json:"sludgeVolume"`
	SurfaceArea        string `json:"surfaceArea"`
	Diameter           string `json:"diameter"`
	RASCapacity        string `json:"rasCapacity"`
	SludgePumpCapacity string `json:"sludgePumpCapacity"`
}

// NutrientStage is the chemical demand of the anaerobic stage.
type NutrientStage struct {
	SCODRemovedKg     string `json:"scodRemovedKg"`
	NRequired         string `json:"nRequired"`
	NNet              string `json:"nNet"`
	UreaKg            string `json:"ureaKg"`
	PRequired         string `json:"pRequired"`
	PNet              string `json:"pNet"`
	PhosphoricAcidKg  string `json:"phosphoricAcidKg"`
	DAPKg             string `json:"dapKg"`
	CausticKg         string `json:"causticKg"`
	HClKg             string `json:"hclKg"`
	MicronutrientsLtr string `json:"micronutrientsLtr"`
}

// FiltrationStage sizes both tertiary filters and the shared backwash pump.
type FiltrationStage struct {
	DesignFlow     string               `json:"designFlow"`
	MGF            formula.FilterSizing `json:"mgf"`
	ACF            formula.FilterSizing `json:"acf"`
	BackwashFlow   string               `json:"backwashFlow"`
	BackwashVolume string               `json:"backwashVolume"`
}
