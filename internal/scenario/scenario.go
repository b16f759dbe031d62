// Package scenario loads sizing scenarios from YAML or TOML files and replays
// them onto an engine as edit commands.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pumped-fn/etp-sizing/pkg/engine"
	"github.com/pumped-fn/etp-sizing/pkg/model"
)

// Environment overrides applied after the file is read.
const (
	EnvIndustry  = "ETP_INDUSTRY"
	EnvInletFlow = "ETP_INLET_FLOW"
)

// ErrUnsupportedFormat is returned for files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported scenario format")

// File is a scenario as written on disk. Every section is optional; absent
// entries keep the session defaults.
type File struct {
	Name       string            `yaml:"name" toml:"name"`
	Session    string            `yaml:"session" toml:"session" validate:"omitempty,max=64"`
	Client     map[string]string `yaml:"client" toml:"client" validate:"dive,keys,required,endkeys"`
	Inlet      map[string]string `yaml:"inlet" toml:"inlet" validate:"dive,keys,parameter,endkeys,omitempty,numeric"`
	Anaerobic  map[string]string `yaml:"anaerobic" toml:"anaerobic" validate:"dive,keys,parameter,endkeys,omitempty,numeric"`
	Guarantees map[string]string `yaml:"guarantees" toml:"guarantees" validate:"dive,keys,required,endkeys,omitempty,numeric"`
	Design     map[string]string `yaml:"design" toml:"design" validate:"dive,keys,required,endkeys,omitempty,numeric"`
	Equipment  []Item            `yaml:"equipment" toml:"equipment" validate:"dive"`
}

// Item edits one equipment item or dosing system.
type Item struct {
	Name     string            `yaml:"name" toml:"name" validate:"required,equipment"`
	Required *bool             `yaml:"required" toml:"required"`
	Supply   string            `yaml:"supply" toml:"supply" validate:"omitempty,supply"`
	Fields   map[string]string `yaml:"fields" toml:"fields"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("parameter", func(fl validator.FieldLevel) bool {
		_, ok := model.ParameterID(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("equipment", func(fl validator.FieldLevel) bool {
		_, ok := model.Lookup(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("supply", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseSupply(fl.Field().String())
		return ok
	})
	return v
}

// Load reads a scenario file, applies the environment overrides and
// validates the result. The format follows the extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode %s: unknown keys %v", path, undecoded)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f.applyEnv()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) applyEnv() {
	if v, ok := os.LookupEnv(EnvIndustry); ok {
		f.Client = with(f.Client, "industry", v)
	}
	if v, ok := os.LookupEnv(EnvInletFlow); ok {
		f.Inlet = with(f.Inlet, "Flow", v)
	}
}

func with(m map[string]string, k, v string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[k] = v
	return m
}

// Validate checks the file shape. Values the engine owns are rejected later,
// when the scenario is applied.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	if ind, ok := f.Client["industry"]; ok {
		if _, ok := model.ParseIndustry(ind); !ok {
			return fmt.Errorf("invalid scenario: %w: %q", engine.ErrInvalidIndustry, ind)
		}
	}
	return nil
}

// Apply replays the scenario onto e. The industry goes first so that flow
// ownership follows the final mode; every other section is applied in key
// order. It returns the number of edits that changed the session.
func (f *File) Apply(e *engine.Engine) (int, error) {
	changed := 0
	step := func(ok bool, err error) error {
		if ok {
			changed++
		}
		return err
	}

	if ind, ok := f.Client["industry"]; ok {
		if err := step(e.SetClientInfoField("industry", ind)); err != nil {
			return changed, err
		}
	}
	for _, k := range sortedKeys(f.Client) {
		if k == "industry" {
			continue
		}
		if err := step(e.SetClientInfoField(k, f.Client[k])); err != nil {
			return changed, err
		}
	}
	for _, k := range sortedKeys(f.Guarantees) {
		if err := step(e.SetGuaranteeField(k, f.Guarantees[k])); err != nil {
			return changed, err
		}
	}
	for _, k := range sortedKeys(f.Design) {
		if err := step(e.SetDesignField(k, f.Design[k])); err != nil {
			return changed, err
		}
	}

	lists := []struct {
		id     model.ListID
		values map[string]string
	}{
		{model.ListInlet, f.Inlet},
		{model.ListAnaerobic, f.Anaerobic},
	}
	for _, l := range lists {
		for _, k := range sortedKeys(l.values) {
			id, _ := model.ParameterID(k)
			if err := step(e.SetParameterValue(l.id, id, l.values[k])); err != nil {
				return changed, err
			}
		}
	}

	for _, item := range f.Equipment {
		if item.Required != nil {
			if err := step(e.SetRequired(item.Name, *item.Required)); err != nil {
				return changed, err
			}
		}
		if item.Supply != "" {
			if err := step(e.SetSupply(item.Name, item.Supply)); err != nil {
				return changed, err
			}
		}
		for _, k := range sortedKeys(item.Fields) {
			if err := step(e.SetEquipmentField(item.Name, k, item.Fields[k])); err != nil {
				return changed, err
			}
		}
	}

	return changed, nil
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
