package engine

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pumped-fn/etp-sizing/pkg/formula"
	"github.com/pumped-fn/etp-sizing/pkg/model"
)

// GroupValues returns the calculated values of every derived group, keyed by
// group name then field. Nested fields use dotted keys.
func (e *Engine) GroupValues() (map[string]map[string]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.groupValues()
}

// GroupValue returns the values of one group.
func (e *Engine) GroupValue(name string) (map[string]string, error) {
	all, err := e.GroupValues()
	if err != nil {
		return nil, err
	}
	values, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return values, nil
}

// GroupNames lists the derived groups in dependency order.
func GroupNames() []string {
	groups := Groups()
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

func (e *Engine) groupValues() (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	for _, g := range Groups() {
		v, err := e.scope.ResolveAny(g.Cell)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Name, err)
		}
		values, err := valuesOf(v)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Name, err)
		}
		out[g.Name] = values
	}
	return out, nil
}

func valuesOf(v any) (map[string]string, error) {
	out := make(map[string]string)
	switch x := v.(type) {
	case model.ParameterList:
		for _, p := range x {
			out[p.Name] = p.Value
		}
	case []model.EquipmentSpec:
		addSpecs(out, x)
	case model.Registry:
		addSpecs(out, x.Equipment)
		addSpecs(out, x.Dosing)
	case model.PowerSummary:
		for _, item := range x.Items {
			out[item.Name] = item.KW
		}
		out["total"] = x.TotalKW
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var tree any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return nil, err
		}
		flatten("", tree, out)
	}
	return out, nil
}

func addSpecs(out map[string]string, specs []model.EquipmentSpec) {
	for _, spec := range specs {
		for field, value := range spec.Calculated {
			out[spec.Name+"."+field] = value
		}
	}
}

func flatten(prefix string, v any, out map[string]string) {
	key := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}
	switch x := v.(type) {
	case map[string]any:
		for k, child := range x {
			flatten(key(k), child, out)
		}
	case []any:
		for i, child := range x {
			flatten(key(strconv.Itoa(i)), child, out)
		}
	case string:
		out[prefix] = x
	case float64:
		out[prefix] = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		out[prefix] = strconv.FormatBool(x)
	}
}

// Validate reports conditions the edit layer should surface. They never
// stop the engine.
func (e *Engine) Validate() ([]model.ValidationIssue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.state()
	if err != nil {
		return nil, err
	}
	return validate(st), nil
}

// mandatory user fields of a required item.
var mandatory = []string{"moc", "type", "pump.moc", "pump.type", "tank.moc"}

func validate(st state) []model.ValidationIssue {
	var issues []model.ValidationIssue
	add := func(subject, field, format string, args ...any) {
		issues = append(issues, model.ValidationIssue{Subject: subject, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if st.client.Industry == model.IndustryPaper {
		if !(formula.Num(st.client.LoopWaterCOD) > 0) {
			add("client", "loopWaterCOD", "loop water COD must be positive in Paper mode")
		}
		if !st.flows.InletDerived {
			add("inlet", "Flow", "inlet flow cannot be back-derived from the TSS values; the entered value %s is used and stays editable", st.flows.InletFlow)
		}
	} else if !(st.inlet.Num(model.ParamFlow) > 0) {
		add("inlet", "Flow", "inlet flow must be positive")
	}

	for _, in := range st.inputs {
		if !in.Required {
			continue
		}
		def, _ := model.Lookup(in.Name)
		for _, field := range mandatory {
			if def.IsUserField(field) && in.Field(field) == "" {
				add(in.Name, field, "%s is required", field)
			}
		}
		for _, field := range []string{"qty", "pump.qty"} {
			if def.IsUserField(field) && !(formula.Num(in.Field(field)) > 0) {
				add(in.Name, field, "quantity must be at least 1")
			}
		}
		if in.Name == model.AirBlower && !(formula.Num(in.Field("selectedMotorHP")) > 0) {
			add(in.Name, "selectedMotorHP", "select a motor rating")
		}
	}

	if dewatering, ok := st.inputs.Find(model.SludgeDewatering); ok && dewatering.Required {
		s := st.sludge
		if !s.Primary.Enabled && !s.DAF.Enabled && !s.Secondary.Enabled {
			add(model.SludgeDewatering, "", "no sludge source is enabled")
		}
	}

	return issues
}
