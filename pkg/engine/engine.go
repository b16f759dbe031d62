// Package engine wires the sizing groups into an etp scope and exposes the
// edit commands that drive it. Every command writes one input cell; the
// scope then recomputes the affected groups in dependency order, so the
// engine is settled whenever a command returns.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	etp "github.com/pumped-fn/etp-sizing"
	"github.com/pumped-fn/etp-sizing/pkg/model"
)

type config struct {
	sessionID   string
	extensions  []etp.Extension
	passHistory int
}

// Option configures an Engine.
type Option func(*config)

// WithExtensions registers scope extensions, in addition to any given before.
func WithExtensions(exts ...etp.Extension) Option {
	return func(c *config) {
		c.extensions = append(c.extensions, exts...)
	}
}

// WithSessionID fixes the session ID instead of generating one.
func WithSessionID(id string) Option {
	return func(c *config) {
		c.sessionID = id
	}
}

// WithPassHistory bounds the number of retained pass records.
func WithPassHistory(limit int) Option {
	return func(c *config) {
		c.passHistory = limit
	}
}

// Engine is one sizing session.
type Engine struct {
	mu        sync.Mutex
	scope     *etp.Scope
	sessionID string
}

// New creates a session with default inputs and settles every group.
func New(opts ...Option) (*Engine, error) {
	cfg := config{sessionID: uuid.NewString()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var scopeOpts []etp.ScopeOption
	if cfg.passHistory > 0 {
		scopeOpts = append(scopeOpts, etp.WithPassHistory(cfg.passHistory))
	}
	scope := etp.NewScope(scopeOpts...)
	for _, ext := range cfg.extensions {
		if err := scope.UseExtension(ext); err != nil {
			return nil, fmt.Errorf("register extension %s: %w", ext.Name(), err)
		}
	}

	e := &Engine{scope: scope, sessionID: cfg.sessionID}
	for _, g := range Groups() {
		if _, err := scope.ResolveAny(g.Cell); err != nil {
			return nil, fmt.Errorf("settle %s: %w", g.Name, err)
		}
	}
	return e, nil
}

// SessionID identifies the session on snapshots.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Scope exposes the underlying scope for debugging tools such as graph
// rendering. Values resolved through it are shared with the session and must
// be treated as read-only; updating input cells directly bypasses the
// ownership checks of the Set methods. Use Snapshot for a detached copy.
func (e *Engine) Scope() *etp.Scope {
	return e.scope
}

// Version is the number of values written so far.
func (e *Engine) Version() uint64 {
	return e.scope.Writes()
}

// Passes returns the pass history.
func (e *Engine) Passes() *etp.PassLog {
	return e.scope.Passes()
}

// Recompute re-evaluates every group against the current state. In a settled
// session it writes nothing.
func (e *Engine) Recompute() (etp.PassRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scope.RecomputeAll()
}

// Dispose releases the extensions.
func (e *Engine) Dispose() error {
	return e.scope.Dispose()
}

func edit[T any](s *etp.Scope, cell *etp.Cell[T], fn func(T) (T, error)) (bool, error) {
	current, err := etp.Resolve(s, cell)
	if err != nil {
		return false, err
	}
	next, err := fn(current)
	if err != nil {
		return false, err
	}
	return etp.Update(s, cell, next)
}

// SetParameterValue edits one user-owned parameter. tCOD is always
// calculated, as is the anaerobic flow; the inlet flow is calculated in
// Paper mode unless the TSS values leave it undefined.
func (e *Engine) SetParameterValue(list model.ListID, id int, value string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var cell *etp.Cell[model.ParameterList]
	switch list {
	case model.ListInlet:
		cell = InletInputs
	case model.ListAnaerobic:
		cell = AnaerobicInputs
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}

	name, ok := model.ParameterName(id)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownParameter, id)
	}
	if err := e.checkParameterOwner(list, id); err != nil {
		return false, fmt.Errorf("%s %s: %w", list, name, err)
	}

	return edit(e.scope, cell, func(l model.ParameterList) (model.ParameterList, error) {
		return l.With(id, value), nil
	})
}

func (e *Engine) checkParameterOwner(list model.ListID, id int) error {
	switch {
	case id == model.ParamTCOD:
		return ErrCalculatedField
	case id == model.ParamFlow && list == model.ListAnaerobic:
		return ErrCalculatedField
	case id == model.ParamFlow && list == model.ListInlet:
		client, err := etp.Resolve(e.scope, ClientInputs)
		if err != nil {
			return err
		}
		if client.Industry != model.IndustryPaper {
			return nil
		}
		// the entered value stays editable while back-derivation is undefined
		flows, err := etp.Resolve(e.scope, Flows)
		if err != nil {
			return err
		}
		if flows.InletDerived {
			return ErrCalculatedField
		}
	}
	return nil
}

// SetClientInfoField edits a client field. The industry value must name one
// of model.Industries.
func (e *Engine) SetClientInfoField(field, value string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if model.IsLoadField(field) {
		return false, fmt.Errorf("client %s: %w", field, ErrCalculatedField)
	}

	return edit(e.scope, ClientInputs, func(c model.ClientInfo) (model.ClientInfo, error) {
		if field == "industry" {
			ind, ok := model.ParseIndustry(value)
			if !ok {
				return c, fmt.Errorf("%w: %q", ErrInvalidIndustry, value)
			}
			c.Industry = ind
			return c, nil
		}
		next, ok := c.With(field, value)
		if !ok {
			return c, fmt.Errorf("%w: client %s", ErrUnknownField, field)
		}
		return next, nil
	})
}

// SetGuaranteeField edits a removal efficiency or the biogas yield.
func (e *Engine) SetGuaranteeField(field, value string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return edit(e.scope, GuaranteeInputs, func(g model.Guarantees) (model.Guarantees, error) {
		next, ok := g.With(field, value)
		if !ok {
			return g, fmt.Errorf("%w: guarantee %s", ErrUnknownField, field)
		}
		return next, nil
	})
}

// SetDesignField edits a design assumption.
func (e *Engine) SetDesignField(field, value string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return edit(e.scope, DesignInputs, func(d model.DesignBasis) (model.DesignBasis, error) {
		next, ok := d.With(field, value)
		if !ok {
			return d, fmt.Errorf("%w: design %s", ErrUnknownField, field)
		}
		return next, nil
	})
}

// SetEquipmentField edits a user field of an equipment item or dosing system.
func (e *Engine) SetEquipmentField(name, field, value string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, ok := model.Lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownEquipment, name)
	}
	if def.IsCalculated(field) {
		return false, fmt.Errorf("%s %s: %w", name, field, ErrCalculatedField)
	}
	if !def.IsUserField(field) {
		return false, fmt.Errorf("%w: %s %s", ErrUnknownField, name, field)
	}

	return e.modifyItem(name, func(in *model.EquipmentInput) {
		in.Fields[field] = value
	})
}

// SetRequired enables or disables an item.
func (e *Engine) SetRequired(name string, required bool) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.modifyItem(name, func(in *model.EquipmentInput) {
		in.Required = required
	})
}

// ToggleRequired flips the required flag of an item. Disabling keeps its
// calculated fields; enabling sizes it from current state.
func (e *Engine) ToggleRequired(name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.modifyItem(name, func(in *model.EquipmentInput) {
		in.Required = !in.Required
	})
}

// SetSupply assigns the supplying party of an item.
func (e *Engine) SetSupply(name, supply string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := model.ParseSupply(supply)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidSupply, supply)
	}
	return e.modifyItem(name, func(in *model.EquipmentInput) {
		in.Supply = s
	})
}

func (e *Engine) modifyItem(name string, fn func(*model.EquipmentInput)) (bool, error) {
	return edit(e.scope, EquipmentInputs, func(in model.Inputs) (model.Inputs, error) {
		next, ok := in.Modify(name, fn)
		if !ok {
			return in, fmt.Errorf("%w: %q", ErrUnknownEquipment, name)
		}
		return next, nil
	})
}

// Snapshot returns a settled copy of the whole session. It shares no memory
// with the scope, so callers may modify it freely.
func (e *Engine) Snapshot() (model.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.state()
	if err != nil {
		return model.Snapshot{}, err
	}
	groups, err := e.groupValues()
	if err != nil {
		return model.Snapshot{}, err
	}

	dosing := make([]model.DosingSystem, 0, len(st.registry.Dosing))
	for _, spec := range st.registry.Dosing {
		dosing = append(dosing, model.DosingSystemOf(spec))
	}

	return model.Snapshot{
		SessionID: e.sessionID,
		Version:   e.scope.Writes(),
		TakenAt:   time.Now().UTC(),
		Inlet:     st.inlet.Clone(),
		Anaerobic: st.anaerobic.Clone(),
		Client:    st.client,
		Loads:     st.loads,
		Guarantee: st.guarantees,
		Design:    st.design,
		Equipment: model.CloneSpecs(st.registry.Equipment),
		Dosing:    dosing,
		Sludge:    st.sludge,
		Power:     st.power.Clone(),
		Treated:   st.treated,
		Groups:    groups,
		Issues:    validate(st),
	}, nil
}

// state is the settled value of every cell a snapshot or validation reads.
type state struct {
	inlet, anaerobic model.ParameterList
	client           model.ClientInfo
	loads            model.Loads
	guarantees       model.Guarantees
	design           model.DesignBasis
	inputs           model.Inputs
	flows            FlowState
	registry         model.Registry
	sludge           model.SludgeCalculationState
	power            model.PowerSummary
	treated          model.TreatedWater
}

func (e *Engine) state() (state, error) {
	var st state
	var err error
	resolveInto(e.scope, InletParameters, &st.inlet, &err)
	resolveInto(e.scope, AnaerobicParameters, &st.anaerobic, &err)
	resolveInto(e.scope, ClientInputs, &st.client, &err)
	resolveInto(e.scope, Loads, &st.loads, &err)
	resolveInto(e.scope, GuaranteeInputs, &st.guarantees, &err)
	resolveInto(e.scope, DesignInputs, &st.design, &err)
	resolveInto(e.scope, EquipmentInputs, &st.inputs, &err)
	resolveInto(e.scope, Flows, &st.flows, &err)
	resolveInto(e.scope, Registry, &st.registry, &err)
	resolveInto(e.scope, Sludge, &st.sludge, &err)
	resolveInto(e.scope, Power, &st.power, &err)
	resolveInto(e.scope, Treated, &st.treated, &err)
	return st, err
}

func resolveInto[T any](s *etp.Scope, cell *etp.Cell[T], dst *T, err *error) {
	if *err != nil {
		return
	}
	*dst, *err = etp.Resolve(s, cell)
}
