package etp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Scope holds the values of a graph of cells for one session and runs the
// recomputation passes that keep derived cells settled.
//
// All exported entry points serialise on one mutex; factories run while it is
// held and must read their inputs through the controllers they are given.
type Scope struct {
	mu         sync.Mutex
	values     map[AnyCell]any
	resolving  map[AnyCell]bool
	tags       sync.Map
	graph      *ReactiveGraph
	extensions []Extension
	presets    map[AnyCell]any
	passes     *PassLog
	passSeq    atomic.Uint64
	writes     atomic.Uint64
}

// ScopeOption is a modifier for scopes
type ScopeOption func(*Scope)

// WithScopeTag returns an option that sets a tag on a scope
func WithScopeTag[T any](tag Tag[T], val T) ScopeOption {
	return func(s *Scope) {
		tag.SetOnScope(s, val)
	}
}

// WithExtension returns an option that registers an extension to a scope
func WithExtension(ext Extension) ScopeOption {
	return func(s *Scope) {
		if err := s.UseExtension(ext); err != nil {
			panic(err)
		}
	}
}

// WithPreset replaces the default of an input cell in this scope
func WithPreset[T any](cell *Cell[T], val T) ScopeOption {
	return func(s *Scope) {
		s.presets[cell] = val
	}
}

// WithPassHistory bounds the number of retained pass records
func WithPassHistory(limit int) ScopeOption {
	return func(s *Scope) {
		if limit > 0 {
			s.passes = newPassLog(limit)
		}
	}
}

// NewScope creates a new scope with optional configuration
func NewScope(opts ...ScopeOption) *Scope {
	s := &Scope{
		values:     make(map[AnyCell]any),
		resolving:  make(map[AnyCell]bool),
		graph:      NewReactiveGraph(),
		extensions: []Extension{},
		presets:    make(map[AnyCell]any),
		passes:     newPassLog(256),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Accessor creates a controller for a cell
func Accessor[T any](s *Scope, cell *Cell[T]) *Controller[T] {
	return &Controller[T]{
		cell:  cell,
		scope: s,
	}
}

// Resolve resolves a cell's value (lazily, with caching)
func Resolve[T any](s *Scope, cell *Cell[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return resolveTyped(s, cell)
}

// ResolveAny resolves a cell without knowing its type
func (s *Scope) ResolveAny(cell AnyCell) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve(cell)
}

func resolveTyped[T any](s *Scope, cell *Cell[T]) (T, error) {
	val, err := s.resolve(cell)
	if err != nil {
		var zero T
		return zero, err
	}
	return SafeTypeAssertion[T](val)
}

// Update writes a new value into a cell. The convergence guard compares it
// with the stored value first: an equal value is not written and triggers
// nothing. A changed value starts a pass over its reactive dependents.
func Update[T any](s *Scope, cell *Cell[T], newVal T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.resolve(cell); err != nil {
		return false, err
	}

	op := &Operation{Kind: OpUpdate, Cell: cell, Scope: s}
	_, err := s.wrap(op, func() (any, error) {
		op.Written = s.store(cell, newVal)
		return newVal, nil
	})
	if err != nil {
		return false, err
	}
	if !op.Written {
		return false, nil
	}

	return true, s.propagate(cell)
}

// RecomputeAll re-evaluates every resolved derived cell in dependency order
// under the convergence guard. In a settled scope it writes nothing.
func (s *Scope) RecomputeAll() (PassRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	rec := PassRecord{ID: s.passSeq.Add(1), Trigger: "recompute-all"}

	derived := make([]AnyCell, 0, len(s.values))
	for cell := range s.values {
		if len(cell.GetDeps()) > 0 {
			derived = append(derived, cell)
		}
	}

	for _, cell := range s.graph.TopoOrder(derived) {
		written, err := s.recompute(cell)
		if err != nil {
			return rec, err
		}
		rec.Recomputed = append(rec.Recomputed, NameOf(cell))
		if written {
			rec.Written = append(rec.Written, NameOf(cell))
		} else {
			rec.Skipped++
		}
	}

	rec.Duration = time.Since(start)
	s.finishPass(rec)
	return rec, nil
}

func (s *Scope) resolve(cell AnyCell) (any, error) {
	if val, ok := s.values[cell]; ok {
		return val, nil
	}
	if s.resolving[cell] {
		return nil, &RecomputeError{Cell: cell, Cause: ErrCycle, Context: string(OpResolve)}
	}
	s.resolving[cell] = true
	defer delete(s.resolving, cell)

	for _, dep := range cell.GetDeps() {
		if dep.GetMode() == ModeReactive {
			s.graph.AddDependency(cell, dep.GetCell())
		}
		if _, err := s.resolve(dep.GetCell()); err != nil {
			return nil, err
		}
	}

	if preset, ok := s.presets[cell]; ok {
		s.values[cell] = preset
		s.writes.Add(1)
		return preset, nil
	}

	op := &Operation{Kind: OpResolve, Cell: cell, Scope: s}
	val, err := s.wrap(op, func() (any, error) {
		val, err := cell.ResolveAny(&ResolveCtx{scope: s, cell: cell})
		if err != nil {
			return nil, err
		}
		op.Written = s.store(cell, val)
		return val, nil
	})
	if err != nil {
		return nil, err
	}
	return val, nil
}

// recompute re-runs a cached derived cell and stores the result only if it
// differs from the stored value.
func (s *Scope) recompute(cell AnyCell) (bool, error) {
	op := &Operation{Kind: OpRecompute, Cell: cell, Scope: s}
	_, err := s.wrap(op, func() (any, error) {
		next, err := cell.ResolveAny(&ResolveCtx{scope: s, cell: cell})
		if err != nil {
			return nil, err
		}
		op.Written = s.store(cell, next)
		return next, nil
	})
	return op.Written, err
}

// store is the convergence guard: the only place values are replaced.
func (s *Scope) store(cell AnyCell, next any) bool {
	if current, ok := s.values[cell]; ok && cell.EqualAny(current, next) {
		return false
	}
	s.values[cell] = next
	s.writes.Add(1)
	return true
}

// propagate runs one pass from a written cell. Dependents are visited in
// topological order and only re-run when one of their direct upstreams was
// written during this pass.
func (s *Scope) propagate(trigger AnyCell) error {
	start := time.Now()
	rec := PassRecord{ID: s.passSeq.Add(1), Trigger: NameOf(trigger)}

	written := map[AnyCell]bool{trigger: true}
	affected := s.graph.FindDependents(trigger)

	for _, cell := range s.graph.TopoOrder(affected) {
		if _, cached := s.values[cell]; !cached {
			continue
		}
		if !s.upstreamWritten(cell, written) {
			continue
		}

		changed, err := s.recompute(cell)
		if err != nil {
			return fmt.Errorf("pass from %s: %w", rec.Trigger, err)
		}
		rec.Recomputed = append(rec.Recomputed, NameOf(cell))
		if changed {
			written[cell] = true
			rec.Written = append(rec.Written, NameOf(cell))
		} else {
			rec.Skipped++
		}
	}

	rec.Duration = time.Since(start)
	s.finishPass(rec)
	return nil
}

func (s *Scope) upstreamWritten(cell AnyCell, written map[AnyCell]bool) bool {
	for _, dep := range cell.GetDeps() {
		if dep.GetMode() == ModeReactive && written[dep.GetCell()] {
			return true
		}
	}
	return false
}

func (s *Scope) finishPass(rec PassRecord) {
	s.passes.add(rec)
	for _, ext := range s.extensions {
		ext.OnPass(s, rec)
	}
}

// wrap chains extensions around next (middleware pattern) and reports errors.
func (s *Scope) wrap(op *Operation, next func() (any, error)) (any, error) {
	exts := s.extensions

	// Apply extensions in reverse order (last registered wraps first)
	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(context.Background(), currentNext, op)
		}
	}

	result, err := next()
	if err != nil {
		var recErr *RecomputeError
		if !errors.As(err, &recErr) {
			err = &RecomputeError{Cell: op.Cell, Cause: err, Context: string(op.Kind)}
		}
		for _, ext := range exts {
			ext.OnError(err, op, s)
		}
		return nil, err
	}
	return result, nil
}

// UseExtension registers an extension to the scope. Register extensions
// before the first resolution.
func (s *Scope) UseExtension(ext Extension) error {
	s.extensions = append(s.extensions, ext)
	sort.SliceStable(s.extensions, func(i, j int) bool {
		return s.extensions[i].Order() < s.extensions[j].Order()
	})

	return ext.Init(s)
}

// Dispose releases all extensions
func (s *Scope) Dispose() error {
	s.mu.Lock()
	exts := make([]Extension, len(s.extensions))
	copy(exts, s.extensions)
	s.mu.Unlock()

	for _, ext := range exts {
		if err := ext.Dispose(s); err != nil {
			return fmt.Errorf("disposing extension %s: %w", ext.Name(), err)
		}
	}

	return nil
}

// GetTag retrieves a tag value from the scope
func (s *Scope) GetTag(tag any) (any, bool) {
	return s.tags.Load(tag)
}

// SetTag stores a tag value on the scope
func (s *Scope) SetTag(tag any, val any) {
	s.tags.Store(tag, val)
}

// Passes returns the pass history
func (s *Scope) Passes() *PassLog {
	return s.passes
}

// Writes returns the number of values written since the scope was created,
// including first resolutions. It doubles as the store version.
func (s *Scope) Writes() uint64 {
	return s.writes.Load()
}

// Cells returns the resolved cells in definition order
func (s *Scope) Cells() []AnyCell {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells := make([]AnyCell, 0, len(s.values))
	for cell := range s.values {
		cells = append(cells, cell)
	}
	sortByID(cells)
	return cells
}

// Graph exposes the reactive graph built so far
func (s *Scope) Graph() *ReactiveGraph {
	return s.graph
}

// ExportDependencyGraph returns, for every cell with reactive dependents,
// the list of those dependents.
func (s *Scope) ExportDependencyGraph() map[AnyCell][]AnyCell {
	return s.graph.Snapshot()
}
