package etp

import (
	"sync/atomic"

	"github.com/google/go-cmp/cmp"
)

var cellSeq atomic.Uint64

// Cell is a node of the recomputation graph: either an input holding
// user-edited state or a derived group computed from its dependencies.
type Cell[T any] struct {
	id      uint64
	factory func(*ResolveCtx) (T, error)
	deps    []Dependency
	tags    map[any]any
	equal   func(a, b T) bool
}

// AnyCell is a type-erased interface for dependency tracking
type AnyCell interface {
	ID() uint64
	ResolveAny(*ResolveCtx) (any, error)
	EqualAny(a, b any) bool
	GetDeps() []Dependency
	GetTag(tag any) (any, bool)
	SetTag(tag any, val any)
}

// ID returns the definition order of the cell. It breaks ties when two cells
// are ready to recompute in the same pass.
func (c *Cell[T]) ID() uint64 {
	return c.id
}

func (c *Cell[T]) GetDeps() []Dependency {
	return c.deps
}

func (c *Cell[T]) GetTag(tag any) (any, bool) {
	val, ok := c.tags[tag]
	return val, ok
}

func (c *Cell[T]) SetTag(tag any, val any) {
	c.tags[tag] = val
}

func (c *Cell[T]) ResolveAny(ctx *ResolveCtx) (any, error) {
	return c.factory(ctx)
}

// EqualAny reports whether two stored values are equal under the cell's
// equality. Values of the wrong type are never equal.
func (c *Cell[T]) EqualAny(a, b any) bool {
	ta, ok := a.(T)
	if !ok {
		return false
	}
	tb, ok := b.(T)
	if !ok {
		return false
	}
	if c.equal != nil {
		return c.equal(ta, tb)
	}
	return cmp.Equal(ta, tb)
}

// DependencyMode defines how a dependency behaves
type DependencyMode string

const (
	// ModeStatic resolves once and never triggers recomputation
	ModeStatic DependencyMode = "static"
	// ModeReactive recomputes the dependent whenever the dependency is written
	ModeReactive DependencyMode = "reactive"
)

// Dependency represents a cell with its resolution mode
type Dependency interface {
	GetCell() AnyCell
	GetMode() DependencyMode
}

type dependencyWrapper struct {
	cell AnyCell
	mode DependencyMode
}

func (d *dependencyWrapper) GetCell() AnyCell {
	return d.cell
}

func (d *dependencyWrapper) GetMode() DependencyMode {
	return d.mode
}

// GetCell implements Dependency (default: static mode)
func (c *Cell[T]) GetCell() AnyCell {
	return c
}

func (c *Cell[T]) GetMode() DependencyMode {
	return ModeStatic
}

// Reactive returns a reactive dependency variant
func (c *Cell[T]) Reactive() Dependency {
	return &dependencyWrapper{cell: c, mode: ModeReactive}
}

// CellOption is a modifier for cells
type CellOption func(AnyCell)

// WithTag returns an option that sets a tag on a cell
func WithTag[T any](tag Tag[T], val T) CellOption {
	return func(cell AnyCell) {
		tag.Set(cell, val)
	}
}

// WithName tags the cell with a group name used by logs, metrics and value maps.
func WithName(name string) CellOption {
	return WithTag(groupNameTag, name)
}

// WithEqual overrides the equality used by the convergence guard.
// The default is cmp.Equal.
func WithEqual[T any](eq func(a, b T) bool) CellOption {
	return func(cell AnyCell) {
		if c, ok := cell.(*Cell[T]); ok {
			c.equal = eq
		}
	}
}

func newCell[T any](factory func(*ResolveCtx) (T, error), deps []Dependency, opts []CellOption) *Cell[T] {
	cell := &Cell[T]{
		id:      cellSeq.Add(1),
		factory: factory,
		deps:    deps,
		tags:    make(map[any]any),
	}

	for _, opt := range opts {
		opt(cell)
	}

	return cell
}

// Provide creates an input cell whose factory yields the session default
func Provide[T any](factory func(*ResolveCtx) (T, error), opts ...CellOption) *Cell[T] {
	return newCell(factory, nil, opts)
}

// Value creates an input cell holding a fixed default.
func Value[T any](val T, opts ...CellOption) *Cell[T] {
	return Provide(func(*ResolveCtx) (T, error) { return val, nil }, opts...)
}
