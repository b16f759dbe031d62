package etp

import "context"

// Extension provides hooks into the recomputation lifecycle
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Init is called when the extension is registered to a scope
	Init(scope *Scope) error

	// Wrap intercepts operations (resolve, recompute, update)
	Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error)

	// OnError handles errors during resolution or recomputation
	OnError(err error, op *Operation, scope *Scope)

	// OnPass is called once a pass has settled
	OnPass(scope *Scope, pass PassRecord)

	// Dispose is called when the scope is disposed
	Dispose(scope *Scope) error
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(scope *Scope) error {
	return nil
}

func (e *BaseExtension) Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (e *BaseExtension) OnError(err error, op *Operation, scope *Scope) {
}

func (e *BaseExtension) OnPass(scope *Scope, pass PassRecord) {
}

func (e *BaseExtension) Dispose(scope *Scope) error {
	return nil
}

// Operation describes what operation is happening
type Operation struct {
	Kind  OperationKind
	Cell  AnyCell
	Scope *Scope
	// Written is set after next returns for recompute and update operations:
	// false means the convergence guard skipped the write.
	Written bool
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpResolve indicates a first resolution
	OpResolve OperationKind = "resolve"
	// OpRecompute indicates a derived cell re-evaluated during a pass
	OpRecompute OperationKind = "recompute"
	// OpUpdate indicates an edit written to an input cell
	OpUpdate OperationKind = "update"
)
