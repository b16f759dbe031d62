package extensions

import (
	"context"
	"sort"
	"sync"

	"github.com/m1gwings/treedrawer/tree"
	"go.uber.org/zap"

	etp "github.com/pumped-fn/etp-sizing"
)

// GraphDebugExtension logs the reactive dependents of a group when its
// evaluation fails, drawn as a tree. Groups are marked with their state:
// "✓" settled, "✗" failed, "…" already drawn elsewhere in the tree.
type GraphDebugExtension struct {
	etp.BaseExtension
	logger *zap.Logger

	mu       sync.Mutex
	settled  map[etp.AnyCell]bool
	failures map[etp.AnyCell]error
}

// NewGraphDebugExtension creates a graph debug extension logging to logger.
func NewGraphDebugExtension(logger *zap.Logger) *GraphDebugExtension {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphDebugExtension{
		BaseExtension: etp.NewBaseExtension("graph-debug"),
		logger:        logger,
		settled:       make(map[etp.AnyCell]bool),
		failures:      make(map[etp.AnyCell]error),
	}
}

// Wrap records which groups settled and which failed.
func (e *GraphDebugExtension) Wrap(ctx context.Context, next func() (any, error), op *etp.Operation) (any, error) {
	result, err := next()

	e.mu.Lock()
	if err != nil {
		e.failures[op.Cell] = err
		delete(e.settled, op.Cell)
	} else {
		e.settled[op.Cell] = true
		delete(e.failures, op.Cell)
	}
	e.mu.Unlock()

	return result, err
}

// OnError logs the failing group together with everything downstream of it.
func (e *GraphDebugExtension) OnError(err error, op *etp.Operation, scope *etp.Scope) {
	e.logger.Error("group evaluation failed",
		zap.String("group", etp.NameOf(op.Cell)),
		zap.String("op", string(op.Kind)),
		zap.Error(err),
		zap.String("dependents", "\n"+e.render(scope.Graph(), op.Cell)),
	)
}

func (e *GraphDebugExtension) render(g *etp.ReactiveGraph, root etp.AnyCell) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return drawDependents(g, root, func(cell etp.AnyCell) string {
		switch {
		case e.failures[cell] != nil:
			return etp.NameOf(cell) + " ✗"
		case e.settled[cell]:
			return etp.NameOf(cell) + " ✓"
		}
		return etp.NameOf(cell)
	})
}

// RenderDependents draws root and every group reactively downstream of it.
// A group reachable along several paths is expanded once.
func RenderDependents(g *etp.ReactiveGraph, root etp.AnyCell) string {
	return drawDependents(g, root, etp.NameOf)
}

func drawDependents(g *etp.ReactiveGraph, root etp.AnyCell, label func(etp.AnyCell) string) string {
	t := tree.NewTree(tree.NodeString(label(root)))
	seen := map[etp.AnyCell]bool{root: true}

	var grow func(parent *tree.Tree, cell etp.AnyCell)
	grow = func(parent *tree.Tree, cell etp.AnyCell) {
		children := g.GetDirectDependents(cell)
		sort.Slice(children, func(i, j int) bool { return children[i].ID() < children[j].ID() })
		for _, child := range children {
			if seen[child] {
				parent.AddChild(tree.NodeString(label(child) + " …"))
				continue
			}
			seen[child] = true
			grow(parent.AddChild(tree.NodeString(label(child))), child)
		}
	}
	grow(t, root)

	return t.String()
}
