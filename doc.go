// Package etp provides the dependency-tracked recomputation graph behind the
// ETP sizing engine.
//
// # Overview
//
// A graph is made of cells:
//
//  1. Input cells hold state edited from outside (water-quality parameters,
//     client fields, equipment selections).
//  2. Derived cells (groups) compute a value from the cells they declare as
//     dependencies.
//  3. A Scope holds the values for one session and keeps every derived cell
//     settled after each edit.
//
// # Basic Usage
//
//	flow := etp.Value(1000.0, etp.WithName("flow"))
//
//	load := etp.Derive1(
//	    flow.Reactive(),
//	    func(ctx *etp.ResolveCtx, f *etp.Controller[float64]) (float64, error) {
//	        return f.MustGet() * 3000 / 1000, nil
//	    },
//	    etp.WithName("load"),
//	)
//
//	scope := etp.NewScope()
//	v, _ := etp.Resolve(scope, load)   // 3000
//	etp.Update(scope, flow, 2000.0)    // load is recomputed in the same call
//
// # Passes and the convergence guard
//
// Every write goes through one guard: the new value is compared with the
// stored one (cmp.Equal unless WithEqual overrides it) and an equal value is
// neither stored nor propagated. A changed write starts a pass: the transitive
// reactive dependents are sorted topologically and each one re-runs only if a
// direct upstream was written earlier in the same pass. A cell therefore never
// reads an upstream that has not settled, and re-running a settled graph
// (Scope.RecomputeAll) writes nothing.
//
// # Dependency Modes
//
//	dep.Reactive()  // re-run the dependent whenever dep is written
//	dep             // static: read, but never triggers a re-run
//
// # Extensions
//
// Extensions wrap resolve, recompute and update operations and observe every
// settled pass:
//
//	type countingExtension struct {
//	    etp.BaseExtension
//	    passes int
//	}
//
//	func (e *countingExtension) OnPass(scope *etp.Scope, pass etp.PassRecord) {
//	    e.passes++
//	}
//
//	scope := etp.NewScope(etp.WithExtension(&countingExtension{
//	    BaseExtension: etp.NewBaseExtension("counting"),
//	}))
//
// # Presets
//
// Replace input defaults for one scope:
//
//	scope := etp.NewScope(etp.WithPreset(flow, 500.0))
//
// # Thread Safety
//
// A Scope serialises all edits and reads on one mutex. Execution inside a pass
// is single-threaded and synchronous.
package etp
