package etp

import (
	"testing"
)

// chainOf builds depth cells, each one more than its reactive upstream.
func chainOf(depth int) []*Cell[int] {
	cells := make([]*Cell[int], depth)
	cells[0] = Value(0)
	for i := 1; i < depth; i++ {
		cells[i] = Derive1(cells[i-1].Reactive(), func(ctx *ResolveCtx, ctrl *Controller[int]) (int, error) {
			return ctrl.MustGet() + 1, nil
		})
	}
	return cells
}

func BenchmarkFirstResolution(b *testing.B) {
	chain := chainOf(20)
	last := chain[len(chain)-1]

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		scope := NewScope()
		if _, err := Resolve(scope, last); err != nil {
			b.Fatalf("resolution failed: %v", err)
		}
	}
}

func BenchmarkPassOverChain(b *testing.B) {
	scope := NewScope(WithPassHistory(16))
	defer scope.Dispose()

	chain := chainOf(20)
	if _, err := Resolve(scope, chain[len(chain)-1]); err != nil {
		b.Fatalf("initial resolution failed: %v", err)
	}
	head := Accessor(scope, chain[0])

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := head.Update(i + 1); err != nil {
			b.Fatalf("update failed: %v", err)
		}
	}
}

func BenchmarkPassOverFanOut(b *testing.B) {
	scope := NewScope(WithPassHistory(16))
	defer scope.Dispose()

	base := Value(0)
	level1 := Derive1(base.Reactive(), func(ctx *ResolveCtx, ctrl *Controller[int]) (int, error) {
		return ctrl.MustGet() + 1, nil
	})
	level2 := make([]*Cell[int], 10)
	for i := range level2 {
		level2[i] = Derive1(level1.Reactive(), func(ctx *ResolveCtx, ctrl *Controller[int]) (int, error) {
			return ctrl.MustGet() + i + 1, nil
		})
	}
	for _, c := range level2 {
		if _, err := Resolve(scope, c); err != nil {
			b.Fatalf("initial resolution failed: %v", err)
		}
	}
	baseCtrl := Accessor(scope, base)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := baseCtrl.Update(i + 1); err != nil {
			b.Fatalf("update failed: %v", err)
		}
	}
}

func BenchmarkSettledRecompute(b *testing.B) {
	scope := NewScope(WithPassHistory(16))
	chain := chainOf(20)
	if _, err := Resolve(scope, chain[len(chain)-1]); err != nil {
		b.Fatalf("initial resolution failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := scope.RecomputeAll(); err != nil {
			b.Fatal(err)
		}
	}
}
