package etp

import (
	"reflect"
	"testing"
)

func names(cells []AnyCell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = NameOf(c)
	}
	return out
}

func TestReactiveGraphTraversal(t *testing.T) {
	scope := NewScope()

	// depth -> volume -> retention
	depth := Value(4.0, WithName("depth"))
	volume := Derive1(depth.Reactive(), func(ctx *ResolveCtx, d *Controller[float64]) (float64, error) {
		return d.MustGet() * 25, nil
	}, WithName("volume"))
	retention := Derive1(volume.Reactive(), func(ctx *ResolveCtx, v *Controller[float64]) (float64, error) {
		return v.MustGet() / 10, nil
	}, WithName("retention"))

	val, err := Resolve(scope, retention)
	if err != nil {
		t.Fatalf("failed to resolve retention: %v", err)
	}
	if val != 10 {
		t.Errorf("expected 10, got %v", val)
	}

	g := scope.Graph()
	if got := names(g.GetDirectDependents(depth)); !reflect.DeepEqual(got, []string{"volume"}) {
		t.Errorf("expected volume downstream of depth, got %v", got)
	}
	if got := names(g.GetDirectUpstreams(retention)); !reflect.DeepEqual(got, []string{"volume"}) {
		t.Errorf("expected volume upstream of retention, got %v", got)
	}
	if got := names(g.TopoOrder(g.FindDependents(depth))); !reflect.DeepEqual(got, []string{"volume", "retention"}) {
		t.Errorf("unexpected dependents %v", got)
	}
	if len(scope.ExportDependencyGraph()) != 2 {
		t.Errorf("expected 2 cells with dependents, got %d", len(scope.ExportDependencyGraph()))
	}
}

func TestTopoOrderBreaksTiesByDefinition(t *testing.T) {
	g := NewReactiveGraph()
	a := Value(0, WithName("a"))
	b := Value(0, WithName("b"))
	c := Value(0, WithName("c"))
	d := Value(0, WithName("d"))

	// d depends on a, c depends on d and b
	g.AddDependency(d, a)
	g.AddDependency(c, d)
	g.AddDependency(c, b)

	got := names(g.TopoOrder([]AnyCell{c, d, b, a}))
	want := []string{"a", "b", "d", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTopoOrderPlacesCyclesLast(t *testing.T) {
	g := NewReactiveGraph()
	a := Value(0, WithName("a"))
	b := Value(0, WithName("b"))
	c := Value(0, WithName("c"))
	g.AddDependency(b, c)
	g.AddDependency(c, b)

	got := names(g.TopoOrder([]AnyCell{c, b, a}))
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("unexpected order %v", got)
	}
}

func TestRemoveDependency(t *testing.T) {
	g := NewReactiveGraph()
	a := Value(0, WithName("a"))
	b := Value(0, WithName("b"))
	g.AddDependency(b, a)
	g.AddDependency(b, a)

	if len(g.GetDirectDependents(a)) != 1 {
		t.Fatal("expected duplicate edges to collapse")
	}

	g.RemoveDependency(b, a)
	if g.GetDirectDependents(a) != nil || g.GetDirectUpstreams(b) != nil {
		t.Error("expected edge to be gone in both directions")
	}
	if len(g.Snapshot()) != 0 {
		t.Error("expected empty snapshot")
	}
}
