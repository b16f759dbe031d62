package etp

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

// plant is a small diamond: flow feeds load and hourly, load feeds rounded,
// and rounded and hourly feed summary. counts records factory runs.
type plant struct {
	flow, cod    *Cell[float64]
	load, hourly *Cell[float64]
	rounded      *Cell[float64]
	summary      *Cell[string]

	mu     sync.Mutex
	counts map[string]int
}

func (p *plant) ran(name string) {
	p.mu.Lock()
	p.counts[name]++
	p.mu.Unlock()
}

func newPlant() *plant {
	p := &plant{counts: make(map[string]int)}
	p.flow = Value(1000.0, WithName("flow"))
	p.cod = Value(3000.0, WithName("cod"))
	p.load = Derive2(p.flow.Reactive(), p.cod.Reactive(),
		func(ctx *ResolveCtx, f, c *Controller[float64]) (float64, error) {
			p.ran("load")
			return f.MustGet() * c.MustGet() / 1000, nil
		}, WithName("load"))
	p.hourly = Derive1(p.flow.Reactive(),
		func(ctx *ResolveCtx, f *Controller[float64]) (float64, error) {
			p.ran("hourly")
			return f.MustGet() / 24, nil
		}, WithName("hourly"))
	p.rounded = Derive1(p.load.Reactive(),
		func(ctx *ResolveCtx, l *Controller[float64]) (float64, error) {
			p.ran("rounded")
			return float64(int(l.MustGet()/1000)) * 1000, nil
		}, WithName("rounded"))
	p.summary = Derive2(p.rounded.Reactive(), p.hourly.Reactive(),
		func(ctx *ResolveCtx, r, h *Controller[float64]) (string, error) {
			p.ran("summary")
			if r.MustGet() > 2000 {
				return "large", nil
			}
			return "small", nil
		}, WithName("summary"))
	return p
}

func (p *plant) settle(t *testing.T, scope *Scope) {
	t.Helper()
	if _, err := Resolve(scope, p.summary); err != nil {
		t.Fatalf("settle: %v", err)
	}
}

func TestPassRecomputesInDependencyOrder(t *testing.T) {
	p := newPlant()
	scope := NewScope()
	p.settle(t, scope)

	if _, err := Update(scope, p.flow, 2000.0); err != nil {
		t.Fatal(err)
	}

	pass, ok := scope.Passes().Last()
	if !ok {
		t.Fatal("expected a pass record")
	}
	want := []string{"load", "hourly", "rounded", "summary"}
	if !reflect.DeepEqual(pass.Recomputed, want) {
		t.Errorf("expected order %v, got %v", want, pass.Recomputed)
	}
	if pass.Trigger != "flow" {
		t.Errorf("expected trigger flow, got %s", pass.Trigger)
	}
	if p.counts["summary"] != 2 {
		t.Errorf("expected summary to run once per pass, ran %d times", p.counts["summary"])
	}
}

func TestConvergenceGuardStopsUnchangedBranches(t *testing.T) {
	p := newPlant()
	scope := NewScope()
	p.settle(t, scope)

	// 3000 -> 3100 changes load but not its rounded value, and not flow.
	if _, err := Update(scope, p.cod, 3100.0); err != nil {
		t.Fatal(err)
	}

	pass, _ := scope.Passes().Last()
	if !reflect.DeepEqual(pass.Written, []string{"load"}) {
		t.Errorf("expected only load written, got %v", pass.Written)
	}
	if !reflect.DeepEqual(pass.Recomputed, []string{"load", "rounded"}) {
		t.Errorf("expected summary to be skipped, recomputed %v", pass.Recomputed)
	}
	if p.counts["summary"] != 1 || p.counts["hourly"] != 1 {
		t.Errorf("expected summary and hourly untouched, counts %v", p.counts)
	}
}

func TestEqualUpdateWritesNothing(t *testing.T) {
	p := newPlant()
	scope := NewScope()
	p.settle(t, scope)

	before := scope.Writes()
	passes := len(scope.Passes().Records())

	changed, err := Update(scope, p.flow, 1000.0)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("expected equal update to be skipped")
	}
	if scope.Writes() != before {
		t.Errorf("expected version %d, got %d", before, scope.Writes())
	}
	if len(scope.Passes().Records()) != passes {
		t.Error("expected no pass for a skipped update")
	}
}

func TestRecomputeAllIsSettled(t *testing.T) {
	p := newPlant()
	scope := NewScope()
	p.settle(t, scope)
	if _, err := Update(scope, p.flow, 1500.0); err != nil {
		t.Fatal(err)
	}

	before := scope.Writes()
	rec, err := scope.RecomputeAll()
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Settled() {
		t.Errorf("expected settled pass, wrote %v", rec.Written)
	}
	if rec.Skipped != 4 {
		t.Errorf("expected 4 skipped groups, got %d", rec.Skipped)
	}
	if scope.Writes() != before {
		t.Error("expected no writes from a settled recompute")
	}
}

func TestWithEqualOverridesGuard(t *testing.T) {
	scope := NewScope()
	level := Value(1.0, WithName("level"))
	// changes under 0.5 are noise
	smoothed := Derive1(level.Reactive(), func(ctx *ResolveCtx, l *Controller[float64]) (float64, error) {
		return l.MustGet(), nil
	}, WithEqual(func(a, b float64) bool {
		d := a - b
		return d < 0.5 && d > -0.5
	}), WithName("smoothed"))

	if _, err := Resolve(scope, smoothed); err != nil {
		t.Fatal(err)
	}
	if _, err := Update(scope, level, 1.2); err != nil {
		t.Fatal(err)
	}
	val, _ := Resolve(scope, smoothed)
	if val != 1.0 {
		t.Errorf("expected smoothed value to hold at 1.0, got %v", val)
	}
}

func TestPriorSeesStoredValue(t *testing.T) {
	scope := NewScope()
	setpoint := Value(10, WithName("setpoint"))
	var priors []int
	peak := Derive1(setpoint.Reactive(), func(ctx *ResolveCtx, s *Controller[int]) (int, error) {
		prev, ok := Prior[int](ctx)
		if ok {
			priors = append(priors, prev)
		}
		if ok && prev > s.MustGet() {
			return prev, nil
		}
		return s.MustGet(), nil
	}, WithName("peak"))

	if _, err := Resolve(scope, peak); err != nil {
		t.Fatal(err)
	}
	for _, v := range []int{15, 5} {
		if _, err := Update(scope, setpoint, v); err != nil {
			t.Fatal(err)
		}
	}

	val, _ := Resolve(scope, peak)
	if val != 15 {
		t.Errorf("expected peak 15, got %d", val)
	}
	if !reflect.DeepEqual(priors, []int{10, 15}) {
		t.Errorf("expected priors [10 15], got %v", priors)
	}
}

func TestFailedPassReportsCell(t *testing.T) {
	scope := NewScope()
	errDry := errors.New("dry run")
	flow := Value(1.0, WithName("flow"))
	check := Derive1(flow.Reactive(), func(ctx *ResolveCtx, f *Controller[float64]) (float64, error) {
		if f.MustGet() == 0 {
			return 0, errDry
		}
		return f.MustGet(), nil
	}, WithName("check"))

	if _, err := Resolve(scope, check); err != nil {
		t.Fatal(err)
	}
	_, err := Update(scope, flow, 0.0)
	if !errors.Is(err, errDry) {
		t.Fatalf("expected errDry, got %v", err)
	}
	var recErr *RecomputeError
	if !errors.As(err, &recErr) || NameOf(recErr.Cell) != "check" {
		t.Errorf("expected error attributed to check, got %v", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	p := newPlant()
	a, b := NewScope(), NewScope()
	p.settle(t, a)
	p.settle(t, b)

	if _, err := Update(a, p.cod, 1000.0); err != nil {
		t.Fatal(err)
	}

	va, _ := Resolve(a, p.summary)
	vb, _ := Resolve(b, p.summary)
	if va != "small" {
		t.Errorf("expected edited session to be small, got %s", va)
	}
	if vb != "large" {
		t.Errorf("expected untouched session to stay large, got %s", vb)
	}
}

func TestConcurrentEditsSerialise(t *testing.T) {
	p := newPlant()
	scope := NewScope()
	p.settle(t, scope)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			if _, err := Update(scope, p.flow, v); err != nil {
				t.Error(err)
			}
		}(float64(i) * 500)
	}
	wg.Wait()

	flow, _ := Resolve(scope, p.flow)
	hourly, _ := Resolve(scope, p.hourly)
	if hourly != flow/24 {
		t.Errorf("expected hourly %v for flow %v, got %v", flow/24, flow, hourly)
	}
}

type orderExtension struct {
	BaseExtension
	order int
	log   *[]string
}

func (e *orderExtension) Order() int { return e.order }

func (e *orderExtension) Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error) {
	*e.log = append(*e.log, e.Name()+">")
	v, err := next()
	*e.log = append(*e.log, "<"+e.Name())
	return v, err
}

func TestExtensionsWrapInOrder(t *testing.T) {
	var log []string
	scope := NewScope(
		WithExtension(&orderExtension{BaseExtension: NewBaseExtension("late"), order: 50, log: &log}),
		WithExtension(&orderExtension{BaseExtension: NewBaseExtension("early"), order: 5, log: &log}),
	)
	defer scope.Dispose()

	if _, err := Resolve(scope, Value(1)); err != nil {
		t.Fatal(err)
	}
	want := []string{"early>", "late>", "<late", "<early"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}
}
