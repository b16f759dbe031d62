package etp

import "testing"

func TestPassLogEvictsOldest(t *testing.T) {
	log := newPassLog(3)
	for i := uint64(1); i <= 5; i++ {
		log.add(PassRecord{ID: i})
	}

	records := log.Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ID != 3 || records[2].ID != 5 {
		t.Errorf("expected passes 3..5, got %d..%d", records[0].ID, records[2].ID)
	}

	last, ok := log.Last()
	if !ok || last.ID != 5 {
		t.Errorf("expected last pass 5, got %d", last.ID)
	}
}

func TestPassLogFilter(t *testing.T) {
	log := newPassLog(10)
	log.add(PassRecord{ID: 1, Trigger: "flow", Written: []string{"load"}})
	log.add(PassRecord{ID: 2, Trigger: "cod"})
	log.add(PassRecord{ID: 3, Trigger: "flow"})

	settled := log.Filter(PassRecord.Settled)
	if len(settled) != 2 || settled[0].ID != 2 {
		t.Errorf("expected passes 2 and 3 settled, got %v", settled)
	}

	if _, ok := newPassLog(1).Last(); ok {
		t.Error("expected empty log to have no last pass")
	}
}

func TestWithPassHistory(t *testing.T) {
	scope := NewScope(WithPassHistory(2))
	flow := Value(1, WithName("flow"))
	double := Derive1(flow.Reactive(), func(ctx *ResolveCtx, f *Controller[int]) (int, error) {
		return f.MustGet() * 2, nil
	})
	if _, err := Resolve(scope, double); err != nil {
		t.Fatal(err)
	}
	for v := 2; v <= 6; v++ {
		if _, err := Update(scope, flow, v); err != nil {
			t.Fatal(err)
		}
	}

	records := scope.Passes().Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 retained passes, got %d", len(records))
	}
	if records[1].ID-records[0].ID != 1 {
		t.Errorf("expected consecutive pass IDs, got %d and %d", records[0].ID, records[1].ID)
	}
}
