package budget

import "testing"

type fakeReleaser struct{ released int }

func (f *fakeReleaser) Release() { f.released++ }

func TestCheckReleasesWhenOverBudget(t *testing.T) {
	r := &fakeReleaser{}
	g := &Governor{
		Target:    r,
		BudgetPct: 0.5,
		Stats:     func() (uint64, uint64, error) { return 900, 1000, nil },
	}
	if err := g.Check(nil); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if r.released != 1 {
		t.Errorf("released = %d, want 1", r.released)
	}
}

func TestCheckDoesNothingUnderBudget(t *testing.T) {
	r := &fakeReleaser{}
	g := &Governor{
		Target:    r,
		BudgetPct: 0.75,
		Stats:     func() (uint64, uint64, error) { return 100, 1000, nil },
	}
	if err := g.Check(nil); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if r.released != 0 {
		t.Errorf("released = %d, want 0", r.released)
	}
}

func TestCheckHonorsExplicitLimit(t *testing.T) {
	r := &fakeReleaser{}
	g := &Governor{
		Target:    r,
		BudgetPct: 0.75,
		Stats:     func() (uint64, uint64, error) { return 600, 1_000_000, nil },
	}
	limit := uint64(500)
	if err := g.Check(&limit); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if r.released != 1 {
		t.Errorf("an explicit limit should override BudgetPct, released = %d, want 1", r.released)
	}
}
