package circuit

import (
	"errors"
	"testing"

	"github.com/edaworks/nodal/pkg/component"
	"github.com/edaworks/nodal/pkg/util"
)

func mustCircuit(t *testing.T, comps []component.Component) *Circuit {
	t.Helper()
	ckt, err := New("test", comps)
	if err != nil {
		t.Fatalf("building circuit: %v", err)
	}
	return ckt
}

func TestGroundedChainPropagation(t *testing.T) {
	ckt := mustCircuit(t, []component.Component{
		component.NewVoltageSource("V1", "GND", "n1", 12),
		component.NewVoltageSource("V2", "n1", "n2", 5),
		component.NewResistor("R1", "n2", "GND", 1000),
	})

	asg, err := Resolve(ckt)
	if err != nil {
		t.Fatalf("resolving supernodes: %v", err)
	}
	if len(asg.Columns) != 0 {
		t.Errorf("expected every node fixed by the source chain, got %d unknowns", len(asg.Columns))
	}

	checks := map[string]float64{"n1": 12, "n2": 17}
	for label, want := range checks {
		got, known := asg.KnownVoltage(ckt.Index(label))
		if !known {
			t.Fatalf("node %s: expected a known voltage", label)
		}
		if util.Abs(got-want) > 1e-9 {
			t.Errorf("node %s: expected %v, got %v", label, want, got)
		}
	}
}

func TestReversedSourcePolarity(t *testing.T) {
	// V1 raises the potential from n1 to GND, so V(n1) ends up at -9.
	ckt := mustCircuit(t, []component.Component{
		component.NewVoltageSource("V1", "n1", "GND", 9),
		component.NewResistor("R1", "n1", "GND", 100),
	})

	asg, err := Resolve(ckt)
	if err != nil {
		t.Fatalf("resolving supernodes: %v", err)
	}
	got, known := asg.KnownVoltage(ckt.Index("n1"))
	if !known {
		t.Fatal("expected n1 fixed by the grounded source")
	}
	if util.Abs(got-(-9)) > 1e-9 {
		t.Errorf("V(n1): expected -9, got %v", got)
	}
}

func TestUngroundedGroup(t *testing.T) {
	ckt := mustCircuit(t, []component.Component{
		component.NewResistor("R1", "n1", "GND", 100),
		component.NewVoltageSource("V1", "n1", "n2", 5),
		component.NewResistor("R2", "n2", "GND", 100),
	})

	asg, err := Resolve(ckt)
	if err != nil {
		t.Fatalf("resolving supernodes: %v", err)
	}

	if len(asg.Columns) != 2 {
		t.Fatalf("expected 2 unknown columns, got %d", len(asg.Columns))
	}
	if len(asg.Groups) != 1 {
		t.Fatalf("expected 1 supernode group, got %d", len(asg.Groups))
	}

	g := asg.GroupOf(ckt.Index("n1"))
	if g == nil {
		t.Fatal("n1 should belong to the supernode")
	}
	if g.Grounded {
		t.Error("group should not be grounded")
	}
	if g.Rep != ckt.Index("n1") {
		t.Errorf("expected lowest member as representative, got node %d", g.Rep)
	}
	if off := g.Offsets[ckt.Index("n2")]; util.Abs(off-5) > 1e-9 {
		t.Errorf("V(n2) - V(n1) offset: expected 5, got %v", off)
	}
	if len(g.Sources) != 1 {
		t.Errorf("expected 1 source in group, got %d", len(g.Sources))
	}
}

func TestInconsistentParallelSources(t *testing.T) {
	ckt := mustCircuit(t, []component.Component{
		component.NewVoltageSource("V1", "a", "b", 5),
		component.NewVoltageSource("V2", "a", "b", 7),
		component.NewResistor("R1", "b", "GND", 1000),
	})

	_, err := Resolve(ckt)
	if err == nil {
		t.Fatal("expected an inconsistent source error")
	}
	var serr *InconsistentSourceError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *InconsistentSourceError, got %T: %v", err, err)
	}
	if serr.Kind() != "InconsistentSourceError" {
		t.Errorf("unexpected kind %q", serr.Kind())
	}
}

func TestConsistentParallelSources(t *testing.T) {
	ckt := mustCircuit(t, []component.Component{
		component.NewVoltageSource("V1", "a", "b", 5),
		component.NewVoltageSource("V2", "a", "b", 5),
		component.NewResistor("R1", "b", "GND", 1000),
	})

	asg, err := Resolve(ckt)
	if err != nil {
		t.Fatalf("consistent duplicate sources must not fail: %v", err)
	}
	g := asg.GroupOf(ckt.Index("a"))
	if g == nil || len(g.Sources) != 2 {
		t.Fatal("both sources should land in the same group")
	}
}
