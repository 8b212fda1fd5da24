package circuit

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/edaworks/nodal/pkg/component"
)

func TestCanonicalIndexing(t *testing.T) {
	ckt, err := New("divider", []component.Component{
		component.NewVoltageSource("V1", "GND", "n1", 12),
		component.NewResistor("R1", "n1", "n2", 1000),
		component.NewResistor("R2", "n2", "0", 2000),
	})
	if err != nil {
		t.Fatalf("building circuit: %v", err)
	}

	if got := ckt.NumNodes(); got != 2 {
		t.Errorf("NumNodes: expected 2, got %d", got)
	}
	if got := ckt.Index("GND"); got != 0 {
		t.Errorf("Index(GND): expected 0, got %d", got)
	}
	if got := ckt.Index("0"); got != 0 {
		t.Errorf("Index(0): expected 0, got %d", got)
	}
	if got := ckt.Index("n1"); got != 1 {
		t.Errorf("Index(n1): expected 1, got %d", got)
	}
	if got := ckt.Index("n2"); got != 2 {
		t.Errorf("Index(n2): expected 2, got %d", got)
	}
	if got := ckt.Label(0); got != "GND" {
		t.Errorf("Label(0): expected first-seen ground spelling GND, got %q", got)
	}
	if got := len(ckt.Incident(2)); got != 2 {
		t.Errorf("Incident(n2): expected 2 components, got %d", got)
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name    string
		comps   []component.Component
		wantMsg string
	}{
		{
			name:    "empty list",
			comps:   nil,
			wantMsg: "no components",
		},
		{
			name: "zero length branch",
			comps: []component.Component{
				component.NewResistor("R1", "n1", "n1", 100),
			},
			wantMsg: "both terminals",
		},
		{
			name: "ground aliases collapse to one node",
			comps: []component.Component{
				component.NewResistor("R1", "GND", "0", 100),
			},
			wantMsg: "both terminals",
		},
		{
			name: "non-positive resistor",
			comps: []component.Component{
				component.NewResistor("R1", "n1", "GND", -5),
			},
			wantMsg: "must be positive",
		},
		{
			name: "non-finite value",
			comps: []component.Component{
				component.NewVoltageSource("V1", "GND", "n1", math.Inf(1)),
			},
			wantMsg: "must be finite",
		},
		{
			name: "no reference node",
			comps: []component.Component{
				component.NewVoltageSource("V1", "a", "b", 5),
				component.NewResistor("R1", "a", "b", 100),
			},
			wantMsg: "no reference node",
		},
		{
			name: "disconnected island",
			comps: []component.Component{
				component.NewVoltageSource("V1", "GND", "n1", 12),
				component.NewResistor("R1", "n1", "GND", 1000),
				component.NewResistor("R2", "x", "y", 100),
			},
			wantMsg: "no path to the reference",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.name, tc.comps)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if verr.Kind() != "ValidationError" {
				t.Errorf("unexpected kind %q", verr.Kind())
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.wantMsg)
			}
		})
	}
}
