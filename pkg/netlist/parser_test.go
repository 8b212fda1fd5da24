package netlist

import (
	"strings"
	"testing"

	"github.com/edaworks/nodal/pkg/component"
	"github.com/edaworks/nodal/pkg/util"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"47", 47},
		{"1k", 1000},
		{"3.3K", 3300},
		{"2.2meg", 2.2e6},
		{"2.2MEG", 2.2e6},
		{"10u", 1e-5},
		{"100n", 1e-7},
		{"1e3", 1000},
		{"-5m", -5e-3},
	}
	for _, tc := range cases {
		got, err := ParseValue(tc.in)
		if err != nil {
			t.Errorf("ParseValue(%q): unexpected error %v", tc.in, err)
			continue
		}
		if util.Abs(got-tc.want) > util.Abs(tc.want)*1e-12 {
			t.Errorf("ParseValue(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}

	for _, bad := range []string{"", "abc", "1q", "k"} {
		if _, err := ParseValue(bad); err == nil {
			t.Errorf("ParseValue(%q): expected an error", bad)
		}
	}
}

func TestParseNetlist(t *testing.T) {
	input := `* series divider
V1 GND n1 12
R1 n1 n2 1k

R2 n2
+ GND 2k * trailing comment
`
	comps, err := Parse(input)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if len(comps) != 3 {
		t.Fatalf("expected 3 components, got %d", len(comps))
	}

	if _, ok := comps[0].(*component.VoltageSource); !ok {
		t.Errorf("V1: expected a voltage source, got %T", comps[0])
	}
	if comps[1].GetValue() != 1000 {
		t.Errorf("R1 value: expected 1000, got %v", comps[1].GetValue())
	}
	if comps[2].GetNodeB() != "GND" || comps[2].GetValue() != 2000 {
		t.Errorf("R2: continuation line not folded, got %+v", comps[2])
	}
}

func TestParseNetlistErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "* nothing here\n", "no components"},
		{"bad field count", "R1 n1 100\n", "expected"},
		{"unknown prefix", "X1 n1 n2 100\n", "unknown type"},
		{"bad value", "R1 n1 n2 steel\n", "invalid value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	payload := `{
		"components": [
			{"type": "Voltage Source", "value": 12, "nodeA": "GND", "nodeB": "n1"},
			{"type": "resistor", "value": "1k", "nodeA": "n1", "nodeB": "n2"},
			{"type": "vs", "value": 5, "nodeA": "n2", "nodeB": "n3"},
			{"type": "CURRENT SOURCE", "value": "10m", "nodeA": "n3", "nodeB": "GND"}
		]
	}`
	comps, err := ParseJSON([]byte(payload))
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if len(comps) != 4 {
		t.Fatalf("expected 4 components, got %d", len(comps))
	}

	if comps[0].GetKind() != component.KindVoltageSource {
		t.Errorf("component 0: expected a voltage source, got %v", comps[0].GetKind())
	}
	if comps[1].GetKind() != component.KindResistor || comps[1].GetValue() != 1000 {
		t.Errorf("component 1: expected a 1k resistor, got %v %v", comps[1].GetKind(), comps[1].GetValue())
	}
	if comps[2].GetName() != "V2" {
		t.Errorf("generated names should count per kind, got %q", comps[2].GetName())
	}
	if comps[3].GetKind() != component.KindCurrentSource || comps[3].GetValue() != 0.01 {
		t.Errorf("component 3: expected a 10mA current source, got %v %v", comps[3].GetKind(), comps[3].GetValue())
	}
}

func TestParseJSONErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"no components", `{}`, "missing"},
		{"unknown type", `{"components": [{"type": "capacitor", "value": 1, "nodeA": "a", "nodeB": "b"}]}`, "unknown type"},
		{"bad value", `{"components": [{"type": "R", "value": true, "nodeA": "a", "nodeB": "b"}]}`, "number or a string"},
		{"not json", `components: yes`, "invalid JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tc.payload))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
