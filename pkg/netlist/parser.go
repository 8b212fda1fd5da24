// Package netlist parses circuit descriptions into component lists. Two
// formats are accepted: a JSON payload as produced by UI/transport
// collaborators, and a SPICE-flavoured line format for hand-written files.
package netlist

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/edaworks/nodal/pkg/component"
)

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

// ParseValue reads a number with an optional engineering unit suffix,
// e.g. "1k" -> 1000, "2.2meg" -> 2.2e6.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	split := len(s)
	for i, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '+' || r == '-' ||
			r == 'e' || r == 'E' {
			continue
		}
		split = i
		break
	}

	number, suffix := s[:split], s[split:]
	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %v", s, err)
	}
	if suffix == "" {
		return value, nil
	}
	factor, ok := unitMap[suffix]
	if !ok {
		// case-insensitive fallback so "2.2MEG" and "10U" work too
		factor, ok = unitMap[strings.ToLower(suffix)]
	}
	if !ok {
		factor, ok = unitMap[strings.ToUpper(suffix)]
	}
	if !ok {
		return 0, fmt.Errorf("unknown unit suffix %q in %q", suffix, s)
	}
	return value * factor, nil
}

// Parse reads the line format: one component per line as
//
//	R1 nodeA nodeB 1k
//	V1 GND n1 12
//	I1 n1 GND 10m
//
// The leading letter selects the kind (R resistor, V voltage source,
// I current source). A voltage source raises the potential from nodeA to
// nodeB. "*" starts a comment, "+" continues the previous line.
func Parse(input string) ([]component.Component, error) {
	var comps []component.Component
	var currentLine string

	scanner := bufio.NewScanner(strings.NewReader(input))
	flush := func() error {
		if currentLine == "" {
			return nil
		}
		comp, err := parseLine(currentLine)
		if err != nil {
			return err
		}
		comps = append(comps, comp)
		currentLine = ""
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(line, "+") {
			currentLine += " " + strings.TrimSpace(line[1:])
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		currentLine = line
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(comps) == 0 {
		return nil, fmt.Errorf("netlist: no components found")
	}
	return comps, nil
}

func parseLine(line string) (component.Component, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return nil, fmt.Errorf("netlist: expected 'name nodeA nodeB value', got %q", line)
	}
	name, nodeA, nodeB := fields[0], fields[1], fields[2]
	value, err := ParseValue(fields[3])
	if err != nil {
		return nil, fmt.Errorf("netlist: component %s: %v", name, err)
	}

	switch strings.ToUpper(name[:1]) {
	case "R":
		return component.NewResistor(name, nodeA, nodeB, value), nil
	case "V":
		return component.NewVoltageSource(name, nodeA, nodeB, value), nil
	case "I":
		return component.NewCurrentSource(name, nodeA, nodeB, value), nil
	default:
		return nil, fmt.Errorf("netlist: component %s: unknown type prefix %q", name, name[:1])
	}
}

// kindAliases mirrors the permissive type names the transport payload may
// carry; matching is case- and whitespace-insensitive.
var kindAliases = map[string]component.Kind{
	"R":              component.KindResistor,
	"RESISTOR":       component.KindResistor,
	"VS":             component.KindVoltageSource,
	"VOLTAGE":        component.KindVoltageSource,
	"VOLTAGE SOURCE": component.KindVoltageSource,
	"VOLTAGESOURCE":  component.KindVoltageSource,
	"CS":             component.KindCurrentSource,
	"CURRENT":        component.KindCurrentSource,
	"CURRENT SOURCE": component.KindCurrentSource,
	"CURRENTSOURCE":  component.KindCurrentSource,
}

type jsonComponent struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
	NodeA string          `json:"nodeA"`
	NodeB string          `json:"nodeB"`
}

type jsonCircuit struct {
	Components []jsonComponent `json:"components"`
}

// ParseJSON reads the transport payload
//
//	{"components": [{"type": "Resistor", "value": 1000, "nodeA": "n1", "nodeB": "GND"}, ...]}
//
// Values may be JSON numbers or strings with unit suffixes ("1k").
func ParseJSON(data []byte) ([]component.Component, error) {
	var payload jsonCircuit
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("netlist: invalid JSON: %v", err)
	}
	if len(payload.Components) == 0 {
		return nil, fmt.Errorf("netlist: 'components' key is missing or empty")
	}

	counts := make(map[component.Kind]int)
	comps := make([]component.Component, 0, len(payload.Components))
	for i, jc := range payload.Components {
		kind, ok := kindAliases[strings.ToUpper(strings.TrimSpace(jc.Type))]
		if !ok {
			return nil, fmt.Errorf("netlist: component %d: unknown type %q", i, jc.Type)
		}
		value, err := parseJSONValue(jc.Value)
		if err != nil {
			return nil, fmt.Errorf("netlist: component %d: %v", i, err)
		}

		counts[kind]++
		switch kind {
		case component.KindResistor:
			comps = append(comps, component.NewResistor(fmt.Sprintf("R%d", counts[kind]), jc.NodeA, jc.NodeB, value))
		case component.KindVoltageSource:
			comps = append(comps, component.NewVoltageSource(fmt.Sprintf("V%d", counts[kind]), jc.NodeA, jc.NodeB, value))
		case component.KindCurrentSource:
			comps = append(comps, component.NewCurrentSource(fmt.Sprintf("I%d", counts[kind]), jc.NodeA, jc.NodeB, value))
		}
	}
	return comps, nil
}

func parseJSONValue(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing value")
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, fmt.Errorf("value must be a number or a string")
	}
	return ParseValue(str)
}
