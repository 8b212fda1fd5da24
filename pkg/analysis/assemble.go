package analysis

import (
	"fmt"
	"strings"

	"github.com/edaworks/nodal/pkg/circuit"
	"github.com/edaworks/nodal/pkg/component"
	"github.com/edaworks/nodal/pkg/matrix"
)

type RowKind int

const (
	RowKCL RowKind = iota
	RowSupernodeKCL
	RowConstraint
)

// LinearSystem is the assembled G·V = I system. Columns are the unknown
// node indices in ascending canonical order; every row is either a KCL sum
// or a voltage-source constraint, never both. Built once per solve, read
// only afterwards.
type LinearSystem struct {
	G        [][]float64
	I        []float64
	Columns  []int
	RowKinds []RowKind
	Steps    []Step
}

// Assemble emits one KCL row per regular unknown node, one merged KCL row
// per ungrounded supernode, and the supernode offset constraints, narrating
// each row as it is built. Rows with no conductance entries cannot
// determine their unknowns and abort assembly.
func Assemble(ckt *circuit.Circuit, asg *circuit.Assignment) (*LinearSystem, error) {
	n := len(asg.Columns)
	sys := &LinearSystem{
		G:       make([][]float64, n),
		I:       make([]float64, n),
		Columns: asg.Columns,
	}
	for i := range sys.G {
		sys.G[i] = make([]float64, n)
	}

	// Grounded source chains fixed voltages without producing rows;
	// narrate them first so the trail is complete.
	for _, g := range asg.Groups {
		if !g.Grounded {
			continue
		}
		for _, m := range g.Members {
			if m == 0 {
				continue
			}
			v := asg.Known[m]
			sys.Steps = append(sys.Steps, Step{
				Type:     StepConstraint,
				Title:    fmt.Sprintf("Source constraint at node %s", ckt.Label(m)),
				Equation: fmt.Sprintf("V(%s) = %g", ckt.Label(m), v),
				Explanation: fmt.Sprintf("A chain of ideal voltage sources ties node %s to the reference node, "+
					"fixing its voltage before any equation is solved.", ckt.Label(m)),
			})
		}
	}

	row := 0
	for _, node := range asg.Columns {
		if asg.GroupOf(node) != nil {
			continue // supernode members get a merged row below
		}
		if err := sys.emitKCLRow(ckt, asg, row, []int{node}, RowKCL); err != nil {
			return nil, err
		}
		row++
	}

	for gi := range asg.Groups {
		g := &asg.Groups[gi]
		if g.Grounded {
			continue
		}
		if err := sys.emitKCLRow(ckt, asg, row, g.Members, RowSupernodeKCL); err != nil {
			return nil, err
		}
		row++
	}

	for gi := range asg.Groups {
		g := &asg.Groups[gi]
		if g.Grounded {
			continue
		}
		repCol, _ := asg.ColumnOf(g.Rep)
		for _, m := range g.Members {
			if m == g.Rep {
				continue
			}
			col, _ := asg.ColumnOf(m)
			sys.G[row][col] = 1
			sys.G[row][repCol] = -1
			sys.I[row] = g.Offsets[m]
			sys.RowKinds = append(sys.RowKinds, RowConstraint)
			sys.Steps = append(sys.Steps, Step{
				Type:     StepConstraint,
				Title:    fmt.Sprintf("Supernode offset V(%s) - V(%s)", ckt.Label(m), ckt.Label(g.Rep)),
				Equation: fmt.Sprintf("V(%s) - V(%s) = %g", ckt.Label(m), ckt.Label(g.Rep), g.Offsets[m]),
				Explanation: "Ideal voltage sources fix the voltage difference between these supernode members, " +
					"leaving one representative unknown for the group.",
			})
			row++
		}
	}

	return sys, nil
}

// emitKCLRow stamps the sum-of-currents-leaving equation for a node set
// (a single node, or all members of an ungrounded supernode). Branches
// internal to the set cancel and are skipped.
func (sys *LinearSystem) emitKCLRow(ckt *circuit.Circuit, asg *circuit.Assignment, row int, set []int, kind RowKind) error {
	inSet := make(map[int]bool, len(set))
	for _, n := range set {
		inSet[n] = true
	}

	var lhs []string
	var injected float64 // current-source injection, for the narrated equation
	for _, n := range set {
		col, _ := asg.ColumnOf(n)
		for _, ci := range ckt.Incident(n) {
			comp := ckt.Components()[ci]
			a, b := ckt.EndpointIndices(comp)
			other := b
			if b == n {
				other = a
			}
			if inSet[other] {
				continue
			}

			switch c := comp.(type) {
			case *component.Resistor:
				g := c.Conductance()
				sys.G[row][col] += g
				if v, known := asg.KnownVoltage(other); known {
					sys.I[row] += g * v
					if other == 0 {
						lhs = append(lhs, fmt.Sprintf("V(%s)/%g", ckt.Label(n), c.GetValue()))
					} else {
						lhs = append(lhs, fmt.Sprintf("(V(%s) - %g)/%g", ckt.Label(n), v, c.GetValue()))
					}
				} else {
					otherCol, _ := asg.ColumnOf(other)
					sys.G[row][otherCol] -= g
					lhs = append(lhs, fmt.Sprintf("(V(%s) - V(%s))/%g", ckt.Label(n), ckt.Label(other), c.GetValue()))
				}
			case *component.CurrentSource:
				// value flows nodeA -> nodeB: entering the set is positive
				// on the right-hand side
				if n == a {
					sys.I[row] -= c.GetValue()
					injected -= c.GetValue()
				} else {
					sys.I[row] += c.GetValue()
					injected += c.GetValue()
				}
			case *component.VoltageSource:
				// handled entirely by supernode constraints
			}
		}
	}

	if len(lhs) == 0 {
		labels := make([]string, len(set))
		for i, n := range set {
			labels[i] = ckt.Label(n)
		}
		hint := hintFloating
		if sys.I[row] != 0 {
			hint = hintNoRefPath
		}
		return &UnderconstrainedCircuitError{Nodes: labels, Hint: hint}
	}

	sys.RowKinds = append(sys.RowKinds, kind)
	sys.Steps = append(sys.Steps, narrateKCL(ckt, set, kind, lhs, injected))
	return nil
}

func narrateKCL(ckt *circuit.Circuit, set []int, kind RowKind, lhs []string, injected float64) Step {
	equation := strings.Join(lhs, " + ") + fmt.Sprintf(" = %g", injected)

	if kind == RowSupernodeKCL {
		labels := make([]string, len(set))
		for i, n := range set {
			labels[i] = ckt.Label(n)
		}
		members := strings.Join(labels, ", ")
		return Step{
			Type:     StepSupernodeKCL,
			Title:    fmt.Sprintf("KCL for supernode {%s}", members),
			Equation: equation,
			Explanation: fmt.Sprintf("The net current leaving the supernode {%s} is zero; branches between its "+
				"members carry current internally and drop out of the sum.", members),
		}
	}
	label := ckt.Label(set[0])
	return Step{
		Type:     StepKCL,
		Title:    fmt.Sprintf("KCL at node %s", label),
		Equation: equation,
		Explanation: fmt.Sprintf("The currents leaving node %s through each branch sum to the current "+
			"injected by the attached sources.", label),
	}
}

// LoadInto stamps the dense system into a solver matrix (1-based).
func (sys *LinearSystem) LoadInto(st matrix.Stamper) {
	for i, grow := range sys.G {
		for j, v := range grow {
			if v != 0 {
				st.AddElement(i+1, j+1, v)
			}
		}
		st.AddRHS(i+1, sys.I[i])
	}
}
