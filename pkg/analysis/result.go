package analysis

import (
	"fmt"

	"github.com/edaworks/nodal/internal/consts"
	"github.com/edaworks/nodal/pkg/circuit"
	"github.com/edaworks/nodal/pkg/component"
	"github.com/edaworks/nodal/pkg/util"
)

type ComponentResult struct {
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Node1       string  `json:"node1"`
	Node2       string  `json:"node2"`
	Voltage     float64 `json:"voltage"`
	Current     float64 `json:"current"`
	Power       float64 `json:"power"`
	Description string  `json:"description"`
}

type MatrixSolution struct {
	ConductanceMatrix [][]float64  `json:"conductance_matrix"`
	CurrentVector     []float64    `json:"current_vector"`
	VoltageSolution   []float64    `json:"voltage_solution"`
	SolutionMethod    string       `json:"solution_method"`
	Steps             []Step       `json:"steps"`
	Verification      Verification `json:"verification"`
}

type Summary struct {
	TotalComponents int  `json:"total_components"`
	SolvedNodes     int  `json:"solved_nodes"`
	PowerBalance    bool `json:"power_balance"`
}

// Result is the complete solve output handed to the transport layer.
type Result struct {
	Voltages       map[string]float64 `json:"voltages"`
	Components     []ComponentResult  `json:"components"`
	TotalPower     float64            `json:"total_power"`
	MatrixSolution MatrixSolution     `json:"matrix_solution"`
	Summary        Summary            `json:"summary"`
}

const solutionMethod = "Nodal analysis with supernode reduction (sparse LU)"

// mapResults back-substitutes the node voltages into every component,
// applying the passive sign convention throughout.
func mapResults(ckt *circuit.Circuit, asg *circuit.Assignment, sys *LinearSystem, x []float64, verification Verification) *Result {
	volts := make([]float64, ckt.NumNodes()+1)
	for n := range volts {
		if v, known := asg.KnownVoltage(n); known {
			volts[n] = v
		} else if col, ok := asg.ColumnOf(n); ok {
			volts[n] = x[col]
		}
	}

	voltages := make(map[string]float64, len(volts))
	for n, v := range volts {
		voltages[ckt.Label(n)] = v
	}

	srcCurrents := sourceCurrents(ckt, asg, volts)

	results := make([]ComponentResult, 0, len(ckt.Components()))
	totalPower := 0.0
	for i, comp := range ckt.Components() {
		a, b := ckt.EndpointIndices(comp)
		voltage := volts[a] - volts[b]

		var current float64
		switch c := comp.(type) {
		case *component.Resistor:
			current = voltage / c.GetValue()
		case *component.CurrentSource:
			current = c.GetValue()
		case *component.VoltageSource:
			current = srcCurrents[i]
		}

		power := voltage * current
		totalPower += power
		results = append(results, ComponentResult{
			Type:        comp.GetKind().String(),
			Value:       comp.GetValue(),
			Node1:       comp.GetNodeA(),
			Node2:       comp.GetNodeB(),
			Voltage:     voltage,
			Current:     current,
			Power:       power,
			Description: describePower(comp, power),
		})
	}

	balanced := util.Abs(totalPower) < consts.PowerBalanceTol && verification.Verified()

	return &Result{
		Voltages:   voltages,
		Components: results,
		TotalPower: totalPower,
		MatrixSolution: MatrixSolution{
			ConductanceMatrix: sys.G,
			CurrentVector:     sys.I,
			VoltageSolution:   x,
			SolutionMethod:    solutionMethod,
			Steps:             sys.Steps,
			Verification:      verification,
		},
		Summary: Summary{
			TotalComponents: len(ckt.Components()),
			SolvedNodes:     len(voltages),
			PowerBalance:    balanced,
		},
	}
}

func describePower(comp component.Component, power float64) string {
	name := comp.GetName()
	if name == "" {
		name = comp.GetKind().String()
	}
	switch {
	case power < -consts.PowerZeroTol:
		return fmt.Sprintf("%s %s: supplying %s", comp.GetKind(), name, util.FormatValueFactor(-power, "W"))
	case power > consts.PowerZeroTol:
		return fmt.Sprintf("%s %s: absorbing %s", comp.GetKind(), name, util.FormatValueFactor(power, "W"))
	default:
		return fmt.Sprintf("%s %s: 0 W", comp.GetKind(), name)
	}
}

// sourceCurrents recovers every voltage source's branch current. Per
// supernode group the unknowns are the group's source currents and the
// equations are KCL at each member node, with all resistor and
// current-source branch currents already known numerically. The system is
// rank-deficient by one (the rows sum to zero); parallel consistent
// sources leave a free split, pinned to zero by the elimination.
func sourceCurrents(ckt *circuit.Circuit, asg *circuit.Assignment, volts []float64) map[int]float64 {
	currents := make(map[int]float64)
	comps := ckt.Components()

	for gi := range asg.Groups {
		g := &asg.Groups[gi]
		if len(g.Sources) == 0 {
			continue
		}

		rows := len(g.Members)
		cols := len(g.Sources)
		a := make([][]float64, rows)
		b := make([]float64, rows)
		for ri, n := range g.Members {
			a[ri] = make([]float64, cols)
			b[ri] = -knownCurrentLeaving(ckt, volts, n)
			for ci, si := range g.Sources {
				sa, sb := ckt.EndpointIndices(comps[si])
				if sa == n {
					a[ri][ci] += 1 // current leaves n into the source
				}
				if sb == n {
					a[ri][ci] -= 1
				}
			}
		}

		x := reducedSolve(a, b)
		for ci, si := range g.Sources {
			currents[si] = x[ci]
		}
	}
	return currents
}

// knownCurrentLeaving sums the currents leaving a node through its
// resistor and current-source branches.
func knownCurrentLeaving(ckt *circuit.Circuit, volts []float64, n int) float64 {
	sum := 0.0
	for _, ci := range ckt.Incident(n) {
		comp := ckt.Components()[ci]
		a, b := ckt.EndpointIndices(comp)
		switch c := comp.(type) {
		case *component.Resistor:
			if a == n {
				sum += (volts[a] - volts[b]) / c.GetValue()
			} else {
				sum += (volts[b] - volts[a]) / c.GetValue()
			}
		case *component.CurrentSource:
			if a == n {
				sum += c.GetValue()
			} else {
				sum -= c.GetValue()
			}
		}
	}
	return sum
}

// reducedSolve is Gauss-Jordan elimination with partial pivoting for the
// small, possibly under-determined branch-current systems. Free columns
// are pinned to zero; the result always satisfies the (consistent) input.
func reducedSolve(a [][]float64, b []float64) []float64 {
	rows := len(a)
	if rows == 0 {
		return nil
	}
	cols := len(a[0])
	where := make([]int, cols)
	for i := range where {
		where[i] = -1
	}

	r := 0
	for c := 0; c < cols && r < rows; c++ {
		pivot := r
		for i := r + 1; i < rows; i++ {
			if util.Abs(a[i][c]) > util.Abs(a[pivot][c]) {
				pivot = i
			}
		}
		if util.Abs(a[pivot][c]) < consts.PivotTol {
			continue
		}
		a[r], a[pivot] = a[pivot], a[r]
		b[r], b[pivot] = b[pivot], b[r]

		inv := 1.0 / a[r][c]
		for j := c; j < cols; j++ {
			a[r][j] *= inv
		}
		b[r] *= inv

		for i := 0; i < rows; i++ {
			if i == r || a[i][c] == 0 {
				continue
			}
			f := a[i][c]
			for j := c; j < cols; j++ {
				a[i][j] -= f * a[r][j]
			}
			b[i] -= f * b[r]
		}
		where[c] = r
		r++
	}

	x := make([]float64, cols)
	for c, rr := range where {
		if rr >= 0 {
			x[c] = b[rr]
		}
	}
	return x
}
