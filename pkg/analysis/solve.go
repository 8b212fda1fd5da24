// Package analysis turns a validated circuit into node voltages, branch
// currents and power figures via nodal analysis with supernode reduction,
// together with a step-by-step derivation trail and a residual check.
package analysis

import (
	"github.com/edaworks/nodal/pkg/circuit"
	"github.com/edaworks/nodal/pkg/component"
	"github.com/edaworks/nodal/pkg/matrix"
)

// Solve validates and solves a component list in one call.
func Solve(name string, comps []component.Component) (*Result, error) {
	ckt, err := circuit.New(name, comps)
	if err != nil {
		return nil, err
	}
	return SolveCircuit(ckt)
}

// SolveCircuit runs the full pipeline on an already-built circuit:
// supernode resolution, equation assembly, the LU solve, verification and
// result mapping. Side-effect free; every artifact is request-scoped.
func SolveCircuit(ckt *circuit.Circuit) (*Result, error) {
	asg, err := circuit.Resolve(ckt)
	if err != nil {
		return nil, err
	}

	sys, err := Assemble(ckt, asg)
	if err != nil {
		return nil, err
	}

	x := make([]float64, len(sys.Columns))
	if len(sys.Columns) > 0 {
		// Grounded supernodes can fix every node, leaving nothing to solve.
		mat, err := matrix.New(len(sys.Columns))
		if err != nil {
			return nil, err
		}
		defer mat.Destroy()

		mat.SetupElements()
		sys.LoadInto(mat)
		if err := mat.Solve(); err != nil {
			return nil, &SingularSystemError{Err: err}
		}
		solution := mat.Solution()
		for i := range x {
			x[i] = solution[i+1]
		}
	}

	verification := Verify(sys, x)
	return mapResults(ckt, asg, sys, x, verification), nil
}
