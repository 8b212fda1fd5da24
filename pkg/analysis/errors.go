package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edaworks/nodal/pkg/circuit"
)

// SingularSystemError reports a numerically singular conductance matrix
// that the topology checks did not explain.
type SingularSystemError struct {
	Err error
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("analysis: conductance matrix is singular: %v", e.Err)
}

func (e *SingularSystemError) Unwrap() error { return e.Err }

func (e *SingularSystemError) Kind() string { return "SingularSystemError" }

// UnderconstrainedCircuitError reports a circuit whose unknowns are not
// pinned down by the available equations, with a hint separating a floating
// subcircuit from a missing resistive return path.
type UnderconstrainedCircuitError struct {
	Nodes []string
	Hint  string
}

func (e *UnderconstrainedCircuitError) Error() string {
	return fmt.Sprintf("analysis: circuit is under-constrained at nodes {%s}: %s",
		strings.Join(e.Nodes, ", "), e.Hint)
}

func (e *UnderconstrainedCircuitError) Kind() string { return "UnderconstrainedCircuitError" }

const (
	hintFloating   = "floating subcircuit: the nodes are tied only by sources, with no fixed potential to anchor them"
	hintNoRefPath  = "missing reference path: injected current has no resistive return to the reference node"
	kindInternal   = "InternalError"
)

// ErrorInfo flattens any solve error into the {kind, message, hint} triple
// crossing the transport boundary.
func ErrorInfo(err error) (kind, message, hint string) {
	message = err.Error()

	var validation *circuit.ValidationError
	var inconsistent *circuit.InconsistentSourceError
	var under *UnderconstrainedCircuitError
	var singular *SingularSystemError

	switch {
	case errors.As(err, &validation):
		return validation.Kind(), message, "fix the component list and retry"
	case errors.As(err, &inconsistent):
		return inconsistent.Kind(), message, "remove or adjust one of the conflicting voltage sources"
	case errors.As(err, &under):
		return under.Kind(), message, under.Hint
	case errors.As(err, &singular):
		return singular.Kind(), message, "check for subcircuits without a resistive path to the reference node"
	default:
		return kindInternal, message, ""
	}
}
