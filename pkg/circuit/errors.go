package circuit

import "fmt"

// ValidationError reports malformed, degenerate, or disconnected topology.
// The input has to be fixed by whoever built the component list.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "circuit: " + e.Message }

func (e *ValidationError) Kind() string { return "ValidationError" }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InconsistentSourceError reports a loop of ideal voltage sources that
// forces two different voltage differences onto the same pair of nodes.
type InconsistentSourceError struct {
	NodeA string
	NodeB string
	Want  float64
	Got   float64
}

func (e *InconsistentSourceError) Error() string {
	return fmt.Sprintf("circuit: voltage sources force V(%s) - V(%s) to both %g and %g",
		e.NodeB, e.NodeA, e.Want, e.Got)
}

func (e *InconsistentSourceError) Kind() string { return "InconsistentSourceError" }
