package consts

const (
	ResidualTol     = 1e-9  // max |G·V - I| entry for a verified solution
	PowerBalanceTol = 1e-9  // max |sum of component powers|
	SourceTol       = 1e-9  // max disagreement between two source chains forcing the same node pair
	PowerZeroTol    = 1e-12 // below this magnitude a component reports "0 W"
	PivotTol        = 1e-12 // pivot cutoff in the branch-current back-solve
)
