package analysis

import (
	"github.com/edaworks/nodal/internal/consts"
	"github.com/edaworks/nodal/pkg/util"
)

// Verification is the residual check G·V - I evaluated at the computed
// solution. A max error above the tolerance flags the solution instead of
// rejecting it.
type Verification struct {
	Residual []float64 `json:"residual"`
	MaxError float64   `json:"max_error"`
}

func (v Verification) Verified() bool { return v.MaxError < consts.ResidualTol }

// Verify recomputes the residual elementwise on the dense system.
func Verify(sys *LinearSystem, solution []float64) Verification {
	residual := make([]float64, len(sys.G))
	for i, row := range sys.G {
		sum := -sys.I[i]
		for j, g := range row {
			sum += g * solution[j]
		}
		residual[i] = sum
	}
	return Verification{
		Residual: residual,
		MaxError: util.MaxAbs(residual),
	}
}
