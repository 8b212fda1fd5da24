package analysis

// Step types, matching the three ways a derivation line can arise.
const (
	StepKCL          = "kcl"
	StepSupernodeKCL = "supernode_kcl"
	StepConstraint   = "constraint"
)

// Step is one line of the derivation trail. Steps re-describe rows the
// assembler already built (plus the grounded source-chain substitutions,
// which fix voltages without producing a row); they never feed back into
// the numbers.
type Step struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Equation    string `json:"equation_text"`
	Explanation string `json:"explanation"`
}
