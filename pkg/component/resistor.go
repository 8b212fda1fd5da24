package component

type Resistor struct {
	BaseComponent
}

func NewResistor(name, nodeA, nodeB string, value float64) *Resistor {
	return &Resistor{
		BaseComponent: BaseComponent{
			Name:  name,
			Value: value,
			NodeA: nodeA,
			NodeB: nodeB,
		},
	}
}

func (r *Resistor) GetKind() Kind { return KindResistor }

// Conductance is the stamp value 1/R.
func (r *Resistor) Conductance() float64 {
	return 1.0 / r.Value
}
