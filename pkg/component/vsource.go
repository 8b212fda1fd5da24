package component

// VoltageSource is an ideal DC source. It fixes V(nodeB) - V(nodeA) to its
// value; its branch current is not a free unknown and is recovered from the
// KCL balance at its endpoints after the node solve.
type VoltageSource struct {
	BaseComponent
}

func NewVoltageSource(name, nodeA, nodeB string, value float64) *VoltageSource {
	return &VoltageSource{
		BaseComponent: BaseComponent{
			Name:  name,
			Value: value,
			NodeA: nodeA,
			NodeB: nodeB,
		},
	}
}

func (v *VoltageSource) GetKind() Kind { return KindVoltageSource }
