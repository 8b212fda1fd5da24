package component

// CurrentSource is an ideal DC source driving its value in amperes from
// nodeA to nodeB.
type CurrentSource struct {
	BaseComponent
}

func NewCurrentSource(name, nodeA, nodeB string, value float64) *CurrentSource {
	return &CurrentSource{
		BaseComponent: BaseComponent{
			Name:  name,
			Value: value,
			NodeA: nodeA,
			NodeB: nodeB,
		},
	}
}

func (c *CurrentSource) GetKind() Kind { return KindCurrentSource }
