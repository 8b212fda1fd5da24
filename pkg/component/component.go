// Package component defines the two-terminal circuit elements the solver
// understands. Components are immutable once created; sign conventions are
// fixed here and relied on everywhere downstream:
//
//   - reported voltage is V(nodeA) - V(nodeB)
//   - source current is positive flowing nodeA -> nodeB through the element
//   - a voltage source raises the potential from nodeA to nodeB, so it
//     constrains V(nodeB) - V(nodeA) = value
package component

type Kind int

const (
	KindResistor Kind = iota
	KindVoltageSource
	KindCurrentSource
)

func (k Kind) String() string {
	switch k {
	case KindResistor:
		return "Resistor"
	case KindVoltageSource:
		return "Voltage Source"
	case KindCurrentSource:
		return "Current Source"
	default:
		return "Unknown"
	}
}

type Component interface {
	GetName() string
	GetKind() Kind
	GetValue() float64
	GetNodeA() string
	GetNodeB() string
}

type BaseComponent struct {
	Name  string
	Value float64
	NodeA string
	NodeB string
}

func (c *BaseComponent) GetName() string   { return c.Name }
func (c *BaseComponent) GetValue() float64 { return c.Value }
func (c *BaseComponent) GetNodeA() string  { return c.NodeA }
func (c *BaseComponent) GetNodeB() string  { return c.NodeB }
