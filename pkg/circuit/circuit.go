// Package circuit builds the node/graph model of a component list and
// resolves the node equivalence classes forced by ideal voltage sources.
package circuit

import (
	"math"
	"strings"

	"github.com/edaworks/nodal/pkg/component"
)

// Circuit is the topology of one solve request: components plus a canonical
// node index assignment. The reference node is always index 0; the remaining
// nodes get 1..N-1 in first-seen order. Immutable after New.
type Circuit struct {
	name       string
	components []component.Component
	nodeMap    map[string]int // node label -> canonical index
	labels     []string       // canonical index -> first-seen label
	incident   [][]int        // canonical index -> incident component indices
}

// IsGround reports whether a node label is the reserved reference token.
// "0", "gnd" and "GND" are accepted, as in common netlist dialects.
func IsGround(label string) bool {
	return label == "0" || strings.EqualFold(label, "gnd")
}

// New validates a component list and assigns canonical node indices.
// All topology failures come back as *ValidationError.
func New(name string, comps []component.Component) (*Circuit, error) {
	if len(comps) == 0 {
		return nil, validationErrorf("no components")
	}

	ckt := &Circuit{
		name:       name,
		components: comps,
		nodeMap:    make(map[string]int),
	}
	ckt.labels = append(ckt.labels, "")
	ckt.incident = append(ckt.incident, nil)

	hasGround := false
	for i, comp := range comps {
		if err := validateComponent(comp); err != nil {
			return nil, err
		}
		for _, label := range []string{comp.GetNodeA(), comp.GetNodeB()} {
			if IsGround(label) {
				if !hasGround {
					ckt.labels[0] = label
					hasGround = true
				}
				continue
			}
			if _, exists := ckt.nodeMap[label]; !exists {
				ckt.nodeMap[label] = len(ckt.labels)
				ckt.labels = append(ckt.labels, label)
				ckt.incident = append(ckt.incident, nil)
			}
		}
		a := ckt.Index(comp.GetNodeA())
		b := ckt.Index(comp.GetNodeB())
		ckt.incident[a] = append(ckt.incident[a], i)
		ckt.incident[b] = append(ckt.incident[b], i)
	}

	if !hasGround {
		return nil, validationErrorf("no reference node: one node must be labeled GND or 0")
	}
	if err := ckt.checkConnected(); err != nil {
		return nil, err
	}
	return ckt, nil
}

func validateComponent(comp component.Component) error {
	name := comp.GetName()
	if comp.GetNodeA() == comp.GetNodeB() ||
		(IsGround(comp.GetNodeA()) && IsGround(comp.GetNodeB())) {
		return validationErrorf("component %s: both terminals on node %q", name, comp.GetNodeA())
	}
	value := comp.GetValue()
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return validationErrorf("component %s: value must be finite", name)
	}
	switch comp.GetKind() {
	case component.KindResistor:
		if value <= 0 {
			return validationErrorf("resistor %s: value must be positive, got %g", name, value)
		}
	case component.KindVoltageSource, component.KindCurrentSource:
	default:
		return validationErrorf("component %s: unknown kind", name)
	}
	return nil
}

// checkConnected walks the component graph from the reference node; every
// node has to be reachable or the circuit cannot be solved.
func (c *Circuit) checkConnected() error {
	seen := make([]bool, len(c.labels))
	queue := []int{0}
	seen[0] = true
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, ci := range c.incident[n] {
			comp := c.components[ci]
			for _, m := range []int{c.Index(comp.GetNodeA()), c.Index(comp.GetNodeB())} {
				if !seen[m] {
					seen[m] = true
					queue = append(queue, m)
				}
			}
		}
	}
	for i, ok := range seen {
		if !ok {
			return validationErrorf("node %q has no path to the reference node", c.labels[i])
		}
	}
	return nil
}

func (c *Circuit) Name() string { return c.name }

// NumNodes is the node count excluding the reference node.
func (c *Circuit) NumNodes() int { return len(c.labels) - 1 }

func (c *Circuit) Components() []component.Component { return c.components }

// Index maps a node label to its canonical index. Ground aliases all map
// to index 0.
func (c *Circuit) Index(label string) int {
	if IsGround(label) {
		return 0
	}
	return c.nodeMap[label]
}

// Label is the first-seen spelling of a canonical node index.
func (c *Circuit) Label(idx int) string { return c.labels[idx] }

// Incident lists the component indices touching a node.
func (c *Circuit) Incident(idx int) []int { return c.incident[idx] }

// EndpointIndices resolves a component's terminals to canonical indices.
func (c *Circuit) EndpointIndices(comp component.Component) (int, int) {
	return c.Index(comp.GetNodeA()), c.Index(comp.GetNodeB())
}
