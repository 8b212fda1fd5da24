package circuit

import (
	"sort"

	"github.com/edaworks/nodal/internal/consts"
	"github.com/edaworks/nodal/pkg/component"
	"github.com/edaworks/nodal/pkg/util"
)

// Group is one supernode: nodes tied together by a chain of ideal voltage
// sources. A group containing the reference node fixes every member's
// voltage outright; other groups keep one representative unknown plus
// offset constraints for the remaining members.
type Group struct {
	Members  []int           // canonical node indices, ascending
	Rep      int             // lowest member, the representative unknown
	Offsets  map[int]float64 // V(member) - V(Rep)
	Grounded bool
	Sources  []int // component indices of the sources inside this group
}

// Assignment maps every node to either a known voltage or a matrix column.
// It is the contract between the supernode resolver and the assembler.
type Assignment struct {
	Known   map[int]float64 // node index -> fixed voltage (reference included)
	Columns []int           // unknown node indices in column order (ascending)
	Groups  []Group
	colOf   map[int]int
	groupOf map[int]int
}

// weighted union-find over canonical node indices; offset[i] holds
// V(i) - V(parent[i]) and is folded flat during path compression.
type unionFind struct {
	parent []int
	rank   []int
	offset []float64
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
		offset: make([]float64, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// find returns the root of i and V(i) - V(root).
func (uf *unionFind) find(i int) (int, float64) {
	if uf.parent[i] == i {
		return i, 0
	}
	root, parentOff := uf.find(uf.parent[i])
	uf.offset[i] += parentOff
	uf.parent[i] = root
	return root, uf.offset[i]
}

// union records V(b) - V(a) = delta. Joining two nodes that already share a
// root checks the new delta against the propagated one instead.
func (uf *unionFind) union(a, b int, delta float64) (consistent bool, existing float64) {
	rootA, offA := uf.find(a)
	rootB, offB := uf.find(b)
	if rootA == rootB {
		got := offB - offA
		return util.Abs(got-delta) <= consts.SourceTol, got
	}
	if uf.rank[rootA] < uf.rank[rootB] {
		// V(rootA) = V(a) - offA and V(rootB) = V(b) - offB
		uf.parent[rootA] = rootB
		uf.offset[rootA] = offB - offA - delta
	} else {
		uf.parent[rootB] = rootA
		uf.offset[rootB] = offA - offB + delta
		if uf.rank[rootA] == uf.rank[rootB] {
			uf.rank[rootA]++
		}
	}
	return true, delta
}

// Resolve computes the supernode groups of a circuit and the resulting
// known/unknown split. Contradictory source loops surface as
// *InconsistentSourceError.
func Resolve(ckt *Circuit) (*Assignment, error) {
	uf := newUnionFind(ckt.NumNodes() + 1)

	for _, comp := range ckt.Components() {
		if comp.GetKind() != component.KindVoltageSource {
			continue
		}
		a, b := ckt.EndpointIndices(comp)
		if ok, existing := uf.union(a, b, comp.GetValue()); !ok {
			return nil, &InconsistentSourceError{
				NodeA: comp.GetNodeA(),
				NodeB: comp.GetNodeB(),
				Want:  comp.GetValue(),
				Got:   existing,
			}
		}
	}

	members := make(map[int][]int)
	for n := 0; n <= ckt.NumNodes(); n++ {
		root, _ := uf.find(n)
		members[root] = append(members[root], n)
	}

	asg := &Assignment{
		Known:   map[int]float64{0: 0},
		colOf:   make(map[int]int),
		groupOf: make(map[int]int),
	}

	groundRoot, groundOff := uf.find(0)
	var roots []int
	for root, ms := range members {
		if len(ms) < 2 {
			continue
		}
		roots = append(roots, root)
	}
	sort.Ints(roots)

	for _, root := range roots {
		ms := members[root]
		sort.Ints(ms)
		g := Group{
			Members:  ms,
			Rep:      ms[0],
			Offsets:  make(map[int]float64),
			Grounded: root == groundRoot,
		}
		if g.Grounded {
			// every member voltage is fixed relative to ground
			for _, m := range ms {
				_, off := uf.find(m)
				asg.Known[m] = off - groundOff
			}
		} else {
			_, repOff := uf.find(g.Rep)
			for _, m := range ms {
				_, off := uf.find(m)
				g.Offsets[m] = off - repOff
			}
		}
		for _, m := range ms {
			asg.groupOf[m] = len(asg.Groups)
		}
		asg.Groups = append(asg.Groups, g)
	}

	for i, comp := range ckt.Components() {
		if comp.GetKind() != component.KindVoltageSource {
			continue
		}
		a, _ := ckt.EndpointIndices(comp)
		gi := asg.groupOf[a]
		asg.Groups[gi].Sources = append(asg.Groups[gi].Sources, i)
	}

	for n := 1; n <= ckt.NumNodes(); n++ {
		if _, fixed := asg.Known[n]; fixed {
			continue
		}
		asg.colOf[n] = len(asg.Columns)
		asg.Columns = append(asg.Columns, n)
	}

	return asg, nil
}

// ColumnOf returns the matrix column of an unknown node.
func (a *Assignment) ColumnOf(node int) (int, bool) {
	col, ok := a.colOf[node]
	return col, ok
}

// KnownVoltage returns the fixed voltage of a node when a grounded source
// chain determines it.
func (a *Assignment) KnownVoltage(node int) (float64, bool) {
	v, ok := a.Known[node]
	return v, ok
}

// GroupOf returns the supernode containing a node, or nil.
func (a *Assignment) GroupOf(node int) *Group {
	gi, ok := a.groupOf[node]
	if !ok {
		return nil
	}
	return &a.Groups[gi]
}
