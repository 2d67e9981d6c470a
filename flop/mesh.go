package flop

import (
	"fmt"
	"sync"

	"github.com/notargets/flop/op2"
	"github.com/notargets/flop/state"
)

// cached holds a value computed once, together with the error of computing it
type cached[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (c *cached[T]) get(build func() (T, error)) (T, error) {
	c.once.Do(func() { c.val, c.err = build() })
	return c.val, c.err
}

// Mesh is a host mesh together with its op2 element set, node set and
// element-node map
type Mesh struct {
	*state.Mesh

	elementSet     cached[*op2.Set]
	nodeSet        cached[*op2.Set]
	elementNodeMap cached[*op2.Map]
}

func NewMesh(m *state.Mesh) *Mesh {
	return &Mesh{Mesh: m}
}

func (m *Mesh) ElementSet() (*op2.Set, error) {
	return m.elementSet.get(func() (*op2.Set, error) {
		return op2.NewSet(m.ElementCount, fmt.Sprintf("%s_elements", m.Name))
	})
}

func (m *Mesh) NodeSet() (*op2.Set, error) {
	return m.nodeSet.get(func() (*op2.Set, error) {
		return op2.NewSet(m.NodeCount, fmt.Sprintf("%s_nodes", m.Name))
	})
}

// ElementNodeMap maps every element to its Shape.Loc nodes, 0-based
func (m *Mesh) ElementNodeMap() (*op2.Map, error) {
	return m.elementNodeMap.get(func() (*op2.Map, error) {
		elements, err := m.ElementSet()
		if err != nil {
			return nil, err
		}
		nodes, err := m.NodeSet()
		if err != nil {
			return nil, err
		}
		return op2.NewMap(elements, nodes, m.Shape.Loc, zeroBased(m.Ndglno),
			fmt.Sprintf("%s_elem_node", m.Name))
	})
}

func zeroBased(ndglno []int32) []int32 {
	values := make([]int32, len(ndglno))
	for i, n := range ndglno {
		values[i] = n - 1
	}
	return values
}
