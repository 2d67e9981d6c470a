package flop

import (
	"fmt"

	"github.com/notargets/flop/op2"
	"github.com/notargets/flop/state"
	"github.com/notargets/flop/ufl"
)

// FieldCoefficient is a form coefficient whose values live on the nodes of
// a host field
type FieldCoefficient struct {
	*ufl.Coefficient
	field *state.Field
	mesh  *Mesh

	nodeSet        cached[*op2.Set]
	dat            cached[*op2.Dat]
	elementNodeMap cached[*op2.Map]
}

// newFieldCoefficient derives the element from f unless one is given. A
// given element must have the rank of the field kind.
func newFieldCoefficient(f HostField, mesh *Mesh, element ufl.Element, count *int) (*FieldCoefficient, error) {
	attr := f.Attributes()
	if mesh == nil || mesh.Mesh != attr.Mesh {
		return nil, fmt.Errorf("field %s must be created on its own mesh", attr.Name)
	}
	if element == nil {
		var err error
		if element, err = UFLElement(f); err != nil {
			return nil, fmt.Errorf("field %s: %w", attr.Name, err)
		}
	} else if rank := len(element.ValueShape()); rank != fieldRank[f.Description()] {
		return nil, fmt.Errorf("field %s: %s element %s has rank %d, want %d",
			attr.Name, f.Description(), element, rank, fieldRank[f.Description()])
	}
	return &FieldCoefficient{
		Coefficient: ufl.NewCoefficient(element, count),
		field:       attr,
		mesh:        mesh,
	}, nil
}

// Base returns c, giving the field kinds a common view
func (c *FieldCoefficient) Base() *FieldCoefficient { return c }

// AdaptedMesh returns the mesh the field is defined on
func (c *FieldCoefficient) AdaptedMesh() *Mesh { return c.mesh }

// ValueShape is (d,)*rank for the mesh dimension d, or (1,) for scalars
func (c *FieldCoefficient) ValueShape() []int {
	rank := c.Rank()
	if rank == 0 {
		return []int{1}
	}
	shape := make([]int, rank)
	for i := range shape {
		shape[i] = c.mesh.Shape.Dimension
	}
	return shape
}

// ElementSet returns the element set of the mesh, shared by all its fields
func (c *FieldCoefficient) ElementSet() (*op2.Set, error) {
	return c.mesh.ElementSet()
}

func (c *FieldCoefficient) NodeSet() (*op2.Set, error) {
	return c.nodeSet.get(func() (*op2.Set, error) {
		return op2.NewSet(c.field.NodeCount(), fmt.Sprintf("%s_nodes", c.field.Name))
	})
}

// Dat wraps the field values without copying them
func (c *FieldCoefficient) Dat() (*op2.Dat, error) {
	return c.dat.get(func() (*op2.Dat, error) {
		nodes, err := c.NodeSet()
		if err != nil {
			return nil, err
		}
		return op2.NewDat(nodes, c.ValueShape(), c.field.Val, ValueType, c.field.Name)
	})
}

// ElementNodeMap maps the mesh elements to the field's node set
func (c *FieldCoefficient) ElementNodeMap() (*op2.Map, error) {
	return c.elementNodeMap.get(func() (*op2.Map, error) {
		elements, err := c.mesh.ElementSet()
		if err != nil {
			return nil, err
		}
		nodes, err := c.NodeSet()
		if err != nil {
			return nil, err
		}
		return op2.NewMap(elements, nodes, c.mesh.Shape.Loc, zeroBased(c.mesh.Ndglno),
			fmt.Sprintf("%s_elem_node", c.field.Name))
	})
}

// TemporaryDat returns a new zeroed dat shaped like the field's dat. It is
// not cached.
func (c *FieldCoefficient) TemporaryDat(name string) (*op2.Dat, error) {
	nodes, err := c.NodeSet()
	if err != nil {
		return nil, err
	}
	return op2.NewDat(nodes, c.ValueShape(), nil, ValueType, name)
}
