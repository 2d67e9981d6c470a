// Package flop adapts host simulation fields to form coefficients backed by
// op2 sets, maps and dats. Every derived object is built on first use and
// cached on the mesh or field it belongs to.
package flop

import (
	"errors"
	"fmt"

	"github.com/notargets/flop/op2"
	"github.com/notargets/flop/state"
	"github.com/notargets/flop/ufl"
)

// ValueType is the precision of every dat built from host field values
const ValueType = op2.Float64

var (
	ErrUnsupportedCell   = errors.New("unsupported cell")
	ErrUnsupportedFamily = errors.New("unsupported element family")
	ErrUnknownField      = errors.New("unknown field")
	ErrDuplicateField    = errors.New("duplicate field")
)

var fieldRank = map[string]int{
	state.ScalarFieldDescription: 0,
	state.VectorFieldDescription: 1,
	state.TensorFieldDescription: 2,
}

var fieldElement = map[string]ufl.ElementKind{
	state.ScalarFieldDescription: ufl.Finite,
	state.VectorFieldDescription: ufl.Vector,
	state.TensorFieldDescription: ufl.Tensor,
}

// dimLocCell names the cell of each supported (dimension, loc) pair
var dimLocCell = map[int]map[int]string{
	1: {1: "vertex", 2: "interval"},
	2: {3: "triangle", 4: "quadrilateral"},
	3: {4: "tetrahedron", 6: "hexahedron"},
}

var typeFamily = map[string]string{
	state.LagrangianType: ufl.Lagrange,
}

// HostField is implemented by the scalar, vector and tensor host fields
type HostField interface {
	Description() string
	Shape() state.ElementShape
	Attributes() *state.Field
}

// UFLCell returns the reference cell of an element shape, looked up by its
// dimension and the vertex count of its quadrature cell
func UFLCell(shape state.ElementShape) (ufl.Cell, error) {
	dim, loc := shape.Dimension, shape.Quadrature.Loc
	name, ok := dimLocCell[dim][loc]
	if !ok {
		return ufl.Cell{}, fmt.Errorf("%w: Elements of dimension %d and loc %d are not supported",
			ErrUnsupportedCell, dim, loc)
	}
	return ufl.NewCell(name)
}

// UFLFamily returns the element family of a field, prefixed with
// "Discontinuous " on discontinuous meshes
func UFLFamily(f HostField) (string, error) {
	elementType := f.Shape().Type
	family, ok := typeFamily[elementType]
	if !ok {
		return "", fmt.Errorf("%w: Elements of type %s are not supported",
			ErrUnsupportedFamily, elementType)
	}
	if f.Attributes().Mesh.Continuity < 0 {
		family = "Discontinuous " + family
	}
	return family, nil
}

// UFLElement builds the element matching the kind, shape and mesh continuity
// of a field
func UFLElement(f HostField) (ufl.Element, error) {
	kind, ok := fieldElement[f.Description()]
	if !ok {
		return nil, fmt.Errorf("no element kind for %s", f.Description())
	}
	family, err := UFLFamily(f)
	if err != nil {
		return nil, err
	}
	shape := f.Shape()
	cell, err := UFLCell(shape)
	if err != nil {
		return nil, err
	}
	return ufl.NewElement(kind, family, cell, shape.Degree)
}
