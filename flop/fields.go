package flop

import (
	"github.com/notargets/flop/state"
	"github.com/notargets/flop/ufl"
)

// Field is implemented by ScalarField, VectorField and TensorField
type Field interface {
	HostField
	Base() *FieldCoefficient
	String() string
}

type ScalarField struct {
	*state.ScalarField
	*FieldCoefficient
}

// NewScalarField creates a scalar field on mesh. A nil element is derived
// from the mesh shape, a nil count takes the next free coefficient count.
func NewScalarField(name string, val []float64, fieldType int, optionPath string, uid int,
	mesh *Mesh, element ufl.Element, count *int) (*ScalarField, error) {
	host := state.NewScalarField(name, val, fieldType, optionPath, uid, hostMesh(mesh))
	return AdaptScalarField(host, mesh, element, count)
}

// AdaptScalarField wraps an existing host field, which must live on mesh
func AdaptScalarField(host *state.ScalarField, mesh *Mesh, element ufl.Element, count *int) (*ScalarField, error) {
	c, err := newFieldCoefficient(host, mesh, element, count)
	if err != nil {
		return nil, err
	}
	return &ScalarField{ScalarField: host, FieldCoefficient: c}, nil
}

// Reconstruct returns a field sharing the host attributes of f with a new
// element and count
func (f *ScalarField) Reconstruct(element ufl.Element, count *int) (*ScalarField, error) {
	return NewScalarField(f.Name, f.Val, f.FieldType, f.OptionPath, f.UID,
		f.AdaptedMesh(), element, count)
}

type VectorField struct {
	*state.VectorField
	*FieldCoefficient
}

func NewVectorField(name string, val []float64, fieldType int, optionPath string, dim, uid int,
	mesh *Mesh, element ufl.Element, count *int) (*VectorField, error) {
	host := state.NewVectorField(name, val, fieldType, optionPath, dim, uid, hostMesh(mesh))
	return AdaptVectorField(host, mesh, element, count)
}

func AdaptVectorField(host *state.VectorField, mesh *Mesh, element ufl.Element, count *int) (*VectorField, error) {
	c, err := newFieldCoefficient(host, mesh, element, count)
	if err != nil {
		return nil, err
	}
	return &VectorField{VectorField: host, FieldCoefficient: c}, nil
}

func (f *VectorField) Reconstruct(element ufl.Element, count *int) (*VectorField, error) {
	return NewVectorField(f.Name, f.Val, f.FieldType, f.OptionPath, f.Dimension, f.UID,
		f.AdaptedMesh(), element, count)
}

type TensorField struct {
	*state.TensorField
	*FieldCoefficient
}

func NewTensorField(name string, val []float64, fieldType int, optionPath string, dim0, dim1, uid int,
	mesh *Mesh, element ufl.Element, count *int) (*TensorField, error) {
	host := state.NewTensorField(name, val, fieldType, optionPath, dim0, dim1, uid, hostMesh(mesh))
	return AdaptTensorField(host, mesh, element, count)
}

func AdaptTensorField(host *state.TensorField, mesh *Mesh, element ufl.Element, count *int) (*TensorField, error) {
	c, err := newFieldCoefficient(host, mesh, element, count)
	if err != nil {
		return nil, err
	}
	return &TensorField{TensorField: host, FieldCoefficient: c}, nil
}

func (f *TensorField) Reconstruct(element ufl.Element, count *int) (*TensorField, error) {
	return NewTensorField(f.Name, f.Val, f.FieldType, f.OptionPath,
		f.Dimension[0], f.Dimension[1], f.UID, f.AdaptedMesh(), element, count)
}

func hostMesh(m *Mesh) *state.Mesh {
	if m == nil {
		return nil
	}
	return m.Mesh
}
