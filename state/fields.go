package state

import "fmt"

// Field descriptions, matching the host type names
const (
	ScalarFieldDescription = "ScalarField"
	VectorFieldDescription = "VectorField"
	TensorFieldDescription = "TensorField"
)

// Field holds the attributes shared by every host field kind. Val is stored
// node major: the components of node i are Val[i*c:(i+1)*c].
type Field struct {
	Name       string
	Val        []float64
	FieldType  int
	OptionPath string
	UID        int
	Mesh       *Mesh
}

// Attributes returns the attributes shared by every field kind
func (f *Field) Attributes() *Field { return f }

// Shape returns the element shape of the field's mesh
func (f *Field) Shape() ElementShape { return f.Mesh.Shape }

// NodeCount returns the number of nodes the field is defined on
func (f *Field) NodeCount() int { return f.Mesh.NodeCount }

func (f *Field) validate(components int) error {
	if f.Mesh == nil {
		return fmt.Errorf("field %s has no mesh", f.Name)
	}
	if want := f.Mesh.NodeCount * components; len(f.Val) != want {
		return fmt.Errorf("field %s: %d values, want %d (%d nodes x %d components)",
			f.Name, len(f.Val), want, f.Mesh.NodeCount, components)
	}
	return nil
}

type ScalarField struct {
	Field
}

func NewScalarField(name string, val []float64, fieldType int, optionPath string,
	uid int, mesh *Mesh) *ScalarField {
	return &ScalarField{Field{name, val, fieldType, optionPath, uid, mesh}}
}

func (f *ScalarField) Description() string { return ScalarFieldDescription }

func (f *ScalarField) Validate() error { return f.validate(1) }

// VectorField carries Dimension components per node
type VectorField struct {
	Field
	Dimension int
}

func NewVectorField(name string, val []float64, fieldType int, optionPath string,
	dim, uid int, mesh *Mesh) *VectorField {
	return &VectorField{Field{name, val, fieldType, optionPath, uid, mesh}, dim}
}

func (f *VectorField) Description() string { return VectorFieldDescription }

func (f *VectorField) Validate() error { return f.validate(f.Dimension) }

// TensorField carries Dimension[0] x Dimension[1] components per node
type TensorField struct {
	Field
	Dimension [2]int
}

func NewTensorField(name string, val []float64, fieldType int, optionPath string,
	dim0, dim1, uid int, mesh *Mesh) *TensorField {
	return &TensorField{Field{name, val, fieldType, optionPath, uid, mesh}, [2]int{dim0, dim1}}
}

func (f *TensorField) Description() string { return TensorFieldDescription }

func (f *TensorField) Validate() error { return f.validate(f.Dimension[0] * f.Dimension[1]) }
