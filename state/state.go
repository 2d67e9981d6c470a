// Package state holds the host simulation state: meshes carrying an element
// shape and a global node numbering, and the scalar, vector and tensor fields
// defined on them.
package state

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownMesh  = errors.New("unknown mesh")
	ErrUnknownField = errors.New("unknown field")
)

// Quadrature describes the quadrature set attached to an element shape. Loc is
// the vertex count of the reference cell the rule is defined on.
type Quadrature struct {
	Dimension int
	Degree    int
	Loc       int
}

// ElementShape is the host description of a finite element. Loc is the number
// of nodes per element, which equals the vertex count for degree 1.
type ElementShape struct {
	Type       string // e.g. "lagrangian"
	Dimension  int
	Loc        int
	Degree     int
	Quadrature Quadrature
}

// Mesh is a host mesh. Ndglno holds the element-node numbering, flattened
// element by element with Shape.Loc entries each, 1-based.
type Mesh struct {
	Name         string
	ElementCount int
	NodeCount    int
	Shape        ElementShape
	Ndglno       []int32
	// Continuity is 0 for continuous and -1 for discontinuous meshes
	Continuity  int
	Coordinates [][]float64
}

// Validate checks the numbering against the element and node counts
func (m *Mesh) Validate() error {
	if m.ElementCount < 0 || m.NodeCount < 0 {
		return fmt.Errorf("mesh %s: negative element or node count", m.Name)
	}
	if m.Shape.Loc <= 0 {
		return fmt.Errorf("mesh %s: element loc must be positive, got %d", m.Name, m.Shape.Loc)
	}
	if want := m.ElementCount * m.Shape.Loc; len(m.Ndglno) != want {
		return fmt.Errorf("mesh %s: ndglno has %d entries, want %d", m.Name, len(m.Ndglno), want)
	}
	for i, n := range m.Ndglno {
		if n < 1 || int(n) > m.NodeCount {
			return fmt.Errorf("mesh %s: ndglno[%d] = %d outside [1, %d]", m.Name, i, n, m.NodeCount)
		}
	}
	return nil
}

// ElementNodes returns the 1-based node numbers of element k
func (m *Mesh) ElementNodes(k int) []int32 {
	loc := m.Shape.Loc
	return m.Ndglno[k*loc : (k+1)*loc]
}

// State groups the meshes and fields of one simulation state by name
type State struct {
	Meshes       map[string]*Mesh
	ScalarFields map[string]*ScalarField
	VectorFields map[string]*VectorField
	TensorFields map[string]*TensorField
}

func NewState() *State {
	return &State{
		Meshes:       make(map[string]*Mesh),
		ScalarFields: make(map[string]*ScalarField),
		VectorFields: make(map[string]*VectorField),
		TensorFields: make(map[string]*TensorField),
	}
}

func (s *State) AddMesh(m *Mesh) { s.Meshes[m.Name] = m }

func (s *State) AddScalarField(f *ScalarField) { s.ScalarFields[f.Name] = f }

func (s *State) AddVectorField(f *VectorField) { s.VectorFields[f.Name] = f }

func (s *State) AddTensorField(f *TensorField) { s.TensorFields[f.Name] = f }

func (s *State) Mesh(name string) (*Mesh, error) {
	if m, ok := s.Meshes[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMesh, name)
}

func (s *State) ScalarField(name string) (*ScalarField, error) {
	if f, ok := s.ScalarFields[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: scalar field %s", ErrUnknownField, name)
}

func (s *State) VectorField(name string) (*VectorField, error) {
	if f, ok := s.VectorFields[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: vector field %s", ErrUnknownField, name)
}

func (s *State) TensorField(name string) (*TensorField, error) {
	if f, ok := s.TensorFields[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: tensor field %s", ErrUnknownField, name)
}

// FieldNames returns the names of all fields, sorted
func (s *State) FieldNames() []string {
	names := make([]string, 0,
		len(s.ScalarFields)+len(s.VectorFields)+len(s.TensorFields))
	for n := range s.ScalarFields {
		names = append(names, n)
	}
	for n := range s.VectorFields {
		names = append(names, n)
	}
	for n := range s.TensorFields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
