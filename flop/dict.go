package flop

import (
	"fmt"
	"sort"

	"github.com/notargets/flop/state"
)

// FieldDict maps field names to adapted fields
type FieldDict map[string]Field

// Get returns the field called name
func (d FieldDict) Get(name string) (Field, error) {
	f, ok := d[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return f, nil
}

// Add stores f under its name, refusing a name that is already taken
func (d FieldDict) Add(f Field) error {
	name := f.Attributes().Name
	if _, ok := d[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateField, name)
	}
	d[name] = f
	return nil
}

// Names returns the field names, sorted
func (d FieldDict) Names() []string {
	names := make([]string, 0, len(d))
	for n := range d {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AdaptState wraps every mesh and field of s. Fields on the same host mesh
// share one Mesh, and so one element set. Field names must be unique across
// the scalar, vector and tensor fields of s.
func AdaptState(s *state.State) (map[string]*Mesh, FieldDict, error) {
	meshes := make(map[string]*Mesh, len(s.Meshes))
	byHost := make(map[*state.Mesh]*Mesh, len(s.Meshes))
	for name, m := range s.Meshes {
		meshes[name] = NewMesh(m)
		byHost[m] = meshes[name]
	}
	meshOf := func(f *state.Field) (*Mesh, error) {
		if m, ok := byHost[f.Mesh]; ok {
			return m, nil
		}
		return nil, fmt.Errorf("%w: field %s is not on a mesh of the state", state.ErrUnknownMesh, f.Name)
	}

	fields := make(FieldDict)
	for _, f := range s.ScalarFields {
		m, err := meshOf(&f.Field)
		if err != nil {
			return nil, nil, err
		}
		adapted, err := AdaptScalarField(f, m, nil, nil)
		if err != nil {
			return nil, nil, err
		}
		if err = fields.Add(adapted); err != nil {
			return nil, nil, err
		}
	}
	for _, f := range s.VectorFields {
		m, err := meshOf(&f.Field)
		if err != nil {
			return nil, nil, err
		}
		adapted, err := AdaptVectorField(f, m, nil, nil)
		if err != nil {
			return nil, nil, err
		}
		if err = fields.Add(adapted); err != nil {
			return nil, nil, err
		}
	}
	for _, f := range s.TensorFields {
		m, err := meshOf(&f.Field)
		if err != nil {
			return nil, nil, err
		}
		adapted, err := AdaptTensorField(f, m, nil, nil)
		if err != nil {
			return nil, nil, err
		}
		if err = fields.Add(adapted); err != nil {
			return nil, nil, err
		}
	}
	return meshes, fields, nil
}
