package InputParameters

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/flop/mesh"
	"github.com/notargets/flop/state"
)

// FieldParameters describes one field of the state. Value holds the
// components of a uniform initial value; an empty Value means zero.
type FieldParameters struct {
	Name       string    `json:"Name"`
	Kind       string    `json:"Kind"` // Scalar, Vector or Tensor
	Value      []float64 `json:"Value"`
	FieldType  int       `json:"FieldType"`
	OptionPath string    `json:"OptionPath"`
}

// StateParameters is the state description obtained from the YAML input file
type StateParameters struct {
	Title      string            `json:"Title"`
	MeshName   string            `json:"MeshName"`
	Degree     int               `json:"Degree"`
	Continuity int               `json:"Continuity"` // -1 for discontinuous
	Fields     []FieldParameters `json:"Fields"`
	Partitions int               `json:"Partitions"`
	Device     string            `json:"Device"` // OCCA device properties
}

func (sp *StateParameters) Parse(data []byte) (err error) {
	sp.MeshName, sp.Degree, sp.Partitions = "Mesh", 1, 1
	if err = yaml.Unmarshal(data, sp); err != nil {
		return
	}
	return sp.Validate()
}

func ReadFile(path string) (sp *StateParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	sp = &StateParameters{}
	if err = sp.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}

func (sp *StateParameters) Validate() error {
	if sp.Degree < 1 {
		return fmt.Errorf("degree must be at least 1, got %d", sp.Degree)
	}
	if sp.Partitions < 1 {
		return fmt.Errorf("partitions must be at least 1, got %d", sp.Partitions)
	}
	seen := make(map[string]bool, len(sp.Fields))
	for _, f := range sp.Fields {
		if f.Name == "" {
			return fmt.Errorf("field without a name")
		}
		if f.Name == state.CoordinateFieldName {
			return fmt.Errorf("field name %s is reserved for the mesh coordinates", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %s defined twice", f.Name)
		}
		seen[f.Name] = true
		switch strings.ToLower(f.Kind) {
		case "scalar", "vector", "tensor":
		default:
			return fmt.Errorf("field %s has unknown kind %q", f.Name, f.Kind)
		}
	}
	return nil
}

func (sp *StateParameters) Print() { sp.Fprint(os.Stdout) }

func (sp *StateParameters) Fprint(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", sp.Title)
	fmt.Fprintf(w, "[%s]\t\t\t= Mesh Name\n", sp.MeshName)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Degree\n", sp.Degree)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Continuity\n", sp.Continuity)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Partitions\n", sp.Partitions)
	for _, f := range sp.Fields {
		fmt.Fprintf(w, "Fields[%s] = %s %v\n", f.Name, f.Kind, f.Value)
	}
}

// BuildState converts grid into the state mesh and creates every field on
// it, along with the Coordinate field
func (sp *StateParameters) BuildState(grid *mesh.Mesh) (*state.State, error) {
	m, err := state.MeshFromGrid(grid, sp.MeshName, sp.Degree, sp.Continuity)
	if err != nil {
		return nil, err
	}
	s := state.NewState()
	s.AddMesh(m)
	dim := m.Shape.Dimension

	coords, err := state.CoordinateField(m, dim)
	if err != nil {
		return nil, err
	}
	s.AddVectorField(coords)

	for uid, f := range sp.Fields {
		switch strings.ToLower(f.Kind) {
		case "scalar":
			val, err := uniform(f, m.NodeCount, 1)
			if err != nil {
				return nil, err
			}
			s.AddScalarField(state.NewScalarField(f.Name, val, f.FieldType, f.OptionPath, uid+1, m))
		case "vector":
			val, err := uniform(f, m.NodeCount, dim)
			if err != nil {
				return nil, err
			}
			s.AddVectorField(state.NewVectorField(f.Name, val, f.FieldType, f.OptionPath, dim, uid+1, m))
		case "tensor":
			val, err := uniform(f, m.NodeCount, dim*dim)
			if err != nil {
				return nil, err
			}
			s.AddTensorField(state.NewTensorField(f.Name, val, f.FieldType, f.OptionPath, dim, dim, uid+1, m))
		default:
			return nil, fmt.Errorf("field %s has unknown kind %q", f.Name, f.Kind)
		}
	}
	return s, nil
}

func uniform(f FieldParameters, nodes, components int) ([]float64, error) {
	val := make([]float64, nodes*components)
	switch len(f.Value) {
	case 0:
	case components:
		for i := 0; i < nodes; i++ {
			copy(val[i*components:], f.Value)
		}
	default:
		return nil, fmt.Errorf("field %s: %d values given, want %d", f.Name, len(f.Value), components)
	}
	return val, nil
}
