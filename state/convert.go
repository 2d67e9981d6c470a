package state

import (
	"fmt"

	"github.com/notargets/flop/mesh"
)

// LagrangianType is the host name of the nodal Lagrange element type
const LagrangianType = "lagrangian"

// MeshFromGrid converts a grid of a single element type into a host mesh of
// degree 1. Continuous meshes share the grid vertices as nodes; discontinuous
// meshes (continuity < 0) get a private copy of every vertex per element.
func MeshFromGrid(grid *mesh.Mesh, name string, degree, continuity int) (*Mesh, error) {
	if degree != 1 {
		return nil, fmt.Errorf("mesh %s: degree %d requested, grids carry vertex nodes only", name, degree)
	}
	et, err := grid.UniformElementType()
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", name, err)
	}
	var (
		dim = et.GetDimension()
		loc = et.GetNumNodes()
		m   = &Mesh{
			Name:         name,
			ElementCount: grid.NumElements,
			Shape: ElementShape{
				Type:      LagrangianType,
				Dimension: dim,
				Loc:       loc,
				Degree:    degree,
				Quadrature: Quadrature{
					Dimension: dim,
					Degree:    2 * degree,
					Loc:       loc,
				},
			},
			Ndglno:     make([]int32, grid.NumElements*loc),
			Continuity: continuity,
		}
	)

	if continuity < 0 {
		m.NodeCount = grid.NumElements * loc
		m.Coordinates = make([][]float64, 0, m.NodeCount)
		for k, verts := range grid.Elements {
			for j, v := range verts {
				m.Ndglno[k*loc+j] = int32(k*loc + j + 1)
				m.Coordinates = append(m.Coordinates, grid.Vertices[v])
			}
		}
	} else {
		m.NodeCount = grid.NumVertices
		m.Coordinates = grid.Vertices
		for k, verts := range grid.Elements {
			for j, v := range verts {
				m.Ndglno[k*loc+j] = int32(v + 1)
			}
		}
	}

	return m, m.Validate()
}

// CoordinateFieldName is the name of the field built by CoordinateField
const CoordinateFieldName = "Coordinate"

// CoordinateField returns the node positions of m as a vector field with dim
// components
func CoordinateField(m *Mesh, dim int) (*VectorField, error) {
	if len(m.Coordinates) != m.NodeCount {
		return nil, fmt.Errorf("mesh %s: %d coordinates for %d nodes",
			m.Name, len(m.Coordinates), m.NodeCount)
	}
	val := make([]float64, 0, m.NodeCount*dim)
	for _, x := range m.Coordinates {
		if len(x) < dim {
			return nil, fmt.Errorf("mesh %s: coordinate has %d components, want %d",
				m.Name, len(x), dim)
		}
		val = append(val, x[:dim]...)
	}
	return NewVectorField(CoordinateFieldName, val, 0, "/geometry/mesh::"+m.Name, dim, 0, m), nil
}
