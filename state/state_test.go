package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/flop/mesh"
)

const twoTriangleMsh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
4
1 0 0 0
2 1 0 0
3 0 1 0
4 1 1 0
$EndNodes
$Elements
2
1 2 0 1 2 3
2 2 0 2 4 3
$EndElements
`

func readGrid(t *testing.T) *mesh.Mesh {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.msh")
	require.NoError(t, os.WriteFile(path, []byte(twoTriangleMsh), 0644))
	grid, err := mesh.ReadMeshFile(path)
	require.NoError(t, err)
	return grid
}

func TestMeshFromGridContinuous(t *testing.T) {
	m, err := MeshFromGrid(readGrid(t), "CoordinateMesh", 1, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, m.ElementCount)
	assert.Equal(t, 4, m.NodeCount)
	assert.Equal(t, LagrangianType, m.Shape.Type)
	assert.Equal(t, 2, m.Shape.Dimension)
	assert.Equal(t, 3, m.Shape.Loc)
	assert.Equal(t, 3, m.Shape.Quadrature.Loc)
	assert.Equal(t, []int32{1, 2, 3, 2, 4, 3}, m.Ndglno)
	assert.Equal(t, []int32{2, 4, 3}, m.ElementNodes(1))
}

func TestMeshFromGridDiscontinuous(t *testing.T) {
	m, err := MeshFromGrid(readGrid(t), "DGMesh", 1, -1)
	require.NoError(t, err)

	assert.Equal(t, 6, m.NodeCount)
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6}, m.Ndglno)
	require.Len(t, m.Coordinates, 6)
	// Node 4 is the first vertex of element 1, grid vertex 1
	assert.Equal(t, []float64{1, 0, 0}, m.Coordinates[3])
}

func TestMeshFromGridRejectsHigherDegree(t *testing.T) {
	_, err := MeshFromGrid(readGrid(t), "P2", 2, 0)
	assert.Error(t, err)
}

func TestMeshValidate(t *testing.T) {
	good := &Mesh{
		Name: "m", ElementCount: 1, NodeCount: 3,
		Shape:  ElementShape{Loc: 3},
		Ndglno: []int32{1, 2, 3},
	}
	assert.NoError(t, good.Validate())

	short := *good
	short.Ndglno = []int32{1, 2}
	assert.Error(t, short.Validate())

	outOfRange := *good
	outOfRange.Ndglno = []int32{0, 2, 3}
	assert.Error(t, outOfRange.Validate())

	noLoc := *good
	noLoc.Shape.Loc = 0
	assert.Error(t, noLoc.Validate())
}

func TestFieldValidation(t *testing.T) {
	m := &Mesh{Name: "m", NodeCount: 2, Shape: ElementShape{Dimension: 2}}

	assert.NoError(t, NewScalarField("p", make([]float64, 2), 0, "", 1, m).Validate())
	assert.Error(t, NewScalarField("p", make([]float64, 3), 0, "", 1, m).Validate())
	assert.NoError(t, NewVectorField("u", make([]float64, 4), 0, "", 2, 2, m).Validate())
	assert.Error(t, NewVectorField("u", make([]float64, 2), 0, "", 2, 2, m).Validate())
	assert.NoError(t, NewTensorField("k", make([]float64, 8), 0, "", 2, 2, 3, m).Validate())
	assert.Error(t, NewScalarField("p", nil, 0, "", 1, nil).Validate())

	v := NewVectorField("u", nil, 0, "", 2, 2, m)
	assert.Equal(t, VectorFieldDescription, v.Description())
	assert.Equal(t, 2, v.NodeCount())
	assert.Equal(t, 2, v.Shape().Dimension)
}

func TestCoordinateField(t *testing.T) {
	m, err := MeshFromGrid(readGrid(t), "CoordinateMesh", 1, 0)
	require.NoError(t, err)

	x, err := CoordinateField(m, 2)
	require.NoError(t, err)
	assert.Equal(t, "Coordinate", x.Name)
	assert.Equal(t, []float64{0, 0, 1, 0, 0, 1, 1, 1}, x.Val)
	assert.NoError(t, x.Validate())

	_, err = CoordinateField(m, 4)
	assert.Error(t, err)
}

func TestStateLookup(t *testing.T) {
	s := NewState()
	m := &Mesh{Name: "m", NodeCount: 1}
	s.AddMesh(m)
	s.AddScalarField(NewScalarField("Pressure", []float64{0}, 0, "", 1, m))
	s.AddVectorField(NewVectorField("Velocity", []float64{0, 0}, 0, "", 2, 2, m))
	s.AddTensorField(NewTensorField("Viscosity", make([]float64, 4), 0, "", 2, 2, 3, m))

	got, err := s.Mesh("m")
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = s.Mesh("missing")
	assert.True(t, errors.Is(err, ErrUnknownMesh))
	_, err = s.ScalarField("Velocity")
	assert.True(t, errors.Is(err, ErrUnknownField))

	_, err = s.VectorField("Velocity")
	assert.NoError(t, err)
	_, err = s.TensorField("Viscosity")
	assert.NoError(t, err)

	assert.Equal(t, []string{"Pressure", "Velocity", "Viscosity"}, s.FieldNames())
}
