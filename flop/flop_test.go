package flop

import (
	"errors"
	"sync"
	"testing"

	"github.com/notargets/flop/op2"
	"github.com/notargets/flop/state"
	"github.com/notargets/flop/ufl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func shape(dim, loc int) state.ElementShape {
	return state.ElementShape{
		Type:       state.LagrangianType,
		Dimension:  dim,
		Loc:        loc,
		Degree:     1,
		Quadrature: state.Quadrature{Dimension: dim, Degree: 2, Loc: loc},
	}
}

// twoTriangleMesh is the unit square split along its diagonal
func twoTriangleMesh(continuity int) *Mesh {
	return NewMesh(&state.Mesh{
		Name:         "square",
		ElementCount: 2,
		NodeCount:    4,
		Shape:        shape(2, 3),
		Ndglno:       []int32{1, 2, 3, 2, 4, 3},
		Continuity:   continuity,
	})
}

func TestUFLCell(t *testing.T) {
	supported := []struct {
		dim, loc int
		cell     string
	}{
		{1, 1, "vertex"},
		{1, 2, "interval"},
		{2, 3, "triangle"},
		{2, 4, "quadrilateral"},
		{3, 4, "tetrahedron"},
		{3, 6, "hexahedron"},
	}
	for _, tt := range supported {
		t.Run(tt.cell, func(t *testing.T) {
			c, err := UFLCell(shape(tt.dim, tt.loc))
			require.NoError(t, err)
			assert.Equal(t, tt.cell, c.Name)
		})
	}

	for _, pair := range [][2]int{{0, 1}, {1, 3}, {2, 2}, {2, 6}, {3, 8}, {4, 4}} {
		_, err := UFLCell(shape(pair[0], pair[1]))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedCell))
	}
	_, err := UFLCell(shape(3, 8))
	assert.Contains(t, err.Error(), "Elements of dimension 3 and loc 8 are not supported")
}

func TestUFLCellUsesQuadratureLoc(t *testing.T) {
	// a quadratic triangle has 6 nodes, its cell still has 3 vertices
	s := shape(2, 3)
	s.Loc, s.Degree = 6, 2
	c, err := UFLCell(s)
	require.NoError(t, err)
	assert.Equal(t, "triangle", c.Name)
}

func TestUFLFamily(t *testing.T) {
	for continuity, family := range map[int]string{
		0:  "Lagrange",
		1:  "Lagrange",
		-1: "Discontinuous Lagrange",
	} {
		m := twoTriangleMesh(continuity)
		f := state.NewScalarField("p", make([]float64, 4), 0, "/p", 1, m.Mesh)
		got, err := UFLFamily(f)
		require.NoError(t, err)
		assert.Equal(t, family, got)
	}

	m := twoTriangleMesh(0)
	m.Shape.Type = "bubble"
	f := state.NewScalarField("p", make([]float64, 4), 0, "/p", 1, m.Mesh)
	_, err := UFLFamily(f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFamily))
	assert.Contains(t, err.Error(), "Elements of type bubble are not supported")
}

func TestUFLElement(t *testing.T) {
	m := twoTriangleMesh(-1)
	p := state.NewScalarField("p", make([]float64, 4), 0, "", 1, m.Mesh)
	u := state.NewVectorField("u", make([]float64, 8), 0, "", 2, 2, m.Mesh)
	tau := state.NewTensorField("tau", make([]float64, 16), 0, "", 2, 2, 3, m.Mesh)

	for _, tt := range []struct {
		field HostField
		kind  ufl.ElementKind
		shape []int
	}{
		{p, ufl.Finite, []int{}},
		{u, ufl.Vector, []int{2}},
		{tau, ufl.Tensor, []int{2, 2}},
	} {
		e, err := UFLElement(tt.field)
		require.NoError(t, err)
		assert.Equal(t, tt.kind, e.Kind())
		assert.Equal(t, tt.shape, e.ValueShape())
		assert.Equal(t, ufl.DiscontinuousLagrange, e.Family())
		assert.Equal(t, "triangle", e.Cell().Name)
		assert.Equal(t, 1, e.Degree())
	}

	m.Shape = shape(2, 5)
	_, err := UFLElement(p)
	assert.True(t, errors.Is(err, ErrUnsupportedCell))
}

func TestMeshCaching(t *testing.T) {
	m := twoTriangleMesh(0)

	es, err := m.ElementSet()
	require.NoError(t, err)
	assert.Equal(t, "square_elements", es.Name)
	assert.Equal(t, 2, es.Size)
	es2, err := m.ElementSet()
	require.NoError(t, err)
	assert.Same(t, es, es2)

	ns, err := m.NodeSet()
	require.NoError(t, err)
	assert.Equal(t, "square_nodes", ns.Name)
	assert.Equal(t, 4, ns.Size)

	em, err := m.ElementNodeMap()
	require.NoError(t, err)
	assert.Equal(t, "square_elem_node", em.Name)
	assert.Equal(t, 3, em.Arity)
	assert.Equal(t, []int32{0, 1, 2, 1, 3, 2}, em.Values)
	assert.Same(t, es, em.From)
	assert.Same(t, ns, em.To)
	// the host numbering stays 1-based
	assert.Equal(t, []int32{1, 2, 3, 2, 4, 3}, m.Ndglno)

	em2, err := m.ElementNodeMap()
	require.NoError(t, err)
	assert.Same(t, em, em2)
}

func TestMeshInvalidNumbering(t *testing.T) {
	m := twoTriangleMesh(0)
	m.Ndglno = []int32{1, 2, 3, 2, 5, 3}
	_, err := m.ElementNodeMap()
	assert.True(t, errors.Is(err, op2.ErrInvalidMap))
	// the failure is cached too
	_, err2 := m.ElementNodeMap()
	assert.Equal(t, err, err2)
}

func TestScalarField(t *testing.T) {
	m := twoTriangleMesh(0)
	val := []float64{1, 2, 3, 4}
	p, err := NewScalarField("p", val, 0, "/material_phase::fluid/scalar_field::p", 7, m, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, p.ValueShape())
	assert.Equal(t, 0, p.Rank())
	assert.Equal(t, ufl.Finite, p.Element().Kind())

	es, err := p.ElementSet()
	require.NoError(t, err)
	mes, err := m.ElementSet()
	require.NoError(t, err)
	assert.Same(t, mes, es)

	ns, err := p.NodeSet()
	require.NoError(t, err)
	assert.Equal(t, "p_nodes", ns.Name)
	assert.Equal(t, 4, ns.Size)
	mns, err := m.NodeSet()
	require.NoError(t, err)
	assert.NotSame(t, mns, ns)

	d, err := p.Dat()
	require.NoError(t, err)
	assert.Equal(t, "p", d.Name)
	assert.Equal(t, op2.Float64, d.DataType)
	assert.Equal(t, []int{1}, d.Dim)
	assert.Same(t, ns, d.Set)
	d.Data[0] = 10
	assert.Equal(t, 10.0, val[0])

	em, err := p.ElementNodeMap()
	require.NoError(t, err)
	assert.Equal(t, "p_elem_node", em.Name)
	assert.Same(t, mes, em.From)
	assert.Same(t, ns, em.To)
	assert.Equal(t, []int32{0, 1, 2, 1, 3, 2}, em.Values)
}

func TestFieldMemoization(t *testing.T) {
	m := twoTriangleMesh(0)
	u, err := NewVectorField("u", make([]float64, 8), 0, "", 2, 1, m, nil, nil)
	require.NoError(t, err)

	ns1, err := u.NodeSet()
	require.NoError(t, err)
	ns2, err := u.NodeSet()
	require.NoError(t, err)
	assert.Same(t, ns1, ns2)

	d1, err := u.Dat()
	require.NoError(t, err)
	d2, err := u.Dat()
	require.NoError(t, err)
	assert.Same(t, d1, d2)

	m1, err := u.ElementNodeMap()
	require.NoError(t, err)
	m2, err := u.ElementNodeMap()
	require.NoError(t, err)
	assert.Same(t, m1, m2)
}

func TestConcurrentMemoization(t *testing.T) {
	m := twoTriangleMesh(0)
	p, err := NewScalarField("p", make([]float64, 4), 0, "", 1, m, nil, nil)
	require.NoError(t, err)

	const workers = 16
	dats := make([]*op2.Dat, workers)
	maps := make([]*op2.Map, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dats[i], _ = p.Dat()
			maps[i], _ = m.ElementNodeMap()
		}(i)
	}
	wg.Wait()
	for i := 1; i < workers; i++ {
		assert.Same(t, dats[0], dats[i])
		assert.Same(t, maps[0], maps[i])
	}
}

func TestValueShapes(t *testing.T) {
	m := twoTriangleMesh(0)
	u, err := NewVectorField("u", make([]float64, 8), 0, "", 2, 1, m, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, u.ValueShape())

	tau, err := NewTensorField("tau", make([]float64, 16), 0, "", 2, 2, 2, m, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, tau.ValueShape())
	d, err := tau.Dat()
	require.NoError(t, err)
	assert.Equal(t, 4, d.Cdim())
}

func TestTemporaryDat(t *testing.T) {
	m := twoTriangleMesh(0)
	u, err := NewVectorField("u", []float64{1, 2, 3, 4, 5, 6, 7, 8}, 0, "", 2, 1, m, nil, nil)
	require.NoError(t, err)

	tmp, err := u.TemporaryDat("du")
	require.NoError(t, err)
	assert.Equal(t, "du", tmp.Name)
	assert.Equal(t, []int{2}, tmp.Dim)
	assert.Equal(t, make([]float64, 8), tmp.Data)

	ns, err := u.NodeSet()
	require.NoError(t, err)
	assert.Same(t, ns, tmp.Set)

	again, err := u.TemporaryDat("du")
	require.NoError(t, err)
	assert.NotSame(t, tmp, again)
	d, err := u.Dat()
	require.NoError(t, err)
	assert.NotSame(t, d, tmp)
}

func TestReconstruct(t *testing.T) {
	m := twoTriangleMesh(0)
	val := make([]float64, 8)
	u, err := NewVectorField("u", val, 3, "/u", 2, 9, m, nil, nil)
	require.NoError(t, err)

	dg, err := ufl.NewVectorElement(ufl.DiscontinuousLagrange, u.Element().Cell(), 1, 0)
	require.NoError(t, err)
	n := 11
	r, err := u.Reconstruct(dg, &n)
	require.NoError(t, err)

	assert.Equal(t, 11, r.Count())
	assert.Same(t, dg, r.Element().(*ufl.VectorElement))
	assert.Equal(t, "u", r.Name)
	assert.Equal(t, 3, r.FieldType)
	assert.Equal(t, "/u", r.OptionPath)
	assert.Equal(t, 2, r.Dimension)
	assert.Equal(t, 9, r.UID)
	assert.Same(t, m, r.AdaptedMesh())
	assert.Same(t, &val[0], &r.Val[0])

	p, err := NewScalarField("p", make([]float64, 4), 0, "", 1, m, nil, nil)
	require.NoError(t, err)
	rp, err := p.Reconstruct(p.Element(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, p.Count(), rp.Count())

	tau, err := NewTensorField("tau", make([]float64, 16), 0, "", 2, 2, 2, m, nil, nil)
	require.NoError(t, err)
	rtau, err := tau.Reconstruct(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 2}, rtau.Dimension)
}

func TestFieldErrors(t *testing.T) {
	m := twoTriangleMesh(0)

	_, err := NewScalarField("p", make([]float64, 4), 0, "", 1, nil, nil, nil)
	assert.Error(t, err)

	ve, err := ufl.NewVectorElement(ufl.Lagrange, ufl.Cell{Name: "triangle", GeometricDimension: 2}, 1, 0)
	require.NoError(t, err)
	_, err = NewScalarField("p", make([]float64, 4), 0, "", 1, m, ve, nil)
	assert.Error(t, err)

	m.Shape.Type = "bubble"
	_, err = NewScalarField("p", make([]float64, 4), 0, "", 1, m, nil, nil)
	assert.True(t, errors.Is(err, ErrUnsupportedFamily))

	other := twoTriangleMesh(0)
	host := state.NewScalarField("p", make([]float64, 4), 0, "", 1, other.Mesh)
	_, err = AdaptScalarField(host, twoTriangleMesh(0), nil, nil)
	assert.Error(t, err)
}

func TestFieldDict(t *testing.T) {
	m := twoTriangleMesh(0)
	p, err := NewScalarField("p", make([]float64, 4), 0, "", 1, m, nil, nil)
	require.NoError(t, err)
	u, err := NewVectorField("u", make([]float64, 8), 0, "", 2, 2, m, nil, nil)
	require.NoError(t, err)

	d := FieldDict{}
	require.NoError(t, d.Add(u))
	require.NoError(t, d.Add(p))
	assert.Equal(t, []string{"p", "u"}, d.Names())

	// a second field called p does not replace the first
	other, err := NewVectorField("p", make([]float64, 8), 0, "", 2, 3, m, nil, nil)
	require.NoError(t, err)
	err = d.Add(other)
	assert.True(t, errors.Is(err, ErrDuplicateField))
	got, err := d.Get("p")
	require.NoError(t, err)
	assert.Same(t, p.Base(), got.Base())

	got, err = d.Get("u")
	require.NoError(t, err)
	assert.Same(t, u.Base(), got.Base())

	_, err = d.Get("T")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestAdaptState(t *testing.T) {
	s := state.NewState()
	host := twoTriangleMesh(0).Mesh
	s.AddMesh(host)
	s.AddScalarField(state.NewScalarField("p", make([]float64, 4), 0, "", 1, host))
	s.AddVectorField(state.NewVectorField("u", make([]float64, 8), 0, "", 2, 2, host))
	s.AddTensorField(state.NewTensorField("tau", make([]float64, 16), 0, "", 2, 2, 3, host))

	meshes, fields, err := AdaptState(s)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, []string{"p", "tau", "u"}, fields.Names())

	p, err := fields.Get("p")
	require.NoError(t, err)
	tau, err := fields.Get("tau")
	require.NoError(t, err)
	assert.Same(t, p.Base().AdaptedMesh(), tau.Base().AdaptedMesh())
	assert.Equal(t, state.TensorFieldDescription, tau.Description())

	stray := state.NewState()
	stray.AddScalarField(state.NewScalarField("q", make([]float64, 4), 0, "", 1, host))
	_, _, err = AdaptState(stray)
	assert.True(t, errors.Is(err, state.ErrUnknownMesh))
}

func TestAdaptStateNameCollision(t *testing.T) {
	s := state.NewState()
	host := twoTriangleMesh(0).Mesh
	s.AddMesh(host)
	s.AddScalarField(state.NewScalarField("Coordinate", make([]float64, 4), 0, "", 1, host))
	s.AddVectorField(state.NewVectorField("Coordinate", make([]float64, 8), 0, "", 2, 0, host))

	_, _, err := AdaptState(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateField))
	assert.Contains(t, err.Error(), "Coordinate")
}

func TestInit(t *testing.T) {
	rt1, err := Init(op2.Config{})
	require.NoError(t, err)
	rt2, err := Init(op2.Config{DeviceProperties: `{"mode": "bogus"}`})
	require.NoError(t, err)
	assert.Same(t, rt1, rt2)
	assert.Same(t, rt1, Runtime())

	m := twoTriangleMesh(0)
	p, err := NewScalarField("p", []float64{1, 2, 3, 4}, 0, "", 1, m, nil, nil)
	require.NoError(t, err)
	d, err := p.Dat()
	require.NoError(t, err)
	require.NoError(t, d.Upload(rt1))
	d.Zero()
	require.NoError(t, d.Download(rt1))
	assert.Equal(t, []float64{1, 2, 3, 4}, d.Data)
}
