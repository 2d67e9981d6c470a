package ufl

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFamily = errors.New("unknown element family")
	ErrInvalidDegree = errors.New("invalid element degree")
)

// ElementKind tells scalar, vector and tensor valued elements apart
type ElementKind uint8

const (
	Finite ElementKind = iota
	Vector
	Tensor
)

func (k ElementKind) String() string {
	names := []string{"FiniteElement", "VectorElement", "TensorElement"}
	if int(k) < len(names) {
		return names[k]
	}
	return "Invalid"
}

const (
	Lagrange              = "Lagrange"
	DiscontinuousLagrange = "Discontinuous Lagrange"
)

// minDegree holds the lowest polynomial degree of each known family
var minDegree = map[string]int{
	Lagrange:              1,
	DiscontinuousLagrange: 0,
}

// Element is a finite element: a family of basis functions of a given
// degree on a reference cell, with a value shape
type Element interface {
	Family() string
	Cell() Cell
	Degree() int
	ValueShape() []int
	Kind() ElementKind
	String() string
}

type FiniteElement struct {
	family string
	cell   Cell
	degree int
}

// NewFiniteElement creates a scalar valued element
func NewFiniteElement(family string, cell Cell, degree int) (*FiniteElement, error) {
	lowest, ok := minDegree[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	if degree < lowest {
		return nil, fmt.Errorf("%w: %s needs degree >= %d, got %d",
			ErrInvalidDegree, family, lowest, degree)
	}
	return &FiniteElement{family: family, cell: cell, degree: degree}, nil
}

func (e *FiniteElement) Family() string    { return e.family }
func (e *FiniteElement) Cell() Cell        { return e.cell }
func (e *FiniteElement) Degree() int       { return e.degree }
func (e *FiniteElement) ValueShape() []int { return []int{} }
func (e *FiniteElement) Kind() ElementKind { return Finite }

func (e *FiniteElement) String() string {
	return fmt.Sprintf("FiniteElement(%q, %s, %d)", e.family, e.cell, e.degree)
}

// VectorElement repeats a scalar element Dim times
type VectorElement struct {
	FiniteElement
	dim int
}

// NewVectorElement creates a vector valued element. A dim of 0 selects the
// geometric dimension of the cell.
func NewVectorElement(family string, cell Cell, degree, dim int) (*VectorElement, error) {
	sub, err := NewFiniteElement(family, cell, degree)
	if err != nil {
		return nil, err
	}
	if dim == 0 {
		dim = cell.GeometricDimension
	}
	if dim < 0 {
		return nil, fmt.Errorf("vector element dimension must be positive, got %d", dim)
	}
	return &VectorElement{FiniteElement: *sub, dim: dim}, nil
}

func (e *VectorElement) ValueShape() []int { return []int{e.dim} }
func (e *VectorElement) Kind() ElementKind { return Vector }

// SubElement returns the scalar element repeated by e
func (e *VectorElement) SubElement() *FiniteElement { return &e.FiniteElement }

func (e *VectorElement) String() string {
	return fmt.Sprintf("VectorElement(%q, %s, %d, dim=%d)", e.family, e.cell, e.degree, e.dim)
}

// TensorElement repeats a scalar element over a rank 2 shape
type TensorElement struct {
	FiniteElement
	shape [2]int
}

// NewTensorElement creates a tensor valued element. A zero shape selects
// (d, d) with d the geometric dimension of the cell.
func NewTensorElement(family string, cell Cell, degree int, shape [2]int) (*TensorElement, error) {
	sub, err := NewFiniteElement(family, cell, degree)
	if err != nil {
		return nil, err
	}
	if shape == [2]int{} {
		d := cell.GeometricDimension
		shape = [2]int{d, d}
	}
	if shape[0] <= 0 || shape[1] <= 0 {
		return nil, fmt.Errorf("tensor element shape must be positive, got %v", shape)
	}
	return &TensorElement{FiniteElement: *sub, shape: shape}, nil
}

func (e *TensorElement) ValueShape() []int { return []int{e.shape[0], e.shape[1]} }
func (e *TensorElement) Kind() ElementKind { return Tensor }

func (e *TensorElement) SubElement() *FiniteElement { return &e.FiniteElement }

func (e *TensorElement) String() string {
	return fmt.Sprintf("TensorElement(%q, %s, %d, shape=%v)", e.family, e.cell, e.degree, e.shape)
}

// NewElement creates an element of the given kind with the default value shape
func NewElement(kind ElementKind, family string, cell Cell, degree int) (e Element, err error) {
	switch kind {
	case Finite:
		var fe *FiniteElement
		if fe, err = NewFiniteElement(family, cell, degree); err == nil {
			e = fe
		}
	case Vector:
		var ve *VectorElement
		if ve, err = NewVectorElement(family, cell, degree, 0); err == nil {
			e = ve
		}
	case Tensor:
		var te *TensorElement
		if te, err = NewTensorElement(family, cell, degree, [2]int{}); err == nil {
			e = te
		}
	default:
		err = fmt.Errorf("unknown element kind %d", kind)
	}
	return
}
