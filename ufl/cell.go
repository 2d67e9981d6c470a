// Package ufl provides the element and coefficient descriptions consumed by
// a finite element form compiler.
package ufl

import (
	"errors"
	"fmt"
)

var ErrUnknownCell = errors.New("unknown cell")

// Cell is a reference cell
type Cell struct {
	Name                 string
	TopologicalDimension int
	GeometricDimension   int
	NumVertices          int
}

var cells = map[string]Cell{
	"vertex":        {"vertex", 0, 1, 1},
	"interval":      {"interval", 1, 1, 2},
	"triangle":      {"triangle", 2, 2, 3},
	"quadrilateral": {"quadrilateral", 2, 2, 4},
	"tetrahedron":   {"tetrahedron", 3, 3, 4},
	"hexahedron":    {"hexahedron", 3, 3, 8},
}

// NewCell looks up a cell by name
func NewCell(name string) (Cell, error) {
	c, ok := cells[name]
	if !ok {
		return Cell{}, fmt.Errorf("%w: %q", ErrUnknownCell, name)
	}
	return c, nil
}

func (c Cell) String() string { return c.Name }
