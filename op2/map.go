package op2

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

// Map relates every member of From to Arity members of To. Values is stored
// row by row: the targets of From member i are Values[i*Arity:(i+1)*Arity].
type Map struct {
	From   *Set
	To     *Set
	Arity  int
	Values []int32
	Name   string
}

// NewMap creates a map after checking its values against both sets.
// Values are 0-based.
func NewMap(from, to *Set, arity int, values []int32, name string) (*Map, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: %s needs both an iteration and a target set", ErrInvalidMap, name)
	}
	if arity <= 0 {
		return nil, fmt.Errorf("%w: %s has arity %d", ErrInvalidMap, name, arity)
	}
	if want := from.Size * arity; len(values) != want {
		return nil, fmt.Errorf("%w: %s has %d values, want %d (%d x %d)",
			ErrInvalidMap, name, len(values), want, from.Size, arity)
	}
	for i, v := range values {
		if v < 0 || int(v) >= to.Size {
			return nil, fmt.Errorf("%w: %s value %d at %d outside %s",
				ErrInvalidMap, name, v, i, to)
		}
	}
	return &Map{From: from, To: to, Arity: arity, Values: values, Name: name}, nil
}

// Row returns the targets of member i of From
func (m *Map) Row(i int) []int32 {
	return m.Values[i*m.Arity : (i+1)*m.Arity]
}

// Adjacency returns the From x To incidence matrix of the map, with a 1 at
// (i, j) whenever j is a target of i
func (m *Map) Adjacency() *sparse.CSR {
	dok := sparse.NewDOK(m.From.Size, m.To.Size)
	for i := 0; i < m.From.Size; i++ {
		for _, j := range m.Row(i) {
			dok.Set(i, int(j), 1)
		}
	}
	return dok.ToCSR()
}

func (m *Map) String() string {
	return fmt.Sprintf("Map(%s -> %s, arity %d, %q)", m.From.Name, m.To.Name, m.Arity, m.Name)
}
