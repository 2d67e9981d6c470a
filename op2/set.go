package op2

import "fmt"

// Set is an indexed collection of entities, such as mesh elements or nodes
type Set struct {
	Size int
	Name string
}

func NewSet(size int, name string) (*Set, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: %s has negative size %d", ErrInvalidSet, name, size)
	}
	return &Set{Size: size, Name: name}, nil
}

func (s *Set) String() string {
	return fmt.Sprintf("Set(%d, %q)", s.Size, s.Name)
}
