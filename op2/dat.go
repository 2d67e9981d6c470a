package op2

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dat holds Cdim values for every member of a set, member major
type Dat struct {
	Set      *Set
	Dim      []int
	Data     []float64
	DataType DataType
	Name     string
}

// NewDat creates a Dat over set with per member shape dim. A nil data slice
// allocates zeros; otherwise data must hold set.Size*Cdim values and is used
// without copying.
func NewDat(set *Set, dim []int, data []float64, dtype DataType, name string) (*Dat, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: %s has no set", ErrInvalidDat, name)
	}
	if len(dim) == 0 {
		dim = []int{1}
	}
	cdim := 1
	for _, d := range dim {
		if d <= 0 {
			return nil, fmt.Errorf("%w: %s has shape %v", ErrInvalidDat, name, dim)
		}
		cdim *= d
	}
	if !dtype.IsReal() {
		return nil, fmt.Errorf("%w: %s has non real type %s", ErrInvalidDat, name, dtype)
	}
	if data == nil {
		data = make([]float64, set.Size*cdim)
	}
	if len(data) != set.Size*cdim {
		return nil, fmt.Errorf("%w: %s has %d values, want %d (%d x %d)",
			ErrInvalidDat, name, len(data), set.Size*cdim, set.Size, cdim)
	}
	return &Dat{Set: set, Dim: dim, Data: data, DataType: dtype, Name: name}, nil
}

// Cdim is the number of values per set member
func (d *Dat) Cdim() int {
	cdim := 1
	for _, n := range d.Dim {
		cdim *= n
	}
	return cdim
}

// Matrix returns a Size x Cdim view of the data. The view shares storage
// with d.Data.
func (d *Dat) Matrix() (*mat.Dense, error) {
	if d.Set.Size == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidDat, d.Name)
	}
	return mat.NewDense(d.Set.Size, d.Cdim(), d.Data), nil
}

// Zero sets every value to 0
func (d *Dat) Zero() {
	for i := range d.Data {
		d.Data[i] = 0
	}
}

// Bytes is the device footprint of the dat
func (d *Dat) Bytes() int64 {
	return int64(len(d.Data)) * d.DataType.Size()
}

func (d *Dat) String() string {
	return fmt.Sprintf("Dat(%s, %v, %s, %q)", d.Set.Name, d.Dim, d.DataType, d.Name)
}
