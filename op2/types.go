// Package op2 provides the index sets, connectivity maps and data buffers of
// a parallel execution layer, together with their device staging.
package op2

import "errors"

var (
	ErrInvalidSet  = errors.New("invalid set")
	ErrInvalidMap  = errors.New("invalid map")
	ErrInvalidDat  = errors.New("invalid dat")
	ErrNotUploaded = errors.New("not uploaded")
	ErrFreed       = errors.New("runtime freed")
)

// DataType represents the precision of Dat values on the device. Host
// storage is always float64.
type DataType int

const (
	Float64 DataType = iota
	Float32
	Int32
	Int64
)

func (dt DataType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// Size returns the size in bytes of a value of type dt
func (dt DataType) Size() int64 {
	switch dt {
	case Float32, Int32:
		return 4
	default:
		return 8
	}
}

// IsReal reports whether dt is a floating point type
func (dt DataType) IsReal() bool { return dt == Float32 || dt == Float64 }
