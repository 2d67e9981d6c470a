package ufl

import (
	"fmt"
	"sync/atomic"
)

// coefficientCounter hands out the identities of coefficients created
// without an explicit count
var coefficientCounter atomic.Int64

// Coefficient is a function in the space spanned by an element. Count
// identifies the coefficient within a form.
type Coefficient struct {
	element Element
	count   int
}

// NewCoefficient creates a coefficient on element e. A nil count allocates
// the next free count.
func NewCoefficient(e Element, count *int) *Coefficient {
	c := &Coefficient{element: e}
	if count != nil {
		c.count = *count
	} else {
		c.count = int(coefficientCounter.Add(1))
	}
	return c
}

func (c *Coefficient) Element() Element { return c.element }

func (c *Coefficient) Count() int { return c.count }

// Rank is the tensor rank of the coefficient's values
func (c *Coefficient) Rank() int { return len(c.element.ValueShape()) }

func (c *Coefficient) String() string {
	return fmt.Sprintf("w_%d", c.count)
}
