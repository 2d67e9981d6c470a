package op2

import (
	"fmt"
	"sort"
)

// Blocks splits the members of a set into contiguous ranges whose sizes
// differ by at most one
type Blocks struct {
	Set    *Set
	Ranges [][2]int // [begin, end) of each block
}

func NewBlocks(set *Set, nblocks int) (*Blocks, error) {
	if nblocks < 1 || nblocks > set.Size {
		return nil, fmt.Errorf("%w: %d blocks requested for %s", ErrInvalidSet, nblocks, set)
	}
	b := &Blocks{Set: set, Ranges: make([][2]int, nblocks)}
	var (
		n         = set.Size / nblocks
		remainder = set.Size % nblocks
	)
	for k := range b.Ranges {
		// the first remainder blocks take one extra member
		begin := k*n + min(k, remainder)
		end := begin + n
		if k < remainder {
			end++
		}
		b.Ranges[k] = [2]int{begin, end}
	}
	return b, nil
}

// Local returns the block holding member i and the index of i within it
func (b *Blocks) Local(i int) (block, local int) {
	block = sort.Search(len(b.Ranges), func(k int) bool { return b.Ranges[k][1] > i })
	if block == len(b.Ranges) || i < 0 {
		return -1, i
	}
	return block, i - b.Ranges[block][0]
}

// Global returns the set member at index local of block
func (b *Blocks) Global(block, local int) int {
	return b.Ranges[block][0] + local
}

func (b *Blocks) Len(block int) int {
	return b.Ranges[block][1] - b.Ranges[block][0]
}
