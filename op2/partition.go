package op2

import (
	"fmt"
	"math"
	"slices"

	"github.com/james-bowman/sparse"
	metis "github.com/notargets/go-metis"
	"go.uber.org/zap"
)

type PartitionConfig struct {
	NumPartitions   int32
	ImbalanceFactor float32 // e.g. 1.05 for 5% imbalance
	Objective       string  // "cut", "vol" or "block"
	// NCommon is the number of shared targets that makes two members
	// neighbours in the dual graph, e.g. 2 for faces of triangles
	NCommon int
	Logger  *zap.Logger
}

func DefaultPartitionConfig(nparts int32) PartitionConfig {
	return PartitionConfig{
		NumPartitions:   nparts,
		ImbalanceFactor: 1.05,
		Objective:       "vol",
		NCommon:         1,
	}
}

// Partition assigns every member of Set to one of NumPartitions parts
type Partition struct {
	Set           *Set
	NumPartitions int
	EToP          []int   // member -> part
	Parts         [][]int // part -> members, ascending
	CutEdges      int
}

// Imbalance is max part size over mean part size, minus one
func (p *Partition) Imbalance() float64 {
	if p.Set.Size == 0 {
		return 0
	}
	largest := 0
	for _, members := range p.Parts {
		if len(members) > largest {
			largest = len(members)
		}
	}
	mean := float64(p.Set.Size) / float64(p.NumPartitions)
	return float64(largest)/mean - 1
}

// DualGraph returns the CSR adjacency of the iteration set of m: members i
// and j are adjacent when their rows share at least ncommon targets. The
// result is in METIS form, with xadj of length From.Size+1.
func DualGraph(m *Map, ncommon int) (xadj, adjncy []int32) {
	if ncommon < 1 {
		ncommon = 1
	}
	a := m.Adjacency()
	var shared sparse.CSR
	shared.Mul(a, a.T())

	n := m.From.Size
	rows := make([][]int32, n)
	shared.DoNonZero(func(i, j int, v float64) {
		if i != j && int(math.Round(v)) >= ncommon {
			rows[i] = append(rows[i], int32(j))
		}
	})
	xadj = make([]int32, n+1)
	for i, row := range rows {
		slices.Sort(row)
		adjncy = append(adjncy, row...)
		xadj[i+1] = int32(len(adjncy))
	}
	return
}

// PartitionSet splits the iteration set of m into cfg.NumPartitions parts
// with METIS, using the dual graph of m
func PartitionSet(m *Map, cfg PartitionConfig) (*Partition, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	set := m.From
	nparts := int(cfg.NumPartitions)
	if nparts < 1 || nparts > set.Size {
		return nil, fmt.Errorf("%w: %d partitions requested for %s", ErrInvalidSet, nparts, set)
	}

	xadj, adjncy := DualGraph(m, cfg.NCommon)
	etop := make([]int, set.Size)
	switch {
	case nparts == 1:
	case cfg.Objective == "block":
		blocks, err := NewBlocks(set, nparts)
		if err != nil {
			return nil, err
		}
		for i := range etop {
			etop[i], _ = blocks.Local(i)
		}
	default:
		opts := make([]int32, metis.NoOptions)
		if err := metis.SetDefaultOptions(opts); err != nil {
			return nil, fmt.Errorf("failed to set METIS options: %w", err)
		}
		if cfg.Objective == "vol" {
			opts[metis.OptionObjType] = metis.ObjTypeVol
		} else {
			opts[metis.OptionObjType] = metis.ObjTypeCut
		}
		ubvec := []float32{cfg.ImbalanceFactor}
		if cfg.ImbalanceFactor <= 1 {
			ubvec = nil
		}
		part, objval, err := metis.PartGraphKwayWeighted(
			xadj, adjncy, nil, nil, cfg.NumPartitions, nil, ubvec, opts)
		if err != nil {
			return nil, fmt.Errorf("METIS partitioning of %s failed: %w", set.Name, err)
		}
		for i := range etop {
			etop[i] = int(part[i])
		}
		log.Debug("metis", zap.String("set", set.Name), zap.Int32("objval", objval))
	}

	p := &Partition{
		Set:           set,
		NumPartitions: nparts,
		EToP:          etop,
		Parts:         make([][]int, nparts),
	}
	for i, k := range etop {
		p.Parts[k] = append(p.Parts[k], i)
	}
	for i := 0; i < set.Size; i++ {
		for _, j := range adjncy[xadj[i]:xadj[i+1]] {
			if int(j) > i && etop[i] != etop[j] {
				p.CutEdges++
			}
		}
	}

	sizes := make([]int, nparts)
	for k, members := range p.Parts {
		sizes[k] = len(members)
	}
	log.Info("partition analysis",
		zap.String("set", set.Name),
		zap.Int("parts", nparts),
		zap.Ints("sizes", sizes),
		zap.Int("cutEdges", p.CutEdges),
		zap.Float64("imbalance", p.Imbalance()))
	return p, nil
}
