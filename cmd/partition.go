/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notargets/flop/flop"
	"github.com/notargets/flop/op2"
	"github.com/notargets/flop/state"
)

type Partition struct {
	MeshFile        string
	InputFile       string
	NumPartitions   int
	Objective       string
	ImbalanceFactor float64
}

// PartitionCmd represents the partition command
var PartitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Partition the element set of a mesh",
	Long: `Builds the element set and element-node map of a mesh and splits the
element set into parts over the element dual graph, reporting part sizes,
cut edges and load imbalance`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		p := &Partition{}
		if p.MeshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			return
		}
		if p.InputFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			return
		}
		if p.NumPartitions, err = cmd.Flags().GetInt("parts"); err != nil {
			return
		}
		if p.Objective, err = cmd.Flags().GetString("objective"); err != nil {
			return
		}
		if p.ImbalanceFactor, err = cmd.Flags().GetFloat64("imbalance"); err != nil {
			return
		}
		return RunPartition(cmd.OutOrStdout(), p)
	},
}

func init() {
	rootCmd.AddCommand(PartitionCmd)
	PartitionCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in Gmsh 2.2 (.msh) or Gambit (.neu) format")
	PartitionCmd.Flags().StringP("inputFile", "I", "", "YAML state description, its Partitions is used when -n is not given")
	PartitionCmd.Flags().IntP("parts", "n", 0, "number of partitions")
	PartitionCmd.Flags().StringP("objective", "o", "vol", "METIS objective, cut or vol, or block for contiguous ranges")
	PartitionCmd.Flags().Float64P("imbalance", "b", 1.05, "allowed load imbalance, e.g. 1.05 for 5%")
}

func RunPartition(w io.Writer, p *Partition) error {
	grid, sp, err := readInputs(p.MeshFile, p.InputFile)
	if err != nil {
		return err
	}
	nparts := p.NumPartitions
	if nparts == 0 {
		nparts = sp.Partitions
	}

	// discontinuous nodes are never shared, so the graph comes from the
	// continuous numbering
	hm, err := state.MeshFromGrid(grid, sp.MeshName, sp.Degree, 0)
	if err != nil {
		return err
	}
	m := flop.NewMesh(hm)
	em, err := m.ElementNodeMap()
	if err != nil {
		return err
	}

	cfg := op2.DefaultPartitionConfig(int32(nparts))
	cfg.Objective = p.Objective
	cfg.ImbalanceFactor = float32(p.ImbalanceFactor)
	// neighbours share a facet, which has as many vertices as the mesh dimension
	cfg.NCommon = hm.Shape.Dimension
	cfg.Logger = logger
	part, err := op2.PartitionSet(em, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s into %d parts\n", em.From, part.NumPartitions)
	for k, members := range part.Parts {
		fmt.Fprintf(w, "  Partition %d: %d elements\n", k, len(members))
	}
	fmt.Fprintf(w, "  Cut edges: %d\n", part.CutEdges)
	fmt.Fprintf(w, "  Load imbalance: %.2f%%\n", part.Imbalance()*100)
	return nil
}
