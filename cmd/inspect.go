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
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/flop/InputParameters"
	"github.com/notargets/flop/flop"
	"github.com/notargets/flop/mesh"
	"github.com/notargets/flop/op2"
)

const exampleInput = `
########################################
Title: "Test Case"
MeshName: Mesh
Continuity: 0 # -1 for discontinuous
Degree: 1
Fields:
  - Name: Pressure
    Kind: Scalar
  - Name: Velocity
    Kind: Vector
    Value: [1, 0]
########################################
`

type Inspect struct {
	MeshFile  string
	InputFile string
	Upload    bool
}

// InspectCmd represents the inspect command
var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Adapt the fields of a state and report their elements, sets, maps and dats",
	Long: `Reads a mesh (Gmsh 2.2 .msh or Gambit .neu) and a YAML state description,
builds every field of the state on the mesh and prints the form element and
op2 objects each field adapts to`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ins := &Inspect{}
		if ins.MeshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			return
		}
		if ins.InputFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			return
		}
		if ins.Upload, err = cmd.Flags().GetBool("upload"); err != nil {
			return
		}
		return RunInspect(cmd.OutOrStdout(), ins)
	},
}

func init() {
	rootCmd.AddCommand(InspectCmd)
	InspectCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in Gmsh 2.2 (.msh) or Gambit (.neu) format")
	InspectCmd.Flags().StringP("inputFile", "I", "", "YAML file describing the mesh and fields of the state")
	InspectCmd.Flags().BoolP("upload", "u", false, "copy every dat and map to the op2 device")
}

func readInputs(meshFile, inputFile string) (grid *mesh.Mesh, sp *InputParameters.StateParameters, err error) {
	if len(meshFile) == 0 {
		return nil, nil, fmt.Errorf("must supply a mesh file (-F, --meshFile) in .msh or .neu format")
	}
	if grid, err = mesh.ReadMeshFile(meshFile); err != nil {
		return
	}
	grid.LogStatistics(logger)
	if len(inputFile) == 0 {
		sp = &InputParameters.StateParameters{}
		err = sp.Parse(nil)
		return
	}
	sp, err = InputParameters.ReadFile(inputFile)
	return
}

func RunInspect(w io.Writer, ins *Inspect) error {
	if len(ins.InputFile) == 0 {
		fmt.Fprintf(os.Stderr, "no input file given (-I, --inputFile), adapting the coordinates only. Example File:%s\n",
			exampleInput)
	}
	grid, sp, err := readInputs(ins.MeshFile, ins.InputFile)
	if err != nil {
		return err
	}
	sp.Fprint(w)

	st, err := sp.BuildState(grid)
	if err != nil {
		return err
	}
	meshes, fields, err := flop.AdaptState(st)
	if err != nil {
		return err
	}
	for _, m := range meshes {
		es, err := m.ElementSet()
		if err != nil {
			return err
		}
		em, err := m.ElementNodeMap()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n\t%s\n\t%s\n", m.Name, es, em)
	}

	var rt *op2.Runtime
	if ins.Upload {
		if rt, err = flop.Init(op2.Config{DeviceProperties: sp.Device, Logger: logger}); err != nil {
			return err
		}
	}
	for _, name := range fields.Names() {
		f, _ := fields.Get(name)
		c := f.Base()
		dat, err := c.Dat()
		if err != nil {
			return err
		}
		em, err := c.ElementNodeMap()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (%s)\n\t%s\n\t%s = %s\n\t%s\n\t%s\n",
			name, f.Description(), c.Element(), c, dat.Set, dat, em)
		if rt != nil {
			if err = dat.Upload(rt); err != nil {
				return err
			}
			if err = em.Upload(rt); err != nil {
				return err
			}
		}
		logger.Debug("adapted field",
			zap.String("field", name),
			zap.Int("count", c.Count()),
			zap.Ints("valueShape", c.ValueShape()))
	}
	if rt != nil {
		fmt.Fprintf(w, "%d bytes on %s device\n", rt.Allocated(), rt.Mode())
	}
	return nil
}
