package mesh

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// gmshElementType22 maps Gmsh v2.2 element type numbers to linear ElementTypes.
// Higher order Gmsh elements are not listed, the adapter works with vertex
// connectivity only.
var gmshElementType22 = map[int]ElementType{
	1:  Line,     // 2-node line
	2:  Triangle, // 3-node triangle
	3:  Quad,     // 4-node quadrangle
	4:  Tet,      // 4-node tetrahedron
	5:  Hex,      // 8-node hexahedron
	6:  Prism,    // 6-node prism
	7:  Pyramid,  // 5-node pyramid
	15: Point,    // 1-node point
}

// ReadGmsh22 reads an ASCII Gmsh MSH file, format version 2.2
func ReadGmsh22(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	msh := NewMesh()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "$MeshFormat":
			if err := readMeshFormat22(scanner, msh); err != nil {
				return nil, err
			}

		case "$PhysicalNames":
			if err := readPhysicalNames(scanner, msh); err != nil {
				return nil, err
			}

		case "$Nodes":
			if err := readNodes22(scanner, msh); err != nil {
				return nil, err
			}

		case "$Elements":
			if err := readElements22(scanner, msh); err != nil {
				return nil, err
			}

		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				if err := skipSection(scanner, "$End"+line[1:]); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	msh.SeparateBoundaryElements()
	msh.BuildConnectivity()
	return msh, nil
}

func readMeshFormat22(scanner *bufio.Scanner, msh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}

	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	if !strings.HasPrefix(parts[0], "2.") {
		return fmt.Errorf("unsupported Gmsh format version: %s", parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported")
	}
	msh.FormatVersion = parts[0]

	return skipSection(scanner, "$EndMeshFormat")
}

func readPhysicalNames(scanner *bufio.Scanner, msh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in PhysicalNames")
	}

	numNames, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid PhysicalNames count: %w", err)
	}

	for i := 0; i < numNames; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading physical names")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			continue
		}
		ids, err := parseInts(parts[:2])
		if err != nil {
			return fmt.Errorf("invalid physical name line %q: %w", scanner.Text(), err)
		}
		dimension, tag := ids[0], ids[1]
		name := strings.Trim(strings.Join(parts[2:], " "), "\"")

		msh.ElementGroups[tag] = &ElementGroup{
			Dimension: dimension,
			Tag:       tag,
			Name:      name,
			Elements:  []int{},
		}
	}

	return skipSection(scanner, "$EndPhysicalNames")
}

func readNodes22(scanner *bufio.Scanner, msh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}

	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid node count: %w", err)
	}
	msh.Vertices = make([][]float64, 0, numNodes)

	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading nodes")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("invalid node line: %s", scanner.Text())
		}

		nodeID, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("invalid node id %q: %w", parts[0], err)
		}
		xyz := make([]float64, 3)
		for j := range xyz {
			if xyz[j], err = strconv.ParseFloat(parts[1+j], 64); err != nil {
				return fmt.Errorf("node %d: %w", nodeID, err)
			}
		}
		msh.AddNode(nodeID, xyz)
	}

	return skipSection(scanner, "$EndNodes")
}

func readElements22(scanner *bufio.Scanner, msh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}

	numElements, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid element count: %w", err)
	}

	for i := 0; i < numElements; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading elements")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return fmt.Errorf("invalid element line: %s", scanner.Text())
		}

		header, err := parseInts(parts[:3])
		if err != nil {
			return fmt.Errorf("invalid element line %q: %w", scanner.Text(), err)
		}
		elemID, gmshType, numTags := header[0], header[1], header[2]
		if numTags < 0 || len(parts) < 3+numTags {
			return fmt.Errorf("element %d: invalid element tags", elemID)
		}

		tags, err := parseInts(parts[3 : 3+numTags])
		if err != nil {
			return fmt.Errorf("element %d tags: %w", elemID, err)
		}

		etype, ok := gmshElementType22[gmshType]
		if !ok {
			return fmt.Errorf("element %d: unsupported Gmsh element type %d", elemID, gmshType)
		}

		nodeStart := 3 + numTags
		expectedNodes := etype.GetNumNodes()
		if len(parts) < nodeStart+expectedNodes {
			return fmt.Errorf("element %d: expected %d nodes, got %d",
				elemID, expectedNodes, len(parts)-nodeStart)
		}

		nodeIDs, err := parseInts(parts[nodeStart : nodeStart+expectedNodes])
		if err != nil {
			return fmt.Errorf("element %d nodes: %w", elemID, err)
		}

		if err := msh.AddElement(elemID, etype, tags, nodeIDs); err != nil {
			return err
		}
	}

	return skipSection(scanner, "$EndElements")
}

// parseInts converts every field, failing on the first that is not an integer
func parseInts(fields []string) ([]int, error) {
	ints := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		ints[i] = v
	}
	return ints, nil
}

func skipSection(scanner *bufio.Scanner, endTag string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endTag {
			return nil
		}
	}
	return fmt.Errorf("missing %s", endTag)
}
