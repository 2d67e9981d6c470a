package mesh

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// gambitElementType maps Gambit neutral file NTYPE codes to ElementTypes
var gambitElementType = map[int]ElementType{
	1: Line,     // Edge
	2: Quad,     // Quadrilateral
	3: Triangle, // Triangle
	4: Hex,      // Brick
	5: Prism,    // Wedge
	6: Tet,      // Tetrahedron
	7: Pyramid,  // Pyramid
}

// ReadGambitNeutral reads a Gambit neutral file (.neu). Node coordinates may
// carry two or three components, following NDFCD.
func ReadGambitNeutral(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	msh := NewMesh()
	scanner := bufio.NewScanner(file)

	var numnp, nelem int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM") {
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF after control header")
			}
			values := strings.Fields(scanner.Text())
			if len(values) < 2 {
				return nil, fmt.Errorf("invalid control info line: %s", scanner.Text())
			}
			counts, err := parseInts(values[:2])
			if err != nil {
				return nil, fmt.Errorf("invalid control info line %q: %w", scanner.Text(), err)
			}
			numnp, nelem = counts[0], counts[1]
			break
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "ENDOFSECTION":
			continue

		case strings.HasPrefix(line, "NODAL COORDINATES"):
			msh.Vertices = make([][]float64, 0, numnp)
			for i := 0; i < numnp; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid node line: %s", scanner.Text())
				}
				nodeID, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("invalid node id %q: %w", fields[0], err)
				}
				xyz := make([]float64, 3)
				for j := 1; j < len(fields) && j <= 3; j++ {
					if xyz[j-1], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("node %d: %w", nodeID, err)
					}
				}
				msh.AddNode(nodeID, xyz)
			}

		case strings.HasPrefix(line, "ELEMENTS/CELLS"):
			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid element line: %s", scanner.Text())
				}
				header, err := parseInts(fields[:3])
				if err != nil {
					return nil, fmt.Errorf("invalid element line %q: %w", scanner.Text(), err)
				}
				elemID, gambitType, numNodes := header[0], header[1], header[2]
				if numNodes < 0 {
					return nil, fmt.Errorf("element %d: invalid node count %d", elemID, numNodes)
				}

				etype, ok := gambitElementType[gambitType]
				if !ok {
					return nil, fmt.Errorf("element %d: unsupported Gambit element type %d",
						elemID, gambitType)
				}

				// Long connectivity lists continue on the following lines
				for len(fields) < 3+numNodes {
					if !scanner.Scan() {
						return nil, fmt.Errorf("unexpected EOF reading element %d", elemID)
					}
					fields = append(fields, strings.Fields(scanner.Text())...)
				}
				nodeIDs, err := parseInts(fields[3 : 3+numNodes])
				if err != nil {
					return nil, fmt.Errorf("element %d nodes: %w", elemID, err)
				}
				if err := msh.AddElement(elemID, etype, []int{0}, nodeIDs); err != nil {
					return nil, err
				}
			}

		case strings.HasPrefix(line, "ELEMENT GROUP"):
			if err := readGambitGroup(scanner, msh); err != nil {
				return nil, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if msh.NumElements != nelem {
		return nil, fmt.Errorf("expected %d elements, read %d", nelem, msh.NumElements)
	}

	msh.BuildConnectivity()
	return msh, nil
}

// readGambitGroup reads one ELEMENT GROUP section
func readGambitGroup(scanner *bufio.Scanner, msh *Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in element group")
	}
	var (
		groupID, numElems, nflags int
		parts                     = strings.Fields(scanner.Text())
	)
	for i := 0; i < len(parts)-1; i++ {
		var target *int
		switch parts[i] {
		case "GROUP:":
			target = &groupID
		case "ELEMENTS:":
			target = &numElems
		case "NFLAGS:":
			target = &nflags
		default:
			continue
		}
		v, err := strconv.Atoi(parts[i+1])
		if err != nil {
			return fmt.Errorf("invalid element group header %q: %w", scanner.Text(), err)
		}
		*target = v
	}

	// Entity name, then the solver flags line
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF reading group %d name", groupID)
	}
	group := &ElementGroup{
		Dimension: msh.GetMeshDimension(),
		Tag:       groupID,
		Name:      strings.TrimSpace(scanner.Text()),
		Elements:  make([]int, 0, numElems),
	}
	if nflags > 0 && !scanner.Scan() {
		return fmt.Errorf("unexpected EOF reading group %d flags", groupID)
	}
	msh.ElementGroups[groupID] = group

	for len(group.Elements) < numElems {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading group %d elements", groupID)
		}
		for _, field := range strings.Fields(scanner.Text()) {
			elemID, err := strconv.Atoi(field)
			if err != nil {
				return fmt.Errorf("group %d: invalid element id %q", groupID, field)
			}
			idx, ok := msh.ElementIDMap[elemID]
			if !ok {
				return fmt.Errorf("group %d: unknown element %d", groupID, elemID)
			}
			msh.ElementTags[idx] = []int{groupID}
			group.Elements = append(group.Elements, idx)
		}
	}
	return nil
}
