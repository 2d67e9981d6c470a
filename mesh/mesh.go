package mesh

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Face represents a facet shared by one or two elements
type Face struct {
	Vertices []int // Sorted vertex indices
	Element  int   // Parent element
	LocalID  int   // Local face ID within element
}

// ElementGroup is a named physical group from the mesh file
type ElementGroup struct {
	Dimension int
	Tag       int
	Name      string
	Elements  []int
}

// BoundaryElement is a lower dimensional element found on the mesh boundary
type BoundaryElement struct {
	ElementType ElementType
	Nodes       []int // 0-based vertex indices
	Tag         int
}

// Mesh represents an unstructured mesh with its connectivity
type Mesh struct {
	// Geometry
	Vertices [][]float64 // Vertex coordinates [nvertices][3]

	// Element data
	Elements     [][]int       // Element to vertex connectivity, 0-based
	ElementTypes []ElementType // Element type for each element
	ElementTags  [][]int       // File tags for each element, physical tag first

	// Connectivity (built by BuildConnectivity)
	EToE [][]int // Element to element connectivity [nelems][nfaces_per_elem], -1 on boundary
	EToF [][]int // Element to face connectivity [nelems][nfaces_per_elem]

	// Face data
	Faces   []Face
	FaceMap map[string]int // Sorted vertex key -> face ID

	ElementGroups    map[int]*ElementGroup
	BoundaryElements map[string][]BoundaryElement

	// File node ID -> vertex index
	NodeIDMap map[int]int
	// File element ID -> element index
	ElementIDMap map[int]int

	FormatVersion string

	NumElements int
	NumVertices int
	NumFaces    int
}

// NewMesh creates an empty mesh
func NewMesh() *Mesh {
	return &Mesh{
		FaceMap:          make(map[string]int),
		ElementGroups:    make(map[int]*ElementGroup),
		BoundaryElements: make(map[string][]BoundaryElement),
		NodeIDMap:        make(map[int]int),
		ElementIDMap:     make(map[int]int),
	}
}

// AddNode appends a vertex with the file's node ID
func (m *Mesh) AddNode(nodeID int, coords []float64) {
	xyz := make([]float64, 3)
	copy(xyz, coords)
	m.NodeIDMap[nodeID] = len(m.Vertices)
	m.Vertices = append(m.Vertices, xyz)
	m.NumVertices = len(m.Vertices)
}

// GetNodeIndex converts a file node ID into a vertex index
func (m *Mesh) GetNodeIndex(nodeID int) (int, bool) {
	idx, ok := m.NodeIDMap[nodeID]
	return idx, ok
}

// AddElement appends an element given its file node IDs
func (m *Mesh) AddElement(elemID int, etype ElementType, tags []int, nodeIDs []int) error {
	if len(nodeIDs) != etype.GetNumNodes() {
		return fmt.Errorf("element %d: %s needs %d nodes, got %d",
			elemID, etype, etype.GetNumNodes(), len(nodeIDs))
	}
	verts := make([]int, len(nodeIDs))
	for i, id := range nodeIDs {
		idx, ok := m.GetNodeIndex(id)
		if !ok {
			return fmt.Errorf("element %d references unknown node %d", elemID, id)
		}
		verts[i] = idx
	}

	elemIdx := len(m.Elements)
	m.ElementIDMap[elemID] = elemIdx
	m.Elements = append(m.Elements, verts)
	m.ElementTypes = append(m.ElementTypes, etype)
	m.ElementTags = append(m.ElementTags, tags)
	m.NumElements = len(m.Elements)

	if len(tags) > 0 {
		if group, ok := m.ElementGroups[tags[0]]; ok {
			group.Elements = append(group.Elements, elemIdx)
		}
	}
	return nil
}

// AddBoundaryElement records a boundary element under the given tag name
func (m *Mesh) AddBoundaryElement(tagName string, be BoundaryElement) {
	m.BoundaryElements[tagName] = append(m.BoundaryElements[tagName], be)
}

// GetMeshDimension returns the largest element dimension in the mesh
func (m *Mesh) GetMeshDimension() int {
	dim := -1
	for _, t := range m.ElementTypes {
		if d := t.GetDimension(); d > dim {
			dim = d
		}
	}
	return dim
}

// SeparateBoundaryElements moves every element of lower dimension than the
// mesh into BoundaryElements. Readers call this once all elements are read,
// as files are free to list boundary elements before the volume elements.
func (m *Mesh) SeparateBoundaryElements() {
	dim := m.GetMeshDimension()
	var (
		elements = m.Elements[:0:0]
		types    = m.ElementTypes[:0:0]
		tags     = m.ElementTags[:0:0]
		remap    = make(map[int]int, len(m.Elements))
	)
	for i, t := range m.ElementTypes {
		if t.GetDimension() < dim {
			var physical int
			if len(m.ElementTags[i]) > 0 {
				physical = m.ElementTags[i][0]
			}
			name := fmt.Sprintf("boundary_%d", physical)
			if group, ok := m.ElementGroups[physical]; ok {
				name = group.Name
			}
			m.AddBoundaryElement(name, BoundaryElement{
				ElementType: t,
				Nodes:       m.Elements[i],
				Tag:         physical,
			})
			continue
		}
		remap[i] = len(elements)
		elements = append(elements, m.Elements[i])
		types = append(types, t)
		tags = append(tags, m.ElementTags[i])
	}

	for id, old := range m.ElementIDMap {
		if idx, ok := remap[old]; ok {
			m.ElementIDMap[id] = idx
		} else {
			delete(m.ElementIDMap, id)
		}
	}
	for _, group := range m.ElementGroups {
		kept := group.Elements[:0]
		for _, old := range group.Elements {
			if idx, ok := remap[old]; ok {
				kept = append(kept, idx)
			}
		}
		group.Elements = kept
	}

	m.Elements, m.ElementTypes, m.ElementTags = elements, types, tags
	m.NumElements = len(m.Elements)
}

// UniformElementType returns the single element type of the mesh, or an error when
// the mesh is empty or mixes element types
func (m *Mesh) UniformElementType() (ElementType, error) {
	if m.NumElements == 0 {
		return Unknown, fmt.Errorf("mesh has no elements")
	}
	et := m.ElementTypes[0]
	for i, t := range m.ElementTypes {
		if t != et {
			return Unknown, fmt.Errorf("mixed element types: element 0 is %s, element %d is %s",
				et, i, t)
		}
	}
	return et, nil
}

// BuildConnectivity builds element-to-element and face connectivity
func (m *Mesh) BuildConnectivity() {
	m.EToE = make([][]int, m.NumElements)
	m.EToF = make([][]int, m.NumElements)
	m.Faces = m.Faces[:0]
	m.FaceMap = make(map[string]int)

	for elemID := 0; elemID < m.NumElements; elemID++ {
		faceVertices := GetElementFaces(m.ElementTypes[elemID], m.Elements[elemID])

		m.EToE[elemID] = make([]int, len(faceVertices))
		m.EToF[elemID] = make([]int, len(faceVertices))
		for i := range m.EToE[elemID] {
			m.EToE[elemID][i] = -1
			m.EToF[elemID][i] = -1
		}

		for localFaceID, faceVerts := range faceVertices {
			sorted := make([]int, len(faceVerts))
			copy(sorted, faceVerts)
			sort.Ints(sorted)
			key := fmt.Sprintf("%v", sorted)

			if faceID, exists := m.FaceMap[key]; exists {
				// Interior face
				face := &m.Faces[faceID]
				m.EToE[elemID][localFaceID] = face.Element
				m.EToE[face.Element][face.LocalID] = elemID
				m.EToF[elemID][localFaceID] = faceID
			} else {
				faceID := len(m.Faces)
				m.Faces = append(m.Faces, Face{
					Vertices: sorted,
					Element:  elemID,
					LocalID:  localFaceID,
				})
				m.FaceMap[key] = faceID
				m.EToF[elemID][localFaceID] = faceID
			}
		}
	}

	m.NumFaces = len(m.Faces)
}

// BoundaryFaceCount returns the number of faces with no neighbor
func (m *Mesh) BoundaryFaceCount() (n int) {
	for _, row := range m.EToE {
		for _, nbr := range row {
			if nbr < 0 {
				n++
			}
		}
	}
	return
}

// LogStatistics writes mesh statistics to the logger
func (m *Mesh) LogStatistics(log *zap.Logger) {
	typeCounts := make(map[string]int)
	for _, t := range m.ElementTypes {
		typeCounts[t.String()]++
	}
	log.Info("mesh statistics",
		zap.Int("vertices", m.NumVertices),
		zap.Int("elements", m.NumElements),
		zap.Int("faces", m.NumFaces),
		zap.Int("boundaryFaces", m.BoundaryFaceCount()),
		zap.Any("elementTypes", typeCounts))
}
