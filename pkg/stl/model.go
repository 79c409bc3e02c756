package stl

import (
	"github.com/Simplici0/print.works/pkg/geometry"
)

// Model represents a parsed STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// Coords flattens the model into vertex coordinates, nine values per
// triangle in x, y, z order. Normals are not included.
func (m *Model) Coords() []float64 {
	coords := make([]float64, 0, len(m.Triangles)*9)
	for _, tri := range m.Triangles {
		for _, v := range [3]geometry.Vector3{tri.V1, tri.V2, tri.V3} {
			coords = append(coords, v.X, v.Y, v.Z)
		}
	}
	return coords
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the model
func (m *Model) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}
