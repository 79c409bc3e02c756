// Package mesh computes print-relevant metrics from triangle mesh data.
//
// All functions operate on flat coordinate slices holding nine values per
// triangle: three vertices in x, y, z order. Units are millimeters.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/Simplici0/print.works/pkg/geometry"
)

// ErrInvalidMeshData reports coordinate data that cannot describe a
// triangle soup: a length not divisible by nine, or a non-finite value.
var ErrInvalidMeshData = errors.New("invalid mesh data")

// Metrics holds the geometry figures the pricing engine consumes.
type Metrics struct {
	VolumeMm3 float64
	Size      geometry.Vector3
	Triangles int
}

// Compute validates coords and derives the enclosed volume and bounding
// box extents in a single pass. An empty slice yields zero metrics.
func Compute(coords []float64) (Metrics, error) {
	if len(coords)%9 != 0 {
		return Metrics{}, fmt.Errorf("coordinate count %d is not a multiple of 9: %w", len(coords), ErrInvalidMeshData)
	}
	if len(coords) == 0 {
		return Metrics{}, nil
	}

	var signed float64
	box := geometry.NewBoundingBox()

	for i := 0; i < len(coords); i += 9 {
		for j := i; j < i+9; j++ {
			if c := coords[j]; math.IsNaN(c) || math.IsInf(c, 0) {
				return Metrics{}, fmt.Errorf("non-finite coordinate at index %d: %w", j, ErrInvalidMeshData)
			}
		}

		ax, ay, az := coords[i], coords[i+1], coords[i+2]
		bx, by, bz := coords[i+3], coords[i+4], coords[i+5]
		cx, cy, cz := coords[i+6], coords[i+7], coords[i+8]

		// Signed volume of the tetrahedron spanned by the facet and
		// the origin. Summed over a closed mesh the interior cancels
		// and six times the enclosed volume remains.
		signed += ax*by*cz + bx*cy*az + cx*ay*bz - ax*cy*bz - bx*ay*cz - cx*by*az

		box.Extend(geometry.NewVector3(ax, ay, az))
		box.Extend(geometry.NewVector3(bx, by, bz))
		box.Extend(geometry.NewVector3(cx, cy, cz))
	}

	return Metrics{
		// Absolute value makes the result independent of winding order
		VolumeMm3: math.Abs(signed / 6.0),
		Size:      box.Size(),
		Triangles: len(coords) / 9,
	}, nil
}

// Volume returns the enclosed volume of the mesh in cubic millimeters.
func Volume(coords []float64) (float64, error) {
	m, err := Compute(coords)
	if err != nil {
		return 0, err
	}
	return m.VolumeMm3, nil
}

// BoundingBox returns the axis-aligned extents of the mesh in millimeters.
func BoundingBox(coords []float64) (geometry.Vector3, error) {
	m, err := Compute(coords)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return m.Size, nil
}
