package mesh

import (
	"errors"
	"math"
	"testing"
)

// cubeCoords returns the flattened facets of an axis-aligned cube with
// edge length s and one corner at the origin, wound outward.
func cubeCoords(s float64) []float64 {
	return []float64{
		0, 0, 0, 0, s, 0, s, s, 0,
		0, 0, 0, s, s, 0, s, 0, 0,
		0, 0, s, s, 0, s, s, s, s,
		0, 0, s, s, s, s, 0, s, s,
		0, 0, 0, s, 0, 0, s, 0, s,
		0, 0, 0, s, 0, s, 0, 0, s,
		0, s, 0, 0, s, s, s, s, s,
		0, s, 0, s, s, s, s, s, 0,
		0, 0, 0, 0, 0, s, 0, s, s,
		0, 0, 0, 0, s, s, 0, s, 0,
		s, 0, 0, s, s, 0, s, s, s,
		s, 0, 0, s, s, s, s, 0, s,
	}
}

// tetraCoords returns the unit tetrahedron with volume 1/6.
func tetraCoords() []float64 {
	return []float64{
		0, 0, 0, 0, 0, 1, 0, 1, 0,
		0, 0, 0, 1, 0, 0, 0, 0, 1,
		0, 0, 0, 0, 1, 0, 1, 0, 0,
		1, 0, 0, 0, 1, 0, 0, 0, 1,
	}
}

func reverseWinding(coords []float64) []float64 {
	out := make([]float64, len(coords))
	copy(out, coords)
	for i := 0; i < len(out); i += 9 {
		for j := 0; j < 3; j++ {
			out[i+3+j], out[i+6+j] = out[i+6+j], out[i+3+j]
		}
	}
	return out
}

func scaleCoords(coords []float64, f float64) []float64 {
	out := make([]float64, len(coords))
	for i, c := range coords {
		out[i] = c * f
	}
	return out
}

func translateCoords(coords []float64, dx, dy, dz float64) []float64 {
	out := make([]float64, len(coords))
	for i := 0; i < len(coords); i += 3 {
		out[i] = coords[i] + dx
		out[i+1] = coords[i+1] + dy
		out[i+2] = coords[i+2] + dz
	}
	return out
}

func TestCubeVolume(t *testing.T) {
	vol, err := Volume(cubeCoords(10))
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if math.Abs(vol-1000) > 1e-9 {
		t.Errorf("cube volume = %v, want 1000", vol)
	}
}

func TestTetrahedronVolume(t *testing.T) {
	vol, err := Volume(tetraCoords())
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if math.Abs(vol-1.0/6.0) > 1e-12 {
		t.Errorf("tetrahedron volume = %v, want %v", vol, 1.0/6.0)
	}
}

func TestVolumeWindingIndependent(t *testing.T) {
	coords := cubeCoords(7)

	vol, err := Volume(coords)
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	rev, err := Volume(reverseWinding(coords))
	if err != nil {
		t.Fatalf("Volume of reversed mesh failed: %v", err)
	}

	if math.Abs(vol-rev) > 1e-9 {
		t.Errorf("winding changed the volume: %v vs %v", vol, rev)
	}
	if math.Abs(vol-343) > 1e-9 {
		t.Errorf("cube volume = %v, want 343", vol)
	}
}

func TestVolumeScaling(t *testing.T) {
	base, err := Volume(cubeCoords(4))
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}

	const f = 2.5
	scaled, err := Volume(scaleCoords(cubeCoords(4), f))
	if err != nil {
		t.Fatalf("Volume of scaled mesh failed: %v", err)
	}

	want := base * f * f * f
	if math.Abs(scaled-want) > 1e-9*want {
		t.Errorf("scaled volume = %v, want %v", scaled, want)
	}
}

func TestVolumeTranslationInvariant(t *testing.T) {
	// A closed mesh has the same enclosed volume anywhere in space
	vol, err := Volume(translateCoords(cubeCoords(3), -50, 20, 7.5))
	if err != nil {
		t.Fatalf("Volume failed: %v", err)
	}
	if math.Abs(vol-27) > 1e-9 {
		t.Errorf("translated cube volume = %v, want 27", vol)
	}
}

func TestBoundingBox(t *testing.T) {
	size, err := BoundingBox(translateCoords(cubeCoords(10), 5, -3, 100))
	if err != nil {
		t.Fatalf("BoundingBox failed: %v", err)
	}
	if size.X != 10 || size.Y != 10 || size.Z != 10 {
		t.Errorf("bounding box size = %v, want 10x10x10", size)
	}
}

func TestComputeCombinesMetrics(t *testing.T) {
	m, err := Compute(cubeCoords(10))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if math.Abs(m.VolumeMm3-1000) > 1e-9 {
		t.Errorf("VolumeMm3 = %v, want 1000", m.VolumeMm3)
	}
	if m.Size.X != 10 || m.Size.Y != 10 || m.Size.Z != 10 {
		t.Errorf("Size = %v, want 10x10x10", m.Size)
	}
	if m.Triangles != 12 {
		t.Errorf("Triangles = %d, want 12", m.Triangles)
	}
}

func TestDegenerateMesh(t *testing.T) {
	// Every vertex at the same point: zero volume, zero extents
	coords := make([]float64, 9)
	for i := range coords {
		coords[i] = 4
	}

	m, err := Compute(coords)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.VolumeMm3 != 0 {
		t.Errorf("VolumeMm3 = %v, want 0", m.VolumeMm3)
	}
	if m.Size.X != 0 || m.Size.Y != 0 || m.Size.Z != 0 {
		t.Errorf("Size = %v, want zero", m.Size)
	}
}

func TestEmptyCoords(t *testing.T) {
	m, err := Compute(nil)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.VolumeMm3 != 0 || m.Triangles != 0 {
		t.Errorf("empty coords: got %+v, want zero metrics", m)
	}
}

func TestInvalidLength(t *testing.T) {
	_, err := Compute(make([]float64, 8))
	if !errors.Is(err, ErrInvalidMeshData) {
		t.Fatalf("expected ErrInvalidMeshData, got %v", err)
	}
}

func TestNonFiniteCoordinates(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		coords := cubeCoords(2)
		coords[13] = bad
		if _, err := Compute(coords); !errors.Is(err, ErrInvalidMeshData) {
			t.Errorf("coordinate %v: expected ErrInvalidMeshData, got %v", bad, err)
		}
	}
}
