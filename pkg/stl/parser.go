package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Simplici0/print.works/pkg/geometry"
)

const (
	binaryHeaderSize = 80
	binaryRecordSize = 50 // 12 float32 + uint16 attribute
	asciiProbeSize   = 1024
)

// ErrTruncated is returned when binary STL data ends before the
// declared triangle count is satisfied.
var ErrTruncated = errors.New("truncated STL data")

// Parse reads an STL model from r.
// It automatically detects whether the data is ASCII or binary format.
func Parse(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read STL data: %w", err)
	}
	if isASCII(data) {
		return parseASCII(data)
	}
	return parseBinary(data)
}

// ParseFile reads an STL model from the file at path.
func ParseFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open STL file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// isASCII reports whether data looks like an ASCII STL. Binary files may
// also begin with "solid" in their header, so a facet keyword must appear
// near the start as well.
func isASCII(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("solid")) {
		return false
	}
	probe := data
	if len(probe) > asciiProbeSize {
		probe = probe[:asciiProbeSize]
	}
	return bytes.Contains(probe, []byte("facet"))
}

// parseBinary parses binary STL data
func parseBinary(data []byte) (*Model, error) {
	if len(data) < binaryHeaderSize+4 {
		return nil, fmt.Errorf("binary STL header: %w", ErrTruncated)
	}

	name := string(bytes.TrimRight(data[:binaryHeaderSize], "\x00"))
	model := NewModel(strings.TrimSpace(name))

	count := binary.LittleEndian.Uint32(data[binaryHeaderSize : binaryHeaderSize+4])
	records := data[binaryHeaderSize+4:]
	if uint64(len(records)) < uint64(count)*binaryRecordSize {
		return nil, fmt.Errorf("binary STL declares %d triangles: %w", count, ErrTruncated)
	}

	for i := uint64(0); i < uint64(count); i++ {
		model.AddTriangle(decodeTriangle(records[i*binaryRecordSize:]))
	}
	return model, nil
}

// decodeTriangle decodes one 50-byte binary triangle record
func decodeTriangle(rec []byte) geometry.Triangle {
	var p [12]float64
	for i := range p {
		bits := binary.LittleEndian.Uint32(rec[i*4:])
		p[i] = float64(math.Float32frombits(bits))
	}
	tri := geometry.NewTriangle(
		geometry.NewVector3(p[0], p[1], p[2]),
		geometry.NewVector3(p[3], p[4], p[5]),
		geometry.NewVector3(p[6], p[7], p[8]),
		geometry.NewVector3(p[9], p[10], p[11]),
	)
	// Many exporters leave the normal zeroed
	if tri.Normal == (geometry.Vector3{}) {
		tri.Normal = tri.CalculateNormal()
	}
	return tri
}

// parseASCII parses ASCII STL data
func parseASCII(data []byte) (*Model, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	model := NewModel("")

	var normal geometry.Vector3
	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if model.Name == "" && len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: malformed facet declaration", lineNo)
			}
			n, err := parseVector(fields[2:5])
			if err != nil {
				return nil, fmt.Errorf("line %d: facet normal: %w", lineNo, err)
			}
			normal = n

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs three coordinates", lineNo)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, want 3", lineNo, len(vertices))
			}
			tri := geometry.NewTriangle(normal, vertices[0], vertices[1], vertices[2])
			if tri.Normal == (geometry.Vector3{}) {
				tri.Normal = tri.CalculateNormal()
			}
			model.AddTriangle(tri)
			vertices = vertices[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ASCII STL: %w", err)
	}
	if len(vertices) != 0 {
		return nil, errors.New("unterminated facet at end of ASCII STL")
	}
	return model, nil
}

// parseVector parses three whitespace-separated float fields
func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("bad coordinate %q", f)
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}
