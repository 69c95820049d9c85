// Package formats provides parsers for the mesh file formats the viewer loads.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrOBJFileUnreadable  = errors.New("OBJ file could not be read")
	ErrMalformedReference = errors.New("malformed OBJ face reference")
	ErrMalformedNumber    = errors.New("malformed OBJ number")
)

// Interleaved vertex layout produced by ParseOBJ, in floats.
const (
	OBJVertexStride   = 11
	OBJPositionOffset = 0
	OBJColorOffset    = 3
	OBJNormalOffset   = 6
	OBJTexCoordOffset = 9
)

const (
	maxOBJLineLength = 1 << 20
	utf8BOM          = "\ufeff"
)

// OBJError reports a parse failure at a specific line.
type OBJError struct {
	Path string // empty when parsing from a reader
	Line int
	Err  error
}

func (e *OBJError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *OBJError) Unwrap() error {
	return e.Err
}

// OBJStats counts the records seen while parsing.
type OBJStats struct {
	Positions int
	TexCoords int
	Normals   int
	Faces     int
}

// OBJMesh is a flattened, non-indexed triangle list ready for GPU upload.
// Each vertex is OBJVertexStride floats: position, color, normal, texcoord.
type OBJMesh struct {
	Vertices    []float32
	VertexCount int
	Stats       OBJStats
}

// Vertex returns the 11 floats of vertex i.
func (m *OBJMesh) Vertex(i int) []float32 {
	return m.Vertices[i*OBJVertexStride : (i+1)*OBJVertexStride]
}

// LoadOBJ reads and flattens an OBJ file, painting every vertex with color.
func LoadOBJ(path string, color [3]float32) (*OBJMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOBJFileUnreadable, err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, color)
	if err != nil {
		var objErr *OBJError
		if errors.As(err, &objErr) {
			objErr.Path = path
		}
		return nil, err
	}
	return mesh, nil
}

// ParseOBJ flattens OBJ text into an interleaved vertex buffer.
//
// Only v, vt, vn and f records are interpreted; every face reference must be
// a full p/t/n triple pointing at records that appear earlier in the input.
// Faces are emitted as-is, so polygons with more than three corners are not
// triangulated.
func ParseOBJ(r io.Reader, color [3]float32) (*OBJMesh, error) {
	var (
		positions [][3]float32
		texCoords [][2]float32
		normals   [][3]float32
		stats     OBJStats
	)
	vertices := make([]float32, 0, 1024)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLineLength)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			var p [3]float32
			if err := parseFloats(fields[1:], p[:]); err != nil {
				return nil, &OBJError{Line: lineNo, Err: err}
			}
			positions = append(positions, p)
			stats.Positions++

		case "vt":
			var t [2]float32
			if err := parseFloats(fields[1:], t[:]); err != nil {
				return nil, &OBJError{Line: lineNo, Err: err}
			}
			texCoords = append(texCoords, t)
			stats.TexCoords++

		case "vn":
			var n [3]float32
			if err := parseFloats(fields[1:], n[:]); err != nil {
				return nil, &OBJError{Line: lineNo, Err: err}
			}
			normals = append(normals, n)
			stats.Normals++

		case "f":
			for _, token := range fields[1:] {
				pi, ti, ni, err := parseFaceRef(token)
				if err != nil {
					return nil, &OBJError{Line: lineNo, Err: err}
				}
				if err := checkIndex("position", pi, len(positions)); err != nil {
					return nil, &OBJError{Line: lineNo, Err: err}
				}
				if err := checkIndex("texcoord", ti, len(texCoords)); err != nil {
					return nil, &OBJError{Line: lineNo, Err: err}
				}
				if err := checkIndex("normal", ni, len(normals)); err != nil {
					return nil, &OBJError{Line: lineNo, Err: err}
				}

				p, n, t := positions[pi], normals[ni], texCoords[ti]
				vertices = append(vertices,
					p[0], p[1], p[2],
					color[0], color[1], color[2],
					n[0], n[1], n[2],
					t[0], t[1],
				)
			}
			stats.Faces++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOBJFileUnreadable, err)
	}

	return &OBJMesh{
		Vertices:    vertices,
		VertexCount: len(vertices) / OBJVertexStride,
		Stats:       stats,
	}, nil
}

// parseFloats fills dst from the leading tokens; extra tokens are ignored.
func parseFloats(tokens []string, dst []float32) error {
	if len(tokens) < len(dst) {
		return fmt.Errorf("%w: expected %d components, got %d", ErrMalformedNumber, len(dst), len(tokens))
	}
	for i := range dst {
		v, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMalformedNumber, tokens[i])
		}
		dst[i] = float32(v)
	}
	return nil
}

// parseFaceRef decodes a 1-based "p/t/n" token into 0-based indices.
func parseFaceRef(token string) (pi, ti, ni int, err error) {
	parts := strings.Split(token, "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q is not a position/texcoord/normal triple", ErrMalformedReference, token)
	}

	var idx [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: index %q in %q", ErrMalformedNumber, part, token)
		}
		idx[i] = v - 1
	}
	return idx[0], idx[1], idx[2], nil
}

func checkIndex(kind string, idx, n int) error {
	if idx < 0 || idx >= n {
		return fmt.Errorf("%w: %s index %d out of range (have %d)", ErrMalformedReference, kind, idx+1, n)
	}
	return nil
}
