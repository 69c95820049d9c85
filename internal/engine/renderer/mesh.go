package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/pkg/formats"
)

const floatSize = 4

// Mesh is a VAO/VBO pair holding an interleaved OBJ vertex buffer.
type Mesh struct {
	VAO         uint32
	VBO         uint32
	VertexCount int
}

// vertex attribute layout shared with the phong shader.
var meshAttribs = []struct {
	location uint32
	size     int32
	offset   int
}{
	{0, 3, formats.OBJPositionOffset},
	{1, 3, formats.OBJColorOffset},
	{2, 3, formats.OBJNormalOffset},
	{3, 2, formats.OBJTexCoordOffset},
}

// UploadMesh copies the flattened buffer into a new VBO and describes its
// layout in a new VAO. The renderer owns the result until DeleteMesh.
func (r *Renderer) UploadMesh(src *formats.OBJMesh) (*Mesh, error) {
	if src == nil || src.VertexCount == 0 {
		return nil, ErrEmptyMesh
	}

	m := &Mesh{VertexCount: src.VertexCount}

	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(src.Vertices)*floatSize, gl.Ptr(src.Vertices), gl.STATIC_DRAW)

	stride := int32(formats.OBJVertexStride * floatSize)
	for _, a := range meshAttribs {
		gl.VertexAttribPointer(a.location, a.size, gl.FLOAT, false, stride, gl.PtrOffset(a.offset*floatSize))
		gl.EnableVertexAttribArray(a.location)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if err := glError("upload mesh"); err != nil {
		gl.DeleteBuffers(1, &m.VBO)
		gl.DeleteVertexArrays(1, &m.VAO)
		return nil, err
	}

	r.meshes[m] = struct{}{}
	r.log.Debug("mesh uploaded",
		zap.Uint32("vao", m.VAO),
		zap.Uint32("vbo", m.VBO),
		zap.Int("vertices", m.VertexCount),
	)
	return m, nil
}

// DeleteMesh frees the GPU buffers of m.
func (r *Renderer) DeleteMesh(m *Mesh) error {
	if _, ok := r.meshes[m]; !ok {
		return fmt.Errorf("mesh vao=%d not owned by renderer", m.VAO)
	}
	delete(r.meshes, m)

	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteVertexArrays(1, &m.VAO)
	m.VAO, m.VBO, m.VertexCount = 0, 0, 0
	return glError("delete mesh")
}
