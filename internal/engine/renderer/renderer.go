// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/shader"
	"github.com/Faultbox/objview/internal/logger"
)

// ErrEmptyMesh is returned when uploading a mesh without vertices.
var ErrEmptyMesh = errors.New("mesh has no vertices")

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Lighting holds the Phong parameters uploaded once per program.
type Lighting struct {
	Ambient   float32
	Diffuse   float32
	Specular  float32
	Shininess float32
	LightPos  mgl32.Vec3
	CameraPos mgl32.Vec3
}

// Renderer owns the GL state for drawing lit meshes.
type Renderer struct {
	config  Config
	program *shader.Program
	texture *Texture
	meshes  map[*Mesh]struct{}
	log     *zap.Logger
}

// New creates a new renderer.
// Must be called after the OpenGL context is current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		meshes: make(map[*Mesh]struct{}),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0, 0, 0, 1)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.NewProgram(shader.PhongVertex, shader.PhongFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.log.Debug("shader program created", zap.Uint32("program", r.program.ID))

	r.program.Use()
	r.program.SetInt("texBuff", 0)
	r.program.SetBool("useTexture", false)

	return r, nil
}

// SetProjection uploads the projection matrix.
func (r *Renderer) SetProjection(m mgl32.Mat4) {
	r.program.Use()
	r.program.SetMat4("projection", m)
}

// SetLighting uploads the Phong coefficients and light/camera positions.
func (r *Renderer) SetLighting(l Lighting) {
	r.program.Use()
	r.program.SetFloat("ka", l.Ambient)
	r.program.SetFloat("kd", l.Diffuse)
	r.program.SetFloat("ks", l.Specular)
	r.program.SetFloat("q", l.Shininess)
	r.program.SetVec3("lightPos", l.LightPos)
	r.program.SetVec3("camPos", l.CameraPos)
}

// SetTexture binds tex to unit 0 for subsequent draws. A nil texture makes
// the shader fall back to vertex colors.
func (r *Renderer) SetTexture(tex *Texture, enabled bool) {
	r.texture = tex
	r.program.Use()
	r.program.SetBool("useTexture", enabled && tex != nil)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin clears the frame and binds the program and texture.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.program.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	if r.texture != nil {
		gl.BindTexture(gl.TEXTURE_2D, r.texture.ID)
	}
}

// Draw renders mesh as a triangle list with the given model matrix.
func (r *Renderer) Draw(mesh *Mesh, model mgl32.Mat4) {
	r.program.SetMat4("model", model)
	gl.BindVertexArray(mesh.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(mesh.VertexCount))
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int, error) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)

	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if err := glError("read pixels"); err != nil {
		return nil, 0, 0, err
	}
	return pixels, w, h, nil
}

// Close releases every mesh, texture and program owned by the renderer.
func (r *Renderer) Close() error {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)))

	var err error
	for m := range r.meshes {
		err = multierr.Append(err, r.DeleteMesh(m))
	}
	if r.texture != nil {
		r.texture.Delete()
		r.texture = nil
	}
	if r.program != nil {
		r.program.Delete()
	}
	return multierr.Append(err, glError("close"))
}

// glError drains the GL error queue into one error.
func glError(op string) error {
	var err error
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		err = multierr.Append(err, fmt.Errorf("%s: GL error 0x%04X", op, code))
	}
	return err
}
