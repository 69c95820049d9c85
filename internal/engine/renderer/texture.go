package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/texture"
)

// Texture is a 2D GL texture.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

// UploadTexture creates a mipmapped, repeating, linearly filtered texture.
func (r *Renderer) UploadTexture(img *texture.Image) (*Texture, error) {
	tex := &Texture{Width: img.Width(), Height: img.Height()}

	gl.GenTextures(1, &tex.ID)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(tex.Width), int32(tex.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError("upload texture"); err != nil {
		tex.Delete()
		return nil, err
	}

	r.log.Debug("texture uploaded",
		zap.Uint32("id", tex.ID),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height),
		zap.String("format", img.Format),
	)
	return tex, nil
}

// Delete frees the texture.
func (t *Texture) Delete() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}
