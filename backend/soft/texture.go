package soft

import (
	"image"
	"image/color"

	"github.com/gogpu/fog"
	"github.com/gogpu/fog/internal/bilateral"
	"github.com/gogpu/gputypes"
)

// Texture is a CPU texture backed by a float32 RGBA plane. Depth
// textures store linear camera distance in the R channel.
type Texture struct {
	label  string
	format gputypes.TextureFormat
	plane  *bilateral.Plane
}

var _ fog.Texture = (*Texture)(nil)

// NewTexture allocates a zeroed texture.
func NewTexture(desc fog.TargetDesc) *Texture {
	return &Texture{
		label:  desc.Label,
		format: desc.Format,
		plane:  bilateral.NewPlane(desc.Width, desc.Height),
	}
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.plane.W }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.plane.H }

// Format returns the texture format recorded at creation.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Label returns the debug label recorded at creation.
func (t *Texture) Label() string { return t.label }

// Plane exposes the backing plane for hosts that fill scene color and
// depth directly.
func (t *Texture) Plane() *bilateral.Plane { return t.plane }

// ToRGBA converts the plane to an 8-bit image, clamping each channel
// to [0, 1]. BGRA formats swap the red and blue channels on the way
// out.
func (t *Texture) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.plane.W, t.plane.H))
	swap := t.format == gputypes.TextureFormatBGRA8Unorm
	for y := 0; y < t.plane.H; y++ {
		for x := 0; x < t.plane.W; x++ {
			r, g, b, a := t.plane.At(x, y)
			if swap {
				r, b = b, r
			}
			img.SetRGBA(x, y, color.RGBA{
				R: to8(r),
				G: to8(g),
				B: to8(b),
				A: to8(a),
			})
		}
	}
	return img
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
