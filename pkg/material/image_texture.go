package material

import (
	"math"

	"github.com/mrigankad-go/phototrace/pkg/core"
)

// ImageTexture provides color from a 2D linear-RGB 32-bit float image,
// sampled with bilinear interpolation and a repeat (wrap) addressing mode.
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate bilinearly samples the texture at the given UV coordinates.
// UV outside [0, 1] wraps around (repeat addressing).
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return core.Vec3{}
	}

	// V=0 is bottom, V=1 is top (flip V for image coordinates where origin is top-left)
	fx := wrapFrac(uv.X)*float64(t.Width) - 0.5
	fy := (1.0-wrapFrac(uv.Y))*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := t.at(x0, y0)
	c10 := t.at(x0+1, y0)
	c01 := t.at(x0, y0+1)
	c11 := t.at(x0+1, y0+1)

	top := c00.Multiply(1 - tx).Add(c10.Multiply(tx))
	bottom := c01.Multiply(1 - tx).Add(c11.Multiply(tx))
	return top.Multiply(1 - ty).Add(bottom.Multiply(ty))
}

// at fetches a pixel with repeat (wrap) addressing on both axes.
func (t *ImageTexture) at(x, y int) core.Vec3 {
	x = wrapIndex(x, t.Width)
	y = wrapIndex(y, t.Height)
	return t.Pixels[y*t.Width+x]
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func wrapFrac(v float64) float64 {
	f := v - math.Floor(v)
	if f < 0 {
		f += 1.0
	}
	return f
}
