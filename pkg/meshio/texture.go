// Package meshio ingests glTF documents into the engine's MeshGroup
// primitives: vertex attributes, triangle indices, and PBR textures
// normalized to linear RGB 32-bit float.
package meshio

import (
	"fmt"
	"image"
	"math"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/material"
	"github.com/mrigankad-go/phototrace/pkg/rterr"
)

// DecodeTexture converts a decoded image.Image into a linear RGB 32-bit
// float ImageTexture. srgb controls whether the source is treated as
// gamma-encoded (base-color textures) or already linear (normal maps and
// metal/roughness maps, per the glTF convention). Supported source
// formats are 8-bit R/RGB/RGBA, 16-bit R/RGB/RGBA, and 32-bit-float
// RGB/RGBA; anything else fails with UnsupportedTextureFormat.
func DecodeTexture(img image.Image, srgb bool) (*material.ImageTexture, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, w*h)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := toLinear(float64(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)/255.0, srgb)
				pixels[y*w+x] = core.NewVec3(v, v, v)
			}
		}
	case *image.Gray16:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := toLinear(float64(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y)/65535.0, srgb)
				pixels[y*w+x] = core.NewVec3(v, v, v)
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
				pixels[y*w+x] = rgb8(c.R, c.G, c.B, srgb)
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
				pixels[y*w+x] = rgb8(c.R, c.G, c.B, srgb)
			}
		}
	case *image.NRGBA64:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.NRGBA64At(bounds.Min.X+x, bounds.Min.Y+y)
				pixels[y*w+x] = rgb16(c.R, c.G, c.B, srgb)
			}
		}
	case *image.RGBA64:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.RGBA64At(bounds.Min.X+x, bounds.Min.Y+y)
				pixels[y*w+x] = rgb16(c.R, c.G, c.B, srgb)
			}
		}
	case *Float32Image:
		copy(pixels, src.Pixels)
	default:
		return nil, rterr.New(rterr.UnsupportedTextureFormat, fmt.Sprintf("unsupported image type %T", img))
	}

	return material.NewImageTexture(w, h, pixels), nil
}

// Float32Image is a pre-decoded 32-bit-float RGB(A) image, the third
// supported source representation alongside the standard library's 8-bit
// and 16-bit image types. Nothing in the standard image package decodes
// this format; callers that source HDR/EXR textures construct one
// directly from the decoded float planes.
type Float32Image struct {
	Width, Height int
	Pixels        []core.Vec3
}

func (f *Float32Image) ColorModel() image.Model { return image.RGBAColorModel }
func (f *Float32Image) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }
func (f *Float32Image) At(x, y int) image.Color {
	p := f.Pixels[y*f.Width+x]
	return image.NRGBAColor{
		R: uint8(clamp01(p.X) * 255),
		G: uint8(clamp01(p.Y) * 255),
		B: uint8(clamp01(p.Z) * 255),
		A: 255,
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func rgb8(r, g, b uint8, srgb bool) core.Vec3 {
	return core.NewVec3(
		toLinear(float64(r)/255.0, srgb),
		toLinear(float64(g)/255.0, srgb),
		toLinear(float64(b)/255.0, srgb),
	)
}

func rgb16(r, g, b uint16, srgb bool) core.Vec3 {
	return core.NewVec3(
		toLinear(float64(r)/65535.0, srgb),
		toLinear(float64(g)/65535.0, srgb),
		toLinear(float64(b)/65535.0, srgb),
	)
}

// toLinear converts an sRGB-encoded channel to linear; a channel that is
// already linear (normal maps, metal/roughness maps) passes through.
func toLinear(c float64, srgb bool) float64 {
	if !srgb {
		return c
	}
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
