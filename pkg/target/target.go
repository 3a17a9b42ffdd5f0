// Package target implements the mutex-protected publish buffer the render
// drivers write tonemapped frames into, and the progressive running-mean
// accumulator that feeds it.
package target

import (
	"image"
	"image/png"
	"math"
	"os"
	"sync"

	"github.com/mrigankad-go/phototrace/pkg/core"
)

// RenderTarget is a width*height RGBA8 pixel buffer, published under a
// single mutex so readers never observe a half-updated frame.
type RenderTarget struct {
	Width, Height int

	mu   sync.Mutex
	buff []byte // 4*Width*Height bytes, RGBA8
}

// NewRenderTarget allocates a zeroed publish buffer for a width*height frame.
func NewRenderTarget(width, height int) *RenderTarget {
	return &RenderTarget{
		Width:  width,
		Height: height,
		buff:   make([]byte, 4*width*height),
	}
}

// Publish tonemaps pixels (one linear-RGB Vec3 per pixel, row-major) and
// copies the result into the publish buffer under the mutex.
func (t *RenderTarget) Publish(pixels []core.Vec3) {
	buf := make([]byte, 4*t.Width*t.Height)
	for i, c := range pixels {
		r, g, b, a := Tonemap(c)
		buf[4*i+0] = r
		buf[4*i+1] = g
		buf[4*i+2] = b
		buf[4*i+3] = a
	}

	t.mu.Lock()
	copy(t.buff, buf)
	t.mu.Unlock()
}

// Snapshot returns a copy of the current publish buffer.
func (t *RenderTarget) Snapshot() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.buff))
	copy(out, t.buff)
	return out
}

// Tonemap converts one linear-RGB radiance sample to an 8-bit RGBA pixel:
// u8 = trunc(clamp(c,0,1)^0.9 * 255 + 0.5), alpha opaque.
func Tonemap(c core.Vec3) (r, g, b, a byte) {
	return tonemapChannel(c.X), tonemapChannel(c.Y), tonemapChannel(c.Z), 255
}

func tonemapChannel(c float64) byte {
	clamped := math.Min(1, math.Max(0, c))
	return byte(math.Trunc(math.Pow(clamped, 0.9)*255 + 0.5))
}

// WritePNG tonemaps pixels (row-major, width*height Vec3) and writes them
// as an 8-bit RGBA PNG at path.
func WritePNG(path string, pixels []core.Vec3, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, c := range pixels {
		r, g, b, a := Tonemap(c)
		img.Pix[4*i+0], img.Pix[4*i+1], img.Pix[4*i+2], img.Pix[4*i+3] = r, g, b, a
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// RunningMean folds one new sample r into the accumulator acc that has
// already absorbed k prior samples, returning the updated mean.
func RunningMean(acc core.Vec3, k int, r core.Vec3) core.Vec3 {
	kf := float64(k)
	return core.NewVec3(
		(r.X+acc.X*kf)/(kf+1),
		(r.Y+acc.Y*kf)/(kf+1),
		(r.Z+acc.Z*kf)/(kf+1),
	)
}
