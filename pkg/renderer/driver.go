package renderer

import (
	"math/rand"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/geometry"
	"github.com/mrigankad-go/phototrace/pkg/kernel"
	"github.com/mrigankad-go/phototrace/pkg/scene"
	"github.com/mrigankad-go/phototrace/pkg/target"
)

// Options configures one Render call.
type Options struct {
	Width, Height int
	Samples       int // samples per pixel
	NumWorkers    int // 0 = runtime.NumCPU()
	TileSize      int // 0 = defaultTileSize
	FrameIndex    int // folded into the per-pixel RNG seed
	Config        kernel.Config
}

// OnSample, if non-nil, is called once after every completed sample pass
// with the number of samples completed so far.
type OnSample func(samplesDone int)

// Render runs opts.Samples sample passes over sc against world/emitters,
// publishing a tonemapped snapshot to tgt after each pass, and returns the
// final linear-RGB accumulator (row-major, length Width*Height).
func Render(sc *scene.Scene, world *geometry.World, emitters []kernel.Emitter, opts Options, tgt *target.RenderTarget, onSample OnSample) []core.Vec3 {
	pixels := make([]core.Vec3, opts.Width*opts.Height)

	for sampleIndex := 0; sampleIndex < opts.Samples; sampleIndex++ {
		tiles := splitTiles(opts.Width, opts.Height, opts.TileSize)
		pool := newWorkerPool(opts.NumWorkers, func(task tileTask) {
			renderTileSample(sc, world, emitters, opts, task, pixels)
		})
		for _, tile := range tiles {
			pool.Submit(tileTask{tile: tile, sampleIndex: sampleIndex})
		}
		pool.Close()

		if tgt != nil {
			tgt.Publish(pixels)
		}
		if onSample != nil {
			onSample(sampleIndex + 1)
		}
	}

	return pixels
}

// renderTileSample takes exactly one sample per pixel in task.tile.Bounds
// and folds it into pixels' running mean. Each pixel is owned by exactly
// one task per sample pass, so concurrent writes across tiles never race.
func renderTileSample(sc *scene.Scene, world *geometry.World, emitters []kernel.Emitter, opts Options, task tileTask, pixels []core.Vec3) {
	for y := task.tile.Bounds.Min.Y; y < task.tile.Bounds.Max.Y; y++ {
		for x := task.tile.Bounds.Min.X; x < task.tile.Bounds.Max.X; x++ {
			random := NewDeterministicSource(x, y, task.sampleIndex, opts.FrameIndex)
			s := (float64(x) + random.Float64()) / float64(opts.Width)
			// Flip so t=0 is the image's bottom row, matching the camera's
			// lowerLeft-anchored viewport basis.
			t := 1 - (float64(y)+random.Float64())/float64(opts.Height)

			ray := sc.Camera.GetRay(s, t, random)
			sample := kernel.Radiance(ray, world, emitters, opts.Config, random)

			idx := y*opts.Width + x
			pixels[idx] = target.RunningMean(pixels[idx], task.sampleIndex, sample)
		}
	}
}

// NewDeterministicSource builds a *rand.Rand seeded by pixel coordinates,
// sample index, and frame index, per the determinism requirement that
// results be stable regardless of worker-thread count.
func NewDeterministicSource(x, y, sampleIndex, frameIndex int) *rand.Rand {
	seed := int64(x)*73856093 ^ int64(y)*19349663 ^ int64(sampleIndex)*83492791 ^ int64(frameIndex)*2654435761
	return rand.New(rand.NewSource(seed))
}
