// Package anim drives the keyframe-to-frame expansion and dispatches each
// frame to the CPU or GPU render backend, following the teacher's
// channel-pipelined producer/consumer shape for the GPU path and a strictly
// sequential loop for the CPU path.
package anim

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/mrigankad-go/phototrace/pkg/core"
	"github.com/mrigankad-go/phototrace/pkg/gpudriver"
	"github.com/mrigankad-go/phototrace/pkg/kernel"
	"github.com/mrigankad-go/phototrace/pkg/renderer"
	"github.com/mrigankad-go/phototrace/pkg/scene"
	"github.com/mrigankad-go/phototrace/pkg/scheme"
	"github.com/mrigankad-go/phototrace/pkg/target"
)

const framesDir = "anim_frames"

// WorkerOptions carries the CLI-level concurrency knobs that live outside
// the Scheme document (workers, tile size) through to the CPU driver.
type WorkerOptions struct {
	NumWorkers int
	TileSize   int
}

// FrameCount computes F = floor(T/dt) where T is the latest keyframe time
// across every animated member and dt = 1/framerate.
func FrameCount(members []scene.Member, framerate float64) int {
	var maxT float64
	for _, m := range members {
		if m.Sphere != nil && m.Sphere.Track != nil {
			maxT = math.Max(maxT, m.Sphere.Track.Duration())
		}
		if m.Mesh != nil && m.Mesh.Track != nil {
			maxT = math.Max(maxT, m.Mesh.Track.Duration())
		}
	}
	dt := 1.0 / framerate
	return int(math.Floor(maxT / dt))
}

// RenderSingleFrame renders one static frame (time 0) to tgt and returns the
// final linear-RGB accumulator, used for single-image (non-animation) mode.
func RenderSingleFrame(sch *scheme.Scheme, members []scene.Member, workers WorkerOptions, tgt *target.RenderTarget, logger core.Logger, onSample renderer.OnSample) ([]core.Vec3, error) {
	cam := sch.BuildCamera(float64(sch.RenderInfo.Width) / float64(sch.RenderInfo.Height))
	sc, world, emitters := scene.BuildWithKDDepth(cam, members, 0, sch.RenderInfo.KdTreeDepth)

	if !sch.RenderInfo.UseGpu {
		opts := renderer.Options{
			Width: sch.RenderInfo.Width, Height: sch.RenderInfo.Height,
			Samples: sch.RenderInfo.SampsPerPix, NumWorkers: workers.NumWorkers, TileSize: workers.TileSize,
			Config: radianceConfig(sch),
		}
		return renderer.Render(sc, world, emitters, opts, tgt, onSample), nil
	}

	return renderGPUFrame(sch, sc, 0, tgt, onSample)
}

// RunAnimation expands members' keyframe tracks into FrameCount per-frame
// scenes and renders each, writing anim_frames/{n}.png starting at n=1 in
// strictly increasing order. GPU mode overlaps scene construction with
// rendering through a pipeline bounded by anim_pipeline_depth; CPU mode
// renders strictly sequentially.
func RunAnimation(sch *scheme.Scheme, members []scene.Member, workers WorkerOptions, logger core.Logger) error {
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return err
	}

	frameCount := FrameCount(members, sch.RenderInfo.Framerate)
	dt := 1.0 / sch.RenderInfo.Framerate

	if sch.RenderInfo.UseGpu {
		return runGPUPipeline(sch, members, frameCount, dt, logger)
	}
	return runCPUSequential(sch, members, workers, frameCount, dt, logger)
}

func runCPUSequential(sch *scheme.Scheme, members []scene.Member, workers WorkerOptions, frameCount int, dt float64, logger core.Logger) error {
	cam := sch.BuildCamera(float64(sch.RenderInfo.Width) / float64(sch.RenderInfo.Height))
	cfg := radianceConfig(sch)

	for n := 1; n <= frameCount; n++ {
		time := float64(n) * dt
		sc, world, emitters := scene.BuildWithKDDepth(cam, members, time, sch.RenderInfo.KdTreeDepth)

		opts := renderer.Options{
			Width: sch.RenderInfo.Width, Height: sch.RenderInfo.Height,
			Samples: sch.RenderInfo.SampsPerPix, NumWorkers: workers.NumWorkers, TileSize: workers.TileSize,
			FrameIndex: n, Config: cfg,
		}
		pixels := renderer.Render(sc, world, emitters, opts, nil, nil)

		if err := target.WritePNG(framePath(n), pixels, sch.RenderInfo.Width, sch.RenderInfo.Height); err != nil {
			return err
		}
		if logger != nil {
			logger.Printf("frame %d/%d rendered", n, frameCount)
		}
	}
	return nil
}

// frameScene is one producer-emitted unit of pipelined work.
type frameScene struct {
	frameNum int
	scene    *scene.Scene
}

func runGPUPipeline(sch *scheme.Scheme, members []scene.Member, frameCount int, dt float64, logger core.Logger) error {
	depth := sch.RenderInfo.AnimPipelineDepth
	if depth <= 0 {
		depth = frameCount
	}

	cam := sch.BuildCamera(float64(sch.RenderInfo.Width) / float64(sch.RenderInfo.Height))

	scenes := make(chan frameScene)
	// Buffered to depth so the consumer never blocks on a completion while
	// the producer is blocked handing it the next scene.
	completions := make(chan int, depth)
	errs := make(chan error, 2)

	go func() {
		defer close(scenes)
		pending := 0
		nextSent := 0
		for nextSent < frameCount {
			for pending >= depth {
				<-completions
				pending--
			}
			nextSent++
			time := float64(nextSent) * dt
			sc, _, _ := scene.BuildWithKDDepth(cam, members, time, sch.RenderInfo.KdTreeDepth)
			scenes <- frameScene{frameNum: nextSent, scene: sc}
			pending++
		}
		for pending > 0 {
			<-completions
			pending--
		}
	}()

	go func() {
		for fs := range scenes {
			pixels, err := renderGPUFrame(sch, fs.scene, fs.frameNum, nil, nil)
			if err != nil {
				errs <- err
				completions <- fs.frameNum
				continue
			}
			if err := target.WritePNG(framePath(fs.frameNum), pixels, sch.RenderInfo.Width, sch.RenderInfo.Height); err != nil {
				errs <- err
			} else if logger != nil {
				logger.Printf("frame %d/%d rendered", fs.frameNum, frameCount)
			}
			completions <- fs.frameNum
		}
		close(errs)
	}()

	var firstErr error
	for err := range errs {
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func renderGPUFrame(sch *scheme.Scheme, sc *scene.Scene, frameIndex int, tgt *target.RenderTarget, onSample renderer.OnSample) ([]core.Vec3, error) {
	device, err := gpudriver.RequestDevice()
	if err != nil {
		return nil, err
	}
	defer device.Close()

	renderUniform := gpudriver.RenderInfoUniform{
		Width: uint32(sch.RenderInfo.Width), Height: uint32(sch.RenderInfo.Height),
		SamplesPerPixel: uint32(sch.RenderInfo.GpuRenderBatch), MaxDepth: uint32(sch.RenderInfo.RadInfo.MaxDepth),
		FrameIndex: uint32(frameIndex),
	}
	buffers := gpudriver.PackScene(sc, renderUniform)

	pixels, err := gpudriver.RunBatches(device, buffers, sch.RenderInfo.Width, sch.RenderInfo.Height,
		sch.RenderInfo.SampsPerPix, sch.RenderInfo.GpuRenderBatch, func(done int) {
			if onSample != nil {
				onSample(done)
			}
		})
	if err != nil {
		return nil, err
	}
	if tgt != nil {
		tgt.Publish(pixels)
	}
	return pixels, nil
}

func radianceConfig(sch *scheme.Scheme) kernel.Config {
	return kernel.Config{
		MaxDepth:       sch.RenderInfo.RadInfo.MaxDepth,
		RRStartDepth:   sch.RenderInfo.RadInfo.RRStartDepth,
		RRSurvivalProb: sch.RenderInfo.RadInfo.RRSurvival,
		DLSEnabled:     sch.RenderInfo.RadInfo.DLSEnabled,
	}
}

func framePath(n int) string {
	return filepath.Join(framesDir, fmt.Sprintf("%d.png", n))
}
