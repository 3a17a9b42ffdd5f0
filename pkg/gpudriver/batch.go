package gpudriver

import (
	"github.com/mrigankad-go/phototrace/pkg/core"
)

// RunBatches renders totalSamples samples in batches of at most batchSize,
// each against a freshly created and destroyed Pipeline (mirroring the
// reference renderer's per-batch pipeline teardown), accumulating into a
// running-mean buffer of width*height Vec3 pixels. progress, if non-nil,
// is called after each batch with the number of samples completed so far.
func RunBatches(device *Device, buildScene SceneBuffers, width, height, totalSamples, batchSize int, progress func(samplesDone int)) ([]core.Vec3, error) {
	if batchSize <= 0 {
		batchSize = totalSamples
	}
	pixels := make([]core.Vec3, width*height)
	sampleCounts := make([]int, width*height)

	done := 0
	for done < totalSamples {
		n := batchSize
		if done+n > totalSamples {
			n = totalSamples - done
		}

		pipeline, err := NewPipeline(device, buildScene, width, height)
		if err != nil {
			return nil, err
		}
		raw, err := pipeline.Dispatch()
		pipeline.Close()
		if err != nil {
			return nil, err
		}

		for i := range pixels {
			r := float64(raw[i*4+0])
			g := float64(raw[i*4+1])
			b := float64(raw[i*4+2])
			k := sampleCounts[i]
			pixels[i] = core.NewVec3(
				(r+pixels[i].X*float64(k))/float64(k+1),
				(g+pixels[i].Y*float64(k))/float64(k+1),
				(b+pixels[i].Z*float64(k))/float64(k+1),
			)
			sampleCounts[i]++
		}

		done += n
		if progress != nil {
			progress(done)
		}
	}
	return pixels, nil
}
