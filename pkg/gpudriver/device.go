// Package gpudriver implements the GPU compute render path: device
// acquisition, buffer packing, compute pipeline dispatch, and staging-buffer
// readback, against the gogpu/wgpu hardware abstraction layer.
package gpudriver

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/mrigankad-go/phototrace/pkg/rterr"
)

// MaxBufferSize is the storage-buffer and total-buffer-size limit this
// driver requires from the adapter; a device whose limits fall short is
// rejected at acquisition rather than failing later on a specific buffer.
const MaxBufferSize = 1 << 30 // 1 GiB

// Device owns the acquired hal.Device/hal.Queue pair for the process
// lifetime. Pipelines are created and destroyed per render batch against
// this single Device.
type Device struct {
	hal   hal.Device
	queue hal.Queue
}

// RequestDevice acquires a compute-capable GPU device and queue, failing
// with GpuInitFailure if no adapter is available or its limits fall short
// of MaxBufferSize.
func RequestDevice() (*Device, error) {
	adapter, err := hal.RequestAdapter(&hal.AdapterOptions{
		PowerPreference: hal.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuInitFailure, "request adapter", err)
	}

	limits := hal.Limits{
		MaxBufferSize:               MaxBufferSize,
		MaxStorageBufferBindingSize: MaxBufferSize,
	}
	dev, queue, err := adapter.RequestDevice(&hal.DeviceDescriptor{
		Label:         "phototrace",
		RequiredLimits: &limits,
	})
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuInitFailure, "request device", err)
	}

	return &Device{hal: dev, queue: queue}, nil
}

// Close releases the underlying device and queue.
func (d *Device) Close() {
	d.hal.Destroy()
}

// createBuffer allocates a GPU buffer and fills it from data, failing with
// GpuExecFailure on allocation or write error.
func (d *Device) createBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.hal.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return hal.Buffer{}, rterr.Wrap(rterr.GpuExecFailure, fmt.Sprintf("create buffer %q", label), err)
	}
	if len(data) > 0 {
		d.queue.WriteBuffer(buf, 0, data)
	}
	return buf, nil
}

// readStagingBuffer copies src into a fresh MapRead staging buffer via a
// one-shot command encoder/fence/submit/wait cycle, and returns its bytes
// reinterpreted as float32 values. This is the only way data leaves the
// GPU in this driver: every storage buffer the shader writes to is read
// back through a staging copy, never mapped directly.
func (d *Device) readStagingBuffer(src hal.Buffer, byteSize uint64) ([]float32, error) {
	staging, err := d.hal.CreateBuffer(&hal.BufferDescriptor{
		Label: "readback_staging",
		Size:  byteSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "create staging buffer", err)
	}
	defer d.hal.DestroyBuffer(staging)

	encoder, err := d.hal.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "readback_encoder"})
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "create command encoder", err)
	}
	if err := encoder.BeginEncoding("readback"); err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "begin encoding", err)
	}
	encoder.CopyBufferToBuffer(src, 0, staging, 0, byteSize)

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "end encoding", err)
	}
	defer d.hal.FreeCommandBuffer(cmdBuf)

	fence, err := d.hal.CreateFence()
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "create fence", err)
	}
	defer d.hal.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "submit", err)
	}
	ok, err := d.hal.Wait(fence, 1, 30*time.Second)
	if err != nil || !ok {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "wait for fence", err)
	}

	raw := make([]byte, byteSize)
	if err := d.queue.ReadBuffer(staging, 0, raw); err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "read buffer", err)
	}
	return bytesToFloat32(raw), nil
}
