package gpudriver

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/types"

	"github.com/mrigankad-go/phototrace/pkg/rterr"
)

const defaultWaitTimeout = 30 * time.Second

// workgroupSize is the shader's fixed 8x8 compute workgroup; the caller
// must ensure the render target's width and height are both multiples of
// this before requesting a pipeline.
const workgroupSize = 8

// Pipeline owns one render batch's GPU resources: the compiled shader
// module, bind group layouts/groups, and the compute pipeline itself. It
// is created fresh for each batch and closed afterward, mirroring the
// reference implementation's per-batch pipeline lifecycle.
type Pipeline struct {
	device *Device

	shaderModule     hal.ShaderModule
	pipelineLayout   hal.PipelineLayout
	sceneBindLayout  hal.BindGroupLayout
	outputBindLayout hal.BindGroupLayout
	compute          hal.ComputePipeline

	sceneBindGroup  hal.BindGroup
	outputBindGroup hal.BindGroup

	accumulator hal.Buffer
	width       int
	height      int
}

// SceneBuffers is every storage/uniform buffer the shader's scene bind
// group reads, already packed; the storage buffers carry a leading
// element-count float, the two uniform buffers do not.
type SceneBuffers struct {
	Camera        []byte
	RenderInfo    []byte
	Spheres       []byte
	FreeTriangles []byte
	CubeMap       []byte
	MeshTriangles []byte
	MeshBuffers   [GPUNumMeshBuffers][]byte
}

// NewPipeline compiles the embedded path-tracing shader and builds a fresh
// compute pipeline bound to scene for a width x height render target. Both
// dimensions must be multiples of workgroupSize.
func NewPipeline(device *Device, scene SceneBuffers, width, height int) (*Pipeline, error) {
	if width%workgroupSize != 0 || height%workgroupSize != 0 {
		return nil, rterr.New(rterr.ConfigInvalid, fmt.Sprintf("gpu render target %dx%d must be a multiple of %d", width, height, workgroupSize))
	}

	spirv, err := naga.Compile(pathtraceWGSL)
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuInitFailure, "compile pathtrace shader", err)
	}

	module, err := device.hal.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "pathtrace_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuInitFailure, "create shader module", err)
	}

	p := &Pipeline{device: device, shaderModule: module, width: width, height: height}
	if err := p.createBindGroupLayouts(); err != nil {
		return nil, err
	}
	if err := p.createPipelineLayout(); err != nil {
		return nil, err
	}
	if err := p.createComputePipeline(); err != nil {
		return nil, err
	}
	if err := p.createBuffersAndBindGroups(scene); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) createBindGroupLayouts() error {
	storageEntry := func(binding uint32) types.BindGroupLayoutEntry {
		return types.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: types.ShaderStageCompute,
			Buffer:     &types.BufferBindingLayout{Type: types.BufferBindingTypeReadOnlyStorage},
		}
	}

	entries := []types.BindGroupLayoutEntry{
		{Binding: 0, Visibility: types.ShaderStageCompute, Buffer: &types.BufferBindingLayout{Type: types.BufferBindingTypeUniform}},
		{Binding: 1, Visibility: types.ShaderStageCompute, Buffer: &types.BufferBindingLayout{Type: types.BufferBindingTypeUniform}},
		storageEntry(2), // spheres
		storageEntry(3), // free triangles
		storageEntry(4), // cube map
		storageEntry(5), // mesh triangles
	}
	for i := 0; i < GPUNumMeshBuffers; i++ {
		entries = append(entries, storageEntry(uint32(6+i)))
	}

	sceneLayout, err := p.device.hal.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "pathtrace_scene_layout",
		Entries: entries,
	})
	if err != nil {
		return rterr.Wrap(rterr.GpuInitFailure, "create scene bind group layout", err)
	}
	p.sceneBindLayout = sceneLayout

	outputLayout, err := p.device.hal.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "pathtrace_output_layout",
		Entries: []types.BindGroupLayoutEntry{
			{Binding: 0, Visibility: types.ShaderStageCompute, Buffer: &types.BufferBindingLayout{Type: types.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return rterr.Wrap(rterr.GpuInitFailure, "create output bind group layout", err)
	}
	p.outputBindLayout = outputLayout
	return nil
}

func (p *Pipeline) createPipelineLayout() error {
	layout, err := p.device.hal.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "pathtrace_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.sceneBindLayout, p.outputBindLayout},
	})
	if err != nil {
		return rterr.Wrap(rterr.GpuInitFailure, "create pipeline layout", err)
	}
	p.pipelineLayout = layout
	return nil
}

func (p *Pipeline) createComputePipeline() error {
	pipeline, err := p.device.hal.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "pathtrace_pipeline",
		Layout: p.pipelineLayout,
		Compute: hal.ComputeState{
			Module:     p.shaderModule,
			EntryPoint: "cs_pathtrace",
		},
	})
	if err != nil {
		return rterr.Wrap(rterr.GpuInitFailure, "create compute pipeline", err)
	}
	p.compute = pipeline
	return nil
}

func (p *Pipeline) createBuffersAndBindGroups(scene SceneBuffers) error {
	buf := func(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
		return p.device.createBuffer(label, data, usage|gputypes.BufferUsageCopyDst)
	}

	camera, err := buf("camera_uniform", scene.Camera, gputypes.BufferUsageUniform)
	if err != nil {
		return err
	}
	renderInfo, err := buf("render_info_uniform", scene.RenderInfo, gputypes.BufferUsageUniform)
	if err != nil {
		return err
	}
	spheres, err := buf("spheres_storage", scene.Spheres, gputypes.BufferUsageStorage)
	if err != nil {
		return err
	}
	freeTriangles, err := buf("free_triangles_storage", scene.FreeTriangles, gputypes.BufferUsageStorage)
	if err != nil {
		return err
	}
	cubeMap, err := buf("cube_map_storage", scene.CubeMap, gputypes.BufferUsageStorage)
	if err != nil {
		return err
	}
	meshTriangles, err := buf("mesh_triangles_storage", scene.MeshTriangles, gputypes.BufferUsageStorage)
	if err != nil {
		return err
	}

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{Buffer: camera, Offset: 0, Size: uint64(len(scene.Camera))}},
		{Binding: 1, Resource: gputypes.BufferBinding{Buffer: renderInfo, Offset: 0, Size: uint64(len(scene.RenderInfo))}},
		{Binding: 2, Resource: gputypes.BufferBinding{Buffer: spheres, Offset: 0, Size: uint64(len(scene.Spheres))}},
		{Binding: 3, Resource: gputypes.BufferBinding{Buffer: freeTriangles, Offset: 0, Size: uint64(len(scene.FreeTriangles))}},
		{Binding: 4, Resource: gputypes.BufferBinding{Buffer: cubeMap, Offset: 0, Size: uint64(len(scene.CubeMap))}},
		{Binding: 5, Resource: gputypes.BufferBinding{Buffer: meshTriangles, Offset: 0, Size: uint64(len(scene.MeshTriangles))}},
	}
	for i, meshBuf := range scene.MeshBuffers {
		b, err := buf(fmt.Sprintf("mesh_buffer_%d", i), meshBuf, gputypes.BufferUsageStorage)
		if err != nil {
			return err
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(6 + i),
			Resource: gputypes.BufferBinding{Buffer: b, Offset: 0, Size: uint64(len(meshBuf))},
		})
	}

	sceneGroup, err := p.device.hal.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "pathtrace_scene_group",
		Layout:  p.sceneBindLayout,
		Entries: entries,
	})
	if err != nil {
		return rterr.Wrap(rterr.GpuExecFailure, "create scene bind group", err)
	}
	p.sceneBindGroup = sceneGroup

	outputBytes := uint64(p.width*p.height*4) * 4 // rgba32float accumulator
	accumulator, err := buf("accumulator_storage", make([]byte, outputBytes), gputypes.BufferUsageStorage)
	if err != nil {
		return err
	}
	p.accumulator = accumulator

	outputGroup, err := p.device.hal.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "pathtrace_output_group",
		Layout: p.outputBindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: accumulator, Offset: 0, Size: outputBytes}},
		},
	})
	if err != nil {
		return rterr.Wrap(rterr.GpuExecFailure, "create output bind group", err)
	}
	p.outputBindGroup = outputGroup
	return nil
}

// Dispatch encodes and submits one compute pass over the full render
// target, waits for completion, and returns the accumulator contents as
// RGBA32F floats.
func (p *Pipeline) Dispatch() ([]float32, error) {
	encoder, err := p.device.hal.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "pathtrace_encoder"})
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "create command encoder", err)
	}
	if err := encoder.BeginEncoding("pathtrace_pass"); err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "begin encoding", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "pathtrace_compute"})
	pass.SetPipeline(p.compute)
	pass.SetBindGroup(0, p.sceneBindGroup, nil)
	pass.SetBindGroup(1, p.outputBindGroup, nil)
	pass.DispatchWorkgroups(uint32(p.width/workgroupSize), uint32(p.height/workgroupSize), 1)
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "end encoding", err)
	}
	defer p.device.hal.FreeCommandBuffer(cmdBuf)

	fence, err := p.device.hal.CreateFence()
	if err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "create fence", err)
	}
	defer p.device.hal.DestroyFence(fence)

	if err := p.device.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "submit", err)
	}
	ok, err := p.device.hal.Wait(fence, 1, defaultWaitTimeout)
	if err != nil || !ok {
		return nil, rterr.Wrap(rterr.GpuExecFailure, "wait for fence", err)
	}

	outputBytes := uint64(p.width * p.height * 4 * 4)
	return p.device.readStagingBuffer(p.accumulator, outputBytes)
}

// Close destroys every resource this batch's pipeline created, matching
// the per-batch create/destroy lifecycle the batching loop expects.
func (p *Pipeline) Close() {
	p.device.hal.DestroyBindGroup(p.outputBindGroup)
	p.device.hal.DestroyBindGroup(p.sceneBindGroup)
	p.device.hal.DestroyBuffer(p.accumulator)
	p.device.hal.DestroyComputePipeline(p.compute)
	p.device.hal.DestroyPipelineLayout(p.pipelineLayout)
	p.device.hal.DestroyBindGroupLayout(p.outputBindLayout)
	p.device.hal.DestroyBindGroupLayout(p.sceneBindLayout)
	p.device.hal.DestroyShaderModule(p.shaderModule)
}
