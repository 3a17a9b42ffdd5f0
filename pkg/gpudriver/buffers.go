package gpudriver

import (
	"encoding/binary"
	"math"
)

// bytesToFloat32 reinterprets a little-endian byte slice as a float32
// slice, used to decode a staging buffer's raw readback.
func bytesToFloat32(raw []byte) []float32 {
	out := make([]float32, len(raw)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// packCounted prepends a float32 element count to a float32 payload. Every
// storage buffer the shader reads from carries this leading count because
// the GPU backend refuses to bind a zero-length buffer; an empty scene
// still uploads a one-element buffer whose count field reads zero.
func packCounted(payload []float32) []byte {
	buf := make([]byte, (len(payload)+1)*4)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(len(payload))))
	for i, v := range payload {
		binary.LittleEndian.PutUint32(buf[(i+1)*4:], math.Float32bits(v))
	}
	return buf
}

// float32sToBytes encodes a float32 slice as little-endian bytes with no
// leading count, for fixed-size uniform buffers.
func float32sToBytes(payload []float32) []byte {
	buf := make([]byte, len(payload)*4)
	for i, v := range payload {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// MeshVertexFloats is the fixed per-vertex arity packed into each mesh
// buffer: position (3), normal (3), uv (2), mesh/group id (2).
const MeshVertexFloats = 10

// GPUNumMeshBuffers is the fixed arity of mesh-vertex storage buffers the
// pipeline's bind group layout declares; bin-packing spreads meshes across
// this many buffers rather than growing the layout per scene.
const GPUNumMeshBuffers = 4

// MeshChunk is one bin of packed mesh-vertex data bound to a single mesh
// buffer slot, capped so no chunk's byte size exceeds MaxBufferSize.
type MeshChunk struct {
	Vertices []float32 // flattened, MeshVertexFloats per vertex
}

// packMeshChunks bin-packs flattened per-mesh vertex data across
// GPUNumMeshBuffers buffers, each capped at MaxBufferSize bytes, greedily
// filling the least-full chunk that still has room. Meshes larger than a
// single chunk's capacity are an input error the caller should catch
// earlier (ConfigInvalid), not something this function subdivides.
func packMeshChunks(meshes [][]float32) []MeshChunk {
	chunks := make([]MeshChunk, GPUNumMeshBuffers)
	chunkBytes := make([]int, GPUNumMeshBuffers)
	capacity := MaxBufferSize

	for _, mesh := range meshes {
		meshBytes := len(mesh) * 4
		best := 0
		for i := 1; i < GPUNumMeshBuffers; i++ {
			if chunkBytes[i] < chunkBytes[best] {
				best = i
			}
		}
		if chunkBytes[best]+meshBytes > capacity {
			continue // caller is expected to have validated mesh sizes up front
		}
		chunks[best].Vertices = append(chunks[best].Vertices, mesh...)
		chunkBytes[best] += meshBytes
	}
	return chunks
}
