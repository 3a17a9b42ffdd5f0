// Package scheme decodes the JSON scene description (camera, tagged scene
// members, render configuration) and validates render_info before any
// rendering starts.
package scheme

import (
	"encoding/json"
	"fmt"

	"github.com/mrigankad-go/phototrace/pkg/rterr"
)

// Scheme is the top-level JSON document: camera, scene members, and render
// configuration.
type Scheme struct {
	Cam          Cam        `json:"cam"`
	SceneMembers []Member   `json:"scene_members"`
	RenderInfo   RenderInfo `json:"render_info"`
}

// Cam is the camera block.
type Cam struct {
	Origin    [3]float64 `json:"origin"`
	LookAt    [3]float64 `json:"look_at"`
	Up        [3]float64 `json:"up"`
	VfovDeg   float64    `json:"vfov_deg"`
	Aperture  float64    `json:"aperture"`
	FocusDist float64    `json:"focus_dist"`
}

// RadInfo tunes the radiance kernel.
type RadInfo struct {
	MaxDepth     int     `json:"max_depth"`
	RRStartDepth int     `json:"rr_start_depth"`
	RRSurvival   float64 `json:"rr_survival"`
	DLSEnabled   bool    `json:"dls_enabled"`
}

// RenderInfo is the render_info block.
type RenderInfo struct {
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	SampsPerPix       int     `json:"samps_per_pix"`
	RadInfo           RadInfo `json:"rad_info"`
	KdTreeDepth       int     `json:"kd_tree_depth"`
	UseGpu            bool    `json:"use_gpu"`
	Animation         bool    `json:"animation"`
	Framerate         float64 `json:"framerate"`
	GpuRenderBatch    int     `json:"gpu_render_batch"`
	AnimPipelineDepth int     `json:"anim_pipeline_depth"`
}

// Decode parses a Scheme document and validates its render_info.
func Decode(data []byte) (*Scheme, error) {
	var s Scheme
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, rterr.Wrap(rterr.ConfigInvalid, "malformed scheme document", err)
	}
	if err := s.RenderInfo.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate enforces the render_info invariants from the external-interface
// contract: positive sample counts, GPU batch divisibility, multiple-of-8
// dimensions in GPU mode, and a framerate when animation is enabled.
func (r RenderInfo) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return rterr.New(rterr.ConfigInvalid, fmt.Sprintf("width and height must be positive, got %dx%d", r.Width, r.Height))
	}
	if r.SampsPerPix <= 0 {
		return rterr.New(rterr.ConfigInvalid, fmt.Sprintf("samps_per_pix must be >= 1, got %d", r.SampsPerPix))
	}
	if r.UseGpu {
		if r.Width%8 != 0 || r.Height%8 != 0 {
			return rterr.New(rterr.ConfigInvalid, fmt.Sprintf("GPU mode requires width and height to be multiples of 8, got %dx%d", r.Width, r.Height))
		}
		if r.GpuRenderBatch <= 0 {
			return rterr.New(rterr.ConfigInvalid, "gpu_render_batch is required when use_gpu is set")
		}
		if r.SampsPerPix%r.GpuRenderBatch != 0 {
			return rterr.New(rterr.ConfigInvalid, fmt.Sprintf("samps_per_pix (%d) must be divisible by gpu_render_batch (%d)", r.SampsPerPix, r.GpuRenderBatch))
		}
	}
	if r.Animation && r.Framerate <= 0 {
		return rterr.New(rterr.ConfigInvalid, "framerate is required when animation is set")
	}
	return nil
}
