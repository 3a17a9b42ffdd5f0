package scheme

import (
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/rterr"
)

func validRenderInfo() RenderInfo {
	return RenderInfo{Width: 64, Height: 64, SampsPerPix: 16}
}

func TestRenderInfoValidateRejectsNonPositiveDimensions(t *testing.T) {
	r := validRenderInfo()
	r.Width = 0
	if err := r.Validate(); err == nil {
		t.Fatal("expected an error for zero width")
	}
}

func TestRenderInfoValidateRejectsNonPositiveSamples(t *testing.T) {
	r := validRenderInfo()
	r.SampsPerPix = 0
	if err := r.Validate(); err == nil {
		t.Fatal("expected an error for zero samps_per_pix")
	}
}

func TestRenderInfoValidateGpuRequiresMultipleOf8Dimensions(t *testing.T) {
	r := validRenderInfo()
	r.UseGpu = true
	r.Width = 65
	r.GpuRenderBatch = 8
	r.SampsPerPix = 16
	if err := r.Validate(); err == nil {
		t.Fatal("expected an error for a GPU width not a multiple of 8")
	}
}

func TestRenderInfoValidateGpuRequiresBatchDivisibility(t *testing.T) {
	r := validRenderInfo()
	r.UseGpu = true
	r.GpuRenderBatch = 5
	r.SampsPerPix = 16
	if err := r.Validate(); err == nil {
		t.Fatal("expected an error when samps_per_pix is not divisible by gpu_render_batch")
	}
}

func TestRenderInfoValidateAnimationRequiresFramerate(t *testing.T) {
	r := validRenderInfo()
	r.Animation = true
	if err := r.Validate(); err == nil {
		t.Fatal("expected an error when animation is set without a framerate")
	}
}

func TestRenderInfoValidateAcceptsWellFormedConfig(t *testing.T) {
	r := validRenderInfo()
	r.UseGpu = true
	r.GpuRenderBatch = 8
	r.Animation = true
	r.Framerate = 24
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte("not json"))
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if e, ok := err.(*rterr.Error); !ok || e.Kind != rterr.ConfigInvalid {
		t.Fatalf("expected ConfigInvalid *rterr.Error, got %#v", err)
	}
}

func TestDecodeParsesSceneMembersAndRenderInfo(t *testing.T) {
	doc := `{
		"cam": {"origin": [0,0,5], "look_at": [0,0,0], "up": [0,1,0], "vfov_deg": 40, "aperture": 0, "focus_dist": 5},
		"scene_members": [
			{"Sphere": {"center": [0,0,0], "radius": 1, "albedo": [1,0,0], "diffuse_weight": 1, "specular_weight": 0, "roughness": 1}}
		],
		"render_info": {"width": 32, "height": 32, "samps_per_pix": 4, "rad_info": {"max_depth": 4, "rr_start_depth": 2, "rr_survival": 0.9}}
	}`
	sch, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(sch.SceneMembers) != 1 || sch.SceneMembers[0].Sphere == nil {
		t.Fatalf("expected one decoded Sphere member, got %+v", sch.SceneMembers)
	}
	if sch.SceneMembers[0].Sphere.Radius != 1 {
		t.Errorf("Sphere.Radius = %f, want 1", sch.SceneMembers[0].Sphere.Radius)
	}
}
