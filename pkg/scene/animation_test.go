package scene

import (
	"math"
	"testing"

	"github.com/mrigankad-go/phototrace/pkg/core"
)

func TestAnimationTrackClampsBeforeFirstAndAfterLast(t *testing.T) {
	track := AnimationTrack{Keyframes: []Keyframe{
		{Time: 1, Translation: core.NewVec3(1, 0, 0), Easing: EaseLinear},
		{Time: 3, Translation: core.NewVec3(3, 0, 0), Easing: EaseLinear},
	}}

	before := track.TranslationAt(0)
	approxVec3(t, "before first keyframe", before, core.NewVec3(1, 0, 0), 1e-9)

	after := track.TranslationAt(10)
	approxVec3(t, "after last keyframe", after, core.NewVec3(3, 0, 0), 1e-9)
}

func TestAnimationTrackLinearInterpolation(t *testing.T) {
	track := AnimationTrack{Keyframes: []Keyframe{
		{Time: 0, Translation: core.NewVec3(0, 0, 0), Easing: EaseLinear},
		{Time: 2, Translation: core.NewVec3(4, 0, 0), Easing: EaseLinear},
	}}

	mid := track.TranslationAt(1)
	approxVec3(t, "midpoint", mid, core.NewVec3(2, 0, 0), 1e-9)
}

func TestAnimationTrackStepHoldsUntilNextKeyframe(t *testing.T) {
	track := AnimationTrack{Keyframes: []Keyframe{
		{Time: 0, Translation: core.NewVec3(0, 0, 0), Easing: EaseStep},
		{Time: 2, Translation: core.NewVec3(4, 0, 0), Easing: EaseStep},
	}}

	justBefore := track.TranslationAt(1.99)
	approxVec3(t, "just before next keyframe", justBefore, core.NewVec3(0, 0, 0), 1e-9)
}

func TestAnimationTrackDuration(t *testing.T) {
	track := AnimationTrack{Keyframes: []Keyframe{
		{Time: 0, Translation: core.NewVec3(0, 0, 0), Easing: EaseLinear},
		{Time: 5.5, Translation: core.NewVec3(1, 1, 1), Easing: EaseLinear},
	}}
	if got := track.Duration(); math.Abs(got-5.5) > 1e-9 {
		t.Errorf("Duration() = %f, want 5.5", got)
	}
}
