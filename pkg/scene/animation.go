package scene

import (
	"math"

	"github.com/mrigankad-go/phototrace/pkg/core"
)

// Easing is the interpolation curve applied between two keyframes.
type Easing int

const (
	EaseLinear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
	EaseStep
)

// Keyframe is one control point of an AnimationTrack: a time in seconds, a
// translation, and the easing that governs the segment starting at it.
type Keyframe struct {
	Time        float64
	Translation core.Vec3
	Easing      Easing
}

// AnimationTrack is a strictly time-increasing sequence of keyframes
// describing a translation-only animation. A track always has at least one
// keyframe.
type AnimationTrack struct {
	Keyframes []Keyframe
}

// Duration returns the track's last keyframe time.
func (t AnimationTrack) Duration() float64 {
	if len(t.Keyframes) == 0 {
		return 0
	}
	return t.Keyframes[len(t.Keyframes)-1].Time
}

// TranslationAt evaluates the track's translation at time, clamping to the
// first keyframe before it and the last keyframe after it.
func (t AnimationTrack) TranslationAt(time float64) core.Vec3 {
	if len(t.Keyframes) == 0 {
		return core.Vec3{}
	}
	if time <= t.Keyframes[0].Time {
		return t.Keyframes[0].Translation
	}
	last := t.Keyframes[len(t.Keyframes)-1]
	if time >= last.Time {
		return last.Translation
	}

	for i := 0; i < len(t.Keyframes)-1; i++ {
		a, b := t.Keyframes[i], t.Keyframes[i+1]
		if time >= a.Time && time <= b.Time {
			span := b.Time - a.Time
			if span <= 0 {
				return b.Translation
			}
			frac := (time - a.Time) / span
			return a.Translation.Lerp(b.Translation, ease(b.Easing, frac))
		}
	}
	return last.Translation
}

// ease remaps a linear [0,1] fraction through the named easing curve.
func ease(kind Easing, frac float64) float64 {
	switch kind {
	case EaseIn:
		return frac * frac
	case EaseOut:
		return 1 - (1-frac)*(1-frac)
	case EaseInOut:
		if frac < 0.5 {
			return 2 * frac * frac
		}
		return 1 - math.Pow(-2*frac+2, 2)/2
	case EaseStep:
		if frac >= 1 {
			return 1
		}
		return 0
	default: // EaseLinear
		return frac
	}
}
