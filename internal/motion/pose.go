// Package motion turns a card phase into animation targets and moves the
// rendered pieces toward them with damped springs.
//
// Distances are in design pixels, the unit the card was laid out in.
// The terminal renderer converts them to rows and columns.
package motion

import (
	"math"

	"github.com/katistix/envelope/internal/phase"
)

// Pose is where a piece of the card should be drawn and how.
type Pose struct {
	Y       float64 // vertical offset, negative is up
	Scale   float64
	Rotate  float64 // degrees, negative tilts left
	Opacity float64 // 0..1
	Shadow  float64 // shadow strength, 0..1
}

// Clamp limits Opacity and Shadow to [0, 1] and Scale to non-negative
// values; springs overshoot.
func (p Pose) Clamp() Pose {
	p.Opacity = clamp01(p.Opacity)
	p.Shadow = clamp01(p.Shadow)
	if p.Scale < 0 {
		p.Scale = 0
	}
	return p
}

// Visible reports whether the pose is opaque enough to draw.
func (p Pose) Visible() bool {
	return p.Clamp().Opacity >= 0.25
}

// Letter starting pose, tucked into the envelope.
var letterHidden = Pose{Y: 30, Scale: 0.95, Opacity: 0, Shadow: 0.05}

// LetterStart is the pose the letter is created in.
func LetterStart() Pose { return letterHidden }

// LetterPose is the letter's target for p.
func LetterPose(p phase.Phase) Pose {
	switch p {
	case phase.Peek:
		return Pose{Y: -120, Scale: 1, Opacity: 1, Shadow: 0.05}
	case phase.Outside:
		return Pose{Y: 0, Scale: 1, Rotate: -4, Opacity: 1, Shadow: 0.12}
	case phase.Expanded, phase.Flowers:
		return Pose{Y: -85, Scale: 1.08, Rotate: -1.5, Opacity: 1, Shadow: 0.15}
	default:
		return Pose{Y: 30, Scale: 1, Opacity: 0, Shadow: 0.05}
	}
}

// EnvelopePose is the envelope's target for p. The idle bob of a closed
// envelope is not part of the target; see Bob.
func EnvelopePose(p phase.Phase) Pose {
	switch p {
	case phase.Closed:
		return Pose{Y: 0, Scale: 1, Opacity: 1, Shadow: 0.6}
	case phase.Expanded, phase.Flowers:
		return Pose{Y: 30, Scale: 0.95, Opacity: 1, Shadow: 0.2}
	default:
		return Pose{Y: 20, Scale: 1.05, Opacity: 1, Shadow: 0.2}
	}
}

// FlowersStart is the pose the flower scene enters from.
func FlowersStart() Pose { return Pose{Y: 30, Scale: 0.95, Opacity: 0} }

// FlowersPose is the flower scene's target for p. Outside Flowers the
// scene fades out and shrinks.
func FlowersPose(p phase.Phase) Pose {
	if p == phase.Flowers {
		return Pose{Y: -85, Scale: 1.08, Rotate: -1.5, Opacity: 1, Shadow: 0.15}
	}
	return Pose{Y: -85, Scale: 0.9, Opacity: 0}
}

// BobPeriod is the length of one idle bob of the closed envelope.
const BobPeriod = 3.0

// BobDepth is how far the closed envelope rises at the top of a bob.
const BobDepth = 12.0

// Bob returns the idle vertical offset of a closed envelope t seconds
// into the animation: an ease-in-out swing from 0 up to -BobDepth and back.
func Bob(t float64) float64 {
	phaseAngle := 2 * math.Pi * math.Mod(t, BobPeriod) / BobPeriod
	return -BobDepth * (1 - math.Cos(phaseAngle)) / 2
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
