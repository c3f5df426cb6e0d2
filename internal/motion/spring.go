package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/katistix/envelope/internal/phase"
)

// Spring describes a damped spring the way animation tools do.
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

var (
	// Gentle carries the letter in and out of the envelope.
	Gentle = Spring{Stiffness: 90, Damping: 18, Mass: 1}
	// Firm settles the opened letter and the flowers.
	Firm = Spring{Stiffness: 110, Damping: 24, Mass: 1}
)

// SpringFor returns the spring used while moving toward p's targets.
func SpringFor(p phase.Phase) Spring {
	if p == phase.Expanded || p == phase.Flowers {
		return Firm
	}
	return Gentle
}

// AngularFrequency is sqrt(k/m).
func (s Spring) AngularFrequency() float64 {
	return math.Sqrt(s.Stiffness / s.mass())
}

// DampingRatio is c / (2 sqrt(k m)). Below 1 the spring overshoots.
func (s Spring) DampingRatio() float64 {
	return s.Damping / (2 * math.Sqrt(s.Stiffness*s.mass()))
}

func (s Spring) mass() float64 {
	if s.Mass <= 0 {
		return 1
	}
	return s.Mass
}

// settleEpsilon is how close position and velocity must be to rest for
// an animator to count as settled.
const settleEpsilon = 0.01

// Animator moves a Pose toward a target, one frame per Step.
type Animator struct {
	fps      int
	spring   harmonica.Spring
	pose     Pose
	velocity Pose
	target   Pose
}

// NewAnimator returns an animator resting at start, stepping at fps.
func NewAnimator(fps int, start Pose) *Animator {
	if fps <= 0 {
		fps = 60
	}
	a := &Animator{fps: fps, pose: start, target: start}
	a.spring = harmonica.NewSpring(harmonica.FPS(fps), Gentle.AngularFrequency(), Gentle.DampingRatio())
	return a
}

// SetTarget retargets the animator. Velocity is kept, so a retarget in
// mid-flight bends the motion instead of restarting it.
func (a *Animator) SetTarget(target Pose, s Spring) {
	a.target = target
	a.spring = harmonica.NewSpring(harmonica.FPS(a.fps), s.AngularFrequency(), s.DampingRatio())
}

// Step advances the animation by one frame.
func (a *Animator) Step() {
	a.pose.Y, a.velocity.Y = a.spring.Update(a.pose.Y, a.velocity.Y, a.target.Y)
	a.pose.Scale, a.velocity.Scale = a.spring.Update(a.pose.Scale, a.velocity.Scale, a.target.Scale)
	a.pose.Rotate, a.velocity.Rotate = a.spring.Update(a.pose.Rotate, a.velocity.Rotate, a.target.Rotate)
	a.pose.Opacity, a.velocity.Opacity = a.spring.Update(a.pose.Opacity, a.velocity.Opacity, a.target.Opacity)
	a.pose.Shadow, a.velocity.Shadow = a.spring.Update(a.pose.Shadow, a.velocity.Shadow, a.target.Shadow)
}

// Snap jumps to the target and stops.
func (a *Animator) Snap() {
	a.pose = a.target
	a.velocity = Pose{}
}

// Pose returns the current pose, clamped for drawing.
func (a *Animator) Pose() Pose { return a.pose.Clamp() }

// Target returns the pose the animator is moving toward.
func (a *Animator) Target() Pose { return a.target }

// Settled reports whether the animator is at rest on its target.
func (a *Animator) Settled() bool {
	near := func(pos, vel, target float64) bool {
		return math.Abs(pos-target) < settleEpsilon && math.Abs(vel) < settleEpsilon
	}
	return near(a.pose.Y, a.velocity.Y, a.target.Y) &&
		near(a.pose.Scale, a.velocity.Scale, a.target.Scale) &&
		near(a.pose.Rotate, a.velocity.Rotate, a.target.Rotate) &&
		near(a.pose.Opacity, a.velocity.Opacity, a.target.Opacity) &&
		near(a.pose.Shadow, a.velocity.Shadow, a.target.Shadow)
}
