package camera

import (
	"context"
	"math"
	"time"

	"gfascope/flow"
)

const (
	// Virtual physics rate: one integration step each time this much time
	// has accumulated. Matches the animator's feel across render FPS.
	tickInterval = 1.0 / 144.0

	// Pan impulses cannot push the decaying velocity past this magnitude
	// per axis.
	maxPanSpeed = 600.0

	// Zoom momentum below this snaps to zero so the scale cannot drift
	// forever on a residual delta.
	scaleSnapEpsilon = 0.00001
)

// DefaultMinScale bounds how far the camera zooms in when the config does not
// override it.
const DefaultMinScale = 0.5

// animState holds the momentum components. Owned exclusively by the animator
// goroutine, never shared.
type animState struct {
	viewDelta      Vec2 // decaying pan velocity
	viewConstDelta Vec2 // held-direction pan velocity, does not decay
	scaleDelta     float64
}

// state is the full integrator state. Its methods run on a single goroutine:
// the animator's in production, the test's in tests.
type state struct {
	view     View
	anim     animState
	minScale float64
}

// applyCmd applies one command immediately.
func (s *state) applyCmd(c Cmd) {
	switch c := c.(type) {
	case PanConstant:
		// An axis going quiet hands its constant velocity to the
		// decaying component so the motion tails off.
		if c.Delta.X == 0 {
			s.anim.viewDelta.X = s.anim.viewConstDelta.X
		}
		if c.Delta.Y == 0 {
			s.anim.viewDelta.Y = s.anim.viewConstDelta.Y
		}
		s.anim.viewConstDelta = c.Delta
	case Pan:
		s.anim.viewDelta = s.anim.viewDelta.Add(c.Delta)
		s.anim.viewDelta.X = clamp(s.anim.viewDelta.X, -maxPanSpeed, maxPanSpeed)
		s.anim.viewDelta.Y = clamp(s.anim.viewDelta.Y, -maxPanSpeed, maxPanSpeed)
	case Zoom:
		mult := math.Log2(s.view.Scale)
		if mult < 1 || math.IsNaN(mult) {
			mult = 1
		}
		s.anim.scaleDelta += c.Delta * mult
	case SetCenter:
		s.anim.viewDelta = Vec2{}
		s.anim.scaleDelta = 0
		s.view.Center = c.Center
	case SetScale:
		s.anim.viewDelta = Vec2{}
		s.anim.scaleDelta = 0
		s.view.Scale = c.Scale
	case Resize:
		s.view.Width = c.Width
		s.view.Height = c.Height
	}
}

// step advances the integrator by t seconds of elapsed wall time.
func (s *state) step(t float64) {
	friction := 1 - math.Pow(10, t-1)

	dx := s.anim.viewDelta.X + s.anim.viewConstDelta.X
	dy := s.anim.viewDelta.Y + s.anim.viewConstDelta.Y
	dz := s.anim.scaleDelta

	s.view.Scale += t * dz
	if s.view.Scale < s.minScale {
		s.view.Scale = s.minScale
	}

	// Pan speed multiplies by the post-clamp scale so visual pan speed is
	// zoom-invariant.
	s.view.Center.X += t * dx * s.view.Scale
	s.view.Center.Y += t * dy * s.view.Scale

	s.anim.viewDelta = s.anim.viewDelta.Mul(friction)
	s.anim.scaleDelta *= friction
	if math.Abs(s.anim.scaleDelta) < scaleSnapEpsilon {
		s.anim.scaleDelta = 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Animator runs the camera integrator on its own goroutine for the life of
// the process. Producers enqueue commands with Send; the frame loop picks up
// published views with TryView and keeps its previous copy when nothing new
// arrived.
type Animator struct {
	cmds  *flow.Queue[Cmd]
	views *flow.Latest[View]
	st    state
}

// NewAnimator returns an animator starting from the given view. A minScale at
// or below zero falls back to DefaultMinScale.
func NewAnimator(initial View, minScale float64) *Animator {
	if minScale <= 0 {
		minScale = DefaultMinScale
	}
	a := &Animator{
		cmds:  flow.NewQueue[Cmd](),
		views: flow.NewLatest[View](),
		st:    state{view: initial, minScale: minScale},
	}
	// Publish the starting view so the first frame has a transform before
	// the loop's first tick lands.
	a.views.Publish(initial)
	return a
}

// Send enqueues a command for the next physics tick. Safe from any goroutine;
// never blocks.
func (a *Animator) Send(c Cmd) {
	a.cmds.Push(c)
}

// TryView returns the most recently published view, or ok=false when nothing
// new has been published since the last read.
func (a *Animator) TryView() (View, bool) {
	return a.views.TryRecv()
}

// Run integrates until ctx is canceled. It accumulates elapsed wall time and
// applies one step with the full accumulated interval whenever the 144 Hz
// budget is exceeded, then publishes the view. There are no error states; the
// loop only ends with the process.
func (a *Animator) Run(ctx context.Context) {
	wake := time.NewTicker(time.Millisecond)
	defer wake.Stop()

	last := time.Now()
	acc := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-wake.C:
		}

		now := time.Now()
		acc += now.Sub(last).Seconds()
		last = now

		if acc > tickInterval {
			a.tick(acc)
			acc = 0
		}
	}
}

// tick is one full physics pass: drain all pending commands in order, advance
// the integrator by t, publish the result.
func (a *Animator) tick(t float64) {
	a.cmds.Drain(a.st.applyCmd)
	a.st.step(t)
	a.views.Publish(a.st.view)
}
