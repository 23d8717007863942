// Package camera owns the view transform for the graph canvas. A free-running
// animator goroutine integrates pan/zoom momentum at a virtual 144 Hz and
// publishes each resulting View through a single-slot channel; everything else
// only ever reads snapshots and enqueues commands.
package camera

// Vec2 is a point or direction in world coordinates.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// View is the camera state: world-space center, zoom scale (world units per
// screen unit, so larger means further out) and viewport dimensions in screen
// units. Only the animator mutates it; consumers read published copies.
type View struct {
	Center Vec2
	Scale  float64
	Width  float64
	Height float64
}

// NewView returns a view centered on the origin at scale 1.
func NewView(width, height float64) View {
	return View{Scale: 1, Width: width, Height: height}
}

// WorldToScreen projects a world point into viewport coordinates with the
// origin at the top-left corner.
func (v View) WorldToScreen(p Vec2) Vec2 {
	return Vec2{
		X: (p.X-v.Center.X)/v.Scale + v.Width/2,
		Y: (p.Y-v.Center.Y)/v.Scale + v.Height/2,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (v View) ScreenToWorld(p Vec2) Vec2 {
	return Vec2{
		X: (p.X-v.Width/2)*v.Scale + v.Center.X,
		Y: (p.Y-v.Height/2)*v.Scale + v.Center.Y,
	}
}
