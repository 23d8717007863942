package camera

// Cmd is one camera command. Input handling enqueues them from any goroutine;
// only the animator consumes them, draining once per physics tick and applying
// each in enqueue order. Redundant commands are all applied, the last winning.
type Cmd interface {
	isCmd()
}

// Pan adds a one-off impulse to the decaying pan velocity. The resulting
// velocity is clamped per axis so repeated key presses cannot exceed a bounded
// top speed.
type Pan struct {
	Delta Vec2
}

// PanConstant sets the non-decaying pan velocity, used while a direction is
// held. Zeroing an axis hands that axis's constant velocity over to the
// decaying component, so releasing a direction flings instead of stopping dead.
type PanConstant struct {
	Delta Vec2
}

// Zoom adds to the zoom momentum. The delta is amplified by max(1, log2(scale))
// so zoom steps stay proportional when far out.
type Zoom struct {
	Delta float64
}

// SetCenter jumps the view to a center, killing decaying momentum.
type SetCenter struct {
	Center Vec2
}

// SetScale jumps the view to a scale, killing decaying momentum.
type SetScale struct {
	Scale float64
}

// Resize updates the viewport dimensions.
type Resize struct {
	Width  float64
	Height float64
}

func (Pan) isCmd()         {}
func (PanConstant) isCmd() {}
func (Zoom) isCmd()        {}
func (SetCenter) isCmd()   {}
func (SetScale) isCmd()    {}
func (Resize) isCmd()      {}
