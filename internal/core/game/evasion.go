package game

import (
	"math"
	"math/rand"
)

// Every bounceEvery-th relocation grows the button back instead of
// shrinking it, capped at the base size.
const defaultBounceEvery = 7

const growthFactor = 1.25

// Controller computes button placements: random relocation on clicks,
// directional evasion on pointer proximity. It is deterministic geometry
// over an injected randomness source; the UI applies whatever it returns.
type Controller struct {
	rng         *rand.Rand
	minSize     Size
	baseSize    Size
	bounceEvery int
	moves       int
	lastGood    Placement
	hasGood     bool
}

// NewController builds a controller. minSize is the floor the button never
// shrinks below; baseSize caps growth bounces.
func NewController(rng *rand.Rand, minSize, baseSize Size) *Controller {
	return &Controller{
		rng:         rng,
		minSize:     minSize,
		baseSize:    baseSize,
		bounceEvery: defaultBounceEvery,
	}
}

// ComputeNextPlacement picks the button's next position and size after a
// click. Malformed bounds return the last known-good placement unchanged;
// bounds too small for the minimum button size degenerate to centering.
func (c *Controller) ComputeNextPlacement(current Placement, bounds Bounds, params EffectParameters, pointer Point) Placement {
	if !bounds.Valid() {
		if c.hasGood {
			return c.lastGood
		}
		return current
	}
	if bounds.W < c.minSize.W || bounds.H < c.minSize.H {
		return c.remember(centered(current, bounds))
	}

	c.moves++
	w, h := c.nextSize(current, params)

	dx := (c.rng.Float32()*2 - 1) * params.MoveRadius
	dy := (c.rng.Float32()*2 - 1) * params.MoveRadius
	if params.EvasionRadius > 0 {
		if away, ok := awayVector(current.Center(), pointer, params.EvasionRadius); ok {
			dx += away.X
			dy += away.Y
		}
	}

	next := Placement{X: current.X + dx, Y: current.Y + dy, W: w, H: h}
	return c.remember(ClampTo(next, bounds))
}

// EvadePointer nudges the button directly away from a pointer inside the
// evasion radius. Position only; size changes are a click-time effect. The
// step grows as the pointer gets closer, matching proportional flight.
func (c *Controller) EvadePointer(current Placement, bounds Bounds, params EffectParameters, pointer Point) (Placement, bool) {
	if params.EvasionRadius <= 0 || !bounds.Valid() {
		return current, false
	}

	center := current.Center()
	vx := float64(center.X - pointer.X)
	vy := float64(center.Y - pointer.Y)
	dist := math.Hypot(vx, vy)
	if dist >= float64(params.EvasionRadius) || dist < 1 {
		return current, false
	}

	step := math.Max(20, (float64(params.EvasionRadius)-dist)/2)
	next := Placement{
		X: current.X + float32(vx/dist*step),
		Y: current.Y + float32(vy/dist*step),
		W: current.W,
		H: current.H,
	}
	return c.remember(ClampTo(next, bounds)), true
}

// JiggleOffsets returns the shake deltas for one jiggle animation. The
// deltas sum to zero: the settled placement stays the source of truth.
func JiggleOffsets(params EffectParameters) []Point {
	a := params.JiggleAmplitude
	return []Point{
		{X: -a}, {X: 2 * a}, {X: -a},
		{Y: -a}, {Y: 2 * a}, {Y: -a},
	}
}

// ClampTo moves and shrinks p as needed so it sits fully inside bounds.
func ClampTo(p Placement, b Bounds) Placement {
	if p.W > b.W {
		p.W = b.W
	}
	if p.H > b.H {
		p.H = b.H
	}
	p.X = clamp(p.X, b.X, b.X+b.W-p.W)
	p.Y = clamp(p.Y, b.Y, b.Y+b.H-p.H)
	return p
}

func (c *Controller) nextSize(current Placement, params EffectParameters) (float32, float32) {
	if c.bounceEvery > 0 && c.moves%c.bounceEvery == 0 {
		return min(current.W*growthFactor, c.baseSize.W),
			min(current.H*growthFactor, c.baseSize.H)
	}
	return max(current.W*params.ShrinkFactor, c.minSize.W),
		max(current.H*params.ShrinkFactor, c.minSize.H)
}

func (c *Controller) remember(p Placement) Placement {
	c.lastGood = p
	c.hasGood = true
	return p
}

// awayVector is the pointer-to-center direction scaled to the evasion
// radius, or ok=false when the pointer is outside it. A pointer dead on the
// center gets an arbitrary fixed direction.
func awayVector(center, pointer Point, radius float32) (Point, bool) {
	vx := float64(center.X - pointer.X)
	vy := float64(center.Y - pointer.Y)
	dist := math.Hypot(vx, vy)
	if dist >= float64(radius) {
		return Point{}, false
	}
	if dist < 1 {
		return Point{X: radius}, true
	}
	return Point{
		X: float32(vx / dist * float64(radius)),
		Y: float32(vy / dist * float64(radius)),
	}, true
}

func centered(current Placement, b Bounds) Placement {
	w := min(current.W, b.W)
	h := min(current.H, b.H)
	return Placement{X: b.X + (b.W-w)/2, Y: b.Y + (b.H-h)/2, W: w, H: h}
}

func clamp(v, lo, hi float32) float32 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
