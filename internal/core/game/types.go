package game

// Geometry is expressed in whatever units the caller works in: the desktop
// UI passes pixels, the terminal UI passes character cells.

type Point struct {
	X float32
	Y float32
}

type Size struct {
	W float32
	H float32
}

type Bounds struct {
	X float32
	Y float32
	W float32
	H float32
}

// Valid reports whether the bounds describe a usable area.
func (b Bounds) Valid() bool {
	return b.W > 0 && b.H > 0
}

// Placement is a button position and size inside some bounds.
type Placement struct {
	X float32
	Y float32
	W float32
	H float32
}

func (p Placement) Center() Point {
	return Point{X: p.X + p.W/2, Y: p.Y + p.H/2}
}

// ClickState is the click counter and the difficulty level derived from it.
type ClickState struct {
	Count int
	Level int
}

// EffectParameters scale the cosmetic effects for one difficulty level.
// All values are non-negative; EvasionRadius is zero below the evasion level.
type EffectParameters struct {
	MoveRadius      float32
	ShrinkFactor    float32
	JiggleAmplitude float32
	EvasionRadius   float32
}

// Scaled returns the parameters with every radius and amplitude multiplied
// by f. The shrink factor is a ratio and stays as-is.
func (p EffectParameters) Scaled(f float32) EffectParameters {
	p.MoveRadius *= f
	p.JiggleAmplitude *= f
	p.EvasionRadius *= f
	return p
}
