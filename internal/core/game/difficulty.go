package game

const (
	// LevelThreshold is how many clicks advance one difficulty level.
	LevelThreshold = 3
	// MaxLevel caps effect intensity no matter how many clicks land.
	MaxLevel = 5
	// EvasionLevel is the first level at which the button evades the pointer.
	EvasionLevel = 3
)

// Tracker counts clicks and derives the difficulty level. It is owned by the
// UI goroutine; all mutation happens there.
type Tracker struct {
	count int
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// OnClick records a click and returns the new state.
func (t *Tracker) OnClick() ClickState {
	t.count++
	return t.State()
}

func (t *Tracker) State() ClickState {
	return ClickState{Count: t.count, Level: LevelFor(t.count)}
}

// Parameters returns the effect parameters for the current level.
func (t *Tracker) Parameters() EffectParameters {
	return ParametersFor(LevelFor(t.count))
}

// LevelFor maps a click count to a difficulty level: one level per
// LevelThreshold clicks, capped at MaxLevel. Non-decreasing in count.
func LevelFor(count int) int {
	if count < 0 {
		return 0
	}
	level := count / LevelThreshold
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}

// ParametersFor derives effect parameters from a level. Out-of-range levels
// clamp to the nearest valid one.
func ParametersFor(level int) EffectParameters {
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	params := EffectParameters{
		MoveRadius:      20 + 18*float32(level),
		ShrinkFactor:    1 - 0.05*float32(level),
		JiggleAmplitude: 4 + 2*float32(level),
	}
	if level >= EvasionLevel {
		params.EvasionRadius = 50 + 25*float32(level-EvasionLevel+1)
	}
	return params
}
