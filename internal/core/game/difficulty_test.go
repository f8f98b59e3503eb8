package game

import "testing"

func TestLevelForMonotonicAndCapped(t *testing.T) {
	prev := 0
	for count := 0; count <= 200; count++ {
		level := LevelFor(count)
		if level < prev {
			t.Fatalf("LevelFor(%d) = %d, decreased from %d", count, level, prev)
		}
		if level > MaxLevel {
			t.Fatalf("LevelFor(%d) = %d exceeds max %d", count, level, MaxLevel)
		}
		prev = level
	}
	if LevelFor(10000) != MaxLevel {
		t.Fatalf("LevelFor(10000) = %d, want max %d", LevelFor(10000), MaxLevel)
	}
}

func TestLevelForSteps(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{2, 0},
		{3, 1},
		{5, 1},
		{6, 2},
		{14, 4},
		{15, 5},
		{16, 5},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.count); got != tc.want {
			t.Fatalf("LevelFor(%d) = %d, want %d", tc.count, got, tc.want)
		}
	}
}

func TestOnClickIncrements(t *testing.T) {
	tracker := NewTracker()
	for i := 1; i <= 10; i++ {
		state := tracker.OnClick()
		if state.Count != i {
			t.Fatalf("OnClick() count = %d, want %d", state.Count, i)
		}
		if state.Level != LevelFor(i) {
			t.Fatalf("OnClick() level = %d, want %d", state.Level, LevelFor(i))
		}
	}
}

func TestParametersIdempotentBetweenClicks(t *testing.T) {
	tracker := NewTracker()
	tracker.OnClick()
	tracker.OnClick()
	tracker.OnClick()

	first := tracker.Parameters()
	second := tracker.Parameters()
	if first != second {
		t.Fatalf("Parameters() not stable between clicks: %#v vs %#v", first, second)
	}
}

func TestParametersNonNegativeAndEvasionGate(t *testing.T) {
	for level := -1; level <= MaxLevel+2; level++ {
		p := ParametersFor(level)
		if p.MoveRadius < 0 || p.ShrinkFactor < 0 || p.JiggleAmplitude < 0 || p.EvasionRadius < 0 {
			t.Fatalf("ParametersFor(%d) has a negative field: %#v", level, p)
		}
		effective := level
		if effective < 0 {
			effective = 0
		}
		if effective > MaxLevel {
			effective = MaxLevel
		}
		if effective < EvasionLevel && p.EvasionRadius != 0 {
			t.Fatalf("level %d should not evade, got radius %f", level, p.EvasionRadius)
		}
		if effective >= EvasionLevel && p.EvasionRadius <= 0 {
			t.Fatalf("level %d should evade, got radius %f", level, p.EvasionRadius)
		}
	}
}
