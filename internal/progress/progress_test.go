package progress

import "testing"

func TestCompute_LevelOne(t *testing.T) {
	p := Compute(0, 1000, 1.25)
	if p.Level != 1 || p.Goal != 1000 || p.ScoreInLevel != 0 {
		t.Errorf("Compute(0) = %+v, want level 1, goal 1000, in-level 0", p)
	}

	p = Compute(999, 1000, 1.25)
	if p.Level != 1 || p.ScoreInLevel != 999 {
		t.Errorf("Compute(999) = %+v, want level 1, in-level 999", p)
	}
}

func TestCompute_ExactBoundary(t *testing.T) {
	// Level 1's goal of 1000 is fully consumed, landing at the very start
	// of level 2 whose goal is round(1000 * 1.25) = 1250.
	p := Compute(1000, 1000, 1.25)
	if p.Level != 2 || p.Goal != 1250 || p.ScoreInLevel != 0 {
		t.Errorf("Compute(1000) = %+v, want {2 1250 0}", p)
	}
}

func TestCompute_MidLevel(t *testing.T) {
	p := Compute(1500, 1000, 1.25)
	if p.Level != 2 || p.Goal != 1250 || p.ScoreInLevel != 500 {
		t.Errorf("Compute(1500) = %+v, want {2 1250 500}", p)
	}
}

func TestCompute_GoalRounding(t *testing.T) {
	// Level 3 goal is round(1000 * 1.25^2) = round(1562.5) = 1563.
	p := Compute(1000+1250, 1000, 1.25)
	if p.Level != 3 || p.Goal != 1563 || p.ScoreInLevel != 0 {
		t.Errorf("Compute = %+v, want {3 1563 0}", p)
	}
}

func TestCompute_Monotonic(t *testing.T) {
	prevLevel := 0
	for total := int64(0); total <= 50000; total += 137 {
		p := Compute(total, 1000, 1.25)
		if p.Level < prevLevel {
			t.Fatalf("level decreased at total=%d: %d -> %d", total, prevLevel, p.Level)
		}
		if p.ScoreInLevel >= p.Goal {
			t.Fatalf("invariant scoreInLevel < goal broken at total=%d: %+v", total, p)
		}
		if p.ScoreInLevel < 0 {
			t.Fatalf("negative scoreInLevel at total=%d: %+v", total, p)
		}
		prevLevel = p.Level
	}
}

func TestCompute_PathologicalGrowthTerminates(t *testing.T) {
	// growth 1.0 keeps every goal at round(base); the step cap must stop
	// the walk instead of letting a huge total grind through it.
	p := Compute(1<<40, 1, 1.0)
	if p.Level != maxSteps+1 {
		t.Errorf("level = %d, want cap at %d", p.Level, maxSteps+1)
	}
}

func TestCompute_NegativeTotalClamped(t *testing.T) {
	p := Compute(-5, 1000, 1.25)
	if p.Level != 1 || p.ScoreInLevel != 0 {
		t.Errorf("Compute(-5) = %+v, want level 1 with 0 in-level", p)
	}
}

func TestPercent(t *testing.T) {
	p := Progress{Level: 1, Goal: 1000, ScoreInLevel: 250}
	if got := p.Percent(); got != 25 {
		t.Errorf("Percent = %v, want 25", got)
	}
	p = Progress{Level: 1, Goal: 1000, ScoreInLevel: 2000}
	if got := p.Percent(); got != 100 {
		t.Errorf("Percent capped = %v, want 100", got)
	}
}
