// Package progress computes the shared community level from the global
// click total. Each level's goal grows geometrically: level 1 costs
// round(base) points, level n costs round(base * growth^(n-1)).
package progress

import "math"

// maxSteps bounds the level walk so a degenerate growth value (<= 1 with a
// runaway total) cannot spin forever. On hitting the cap the last computed
// state is returned as-is.
const maxSteps = 10000

type Progress struct {
	Level        int   `json:"level"`
	Goal         int64 `json:"goal"`
	ScoreInLevel int64 `json:"scoreInLevel"`
}

// Compute walks the geometric goal sequence, consuming total until the
// remainder no longer covers the current level's goal.
func Compute(total int64, base, growth float64) Progress {
	if total < 0 {
		total = 0
	}
	level := 1
	goal := goalFor(1, base, growth)
	remaining := total

	for steps := 0; remaining >= goal && steps < maxSteps; steps++ {
		remaining -= goal
		level++
		goal = goalFor(level, base, growth)
	}

	return Progress{Level: level, Goal: goal, ScoreInLevel: remaining}
}

// Percent is the fill percentage of the current level's meter, capped at 100.
func (p Progress) Percent() float64 {
	if p.Goal <= 0 {
		return 0
	}
	return math.Min(100, float64(p.ScoreInLevel)/float64(p.Goal)*100)
}

func goalFor(level int, base, growth float64) int64 {
	g := int64(math.Round(base * math.Pow(growth, float64(level-1))))
	if g < 1 {
		g = 1
	}
	return g
}
