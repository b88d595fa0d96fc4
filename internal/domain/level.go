package domain

import "math"

// ─── Level Curve ────────────────────────────────────────────────────────────
// Advancing from level L to L+1 costs 5×L points:
//
//	L1 → L2:  5   (threshold  0)
//	L2 → L3: 10   (threshold  5)
//	L3 → L4: 15   (threshold 15)
//	L4 → L5: 20   (threshold 30)
//
// The level is never stored; it is recomputed from lifetime points.

const levelStep = 5

// Level is a position on the level curve.
type Level struct {
	Level           int   `json:"level"`
	PointsIntoLevel int64 `json:"points_into_level"`
	PointsForNext   int64 `json:"points_for_next"` // width of the current level
}

// Remaining returns the points still missing to reach the next level.
func (l Level) Remaining() int64 {
	return l.PointsForNext - l.PointsIntoLevel
}

// ProgressPct returns progress through the current level in percent.
func (l Level) ProgressPct() float64 {
	return Percent(l.PointsIntoLevel, l.PointsForNext)
}

// LevelWidth returns the points needed to advance from level to level+1.
func LevelWidth(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(level) * levelStep
}

// maxThresholdLevel is the highest level whose threshold fits in an int64.
const maxThresholdLevel = 1_900_000_000

// Threshold returns the cumulative points at which level is reached.
// Levels too high to represent saturate at math.MaxInt64.
func Threshold(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > maxThresholdLevel {
		return math.MaxInt64
	}
	l := int64(level)
	return levelStep * (l * (l - 1) / 2)
}

// LevelFor maps cumulative points to a level. Negative totals count as zero
// and totals above MaxPoints count as MaxPoints.
func LevelFor(total int64) Level {
	if total < 0 {
		total = 0
	}
	if total > MaxPoints {
		total = MaxPoints
	}
	// Threshold(L) <= total  <=>  L <= (1 + sqrt(1 + 8*total/5)) / 2
	level := int((1 + math.Sqrt(1+8*float64(total)/levelStep)) / 2)
	for level > 1 && Threshold(level) > total {
		level--
	}
	for Threshold(level+1) <= total {
		level++
	}
	width := LevelWidth(level)
	into := total - Threshold(level)
	if into > width {
		into = width
	}
	return Level{Level: level, PointsIntoLevel: into, PointsForNext: width}
}

// LevelUpBonus returns the bonus for reaching level: max(1, ⌊level × 0.05⌋).
func LevelUpBonus(level int) int64 {
	bonus := int64(level) / 20
	if bonus < 1 {
		return 1
	}
	return bonus
}
