package engine

import "time"

// lineScores maps a simultaneous line-clear count to its base point value.
var lineScores = [5]int{0, 40, 100, 300, 1200}

// LineScore returns the points awarded for clearing lines rows at once on
// the given level. Counts above 4 cannot occur under normal play; they fall
// back to 40 x lines x level rather than panicking.
func LineScore(lines, level int) int {
	if lines <= 0 {
		return 0
	}
	if level < 1 {
		level = 1
	}
	if lines > 4 {
		return 40 * lines * level
	}
	return lineScores[lines] * level
}

// SoftDropScore returns the points for manually dropping through cells rows.
func SoftDropScore(cells int) int {
	if cells < 0 {
		return 0
	}
	return cells
}

// HardDropScore returns the points for hard-dropping through cells rows.
func HardDropScore(cells int) int {
	if cells < 0 {
		return 0
	}
	return 2 * cells
}

// LevelForLines returns the level implied by a cumulative line count: one
// level per 10 cleared lines, starting at 1.
func LevelForLines(totalLines int) int {
	if totalLines < 0 {
		totalLines = 0
	}
	return totalLines/10 + 1
}

// DropInterval returns the automatic-fall cadence for a level. It shrinks by
// 100ms per level from 1000ms and is floored at 50ms.
func DropInterval(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	ms := 1000 - (level-1)*100
	if ms < 50 {
		ms = 50
	}
	return time.Duration(ms) * time.Millisecond
}
