package entity

// Loyalty levels follow an arithmetic curve: the step from level n to n+1
// costs 500*n EGP of settled volume, so the cumulative threshold for
// level n is 250*n*(n-1). Level 1 starts at zero.

const levelStep = 500.0

// RequiredForLevel returns the cumulative settled value needed to hold level n.
func RequiredForLevel(n int) float64 {
	if n <= 1 {
		return 0
	}
	return levelStep / 2 * float64(n) * float64(n-1)
}

// LevelForValue maps cumulative settled transaction value to a level.
// It is deterministic and non-decreasing in totalValue.
func LevelForValue(totalValue float64) int {
	if totalValue < 0 {
		return 1
	}

	level := 1
	for totalValue >= RequiredForLevel(level+1) {
		level++
	}
	return level
}

// ProgressToNextLevel returns how much settled value remains until the next level.
func ProgressToNextLevel(totalValue float64) float64 {
	next := LevelForValue(totalValue) + 1
	remaining := RequiredForLevel(next) - totalValue
	if remaining < 0 {
		return 0
	}
	return remaining
}
