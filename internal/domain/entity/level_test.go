package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredForLevelStep(t *testing.T) {
	// The step from level n to n+1 always costs 500*n.
	for n := 1; n < 50; n++ {
		step := RequiredForLevel(n+1) - RequiredForLevel(n)
		assert.Equal(t, 500.0*float64(n), step, "step from level %d", n)
	}
}

func TestLevelForValueStartsAtOne(t *testing.T) {
	assert.Equal(t, 1, LevelForValue(0))
	assert.Equal(t, 1, LevelForValue(-10))
	assert.Equal(t, 1, LevelForValue(499.99))
}

func TestLevelForValueBoundaries(t *testing.T) {
	for n := 2; n < 20; n++ {
		threshold := RequiredForLevel(n)
		assert.Equal(t, n, LevelForValue(threshold), "exactly at threshold for level %d", n)
		assert.Equal(t, n-1, LevelForValue(threshold-0.01), "just below threshold for level %d", n)
	}
}

func TestLevelForValueNonDecreasing(t *testing.T) {
	previous := 0
	for value := 0.0; value <= 100000; value += 250 {
		level := LevelForValue(value)
		assert.GreaterOrEqual(t, level, previous)
		previous = level
	}
}

func TestProgressToNextLevel(t *testing.T) {
	// Level 1 ends at 500.
	assert.Equal(t, 500.0, ProgressToNextLevel(0))
	assert.Equal(t, 200.0, ProgressToNextLevel(300))

	// At 1500 the user just hit level 3; level 4 needs 3000 total.
	assert.Equal(t, 3, LevelForValue(1500))
	assert.Equal(t, 1500.0, ProgressToNextLevel(1500))
}

func TestPromoteRole(t *testing.T) {
	assert.Equal(t, RoleUser, PromoteRole(RoleUser, VIPLevel-1))
	assert.Equal(t, RoleVIP, PromoteRole(RoleUser, VIPLevel))
	assert.Equal(t, RoleVIP, PromoteRole(RoleVIP, 1))
	assert.Equal(t, RoleAdmin, PromoteRole(RoleAdmin, VIPLevel+5))
}
