package sim

import "math/rand"

// Selector chooses where the next object falls and what it is.
type Selector interface {
	ChooseLane() int
	ChooseCategory(beneficialPercent int) Category
}

// RandSelector draws lanes and categories from a seeded math/rand source.
type RandSelector struct {
	rng *rand.Rand
}

// NewRandSelector creates a selector with the given seed.
func NewRandSelector(seed int64) *RandSelector {
	return &RandSelector{rng: rand.New(rand.NewSource(seed))}
}

// ChooseLane returns a lane index uniformly distributed over [0, LaneCount).
func (s *RandSelector) ChooseLane() int {
	return s.rng.Intn(LaneCount)
}

// ChooseCategory returns Beneficial with the given probability in percent.
// The percentage is clamped to [0, 100].
func (s *RandSelector) ChooseCategory(beneficialPercent int) Category {
	p := min(max(beneficialPercent, 0), 100)
	if s.rng.Intn(100) < p {
		return Beneficial
	}
	return Harmful
}
