package sim

import (
	"math"

	"github.com/vovakirdan/candle-dodge/internal/core"
)

// HitTest decides whether an object is inside the player's hit envelope.
type HitTest interface {
	Hit(object, player core.Box) bool
}

// BoxHitTest is an axis-aligned test on centre offsets:
// |dx| < W and |dy| < H.
type BoxHitTest struct {
	W, H float64
}

// Hit implements HitTest.
func (b BoxHitTest) Hit(object, player core.Box) bool {
	return math.Abs(object.CX-player.CX) < b.W && math.Abs(object.CY-player.CY) < b.H
}

// RadiusHitTest reports a hit when the centres are closer than Radius.
type RadiusHitTest struct {
	Radius float64
}

// Hit implements HitTest.
func (r RadiusHitTest) Hit(object, player core.Box) bool {
	return object.Distance(player) < r.Radius
}

// DefaultHitTest returns the box test whose thresholds make it equivalent to
// the sprites of f overlapping.
func DefaultHitTest(f Field) BoxHitTest {
	return BoxHitTest{
		W: (f.PlayerW + f.ObjectW) / 2,
		H: (f.PlayerH + f.ObjectH) / 2,
	}
}

// DefaultRadiusHitTest returns a distance test sized to the smaller sprite
// dimension of f.
func DefaultRadiusHitTest(f Field) RadiusHitTest {
	return RadiusHitTest{Radius: math.Min(f.PlayerW+f.ObjectW, f.PlayerH+f.ObjectH) / 2}
}
