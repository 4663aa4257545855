package sim

import (
	"fmt"
	"math"

	"github.com/vovakirdan/candle-dodge/internal/core"
)

// EventKind tells how an object left the field.
type EventKind int

const (
	EventHit    EventKind = iota // Object touched the player
	EventMissed                  // Object passed the bottom boundary untouched
)

func (k EventKind) String() string {
	if k == EventHit {
		return "hit"
	}
	return "missed"
}

// Event is emitted exactly once per object, when it leaves the field.
type Event struct {
	Kind     EventKind
	Category Category
	ObjectID uint64
	Lane     int
}

// Object is a falling candle. Lane never changes after spawn; Y only grows.
type Object struct {
	ID       uint64
	Category Category
	Lane     int
	Y        float64
}

// Engine moves live objects and resolves their contact with the player.
type Engine struct {
	field   Field
	hit     HitTest
	sweep   float64 // Longest move between two hit tests
	objects []*Object
	nextID  uint64
}

// NewEngine creates an empty engine for the given field and hit policy.
func NewEngine(field Field, hit HitTest) *Engine {
	return &Engine{
		field:   field,
		hit:     hit,
		sweep:   sweepStep(field),
		objects: make([]*Object, 0, 16),
	}
}

// sweepStep is half the smallest sprite dimension. Any hit envelope built from
// the sprites is taller than that, so an object moved in steps of this size
// cannot jump over the player.
func sweepStep(f Field) float64 {
	step := min(f.PlayerW, f.PlayerH, f.ObjectW, f.ObjectH) / 2
	if !(step > 0) {
		return 1
	}
	return step
}

// Spawn places a new object at the top of the given lane.
func (e *Engine) Spawn(lane int, category Category) (Object, error) {
	return e.SpawnBehind(lane, category, 0)
}

// SpawnBehind places a new object lag world units above the top of lane. An
// object created partway through a tick uses the distance the tick has
// already covered as lag, so the following Step leaves it where it would be
// had it fallen only for the rest of the tick.
func (e *Engine) SpawnBehind(lane int, category Category, lag float64) (Object, error) {
	if lane < 0 || lane >= LaneCount {
		return Object{}, fmt.Errorf("spawn lane %d: %w", lane, ErrInvalidLane)
	}
	e.nextID++
	obj := &Object{
		ID:       e.nextID,
		Category: category,
		Lane:     lane,
		Y:        e.field.SpawnY - max(lag, 0),
	}
	e.objects = append(e.objects, obj)
	return *obj, nil
}

// Step moves every object down by distance and tests it against the player
// in playerLane along the way, so a long step cannot carry an object past
// the player untouched. Hit objects are removed at once, so they cannot hit
// again or also count as missed. Events come out in spawn order.
func (e *Engine) Step(distance float64, playerLane int) []Event {
	if !(distance > 0) || math.IsInf(distance, 0) {
		distance = 0
	}

	player := e.PlayerBox(playerLane)
	var events []Event

	live := e.objects[:0]
	for _, obj := range e.objects {
		if e.fall(obj, distance, player) {
			events = append(events, Event{Kind: EventHit, Category: obj.Category, ObjectID: obj.ID, Lane: obj.Lane})
			continue
		}
		if obj.Y > e.field.ExitY {
			events = append(events, Event{Kind: EventMissed, Category: obj.Category, ObjectID: obj.ID, Lane: obj.Lane})
			continue
		}
		live = append(live, obj)
	}

	// Drop references held by the tail of the old slice.
	for i := len(live); i < len(e.objects); i++ {
		e.objects[i] = nil
	}
	e.objects = live

	return events
}

// fall moves obj down by distance in sweep-sized steps and reports whether it
// touched player. On a hit obj stops where the contact was found.
func (e *Engine) fall(obj *Object, distance float64, player core.Box) bool {
	target := obj.Y + distance
	for {
		obj.Y = min(obj.Y+e.sweep, target)
		if e.hit.Hit(e.objectBox(obj), player) {
			return true
		}
		if obj.Y >= target {
			return false
		}
	}
}

// Objects returns a copy of the live objects.
func (e *Engine) Objects() []Object {
	out := make([]Object, len(e.objects))
	for i, obj := range e.objects {
		out[i] = *obj
	}
	return out
}

// Len returns the number of live objects.
func (e *Engine) Len() int {
	return len(e.objects)
}

// PlayerBox returns the player's hit box when standing in lane.
func (e *Engine) PlayerBox(lane int) core.Box {
	lane = core.Clamp(lane, 0, LaneCount-1)
	return core.NewBox(e.field.Lanes[lane], e.field.PlayerY, e.field.PlayerW, e.field.PlayerH)
}

func (e *Engine) objectBox(obj *Object) core.Box {
	return core.NewBox(e.field.Lanes[obj.Lane], obj.Y, e.field.ObjectW, e.field.ObjectH)
}
