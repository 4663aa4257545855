package sim

import "time"

// frame is one 60 FPS tick.
const frame = time.Second / 60

// scriptSelector replays fixed lanes and categories, then falls back to a
// constant pair once the script runs out.
type scriptSelector struct {
	lanes        []int
	categories   []Category
	fallbackLane int
	fallbackCat  Category
	laneIdx      int
	catIdx       int
}

func (s *scriptSelector) ChooseLane() int {
	if s.laneIdx < len(s.lanes) {
		l := s.lanes[s.laneIdx]
		s.laneIdx++
		return l
	}
	return s.fallbackLane
}

func (s *scriptSelector) ChooseCategory(int) Category {
	if s.catIdx < len(s.categories) {
		c := s.categories[s.catIdx]
		s.catIdx++
		return c
	}
	return s.fallbackCat
}

// recordingListener logs every notification together with the tick it
// arrived in.
type recordingListener struct {
	tick      int
	lanes     []int
	scores    []int
	collects  int
	misses    int
	crashes   int
	ended     []int
	missTick  int
	endedTick int
}

func (l *recordingListener) OnLaneChanged(lane int)   { l.lanes = append(l.lanes, lane) }
func (l *recordingListener) OnScoreChanged(score int) { l.scores = append(l.scores, score) }
func (l *recordingListener) OnCollect()               { l.collects++ }
func (l *recordingListener) OnMiss() {
	l.misses++
	l.missTick = l.tick
}
func (l *recordingListener) OnCrash() { l.crashes++ }
func (l *recordingListener) OnRunEnded(final int) {
	l.ended = append(l.ended, final)
	l.endedTick = l.tick
}

// runUntilEnded ticks s at 60 FPS until the run ends or maxTicks pass.
// It returns the number of ticks taken.
func runUntilEnded(s *Session, l *recordingListener, maxTicks int) int {
	for i := 1; i <= maxTicks; i++ {
		if l != nil {
			l.tick = i
		}
		if err := s.Tick(frame); err != nil {
			return i
		}
		if s.Ended() {
			return i
		}
	}
	return maxTicks
}
