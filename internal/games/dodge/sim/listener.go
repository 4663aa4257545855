package sim

// Listener receives fire-and-forget notifications from a Session.
// Renderers, audio and UI subscribe through it; the session never reads
// anything back.
type Listener interface {
	OnLaneChanged(lane int)
	OnScoreChanged(score int)
	OnCollect()
	OnMiss()
	OnCrash()
	OnRunEnded(finalScore int)
}

// NopListener ignores every notification. Embed it to implement only the
// callbacks you care about.
type NopListener struct{}

func (NopListener) OnLaneChanged(int)  {}
func (NopListener) OnScoreChanged(int) {}
func (NopListener) OnCollect()         {}
func (NopListener) OnMiss()            {}
func (NopListener) OnCrash()           {}
func (NopListener) OnRunEnded(int)     {}

// Listeners fans each notification out to every member in order.
type Listeners []Listener

func (ls Listeners) OnLaneChanged(lane int) {
	for _, l := range ls {
		l.OnLaneChanged(lane)
	}
}

func (ls Listeners) OnScoreChanged(score int) {
	for _, l := range ls {
		l.OnScoreChanged(score)
	}
}

func (ls Listeners) OnCollect() {
	for _, l := range ls {
		l.OnCollect()
	}
}

func (ls Listeners) OnMiss() {
	for _, l := range ls {
		l.OnMiss()
	}
}

func (ls Listeners) OnCrash() {
	for _, l := range ls {
		l.OnCrash()
	}
}

func (ls Listeners) OnRunEnded(finalScore int) {
	for _, l := range ls {
		l.OnRunEnded(finalScore)
	}
}

var (
	_ Listener = NopListener{}
	_ Listener = Listeners(nil)
)
