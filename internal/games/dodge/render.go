package dodge

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/candle-dodge/internal/core"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

// Visual characters for rendering
const (
	CandleChar = '█'
	FlameChar  = '▲'
	PlayerChar = '▓'
	LaneChar   = '┊'
)

// Terminal cells are about twice as tall as they are wide.
const cellAspect = 2.0

// viewport maps world units onto a rectangle of screen cells.
type viewport struct {
	field  sim.Field
	area   core.Rect // Interior of the playfield frame
	scaleX float64
	scaleY float64
}

// newViewport fits the field into the screen, keeping its aspect ratio and
// leaving the top row for the HUD and the bottom row for key hints.
func newViewport(f sim.Field, screenW, screenH int) viewport {
	availH := max(screenH-4, 3) // HUD + hints + frame
	availW := max(screenW-2, 3)

	h := availH
	w := int(math.Round(float64(h) * cellAspect * f.Width / f.Height))
	if w > availW {
		w = availW
		h = max(int(math.Round(float64(w)/cellAspect*f.Height/f.Width)), 3)
	}

	x := (screenW - w) / 2
	y := 2 + (availH-h)/2
	return viewport{
		field:  f,
		area:   core.NewRect(x, y, w, h),
		scaleX: float64(w) / f.Width,
		scaleY: float64(h) / f.Height,
	}
}

func (v viewport) cellX(worldX float64) int {
	return v.area.X + int(math.Floor(worldX*v.scaleX))
}

func (v viewport) cellY(worldY float64) int {
	return v.area.Y + int(math.Floor(worldY*v.scaleY))
}

// boxRect converts a world box to a cell rectangle of at least one cell,
// clipped to the playfield.
func (v viewport) boxRect(b core.Box) (core.Rect, bool) {
	x0 := v.cellX(b.CX - b.W/2)
	x1 := max(v.cellX(b.CX+b.W/2), x0+1)
	y0 := v.cellY(b.CY - b.H/2)
	y1 := max(v.cellY(b.CY+b.H/2), y0+1)

	if !core.NewRect(x0, y0, x1-x0, y1-y0).Intersects(v.area) {
		return core.Rect{}, false
	}

	x0 = max(x0, v.area.X)
	y0 = max(y0, v.area.Y)
	x1 = min(x1, v.area.Right())
	y1 = min(y1, v.area.Bottom())
	return core.NewRect(x0, y0, x1-x0, y1-y0), true
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		dst.DrawTextCentered(dst.Height()/2, "Loading...")
		return
	}

	f := g.session.Field()
	v := newViewport(f, dst.Width(), dst.Height())

	g.drawField(dst, v)
	for _, obj := range g.session.Objects() {
		g.drawCandle(dst, v, obj)
	}
	g.drawPlayer(dst, v)
	g.drawHUD(dst, v)

	if g.paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}

	if g.session.Ended() {
		g.drawGameOver(dst)
	}
}

func (g *Game) drawField(dst *core.Screen, v viewport) {
	frame := core.NewRect(v.area.X-1, v.area.Y-1, v.area.W+2, v.area.H+2)
	dst.DrawBox(frame)

	// Separators halfway between lane centres
	f := v.field
	for i := 1; i < sim.LaneCount; i++ {
		x := v.cellX((f.Lanes[i-1] + f.Lanes[i]) / 2)
		dst.DrawVLine(x, v.area.Y, v.area.H, LaneChar, core.ColorGray)
	}
}

func (g *Game) drawCandle(dst *core.Screen, v viewport, obj sim.Object) {
	f := v.field
	box := core.NewBox(f.Lanes[obj.Lane], obj.Y, f.ObjectW, f.ObjectH)
	r, ok := v.boxRect(box)
	if !ok {
		return
	}

	color := core.ColorRed
	if obj.Category == sim.Beneficial {
		color = core.ColorBrightGreen
	}

	dst.DrawRectColored(r, CandleChar, color)
	// Flame on top when the candle is tall enough to show it
	if r.H > 1 {
		dst.DrawRectColored(core.NewRect(r.X, r.Y, r.W, 1), FlameChar, core.ColorBrightYellow)
	}
}

func (g *Game) drawPlayer(dst *core.Screen, v viewport) {
	f := v.field
	box := core.NewBox(f.Lanes[g.session.Lane()], f.PlayerY, f.PlayerW, f.PlayerH)
	r, ok := v.boxRect(box)
	if !ok {
		return
	}

	color := core.ColorBrightCyan
	switch {
	case g.fx.crash:
		color = core.ColorBrightRed
	case g.fx.collect > 0:
		color = core.ColorBrightGreen
	case g.fx.miss > 0:
		color = core.ColorOrange
	}
	dst.DrawRectColored(r, PlayerChar, color)
}

func (g *Game) drawHUD(dst *core.Screen, v viewport) {
	s := g.session
	cfg := s.Config()

	left := fmt.Sprintf(" Score: %d ", s.Score())
	dst.DrawTextColored(v.area.X-1, 0, left, scoreColor(s.Score()))

	mode := string(cfg.Tier)
	if cfg.Mode == sim.ModeSurvival {
		mode += " survival"
	}
	right := fmt.Sprintf(" %s  Spd %.1f  %s ", mode, s.Speed(), formatElapsed(s.Elapsed()))
	dst.DrawText(v.area.Right()+1-len([]rune(right)), 0, right)

	hints := "←/→ move  P pause  Q quit"
	dst.DrawTextColored((dst.Width()-len([]rune(hints)))/2, dst.Height()-1, hints, core.ColorGray)
}

func (g *Game) drawGameOver(dst *core.Screen) {
	res, ok := g.session.Result()
	reason := ""
	if ok {
		reason = reasonText(res.Reason)
	}

	lines := []string{
		"GAME OVER",
		reason,
		fmt.Sprintf("Score: %d", g.session.Score()),
		"R restart  B menu",
	}

	boxW := 0
	for _, l := range lines {
		boxW = core.Max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := len(lines) + 2
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	colors := []core.Color{core.ColorBrightRed, core.ColorGray, core.ColorBrightWhite, core.ColorDefault}
	for i, l := range lines {
		x := boxX + (boxW-len([]rune(l)))/2
		dst.DrawTextColored(x, boxY+1+i, l, colors[i])
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

func reasonText(r sim.EndReason) string {
	switch r {
	case sim.ReasonCrash:
		return "You hit a red candle"
	case sim.ReasonMissed:
		return "A green candle got away"
	case sim.ReasonNegativeScore:
		return "Score dropped below zero"
	default:
		return ""
	}
}

func scoreColor(score int) core.Color {
	if score < 0 {
		return core.ColorBrightRed
	}
	return core.ColorBrightYellow
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
