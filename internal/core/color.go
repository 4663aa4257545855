package core

// Color is the foreground of a screen cell. The zero value keeps the
// terminal's own foreground.
type Color uint8

// Colors used by the playfield. Candles are red or green, flames yellow, the
// player cyan; orange and bright red flag misses and crashes.
const (
	ColorDefault Color = iota
	ColorRed
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	colorCount
)

// ansiCodes holds the 256-color index of every non-default color.
var ansiCodes = [colorCount]string{
	ColorRed:          "1",
	ColorBrightRed:    "9",
	ColorBrightGreen:  "10",
	ColorBrightYellow: "11",
	ColorBrightCyan:   "14",
	ColorBrightWhite:  "15",
	ColorOrange:       "208",
	ColorGray:         "245",
}

// ANSI returns the 256-color index of c, or "" when c has no code of its own.
func (c Color) ANSI() string {
	if c >= colorCount {
		return ""
	}
	return ansiCodes[c]
}

// Palette lists every color that has an ANSI code.
func Palette() []Color {
	colors := make([]Color, 0, colorCount-1)
	for c := ColorDefault + 1; c < colorCount; c++ {
		colors = append(colors, c)
	}
	return colors
}
