// Package sim implements the Candle Dodge gameplay core: three fixed lanes,
// candles falling down them, a player shifting between lanes, and the scoring
// and difficulty rules that decide when a run ends.
//
// The package is pure and single-threaded. All mutation happens inside
// Session.Tick and Session.ShiftLane, driven by an external loop (the Bubble
// Tea platform in production, plain loops in tests). Timers run on a TickClock
// advanced by Tick, so nothing happens between ticks and nothing survives a
// Restart.
package sim
