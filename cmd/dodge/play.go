package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/candle-dodge/internal/audio"
	"github.com/vovakirdan/candle-dodge/internal/core"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
	"github.com/vovakirdan/candle-dodge/internal/platform/tui"
	"github.com/vovakirdan/candle-dodge/internal/registry"
)

var (
	flagDifficulty string
	flagSurvival   bool
	flagClassic    bool
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run with the saved settings.

Controls:
  A/D, Left/Right  - Move one lane
  P/Space          - Pause
  R                - Restart (after game over)
  B/Esc            - Leave (when paused or after game over)
  Ctrl+S           - Save a screenshot to ~/.dodge/screenshots
  Q/Ctrl+C         - Quit

Difficulty options:
  easy    - Slow start, low speed cap, sparse spawns
  medium  - Faster ramp and denser spawns
  hard    - Fast from the start

Examples:
  dodge play
  dodge play --difficulty hard
  dodge play --survival
  dodge play --seed 42 --config ./my-dodge.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset for this run: easy, medium, hard")
	playCmd.Flags().BoolVar(&flagSurvival, "survival", false, "Play survival rules (any missed green candle ends the run)")
	playCmd.Flags().BoolVar(&flagClassic, "classic", false, "Play classic rules regardless of settings")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
	playCmd.MarkFlagsMutuallyExclusive("survival", "classic")
}

func runPlay(_ *cobra.Command, _ []string) error {
	if flagDifficulty != "" {
		dodge.SetDifficultyPreset(flagDifficulty)
	}

	flog, closeLog := fileLogger()
	defer closeLog()

	svc := openServices(flog, !flagMute)
	defer svc.Close()
	defer audio.Close()

	mode := svc.Settings().Mode()
	switch {
	case flagSurvival:
		mode = sim.ModeSurvival
	case flagClassic:
		mode = sim.ModeBase
	}

	game, err := registry.Create(dodge.ModeID(mode))
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	if err := tui.Run(game, svc, runtimeConfig(), svc.PlayerName()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}
