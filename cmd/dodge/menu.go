package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/candle-dodge/internal/audio"
	"github.com/vovakirdan/candle-dodge/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the game with the main menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
After a run you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change a setting
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  dodge menu
  dodge menu --fps 30
  dodge menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

func runMenu(_ *cobra.Command, _ []string) error {
	flog, closeLog := fileLogger()
	defer closeLog()

	svc := openServices(flog, !flagMute)
	defer svc.Close()
	defer audio.Close()

	return tui.RunSession(svc, runtimeConfig(), svc.PlayerName())
}
