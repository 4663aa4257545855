// dodge is a lane-dodge arcade game for the terminal.
//
// Usage:
//
//	dodge play               - Play a run
//	dodge menu               - Start the menu (settings, high scores, play)
//	dodge list               - List the game modes
//	dodge scores [tier]      - Show a leaderboard
//	dodge stats              - Show run statistics
//	dodge settings           - Show or change settings
//	dodge name [name]        - Show or change the player name
//	dodge serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible gameplay
//	--db <path>        - Set database path (default: ~/.dodge/scores.db)
//	--config <path>    - Custom game config YAML
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/candle-dodge/internal/audio"
	"github.com/vovakirdan/candle-dodge/internal/config"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge"
	"github.com/vovakirdan/candle-dodge/internal/platform/tui"
	"github.com/vovakirdan/candle-dodge/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string

	// Resolved in PersistentPreRunE
	env    config.Env
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dodge",
	Short: "Candle Dodge - dodge red candles, catch green ones",
	Long: `Candle Dodge is a three-lane arcade game for the terminal.

Red candles end the run when they hit you. Green candles score a point;
letting one fall past costs a point (classic) or the run (survival).

Available commands:
  play      - Play a run with the saved settings
  menu      - Interactive menu with settings and high scores
  list      - Show the game modes
  scores    - View a leaderboard
  stats     - View run statistics
  settings  - Show or change settings
  name      - Show or change the player name
  serve     - Start SSH server for remote play

Examples:
  dodge play
  dodge play --difficulty hard --survival
  dodge menu
  dodge scores medium
  dodge serve --ssh :2222`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default $DODGE_DB or ~/.dodge/scores.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML (default $DODGE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default $DODGE_LOG_LEVEL or warn)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup merges flags over the environment and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	e, err := config.LoadEnv()
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		e.DBPath = flagDBPath
	}
	if flagConfig != "" {
		e.ConfigPath = flagConfig
	}
	if flagLogLevel != "" {
		e.LogLevel = flagLogLevel
	}
	env = e

	level, err := log.ParseLevel(env.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", env.LogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "dodge",
		Level:           level,
	})

	dodge.SetConfigPath(env.ConfigPath)
	return nil
}

// fileLogger redirects logging to ~/.dodge/dodge.log while a full-screen
// program owns the terminal. The returned func closes the file.
func fileLogger() (*log.Logger, func()) {
	l := log.NewWithOptions(io.Discard, log.Options{
		ReportTimestamp: true,
		Prefix:          "dodge",
		Level:           logger.GetLevel(),
	})

	home, err := os.UserHomeDir()
	if err != nil {
		return l, func() {}
	}
	dir := filepath.Join(home, config.AppDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return l, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "dodge.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return l, func() {}
	}
	l.SetOutput(f)
	return l, func() { f.Close() }
}

// openServices opens the database and, when sound is true, the audio
// device. Neither failure is fatal: the game runs without them.
func openServices(l *log.Logger, sound bool) *tui.Services {
	store, err := storage.Open(env.DBPath)
	if err != nil {
		l.Warn("could not open scores database, scores kept in memory", "error", err)
		store = nil
	}

	svc := tui.NewServices(store, nil, l)
	if sound {
		player, err := audio.Open(svc.Settings().Volume)
		if err != nil {
			l.Warn("audio disabled", "error", err)
		} else {
			svc.Sound = player
		}
	}
	return svc
}
