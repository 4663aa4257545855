package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/candle-dodge/internal/config"
)

var (
	flagSetVolume     float64
	flagSetDifficulty string
	flagSetSurvival   bool
	flagSetReset      bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Print the saved settings, or change them with flags.

Selecting a difficulty also resets the speed cap to that tier's.
DODGE_* environment variables override saved values at play time
but are never written back.

Examples:
  dodge settings
  dodge settings --volume 0.8
  dodge settings --difficulty hard --survival=true
  dodge settings --reset`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().Float64Var(&flagSetVolume, "volume", 0, "Volume from 0 to 1")
	settingsCmd.Flags().StringVar(&flagSetDifficulty, "difficulty", "", "Difficulty: easy, medium, hard")
	settingsCmd.Flags().BoolVar(&flagSetSurvival, "survival", false, "Use survival rules")
	settingsCmd.Flags().BoolVar(&flagSetReset, "reset", false, "Restore the defaults")
}

func runSettings(cmd *cobra.Command, _ []string) error {
	svc := openServices(logger, false)
	defer svc.Close()

	st, err := svc.Book.Settings()
	if err != nil {
		logger.Warn("stored settings unreadable, starting from defaults", "error", err)
	}

	changed := false
	if flagSetReset {
		st = config.DefaultSettings()
		changed = true
	}
	if cmd.Flags().Changed("volume") {
		st.SetVolume(flagSetVolume)
		changed = true
	}
	if cmd.Flags().Changed("difficulty") {
		t, err := config.ParseTier(flagSetDifficulty)
		if err != nil {
			return err
		}
		st.SelectDifficulty(t)
		changed = true
	}
	if cmd.Flags().Changed("survival") {
		st.Survival = flagSetSurvival
		changed = true
	}

	if changed {
		if err := svc.SaveSettings(st); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		st = st.Normalize()
	}

	fmt.Printf("  volume      %d%%\n", int(st.Volume*100+0.5))
	fmt.Printf("  difficulty  %s\n", st.Tier())
	fmt.Printf("  max speed   %.1f\n", st.MaxSpeed)
	fmt.Printf("  survival    %t\n", st.Survival)
	if st.StartSpeed > 0 {
		fmt.Printf("  start speed %.1f\n", st.StartSpeed)
	}
	if st.SpawnDelayMs > 0 {
		fmt.Printf("  spawn delay %dms\n", st.SpawnDelayMs)
	}
	if st.RampRate > 0 {
		fmt.Printf("  ramp rate   %.3f\n", st.RampRate)
	}
	return nil
}
