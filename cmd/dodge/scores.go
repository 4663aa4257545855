package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/candle-dodge/internal/config"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
	"github.com/vovakirdan/candle-dodge/internal/records"
)

var flagScoresSurvival bool

var scoresCmd = &cobra.Command{
	Use:   "scores [tier]",
	Short: "Show a leaderboard",
	Long: `Display the top 10 for a difficulty tier. Without a tier the
saved difficulty is used.

Examples:
  dodge scores
  dodge scores hard
  dodge scores easy --survival`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresSurvival, "survival", false, "Show the survival leaderboard")
}

func runScores(_ *cobra.Command, args []string) error {
	svc := openServices(logger, false)
	defer svc.Close()

	tier := svc.Settings().Tier()
	if len(args) == 1 {
		t, err := config.ParseTier(args[0])
		if err != nil {
			return err
		}
		tier = t
	}
	mode := sim.ModeBase
	if flagScoresSurvival {
		mode = sim.ModeSurvival
	}

	board, err := svc.Book.Leaderboard(tier, mode)
	if err != nil {
		return fmt.Errorf("reading leaderboard: %w", err)
	}

	fmt.Printf("High Scores - %s %s\n", tier, mode)
	fmt.Println()

	if len(board) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'dodge play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-*s  %s\n", "Rank", records.MaxNameLength, "Name", "Score")
	fmt.Printf("  %-4s  %-*s  %s\n", "----", records.MaxNameLength, "----", "-----")
	for i, e := range board {
		fmt.Printf("  %-4d  %-*s  %d\n", i+1, records.MaxNameLength, e.Name, e.Score)
	}

	player := svc.PlayerName()
	if best, ok, err := svc.Book.BestScore(player); err == nil && ok {
		fmt.Println()
		fmt.Printf("%s's best: %d\n", player, best)
	}
	return nil
}
