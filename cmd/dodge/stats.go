package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/candle-dodge/internal/storage"
)

var (
	flagStatsRecent int
	flagStatsPlayer string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run statistics",
	Long: `Display per-tier statistics and the most recent runs from the
run history.

Examples:
  dodge stats
  dodge stats --recent 20
  dodge stats --player ann`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagStatsRecent, "recent", 5, "Number of recent runs to list")
	statsCmd.Flags().StringVar(&flagStatsPlayer, "player", "", "Only list runs of this player")
}

func runStats(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(env.DBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}

	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-8s  %-8s  %5s  %5s  %7s  %9s  %s\n", "Tier", "Mode", "Runs", "Best", "Avg", "Played", "Last")
	fmt.Printf("  %-8s  %-8s  %5s  %5s  %7s  %9s  %s\n", "----", "----", "----", "----", "---", "------", "----")
	for _, st := range all {
		played := (time.Duration(st.TotalPlayMs) * time.Millisecond).Round(time.Second)
		fmt.Printf("  %-8s  %-8s  %5d  %5d  %7.1f  %9s  %s\n",
			st.Tier, st.Mode, st.GamesCount, st.HighScore, st.AvgScore, played, st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}

	if flagStatsRecent <= 0 {
		return nil
	}

	var runs []storage.RunEntry
	if flagStatsPlayer != "" {
		runs, err = store.PlayerRuns(flagStatsPlayer, flagStatsRecent)
	} else {
		runs, err = store.RecentRuns(flagStatsRecent)
	}
	if err != nil {
		return fmt.Errorf("reading recent runs: %w", err)
	}

	fmt.Println()
	fmt.Println("Recent runs:")
	for _, r := range runs {
		fmt.Printf("  %s  %-16s  %-6s %-8s  %4d  %-10s  %s\n",
			r.EndedAt.Local().Format("2006-01-02 15:04"), r.Player, r.Tier, r.Mode, r.Score, r.Reason,
			(time.Duration(r.ElapsedMs) * time.Millisecond).Round(time.Second))
	}
	return nil
}
