package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var nameCmd = &cobra.Command{
	Use:   "name [name]",
	Short: "Show or change the player name",
	Long: `Print the name recorded with your runs, or set a new one.
Names are trimmed to 16 characters.

Examples:
  dodge name
  dodge name ann`,
	Args: cobra.ArbitraryArgs,
	RunE: runName,
}

func runName(_ *cobra.Command, args []string) error {
	svc := openServices(logger, false)
	defer svc.Close()

	if len(args) == 0 {
		fmt.Println(svc.PlayerName())
		return nil
	}

	name, err := svc.Book.SetPlayerName(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Printf("Player name set to %q\n", name)
	return nil
}
