package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vytor/banishment/internal/repository/sqlite"
	"github.com/vytor/banishment/internal/services"
)

var weakestCmd = &cobra.Command{
	Use:   "weakest <player-id>",
	Short: "Show a player's topic record and weakest link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		playerID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || playerID <= 0 {
			return fmt.Errorf("invalid player id %q", args[0])
		}

		database, err := openDB(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		svc := services.NewPlayerService(sqlite.NewPlayerRepository(database.DB), sqlite.NewSessionRepository(database.DB))
		progress, err := svc.GetProgress(cmd.Context(), playerID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  level %d (%s)  xp %d/%d\n\n",
			progress.Player.Username, progress.Player.Level, progress.Player.Rank,
			progress.Player.XP, progress.Player.XPToNextLevel)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tCORRECT\tATTEMPTED\tRATE")
		for _, t := range progress.Topics {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\n", t.Topic, t.Correct, t.TotalAttempted, t.SuccessRate*100)
		}
		w.Flush()

		if progress.WeakestLink == nil {
			fmt.Fprintln(out, "\nNo weakest link yet.")
			return nil
		}
		fmt.Fprintf(out, "\nWeakest link: %s\n", progress.WeakestLink.Key())
		return nil
	},
}
