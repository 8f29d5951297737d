package main

import (
	"github.com/spf13/cobra"
	"github.com/vytor/banishment/internal/config"
	"github.com/vytor/banishment/internal/db"
	"github.com/vytor/banishment/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "questionctl",
	Short:         "Manage the Byte-Sized Banishment question bank",
	Long:          "questionctl seeds and inspects the question bank and player progress of a Byte-Sized Banishment database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logger.WARN
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			level = logger.DEBUG
		}
		logger.SetDefault(logger.New(logger.WithLevel(level), logger.WithColors(true)))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DB_PATH env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(subjectsCmd)
	rootCmd.AddCommand(weakestCmd)
}

// openDB opens the database named by --db, falling back to DB_PATH and the
// server default.
func openDB(cmd *cobra.Command) (*db.DB, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = config.Load().DBPath
	}
	return db.Open(path)
}
