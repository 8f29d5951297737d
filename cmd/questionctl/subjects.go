package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/banishment/internal/repository/sqlite"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List the subjects present in the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		repo := sqlite.NewQuestionRepository(database.DB)
		subjects, err := repo.DistinctSubjects(cmd.Context())
		if err != nil {
			return fmt.Errorf("list subjects: %w", err)
		}
		total, err := repo.Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("count questions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(subjects) == 0 {
			fmt.Fprintln(out, "The question bank is empty. Use 'questionctl seed' to add questions.")
			return nil
		}
		for _, s := range subjects {
			fmt.Fprintln(out, s)
		}
		fmt.Fprintf(out, "\n%d subjects, %d questions\n", len(subjects), total)
		return nil
	},
}
