package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/banishment/internal/models"
	"github.com/vytor/banishment/internal/repository/sqlite"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.json>",
	Short: "Load questions from a JSON file into the question bank",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

// seedQuestion is the file format for seeded questions. Unlike the API view of
// a question it carries the answer and the test cases.
type seedQuestion struct {
	Subject       string            `json:"subject"`
	SubTopic      string            `json:"sub_topic"`
	Difficulty    string            `json:"difficulty"`
	Type          string            `json:"type"`
	Prompt        string            `json:"prompt"`
	Options       []string          `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	TestCases     []models.TestCase `json:"test_cases"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	questions, err := parseSeed(f)
	if err != nil {
		return err
	}

	database, err := openDB(cmd)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	ids, err := sqlite.NewQuestionRepository(database.DB).InsertBatch(cmd.Context(), questions)
	if err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d questions\n", len(ids))
	return nil
}

// parseSeed decodes and validates a seed file. Entries are reported by their
// position in the file.
func parseSeed(r io.Reader) ([]models.Question, error) {
	var raw []seedQuestion
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("seed file has no questions")
	}

	questions := make([]models.Question, 0, len(raw))
	for i, sq := range raw {
		q, err := sq.toQuestion()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (sq seedQuestion) toQuestion() (models.Question, error) {
	subject := strings.TrimSpace(sq.Subject)
	if subject == "" {
		return models.Question{}, fmt.Errorf("subject is required")
	}
	if strings.TrimSpace(sq.Prompt) == "" {
		return models.Question{}, fmt.Errorf("prompt is required")
	}
	difficulty, ok := models.ParseDifficulty(sq.Difficulty)
	if !ok {
		return models.Question{}, fmt.Errorf("unknown difficulty %q", sq.Difficulty)
	}
	qtype := models.QuestionType(strings.ToLower(strings.TrimSpace(sq.Type)))
	if !qtype.Valid() {
		return models.Question{}, fmt.Errorf("unknown type %q", sq.Type)
	}

	switch qtype {
	case models.QuestionMCQ:
		if len(sq.Options) < 2 {
			return models.Question{}, fmt.Errorf("mcq needs at least two options")
		}
		found := false
		for _, o := range sq.Options {
			if o == sq.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return models.Question{}, fmt.Errorf("correct_answer must be one of the options")
		}
	case models.QuestionInteger:
		if strings.TrimSpace(sq.CorrectAnswer) == "" {
			return models.Question{}, fmt.Errorf("correct_answer is required")
		}
	}

	return models.Question{
		Subject:       subject,
		SubTopic:      strings.TrimSpace(sq.SubTopic),
		Difficulty:    difficulty,
		Type:          qtype,
		Prompt:        sq.Prompt,
		Options:       sq.Options,
		CorrectAnswer: sq.CorrectAnswer,
		TestCases:     sq.TestCases,
	}, nil
}
