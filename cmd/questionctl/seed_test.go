package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/banishment/internal/models"
)

func TestParseSeed_File(t *testing.T) {
	f, err := os.Open("testdata/questions.json")
	require.NoError(t, err)
	defer f.Close()

	questions, err := parseSeed(f)
	require.NoError(t, err)
	require.Len(t, questions, 3)

	assert.Equal(t, models.QuestionMCQ, questions[0].Type)
	assert.Equal(t, "Closures", questions[0].SubTopic)
	assert.Equal(t, "Variables from its lexical scope", questions[0].CorrectAnswer)

	assert.Equal(t, models.DifficultyMedium, questions[1].Difficulty)
	assert.Equal(t, "42", questions[1].CorrectAnswer)

	assert.Equal(t, models.QuestionCode, questions[2].Type)
	require.Len(t, questions[2].TestCases, 2)
	assert.Equal(t, "cba", questions[2].TestCases[0].ExpectedOutput)
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"not json", `{`, "decode seed file"},
		{"empty", `[]`, "no questions"},
		{"missing subject", `[{"prompt":"p","difficulty":"easy","type":"integer","correct_answer":"1"}]`, "question 1: subject is required"},
		{"bad difficulty", `[{"subject":"Math","prompt":"p","difficulty":"brutal","type":"integer","correct_answer":"1"}]`, "unknown difficulty"},
		{"bad type", `[{"subject":"Math","prompt":"p","difficulty":"easy","type":"essay"}]`, "unknown type"},
		{"mcq answer not an option", `[{"subject":"Math","prompt":"p","difficulty":"easy","type":"mcq","options":["a","b"],"correct_answer":"c"}]`, "one of the options"},
		{"integer without answer", `[{"subject":"Math","prompt":"p","difficulty":"easy","type":"integer"}]`, "correct_answer is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeed(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
