package gauntlet

import (
	"context"
	"slices"

	"github.com/vytor/banishment/internal/models"
)

// memFinder returns the first stored question matching a filter.
type memFinder struct {
	questions []models.Question
	calls     []models.QuestionFilter
	err       error
}

func (f *memFinder) FindOne(_ context.Context, filter models.QuestionFilter) (*models.Question, error) {
	f.calls = append(f.calls, filter)
	if f.err != nil {
		return nil, f.err
	}
	for _, q := range f.questions {
		if filter.Subject != "" && q.Subject != filter.Subject {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		if filter.SubTopic != "" && q.SubTopic != filter.SubTopic {
			continue
		}
		if slices.Contains(filter.ExcludeIDs, q.ID) {
			continue
		}
		found := q
		return &found, nil
	}
	return nil, nil
}

// fixedRand always picks the same index, clamped to the range.
type fixedRand int

func (r fixedRand) IntN(n int) int {
	if int(r) >= n {
		return n - 1
	}
	return int(r)
}

func bank(subject string, counts map[models.Difficulty]int) []models.Question {
	var out []models.Question
	id := int64(1)
	for _, d := range models.Difficulties {
		for i := 0; i < counts[d]; i++ {
			out = append(out, models.Question{
				ID:            id,
				Subject:       subject,
				Difficulty:    d,
				Type:          models.QuestionMCQ,
				Prompt:        "q",
				Options:       []string{"a", "b"},
				CorrectAnswer: "0",
			})
			id++
		}
	}
	return out
}
