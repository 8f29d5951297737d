package gauntlet

import "github.com/vytor/banishment/internal/models"

// Promotion and demotion thresholds, per current difficulty.
const (
	promoteFromEasy   = 5
	promoteFromMedium = 4
	demoteFromHard    = 1
	demoteFromMedium  = 2
)

// Progression is the outcome of one pass of the difficulty policy.
type Progression struct {
	Difficulty           models.Difficulty
	ConsecutiveCorrect   int
	ConsecutiveIncorrect int
	Changed              bool
	Reason               string
}

// Advance applies one answer to the difficulty counters. It moves at most one
// level per call and never past easy or hard.
func Advance(current models.Difficulty, consecutiveCorrect, consecutiveIncorrect int, isCorrect bool) Progression {
	p := Progression{Difficulty: current}

	if isCorrect {
		p.ConsecutiveCorrect = consecutiveCorrect + 1
		switch {
		case current == models.DifficultyEasy && p.ConsecutiveCorrect >= promoteFromEasy:
			p.Difficulty = models.DifficultyMedium
		case current == models.DifficultyMedium && p.ConsecutiveCorrect >= promoteFromMedium:
			p.Difficulty = models.DifficultyHard
		default:
			return p
		}
		p.ConsecutiveCorrect = 0
		p.Changed = true
		p.Reason = models.ReasonPromoted
		return p
	}

	p.ConsecutiveIncorrect = consecutiveIncorrect + 1
	switch {
	case current == models.DifficultyHard && p.ConsecutiveIncorrect >= demoteFromHard:
		p.Difficulty = models.DifficultyMedium
	case current == models.DifficultyMedium && p.ConsecutiveIncorrect >= demoteFromMedium:
		p.Difficulty = models.DifficultyEasy
	default:
		return p
	}
	p.ConsecutiveIncorrect = 0
	p.Changed = true
	p.Reason = models.ReasonDemoted
	return p
}

// applyProgression runs the policy against the session and logs any change
// under the index of the question that was just answered.
func applyProgression(s *models.Session, isCorrect bool) Progression {
	p := Advance(s.CurrentDifficulty, s.ConsecutiveCorrect, s.ConsecutiveIncorrect, isCorrect)
	s.CurrentDifficulty = p.Difficulty
	s.ConsecutiveCorrect = p.ConsecutiveCorrect
	s.ConsecutiveIncorrect = p.ConsecutiveIncorrect
	if p.Changed {
		s.DifficultyLog = append(s.DifficultyLog, models.DifficultyChange{
			QuestionIndex: s.QuestionIndex,
			Difficulty:    p.Difficulty,
			Reason:        p.Reason,
		})
	}
	return p
}
