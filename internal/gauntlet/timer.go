package gauntlet

import "github.com/vytor/banishment/internal/models"

const defaultTimerSeconds = 30

var timerTable = map[models.Difficulty]map[models.QuestionType]int{
	models.DifficultyEasy:   {models.QuestionMCQ: 30, models.QuestionInteger: 45, models.QuestionCode: 60},
	models.DifficultyMedium: {models.QuestionMCQ: 45, models.QuestionInteger: 60, models.QuestionCode: 180},
	models.DifficultyHard:   {models.QuestionMCQ: 180, models.QuestionInteger: 300, models.QuestionCode: 600},
}

// TimerSeconds returns the answer window for a question.
func TimerSeconds(d models.Difficulty, t models.QuestionType) int {
	if secs, ok := timerTable[d][t]; ok {
		return secs
	}
	return defaultTimerSeconds
}
