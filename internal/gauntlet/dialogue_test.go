package gauntlet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/banishment/internal/models"
)

func TestDefaultDialogueCatalog_CoversTriggers(t *testing.T) {
	c := DefaultDialogueCatalog()
	for _, trigger := range []string{
		TriggerSessionStart, TriggerGameOver, TriggerSessionWin,
		"CORRECT_ANSWER_EASY", "CORRECT_ANSWER_MEDIUM", "CORRECT_ANSWER_HARD",
		"INCORRECT_ANSWER_EASY", "INCORRECT_ANSWER_MEDIUM", "INCORRECT_ANSWER_HARD",
	} {
		assert.NotEmpty(t, c[trigger], trigger)
	}
}

func TestPersona_Line(t *testing.T) {
	catalog := DialogueCatalog{
		"GREETING": {{Text: "first"}, {Text: "second", AudioURL: "/audio/2.mp3"}},
		"EMPTY":    {},
	}
	p := NewPersona(catalog, fixedRand(1))

	assert.Equal(t, models.Dialogue{Text: "second", AudioURL: "/audio/2.mp3"}, p.Line("GREETING"))
	assert.Equal(t, models.Dialogue{Text: "..."}, p.Line("EMPTY"))
	assert.Equal(t, models.Dialogue{Text: "..."}, p.Line("NOPE"))
}

func TestPersona_AnswerLine(t *testing.T) {
	catalog := DialogueCatalog{
		"CORRECT_ANSWER_HARD":   {{Text: "yes"}},
		"INCORRECT_ANSWER_EASY": {{Text: "no"}},
	}
	p := NewPersona(catalog, fixedRand(0))

	assert.Equal(t, "yes", p.AnswerLine(true, models.DifficultyHard).Text)
	assert.Equal(t, "no", p.AnswerLine(false, models.DifficultyEasy).Text)
}

func TestLoadDialogueCatalog_Invalid(t *testing.T) {
	_, err := LoadDialogueCatalog([]byte(`[1,2]`))
	require.Error(t, err)
}

func TestTimeoutLine(t *testing.T) {
	assert.Equal(t, "Too slow! Even a sloth could pick faster than that!", TimeoutLine(models.DifficultyEasy, models.QuestionMCQ).Text)
	assert.Equal(t, "Too sluggish! Mathematical prowess requires swift thinking!", TimeoutLine(models.DifficultyMedium, models.QuestionInteger).Text)
	assert.Equal(t, defaultTimeoutLine, TimeoutLine(models.DifficultyHard, models.QuestionDescription).Text)
}

func TestDifficultyChangeLine(t *testing.T) {
	up := difficultyChangeLine(Progression{Difficulty: models.DifficultyMedium, Changed: true, Reason: models.ReasonPromoted})
	assert.Contains(t, up.Text, "promoted to MEDIUM")

	down := difficultyChangeLine(Progression{Difficulty: models.DifficultyEasy, Changed: true, Reason: models.ReasonDemoted})
	assert.Contains(t, down.Text, "decreased to EASY")
}

func TestPenanceCatalog(t *testing.T) {
	c := DefaultPenanceCatalog()
	require.NotEmpty(t, c)
	for _, p := range c {
		assert.NotEmpty(t, p.Task)
		assert.NotEmpty(t, p.Quote)
	}
	assert.Equal(t, c[0], c.Pick(fixedRand(0)))

	var empty PenanceCatalog
	assert.Equal(t, fallbackPenance, empty.Pick(fixedRand(0)))
}

func TestNewRand_SeededIsDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}
