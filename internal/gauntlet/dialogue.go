package gauntlet

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vytor/banishment/internal/models"
)

// Dialogue triggers
const (
	TriggerSessionStart = "SESSION_START"
	TriggerGameOver     = "GAME_OVER"
	TriggerSessionWin   = "SESSION_WIN"
)

//go:embed data/dialogue.json
var dialogueJSON []byte

var silentLine = models.Dialogue{Text: "..."}

const defaultTimeoutLine = "Time's up! Speed up or face my wrath!"

var timeoutLines = map[models.Difficulty]map[models.QuestionType]string{
	models.DifficultyEasy: {
		models.QuestionMCQ:     "Too slow! Even a sloth could pick faster than that!",
		models.QuestionInteger: "Time's up! Your calculations need more speed, mortal!",
		models.QuestionCode:    "Timeout! Your coding fingers are as slow as your brain!",
	},
	models.DifficultyMedium: {
		models.QuestionMCQ:     "Time expired! Speed is as important as accuracy in my realm!",
		models.QuestionInteger: "Too sluggish! Mathematical prowess requires swift thinking!",
		models.QuestionCode:    "Code timeout! Your programming pace disappoints me greatly!",
	},
	models.DifficultyHard: {
		models.QuestionMCQ:     "Pathetically slow! Elite minds don't hesitate this long!",
		models.QuestionInteger: "Time's up! Advanced problems demand rapid solutions!",
		models.QuestionCode:    "Coding timeout! Ten minutes should be plenty for a competent programmer!",
	},
}

// DialogueCatalog maps a trigger to its candidate lines. It is read-only after load.
type DialogueCatalog map[string][]models.Dialogue

// LoadDialogueCatalog parses a trigger to lines JSON document.
func LoadDialogueCatalog(raw []byte) (DialogueCatalog, error) {
	var c DialogueCatalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse dialogue catalog: %w", err)
	}
	return c, nil
}

// DefaultDialogueCatalog returns the embedded catalog.
func DefaultDialogueCatalog() DialogueCatalog {
	c, err := LoadDialogueCatalog(dialogueJSON)
	if err != nil {
		panic(err)
	}
	return c
}

// Persona picks themed lines for game events.
type Persona struct {
	catalog DialogueCatalog
	rng     Rand
}

func NewPersona(catalog DialogueCatalog, rng Rand) *Persona {
	return &Persona{catalog: catalog, rng: rng}
}

// Line returns a uniformly chosen line for the trigger, or a silent placeholder
// when the trigger is unknown or has no lines.
func (p *Persona) Line(trigger string) models.Dialogue {
	lines := p.catalog[trigger]
	if len(lines) == 0 {
		return silentLine
	}
	return lines[p.rng.IntN(len(lines))]
}

// AnswerLine is the generic reaction to an answer at a difficulty.
func (p *Persona) AnswerLine(isCorrect bool, d models.Difficulty) models.Dialogue {
	prefix := "INCORRECT_ANSWER_"
	if isCorrect {
		prefix = "CORRECT_ANSWER_"
	}
	return p.Line(prefix + strings.ToUpper(string(d)))
}

// TimeoutLine is fixed per difficulty and question type.
func TimeoutLine(d models.Difficulty, t models.QuestionType) models.Dialogue {
	if line, ok := timeoutLines[d][t]; ok {
		return models.Dialogue{Text: line}
	}
	return models.Dialogue{Text: defaultTimeoutLine}
}

func difficultyChangeLine(p Progression) models.Dialogue {
	level := strings.ToUpper(string(p.Difficulty))
	if p.Reason == models.ReasonPromoted {
		return models.Dialogue{Text: fmt.Sprintf("Impressive streak! You've been promoted to %s difficulty. Let's see if you can handle this!", level)}
	}
	return models.Dialogue{Text: fmt.Sprintf("Struggling, are we? Difficulty decreased to %s. Even the devil shows mercy... sometimes.", level)}
}

func blessingLine() models.Dialogue {
	return models.Dialogue{Text: "A 5-win streak... Impressive. You've been blessed with Feverish Focus, granting 1.5x XP for 5 minutes."}
}

func curseLine() models.Dialogue {
	return models.Dialogue{Text: "You're faltering. You've been cursed with Crippling Doubt! Your XP gains are halved for 5 minutes."}
}

func levelUpLine(level int, rank string) models.Dialogue {
	return models.Dialogue{Text: fmt.Sprintf("You've reached Level %d! Your new rank is %s. Don't get cocky.", level, rank)}
}
