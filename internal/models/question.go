package models

import "strings"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every level in ascending order. It is also the fallback
// order used when broadening a question lookup.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty accepts the lowercase names only.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), true
	}
	return "", false
}

// Level returns 1, 2 or 3 for easy, medium and hard, and 0 otherwise.
func (d Difficulty) Level() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionInteger     QuestionType = "integer"
	QuestionCode        QuestionType = "code"
	QuestionDescription QuestionType = "description"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMCQ, QuestionInteger, QuestionCode, QuestionDescription:
		return true
	}
	return false
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// Question is read-only to the gauntlet engine. CorrectAnswer holds the option
// index for mcq, the value for integer and the reference solution for code.
type Question struct {
	ID            int64        `json:"id"`
	Subject       string       `json:"subject"`
	SubTopic      string       `json:"sub_topic,omitempty"`
	Difficulty    Difficulty   `json:"difficulty"`
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"-"`
	TestCases     []TestCase   `json:"-"`
	TimerSeconds  int          `json:"timer_seconds,omitempty"`
}

// TopicKey identifies the progress bucket a question counts towards.
func (q Question) TopicKey() string {
	return TopicKey(q.Subject, q.SubTopic)
}

// TopicKey joins subject and sub-topic as "Subject-SubTopic", or returns the
// subject alone when there is no sub-topic.
func TopicKey(subject, subTopic string) string {
	if strings.TrimSpace(subTopic) == "" {
		return subject
	}
	return subject + "-" + subTopic
}

// QuestionFilter narrows a question lookup. Zero-valued fields are ignored.
type QuestionFilter struct {
	Subject    string
	Difficulty Difficulty
	SubTopic   string
	ExcludeIDs []int64
}
