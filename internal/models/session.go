package models

import (
	"slices"
	"time"
)

// MaxStrikes is the number of wrong answers a session survives minus one.
const MaxStrikes = 3

type SessionKind string

const (
	SessionGauntlet SessionKind = "gauntlet"
	SessionDrill    SessionKind = "drill"
)

type CompletionReason string

const (
	ReasonCompleted CompletionReason = "completed"
	ReasonFailed    CompletionReason = "failed"
	ReasonAbandoned CompletionReason = "abandoned"
)

const (
	ReasonPromoted = "promoted_for_streak"
	ReasonDemoted  = "demoted_for_mistakes"
)

type DifficultyChange struct {
	QuestionIndex int        `json:"question_index"`
	Difficulty    Difficulty `json:"difficulty"`
	Reason        string     `json:"reason"`
}

type Session struct {
	ID       string      `json:"id"`
	PlayerID int64       `json:"player_id"`
	Kind     SessionKind `json:"kind"`
	Subject  string      `json:"subject"`
	SubTopic string      `json:"sub_topic,omitempty"`
	// QuestionLimit caps the number of answered questions; 0 means unlimited.
	QuestionLimit int `json:"question_limit"`

	StrikesLeft      int `json:"strikes_left"`
	Score            int `json:"score"`
	QuestionIndex    int `json:"question_index"`
	CorrectAnswers   int `json:"correct_answers"`
	IncorrectAnswers int `json:"incorrect_answers"`
	CorrectStreak    int `json:"correct_streak"`
	MaxCorrectStreak int `json:"max_correct_streak"`
	TotalXPGained    int `json:"total_xp_gained"`

	StartDifficulty      Difficulty         `json:"start_difficulty"`
	CurrentDifficulty    Difficulty         `json:"current_difficulty"`
	ConsecutiveCorrect   int                `json:"consecutive_correct"`
	ConsecutiveIncorrect int                `json:"consecutive_incorrect"`
	DifficultyLog        []DifficultyChange `json:"difficulty_log"`

	QuestionHistory []int64 `json:"question_history"`

	Active           bool             `json:"active"`
	CompletionReason CompletionReason `json:"completion_reason,omitempty"`
	StartedAt        time.Time        `json:"started_at"`
	EndedAt          *time.Time       `json:"ended_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`

	// Version is bumped on every persisted turn and guards against lost updates.
	Version int `json:"-"`
}

// HasSeen reports whether the question was already presented in this session.
func (s *Session) HasSeen(questionID int64) bool {
	return slices.Contains(s.QuestionHistory, questionID)
}

// CurrentQuestionID returns the question awaiting an answer, or 0.
func (s *Session) CurrentQuestionID() int64 {
	if len(s.QuestionHistory) == 0 {
		return 0
	}
	return s.QuestionHistory[len(s.QuestionHistory)-1]
}

// HighestDifficulty is the hardest level the session reached, counting its start.
func (s *Session) HighestDifficulty() Difficulty {
	highest := s.StartDifficulty
	for _, c := range s.DifficultyLog {
		if c.Difficulty.Level() > highest.Level() {
			highest = c.Difficulty
		}
	}
	if highest == "" {
		return DifficultyEasy
	}
	return highest
}

// Duration is the elapsed play time, measured to now while the session is active.
func (s *Session) Duration(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}

// Clone returns a deep copy so a turn can be applied and discarded on failure.
func (s *Session) Clone() *Session {
	c := *s
	c.DifficultyLog = slices.Clone(s.DifficultyLog)
	c.QuestionHistory = slices.Clone(s.QuestionHistory)
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	return &c
}
