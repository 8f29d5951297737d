package models

// Dialogue is a persona line. AudioURL is empty for lines without a recording.
type Dialogue struct {
	Text     string `json:"text"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// Penance is the cosmetic punishment shown on game over.
type Penance struct {
	Task  string `json:"task"`
	Quote string `json:"quote"`
}

// GradingMethod records how an answer was judged.
type GradingMethod string

const (
	GradedExact       GradingMethod = "exact"
	GradedJudge       GradingMethod = "judge"
	GradedSimilarity  GradingMethod = "similarity"
	GradedUnsupported GradingMethod = "unsupported"
	GradedTimeout     GradingMethod = "timeout"
)

// Verdict is the validator's result for one answer.
type Verdict struct {
	IsCorrect bool          `json:"is_correct"`
	Feedback  string        `json:"feedback,omitempty"`
	Method    GradingMethod `json:"method"`
	// Similarity is set only when Method is GradedSimilarity.
	Similarity float64 `json:"similarity,omitempty"`
}

type SessionSummary struct {
	QuestionsCompleted int                `json:"questions_completed"`
	CorrectAnswers     int                `json:"correct_answers"`
	IncorrectAnswers   int                `json:"incorrect_answers"`
	FinalScore         int                `json:"final_score"`
	TotalXPGained      int                `json:"total_xp_gained"`
	MaxCorrectStreak   int                `json:"max_correct_streak"`
	DurationSeconds    int                `json:"session_duration"`
	CompletionReason   CompletionReason   `json:"completion_reason"`
	HighestDifficulty  Difficulty         `json:"highest_difficulty"`
	DifficultyLog      []DifficultyChange `json:"difficulty_log"`
}

type SessionProgress struct {
	CurrentQuestion      int        `json:"current_question"`
	QuestionLimit        int        `json:"question_limit,omitempty"`
	CorrectAnswers       int        `json:"correct_answers"`
	IncorrectAnswers     int        `json:"incorrect_answers"`
	CurrentDifficulty    Difficulty `json:"current_difficulty"`
	CorrectStreak        int        `json:"correct_streak"`
	ConsecutiveCorrect   int        `json:"consecutive_correct"`
	ConsecutiveIncorrect int        `json:"consecutive_incorrect"`
}

type PlayerStats struct {
	StrikesLeft   int          `json:"strikes_left"`
	Score         int          `json:"score"`
	XP            int          `json:"xp"`
	Level         int          `json:"level"`
	Rank          string       `json:"rank"`
	XPToNextLevel int          `json:"xp_to_next_level"`
	ActiveEffect  ActiveEffect `json:"active_effect"`
}

type TurnResult string

const (
	ResultCorrect   TurnResult = "correct"
	ResultIncorrect TurnResult = "incorrect"
	ResultTimeout   TurnResult = "timeout"
)

// TurnOutcome is returned for every answer or timeout.
type TurnOutcome struct {
	SessionID         string           `json:"session_id"`
	Result            TurnResult       `json:"result"`
	Feedback          Dialogue         `json:"feedback"`
	ExecutionFeedback string           `json:"execution_feedback,omitempty"`
	GradedBy          GradingMethod    `json:"graded_by"`
	XPGained          int              `json:"xp_gained"`
	LevelsGained      int              `json:"levels_gained,omitempty"`
	IsGameOver        bool             `json:"is_game_over"`
	Punishment        *Penance         `json:"punishment,omitempty"`
	Summary           *SessionSummary  `json:"session_summary,omitempty"`
	NextQuestion      *Question        `json:"next_question,omitempty"`
	Progress          *SessionProgress `json:"session_progress,omitempty"`
	Stats             PlayerStats      `json:"updated_stats"`
}

type SessionInfo struct {
	Kind              SessionKind `json:"kind"`
	CurrentQuestion   int         `json:"current_question"`
	QuestionLimit     int         `json:"question_limit,omitempty"`
	Subject           string      `json:"subject"`
	SubTopic          string      `json:"sub_topic,omitempty"`
	CurrentDifficulty Difficulty  `json:"difficulty"`
	StrikesLeft       int         `json:"strikes_left"`
}

// StartOutcome is returned when a gauntlet or drill begins, and when an active
// session is resumed.
type StartOutcome struct {
	SessionID string      `json:"session_id"`
	Question  *Question   `json:"question"`
	Info      SessionInfo `json:"session_info"`
	Feedback  Dialogue    `json:"feedback"`
	// WeakestLink is the drilled topic, set only for weakness drills.
	WeakestLink *TopicProgress `json:"weakest_link,omitempty"`
}

type QuitOutcome struct {
	Message string         `json:"message"`
	Summary SessionSummary `json:"session_summary"`
}
