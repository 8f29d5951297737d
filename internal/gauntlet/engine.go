package gauntlet

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/banishment/internal/errors"
	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/models"
)

// Engine drives session state transitions. It mutates the session and player
// it is given and performs no persistence; callers pass copies and commit the
// result only when the transition succeeds.
type Engine struct {
	selector *Selector
	persona  *Persona
	penances PenanceCatalog
	rng      Rand
	now      func() time.Time
}

func NewEngine(selector *Selector, persona *Persona, penances PenanceCatalog, rng Rand, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{selector: selector, persona: persona, penances: penances, rng: rng, now: now}
}

// StartRequest describes a new session.
type StartRequest struct {
	PlayerID      int64
	Kind          models.SessionKind
	Subject       string
	SubTopic      string
	Difficulty    models.Difficulty
	QuestionLimit int
}

// Start builds a new active session and draws its first question.
func (e *Engine) Start(ctx context.Context, req StartRequest) (*models.Session, *models.StartOutcome, error) {
	log := logger.FromContext(ctx).WithPrefix("gauntlet")

	if strings.TrimSpace(req.Subject) == "" {
		return nil, nil, errors.NewValidationError("subject", "cannot be empty")
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyEasy
	}
	if _, ok := models.ParseDifficulty(string(difficulty)); !ok {
		return nil, nil, errors.NewValidationError("difficulty", "must be easy, medium or hard")
	}
	kind := req.Kind
	if kind == "" {
		kind = models.SessionGauntlet
	}

	now := e.now()
	s := &models.Session{
		ID:                uuid.NewString(),
		PlayerID:          req.PlayerID,
		Kind:              kind,
		Subject:           req.Subject,
		SubTopic:          req.SubTopic,
		QuestionLimit:     req.QuestionLimit,
		StrikesLeft:       models.MaxStrikes,
		StartDifficulty:   difficulty,
		CurrentDifficulty: difficulty,
		Active:            true,
		StartedAt:         now,
		CreatedAt:         now,
		Version:           1,
	}

	q, err := e.selector.Next(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	if q == nil {
		scope := models.TopicKey(req.Subject, req.SubTopic)
		log.Warn("no questions available for %s", scope)
		return nil, nil, errors.NewNotFoundError("questions for subject", scope)
	}
	s.QuestionHistory = append(s.QuestionHistory, q.ID)

	log.Info("session started: id=%s, player=%d, kind=%s, subject=%s, difficulty=%s",
		s.ID, s.PlayerID, s.Kind, models.TopicKey(s.Subject, s.SubTopic), s.CurrentDifficulty)

	return s, &models.StartOutcome{
		SessionID: s.ID,
		Question:  q,
		Info:      SessionInfoFor(s),
		Feedback:  e.persona.Line(TriggerSessionStart),
	}, nil
}

// ApplyAnswer applies a graded answer to the current question.
func (e *Engine) ApplyAnswer(ctx context.Context, s *models.Session, p *models.Player, q *models.Question, v models.Verdict) (*models.TurnOutcome, error) {
	return e.applyTurn(ctx, s, p, q, v, false)
}

// ApplyTimeout applies an expired timer: an incorrect answer without grading.
func (e *Engine) ApplyTimeout(ctx context.Context, s *models.Session, p *models.Player, q *models.Question) (*models.TurnOutcome, error) {
	return e.applyTurn(ctx, s, p, q, models.Verdict{Method: models.GradedTimeout}, true)
}

func (e *Engine) applyTurn(ctx context.Context, s *models.Session, p *models.Player, q *models.Question, v models.Verdict, timedOut bool) (*models.TurnOutcome, error) {
	log := logger.FromContext(ctx).WithPrefix("gauntlet")

	if !s.Active {
		return nil, errors.NewSessionOverError(s.ID)
	}
	now := e.now()
	clearExpiredEffect(p, now)

	correct := v.IsCorrect && !timedOut
	out := &models.TurnOutcome{
		SessionID:         s.ID,
		Result:            models.ResultIncorrect,
		ExecutionFeedback: v.Feedback,
		GradedBy:          v.Method,
	}
	if timedOut {
		out.Result = models.ResultTimeout
		out.ExecutionFeedback = ""
	}

	var special *models.Dialogue
	if correct {
		out.Result = models.ResultCorrect
		s.CorrectAnswers++
		s.CorrectStreak++
		if s.CorrectStreak > s.MaxCorrectStreak {
			s.MaxCorrectStreak = s.CorrectStreak
		}

		xp := xpFor(q.Difficulty, p.Effect, now)
		out.XPGained = xp
		p.XP += xp
		p.CorrectAnswers++
		s.Score += xp
		s.TotalXPGained += xp
		p.RecordAttempt(q.Subject, q.SubTopic, true)

		if s.CorrectStreak == BlessingStreak && p.Effect.Kind == models.EffectNone {
			p.Effect = Blessing(now)
			line := blessingLine()
			special = &line
			log.Info("blessing granted: player=%d", p.ID)
		}
		if out.LevelsGained = levelUp(p); out.LevelsGained > 0 {
			line := levelUpLine(p.Level, p.Rank)
			special = &line
			log.Info("level up: player=%d, level=%d, rank=%s", p.ID, p.Level, p.Rank)
		}
	} else {
		s.IncorrectAnswers++
		if s.StrikesLeft > 0 {
			s.StrikesLeft--
		}
		s.CorrectStreak = 0
		p.RecordAttempt(q.Subject, q.SubTopic, false)

		if s.CorrectStreak == 0 && s.StrikesLeft == 1 && p.Effect.Kind == models.EffectNone {
			p.Effect = Curse(now)
			line := curseLine()
			special = &line
			log.Info("curse applied: player=%d", p.ID)
		}
	}

	prog := applyProgression(s, correct)
	if prog.Changed {
		log.Debug("difficulty changed: session=%s, difficulty=%s, reason=%s", s.ID, prog.Difficulty, prog.Reason)
	}

	switch {
	case timedOut:
		out.Feedback = TimeoutLine(q.Difficulty, q.Type)
	case special != nil:
		out.Feedback = *special
	case prog.Changed:
		out.Feedback = difficultyChangeLine(prog)
	default:
		out.Feedback = e.persona.AnswerLine(correct, q.Difficulty)
	}

	s.QuestionIndex++

	if s.StrikesLeft == 0 {
		e.finish(s, p, models.ReasonFailed, now)
		penance := e.penances.Pick(e.rng)
		out.IsGameOver = true
		out.Punishment = &penance
		if !timedOut {
			out.Feedback = e.persona.Line(TriggerGameOver)
		}
		summary := Summarize(s, now)
		out.Summary = &summary
		out.Stats = StatsFor(s, p)
		log.Info("session failed: id=%s, answered=%d, score=%d", s.ID, s.QuestionIndex, s.Score)
		return out, nil
	}

	var next *models.Question
	if s.QuestionLimit == 0 || s.QuestionIndex < s.QuestionLimit {
		var err error
		if next, err = e.selector.Next(ctx, s); err != nil {
			return nil, err
		}
	}
	if next == nil {
		e.finish(s, p, models.ReasonCompleted, now)
		out.IsGameOver = true
		out.Feedback = e.persona.Line(TriggerSessionWin)
		summary := Summarize(s, now)
		out.Summary = &summary
		out.Stats = StatsFor(s, p)
		log.Info("session completed: id=%s, answered=%d, score=%d", s.ID, s.QuestionIndex, s.Score)
		return out, nil
	}

	s.QuestionHistory = append(s.QuestionHistory, next.ID)
	out.NextQuestion = next
	progress := ProgressFor(s)
	out.Progress = &progress
	out.Stats = StatsFor(s, p)
	return out, nil
}

// Quit abandons an active session.
func (e *Engine) Quit(ctx context.Context, s *models.Session, p *models.Player) (*models.QuitOutcome, error) {
	if !s.Active {
		return nil, errors.NewSessionOverError(s.ID)
	}
	now := e.now()
	e.finish(s, p, models.ReasonAbandoned, now)
	logger.FromContext(ctx).WithPrefix("gauntlet").Info("session abandoned: id=%s, answered=%d", s.ID, s.QuestionIndex)
	return &models.QuitOutcome{
		Message: "Session ended voluntarily",
		Summary: Summarize(s, now),
	}, nil
}

// finish terminates the session exactly once.
func (e *Engine) finish(s *models.Session, p *models.Player, reason models.CompletionReason, now time.Time) {
	s.Active = false
	s.CompletionReason = reason
	ended := now
	s.EndedAt = &ended
	if p != nil && s.QuestionIndex > p.MaxSessionStreak {
		p.MaxSessionStreak = s.QuestionIndex
	}
}

// Summarize reports the session totals as of now.
func Summarize(s *models.Session, now time.Time) models.SessionSummary {
	return models.SessionSummary{
		QuestionsCompleted: s.QuestionIndex,
		CorrectAnswers:     s.CorrectAnswers,
		IncorrectAnswers:   s.IncorrectAnswers,
		FinalScore:         s.Score,
		TotalXPGained:      s.TotalXPGained,
		MaxCorrectStreak:   s.MaxCorrectStreak,
		DurationSeconds:    int(math.Round(s.Duration(now).Seconds())),
		CompletionReason:   s.CompletionReason,
		HighestDifficulty:  s.HighestDifficulty(),
		DifficultyLog:      s.DifficultyLog,
	}
}

func ProgressFor(s *models.Session) models.SessionProgress {
	return models.SessionProgress{
		CurrentQuestion:      s.QuestionIndex + 1,
		QuestionLimit:        s.QuestionLimit,
		CorrectAnswers:       s.CorrectAnswers,
		IncorrectAnswers:     s.IncorrectAnswers,
		CurrentDifficulty:    s.CurrentDifficulty,
		CorrectStreak:        s.CorrectStreak,
		ConsecutiveCorrect:   s.ConsecutiveCorrect,
		ConsecutiveIncorrect: s.ConsecutiveIncorrect,
	}
}

func StatsFor(s *models.Session, p *models.Player) models.PlayerStats {
	return models.PlayerStats{
		StrikesLeft:   s.StrikesLeft,
		Score:         s.Score,
		XP:            p.XP,
		Level:         p.Level,
		Rank:          p.Rank,
		XPToNextLevel: p.XPToNextLevel,
		ActiveEffect:  p.Effect,
	}
}

func SessionInfoFor(s *models.Session) models.SessionInfo {
	return models.SessionInfo{
		Kind:              s.Kind,
		CurrentQuestion:   s.QuestionIndex + 1,
		QuestionLimit:     s.QuestionLimit,
		Subject:           s.Subject,
		SubTopic:          s.SubTopic,
		CurrentDifficulty: s.CurrentDifficulty,
		StrikesLeft:       s.StrikesLeft,
	}
}
