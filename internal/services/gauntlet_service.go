package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vytor/banishment/internal/errors"
	"github.com/vytor/banishment/internal/events"
	"github.com/vytor/banishment/internal/gauntlet"
	"github.com/vytor/banishment/internal/jobs"
	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/metrics"
	"github.com/vytor/banishment/internal/models"
	"github.com/vytor/banishment/internal/repository"
	"github.com/vytor/banishment/internal/sessionlock"
)

// DefaultSubjects is served while the question bank is empty.
var DefaultSubjects = []string{"Data Structures", "JavaScript", "Python"}

// AnswerValidator grades a submitted answer. Implementations never fail; a
// degraded grading path is reported through the verdict's method.
type AnswerValidator interface {
	Validate(ctx context.Context, answer string, q *models.Question) models.Verdict
}

// StartGauntletRequest holds the player's choices for a new gauntlet.
type StartGauntletRequest struct {
	Subject    string
	SubTopic   string
	Difficulty models.Difficulty
}

// CurrentSession is a resumable view of a player's active session.
type CurrentSession struct {
	SessionID string                 `json:"session_id"`
	Question  *models.Question       `json:"question"`
	Info      models.SessionInfo     `json:"session_info"`
	Progress  models.SessionProgress `json:"progress"`
	Stats     models.PlayerStats     `json:"stats"`
}

// GauntletService handles gauntlet sessions for a player
type GauntletService interface {
	Subjects(ctx context.Context) ([]string, error)
	StartGauntlet(ctx context.Context, playerID int64, req StartGauntletRequest) (*models.StartOutcome, error)
	StartWeaknessDrill(ctx context.Context, playerID int64) (*models.StartOutcome, error)
	CurrentSession(ctx context.Context, playerID int64) (*CurrentSession, error)
	SubmitAnswer(ctx context.Context, playerID int64, sessionID string, questionID int64, answer string) (*models.TurnOutcome, error)
	HandleTimeout(ctx context.Context, playerID int64, sessionID string, questionID int64) (*models.TurnOutcome, error)
	QuitSession(ctx context.Context, playerID int64, sessionID string) (*models.QuitOutcome, error)
}

type gauntletService struct {
	questionRepo repository.QuestionRepository
	playerRepo   repository.PlayerRepository
	sessionRepo  repository.SessionRepository
	engine       *gauntlet.Engine
	validator    AnswerValidator
	locker       sessionlock.Locker
	queue        jobs.EventQueue
	metrics      *metrics.Metrics
	now          func() time.Time
}

// GauntletDeps wires a GauntletService. Locker defaults to an in-process lock;
// Queue and Metrics are optional.
type GauntletDeps struct {
	Questions repository.QuestionRepository
	Players   repository.PlayerRepository
	Sessions  repository.SessionRepository
	Engine    *gauntlet.Engine
	Validator AnswerValidator
	Locker    sessionlock.Locker
	Queue     jobs.EventQueue
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// NewGauntletService creates a new GauntletService
func NewGauntletService(deps GauntletDeps) GauntletService {
	locker := deps.Locker
	if locker == nil {
		locker = sessionlock.NewLocal()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &gauntletService{
		questionRepo: deps.Questions,
		playerRepo:   deps.Players,
		sessionRepo:  deps.Sessions,
		engine:       deps.Engine,
		validator:    deps.Validator,
		locker:       locker,
		queue:        deps.Queue,
		metrics:      deps.Metrics,
		now:          now,
	}
}

func (s *gauntletService) Subjects(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	subjects, err := s.questionRepo.DistinctSubjects(ctx)
	if err != nil {
		log.Error("failed to list subjects: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(subjects) == 0 {
		log.Debug("question bank is empty, using default subjects")
		subjects = append([]string(nil), DefaultSubjects...)
	}
	sort.Strings(subjects)
	return subjects, nil
}

func (s *gauntletService) StartGauntlet(ctx context.Context, playerID int64, req StartGauntletRequest) (*models.StartOutcome, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting gauntlet: player=%d, subject=%s, difficulty=%s", playerID, req.Subject, req.Difficulty)

	return s.start(ctx, playerID, gauntlet.StartRequest{
		PlayerID:   playerID,
		Kind:       models.SessionGauntlet,
		Subject:    strings.TrimSpace(req.Subject),
		SubTopic:   strings.TrimSpace(req.SubTopic),
		Difficulty: req.Difficulty,
	})
}

func (s *gauntletService) StartWeaknessDrill(ctx context.Context, playerID int64) (*models.StartOutcome, error) {
	log := logger.FromContext(ctx)

	player, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	weakest := gauntlet.FindWeakestLink(player.Progress)
	if weakest == nil {
		log.Debug("no weakest link for player %d (%d topics tracked)", playerID, len(player.Progress))
		return nil, errors.NewBadRequestError("The Devil hasn't found your weakness yet. Play more trials!")
	}
	log.Info("starting weakness drill: player=%d, topic=%s, rate=%.2f", playerID, weakest.Key(), gauntlet.SuccessRate(*weakest))

	out, err := s.start(ctx, playerID, gauntlet.StartRequest{
		PlayerID:      playerID,
		Kind:          models.SessionDrill,
		Subject:       weakest.Subject,
		SubTopic:      weakest.SubTopic,
		QuestionLimit: gauntlet.DrillLength,
	})
	if err != nil {
		return nil, err
	}
	out.WeakestLink = weakest
	return out, nil
}

func (s *gauntletService) start(ctx context.Context, playerID int64, req gauntlet.StartRequest) (*models.StartOutcome, error) {
	log := logger.FromContext(ctx)

	release, err := s.acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.loadPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	active, err := s.sessionRepo.GetActive(ctx, playerID)
	if err != nil {
		log.Error("failed to look up active session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if active != nil {
		return nil, errors.NewConflictError(fmt.Sprintf("player already has an active session %s; quit it first", active.ID))
	}

	session, out, err := s.engine.Start(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Insert(ctx, *session); err != nil {
		if stderrors.Is(err, repository.ErrActiveSessionExists) {
			return nil, errors.NewConflictError("player already has an active session; quit it first")
		}
		log.Error("failed to save session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.metrics.SessionStarted(string(session.Kind))
	s.publish(ctx, events.Event{
		Type:       events.SessionStarted,
		PlayerID:   playerID,
		SessionID:  session.ID,
		OccurredAt: session.StartedAt,
		Payload: map[string]any{
			"kind":       session.Kind,
			"subject":    session.Subject,
			"sub_topic":  session.SubTopic,
			"difficulty": session.CurrentDifficulty,
		},
	})
	return out, nil
}

func (s *gauntletService) CurrentSession(ctx context.Context, playerID int64) (*CurrentSession, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessionRepo.GetActive(ctx, playerID)
	if err != nil {
		log.Error("failed to look up active session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("active session for player", playerID)
	}
	player, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	q, err := s.loadQuestion(ctx, session.CurrentQuestionID())
	if err != nil {
		return nil, err
	}
	q.TimerSeconds = gauntlet.TimerSeconds(q.Difficulty, q.Type)

	return &CurrentSession{
		SessionID: session.ID,
		Question:  q,
		Info:      gauntlet.SessionInfoFor(session),
		Progress:  gauntlet.ProgressFor(session),
		Stats:     gauntlet.StatsFor(session, player),
	}, nil
}

func (s *gauntletService) SubmitAnswer(ctx context.Context, playerID int64, sessionID string, questionID int64, answer string) (*models.TurnOutcome, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, errors.NewValidationError("answer", "cannot be empty")
	}
	return s.turn(ctx, playerID, sessionID, questionID, func(t *turnState) (*models.TurnOutcome, error) {
		verdict := s.validator.Validate(ctx, answer, t.question)
		return s.engine.ApplyAnswer(ctx, t.session, t.player, t.question, verdict)
	})
}

func (s *gauntletService) HandleTimeout(ctx context.Context, playerID int64, sessionID string, questionID int64) (*models.TurnOutcome, error) {
	return s.turn(ctx, playerID, sessionID, questionID, func(t *turnState) (*models.TurnOutcome, error) {
		return s.engine.ApplyTimeout(ctx, t.session, t.player, t.question)
	})
}

func (s *gauntletService) QuitSession(ctx context.Context, playerID int64, sessionID string) (*models.QuitOutcome, error) {
	log := logger.FromContext(ctx)

	release, err := s.acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, player, err := s.loadOwned(ctx, playerID, sessionID)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Quit(ctx, session, player)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, session, player); err != nil {
		return nil, err
	}
	log.Info("session quit: id=%s, player=%d", session.ID, playerID)

	s.sessionEnded(ctx, session, out.Summary)
	return out, nil
}

// turnState is the working copy a turn mutates; nothing is persisted unless
// the whole transition succeeds.
type turnState struct {
	session  *models.Session
	player   *models.Player
	question *models.Question
}

func (s *gauntletService) turn(ctx context.Context, playerID int64, sessionID string, questionID int64, apply func(*turnState) (*models.TurnOutcome, error)) (*models.TurnOutcome, error) {
	log := logger.FromContext(ctx)

	release, err := s.acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, player, err := s.loadOwned(ctx, playerID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Active {
		return nil, errors.NewSessionOverError(session.ID)
	}
	if questionID != session.CurrentQuestionID() {
		return nil, errors.NewValidationError("question_id", "is not the current question of this session")
	}
	q, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	before := player.Effect
	priorChanges := len(session.DifficultyLog)
	t := &turnState{session: session.Clone(), player: player.Clone(), question: q}

	out, err := apply(t)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, t.session, t.player); err != nil {
		return nil, err
	}
	log.Debug("turn committed: session=%s, result=%s, strikes=%d", t.session.ID, out.Result, t.session.StrikesLeft)

	s.metrics.AnswerProcessed(string(out.Result), string(out.GradedBy))
	for _, change := range t.session.DifficultyLog[priorChanges:] {
		s.metrics.DifficultyChanged(change.Reason)
	}
	now := s.now()
	if out.LevelsGained > 0 {
		s.publish(ctx, events.Event{
			Type:       events.LevelUp,
			PlayerID:   playerID,
			SessionID:  sessionID,
			OccurredAt: now,
			Payload:    map[string]any{"level": t.player.Level, "rank": t.player.Rank, "levels_gained": out.LevelsGained},
		})
	}
	if effect := t.player.Effect; effectGranted(before, effect) {
		s.metrics.EffectGranted(string(effect.Kind))
		s.publish(ctx, events.Event{
			Type:       events.EffectGranted,
			PlayerID:   playerID,
			SessionID:  sessionID,
			OccurredAt: now,
			Payload:    map[string]any{"kind": effect.Kind, "name": effect.Name, "modifier": effect.Modifier},
		})
	}
	if out.IsGameOver && out.Summary != nil {
		s.sessionEnded(ctx, t.session, *out.Summary)
	}
	return out, nil
}

// effectGranted reports whether after is a new effect rather than the one the
// player already carried.
func effectGranted(before, after models.ActiveEffect) bool {
	if after.Kind == models.EffectNone || after.ExpiresAt == nil {
		return false
	}
	if before.Kind != after.Kind || before.ExpiresAt == nil {
		return true
	}
	return !before.ExpiresAt.Equal(*after.ExpiresAt)
}

func (s *gauntletService) commit(ctx context.Context, session *models.Session, player *models.Player) error {
	if err := s.sessionRepo.CommitTurn(ctx, session, player); err != nil {
		if stderrors.Is(err, repository.ErrStaleSession) {
			logger.FromContext(ctx).Warn("lost update on session %s", session.ID)
			return errors.NewConflictError("session was modified by another request; reload it")
		}
		logger.FromContext(ctx).Error("failed to commit session %s: %v", session.ID, err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *gauntletService) sessionEnded(ctx context.Context, session *models.Session, summary models.SessionSummary) {
	s.metrics.SessionEnded(string(session.CompletionReason))
	occurred := s.now()
	if session.EndedAt != nil {
		occurred = *session.EndedAt
	}
	s.publish(ctx, events.Event{
		Type:       events.SessionEnded,
		PlayerID:   session.PlayerID,
		SessionID:  session.ID,
		OccurredAt: occurred,
		Payload: map[string]any{
			"reason":              summary.CompletionReason,
			"score":               summary.FinalScore,
			"questions_completed": summary.QuestionsCompleted,
			"highest_difficulty":  summary.HighestDifficulty,
		},
	})
}

// publish never fails the request; a dropped event is only logged.
func (s *gauntletService) publish(ctx context.Context, e events.Event) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(e); err != nil {
		logger.FromContext(ctx).Warn("dropping %s event: %v", e.Type, err)
		s.metrics.EventPublished(string(e.Type), err)
	}
}

func (s *gauntletService) acquire(ctx context.Context, playerID int64) (func(), error) {
	release, err := s.locker.Acquire(ctx, fmt.Sprintf("player:%d", playerID))
	if err != nil {
		if stderrors.Is(err, sessionlock.ErrLocked) {
			return nil, errors.NewConflictError("another request is already updating this session")
		}
		logger.FromContext(ctx).Error("failed to acquire session lock: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return release, nil
}

func (s *gauntletService) loadOwned(ctx context.Context, playerID int64, sessionID string) (*models.Session, *models.Player, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil, errors.NewNotFoundError("session", sessionID)
		}
		logger.FromContext(ctx).Error("failed to get session: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}
	if session.PlayerID != playerID {
		return nil, nil, errors.NewAuthorizationError("session belongs to another player")
	}
	player, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	return session, player, nil
}

func (s *gauntletService) loadPlayer(ctx context.Context, playerID int64) (*models.Player, error) {
	player, err := s.playerRepo.Get(ctx, playerID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("player", playerID)
		}
		logger.FromContext(ctx).Error("failed to get player: %v", err)
		return nil, errors.NewInternalError(err)
	}
	// expired effects are cleared on read; the next commit persists it
	player.ClearExpiredEffect(s.now())
	return player, nil
}

func (s *gauntletService) loadQuestion(ctx context.Context, id int64) (*models.Question, error) {
	q, err := s.questionRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("question", id)
		}
		logger.FromContext(ctx).Error("failed to get question: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return q, nil
}
