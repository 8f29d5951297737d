package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/banishment/internal/models"
	"github.com/vytor/banishment/internal/repository"
	"github.com/vytor/banishment/internal/repository/sqlite"
	"github.com/vytor/banishment/internal/testutil"
)

type SessionRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	sessions repository.SessionRepository
	players  repository.PlayerRepository
	player   *models.Player
}

func (s *SessionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.sessions = sqlite.NewSessionRepository(s.db)
	s.players = sqlite.NewPlayerRepository(s.db)

	p, err := s.players.Create(context.Background(), "imp")
	s.Require().NoError(err)
	s.player = p
}

func (s *SessionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionRepositorySuite) newSession() models.Session {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.Session{
		ID:                uuid.NewString(),
		PlayerID:          s.player.ID,
		Kind:              models.SessionGauntlet,
		Subject:           "JavaScript",
		StrikesLeft:       models.MaxStrikes,
		StartDifficulty:   models.DifficultyEasy,
		CurrentDifficulty: models.DifficultyEasy,
		QuestionHistory:   []int64{7},
		Active:            true,
		StartedAt:         now,
		CreatedAt:         now,
	}
}

func (s *SessionRepositorySuite) TestCreatePlayer_Defaults() {
	s.Equal(1, s.player.Level)
	s.Equal(models.StartingXPToNextLevel, s.player.XPToNextLevel)
	s.Equal(models.StartingRank, s.player.Rank)
	s.Equal(1.0, s.player.Effect.Modifier)
	s.Empty(s.player.Progress)

	again, err := s.players.Create(context.Background(), "imp")
	s.Require().NoError(err)
	s.Equal(s.player.ID, again.ID)
}

func (s *SessionRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	sess := s.newSession()
	s.Require().NoError(s.sessions.Insert(ctx, sess))

	got, err := s.sessions.Get(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(sess.Subject, got.Subject)
	s.Equal([]int64{7}, got.QuestionHistory)
	s.Empty(got.DifficultyLog)
	s.True(got.Active)
	s.Nil(got.EndedAt)
	s.Equal(1, got.Version)
	s.True(sess.StartedAt.Equal(got.StartedAt))

	active, err := s.sessions.GetActive(ctx, s.player.ID)
	s.Require().NoError(err)
	s.Require().NotNil(active)
	s.Equal(sess.ID, active.ID)
}

func (s *SessionRepositorySuite) TestInsert_SecondActiveSessionRejected() {
	ctx := context.Background()
	s.Require().NoError(s.sessions.Insert(ctx, s.newSession()))

	err := s.sessions.Insert(ctx, s.newSession())
	s.ErrorIs(err, repository.ErrActiveSessionExists)
}

func (s *SessionRepositorySuite) TestCommitTurn_PersistsSessionAndPlayer() {
	ctx := context.Background()
	sess := s.newSession()
	s.Require().NoError(s.sessions.Insert(ctx, sess))
	sess.Version = 1

	sess.Score = 10
	sess.QuestionIndex = 1
	sess.QuestionHistory = append(sess.QuestionHistory, 8)
	sess.DifficultyLog = []models.DifficultyChange{{QuestionIndex: 0, Difficulty: models.DifficultyMedium, Reason: models.ReasonPromoted}}

	expires := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	player := s.player.Clone()
	player.XP = 10
	player.Effect = models.ActiveEffect{Kind: models.EffectBlessing, Name: "Feverish Focus", Modifier: 1.5, ExpiresAt: &expires}
	player.RecordAttempt("JavaScript", "", true)
	player.RecordAttempt("JavaScript", "Arrays", false)

	s.Require().NoError(s.sessions.CommitTurn(ctx, &sess, player))
	s.Equal(2, sess.Version)

	got, err := s.sessions.Get(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(10, got.Score)
	s.Equal([]int64{7, 8}, got.QuestionHistory)
	s.Require().Len(got.DifficultyLog, 1)
	s.Equal(models.DifficultyMedium, got.DifficultyLog[0].Difficulty)

	reloaded, err := s.players.Get(ctx, s.player.ID)
	s.Require().NoError(err)
	s.Equal(10, reloaded.XP)
	s.Equal(models.EffectBlessing, reloaded.Effect.Kind)
	s.Require().NotNil(reloaded.Effect.ExpiresAt)
	s.True(expires.Equal(*reloaded.Effect.ExpiresAt))
	s.Require().Len(reloaded.Progress, 2)
	s.Equal("JavaScript", reloaded.Progress[0].Key())
	s.Equal("JavaScript-Arrays", reloaded.Progress[1].Key())
	s.Equal(0, reloaded.Progress[1].Correct)
	s.Equal(1, reloaded.Progress[1].TotalAttempted)
}

func (s *SessionRepositorySuite) TestCommitTurn_StaleVersionWritesNothing() {
	ctx := context.Background()
	sess := s.newSession()
	s.Require().NoError(s.sessions.Insert(ctx, sess))
	sess.Version = 1

	racer := sess.Clone()
	racer.Score = 50
	s.Require().NoError(s.sessions.CommitTurn(ctx, racer, nil))

	sess.Score = 10
	player := s.player.Clone()
	player.XP = 999
	err := s.sessions.CommitTurn(ctx, &sess, player)
	s.ErrorIs(err, repository.ErrStaleSession)

	got, err := s.sessions.Get(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(50, got.Score)

	reloaded, err := s.players.Get(ctx, s.player.ID)
	s.Require().NoError(err)
	s.Zero(reloaded.XP)
}

func (s *SessionRepositorySuite) TestCommitTurn_TerminalSessionRejected() {
	ctx := context.Background()
	sess := s.newSession()
	s.Require().NoError(s.sessions.Insert(ctx, sess))
	sess.Version = 1

	ended := sess.StartedAt.Add(time.Minute)
	quit := sess.Clone()
	quit.Active = false
	quit.CompletionReason = models.ReasonAbandoned
	quit.EndedAt = &ended
	s.Require().NoError(s.sessions.CommitTurn(ctx, quit, nil))

	again := quit.Clone()
	err := s.sessions.CommitTurn(ctx, again, nil)
	s.ErrorIs(err, repository.ErrStaleSession)

	active, err := s.sessions.GetActive(ctx, s.player.ID)
	s.Require().NoError(err)
	s.Nil(active)

	// a new session may start once the previous one ended
	s.NoError(s.sessions.Insert(ctx, s.newSession()))
}

func (s *SessionRepositorySuite) TestProgressCheckConstraint() {
	_, err := s.db.Exec(`INSERT INTO player_progress (player_id, subject, correct, total_attempted) VALUES (?, 'Go', 2, 1)`, s.player.ID)
	s.Error(err)
}

func (s *SessionRepositorySuite) TestListByPlayer() {
	ctx := context.Background()
	first := s.newSession()
	first.Active = false
	first.CompletionReason = models.ReasonFailed
	s.Require().NoError(s.sessions.Insert(ctx, first))

	second := s.newSession()
	second.CreatedAt = second.CreatedAt.Add(time.Hour)
	s.Require().NoError(s.sessions.Insert(ctx, second))

	list, err := s.sessions.ListByPlayer(ctx, s.player.ID, 10)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(models.ReasonFailed, list[1].CompletionReason)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
