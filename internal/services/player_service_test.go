package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/banishment/internal/errors"
	"github.com/vytor/banishment/internal/models"
	"github.com/vytor/banishment/internal/repository/sqlite"
	"github.com/vytor/banishment/internal/services"
	"github.com/vytor/banishment/internal/testutil"
)

type PlayerServiceSuite struct {
	suite.Suite
	ctx context.Context
	db  *sql.DB
	svc services.PlayerService
}

func (s *PlayerServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.svc = services.NewPlayerService(sqlite.NewPlayerRepository(s.db), sqlite.NewSessionRepository(s.db))
}

func (s *PlayerServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PlayerServiceSuite) TestCreatePlayer() {
	p, err := s.svc.CreatePlayer(s.ctx, "  lucifer ")
	s.Require().NoError(err)
	s.Equal("lucifer", p.Username)
	s.Equal(1, p.Level)
	s.Equal(models.StartingRank, p.Rank)

	again, err := s.svc.CreatePlayer(s.ctx, "lucifer")
	s.Require().NoError(err)
	s.Equal(p.ID, again.ID, "creating an existing username returns it")

	_, err = s.svc.CreatePlayer(s.ctx, "")
	s.True(errors.HasCode(err, errors.ErrCodeValidation))
	_, err = s.svc.CreatePlayer(s.ctx, "abcdefghijklmnopqrstuvwxyz0123456789")
	s.True(errors.HasCode(err, errors.ErrCodeValidation))
}

func (s *PlayerServiceSuite) TestGetPlayer_NotFound() {
	_, err := s.svc.GetPlayer(s.ctx, 404)
	s.True(errors.HasCode(err, errors.ErrCodeNotFound))
}

func (s *PlayerServiceSuite) TestGetProgress_WeakestLink() {
	p, err := s.svc.CreatePlayer(s.ctx, "imp")
	s.Require().NoError(err)
	_, err = s.db.Exec(`INSERT INTO player_progress (player_id, subject, sub_topic, correct, total_attempted) VALUES (?, 'JS', 'Arrays', 1, 5), (?, 'JS', 'Loops', 4, 4), (?, 'Python', '', 0, 2)`,
		p.ID, p.ID, p.ID)
	s.Require().NoError(err)

	progress, err := s.svc.GetProgress(s.ctx, p.ID)
	s.Require().NoError(err)

	s.Require().Len(progress.Topics, 3)
	s.Equal("JS-Arrays", progress.Topics[0].Topic)
	s.InDelta(0.2, progress.Topics[0].SuccessRate, 1e-9)
	s.Equal("Python", progress.Topics[2].Topic)
	s.Require().NotNil(progress.WeakestLink)
	s.Equal("Arrays", progress.WeakestLink.SubTopic)
}

func (s *PlayerServiceSuite) TestGetPlayer_ClearsExpiredEffect() {
	p, err := s.svc.CreatePlayer(s.ctx, "imp")
	s.Require().NoError(err)
	_, err = s.db.Exec(`UPDATE players SET effect_type = 'blessing', effect_name = 'Feverish Focus', effect_modifier = 1.5, effect_expires_at = ? WHERE id = ?`,
		time.Now().UTC().Add(-time.Minute), p.ID)
	s.Require().NoError(err)

	got, err := s.svc.GetPlayer(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(models.NoEffect(), got.Effect)

	progress, err := s.svc.GetProgress(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(models.NoEffect(), progress.Player.Effect)
}

func (s *PlayerServiceSuite) TestGetPlayer_KeepsLiveEffect() {
	p, err := s.svc.CreatePlayer(s.ctx, "imp")
	s.Require().NoError(err)
	_, err = s.db.Exec(`UPDATE players SET effect_type = 'blessing', effect_name = 'Feverish Focus', effect_modifier = 1.5, effect_expires_at = ? WHERE id = ?`,
		time.Now().UTC().Add(time.Hour), p.ID)
	s.Require().NoError(err)

	got, err := s.svc.GetPlayer(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(models.EffectBlessing, got.Effect.Kind)
	s.True(got.Effect.IsActive(time.Now()))
}

func (s *PlayerServiceSuite) TestListSessions() {
	p, err := s.svc.CreatePlayer(s.ctx, "imp")
	s.Require().NoError(err)

	entries, err := s.svc.ListSessions(s.ctx, p.ID, 10)
	s.Require().NoError(err)
	s.Empty(entries)

	_, err = s.svc.ListSessions(s.ctx, 404, 10)
	s.True(errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestPlayerServiceSuite(t *testing.T) {
	suite.Run(t, new(PlayerServiceSuite))
}
