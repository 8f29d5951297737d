package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/vytor/banishment/internal/errors"
	"github.com/vytor/banishment/internal/gauntlet"
	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/models"
	"github.com/vytor/banishment/internal/repository"
)

const maxUsernameLength = 32

// TopicStat is one progress entry with its success rate.
type TopicStat struct {
	models.TopicProgress
	Topic       string  `json:"topic"`
	SuccessRate float64 `json:"success_rate"`
}

// PlayerProgress is the player's per-topic record and current weakest link.
type PlayerProgress struct {
	Player      *models.Player        `json:"player"`
	Topics      []TopicStat           `json:"topics"`
	WeakestLink *models.TopicProgress `json:"weakest_link"`
}

// SessionHistoryEntry summarizes one past or current session.
type SessionHistoryEntry struct {
	SessionID string                `json:"session_id"`
	Kind      models.SessionKind    `json:"kind"`
	Subject   string                `json:"subject"`
	SubTopic  string                `json:"sub_topic,omitempty"`
	Active    bool                  `json:"active"`
	StartedAt time.Time             `json:"started_at"`
	Summary   models.SessionSummary `json:"summary"`
}

// PlayerService handles player-related business logic
type PlayerService interface {
	CreatePlayer(ctx context.Context, username string) (*models.Player, error)
	GetPlayer(ctx context.Context, id int64) (*models.Player, error)
	GetProgress(ctx context.Context, id int64) (*PlayerProgress, error)
	ListSessions(ctx context.Context, id int64, limit int) ([]SessionHistoryEntry, error)
}

type playerService struct {
	playerRepo  repository.PlayerRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

// NewPlayerService creates a new PlayerService
func NewPlayerService(playerRepo repository.PlayerRepository, sessionRepo repository.SessionRepository) PlayerService {
	return &playerService{playerRepo: playerRepo, sessionRepo: sessionRepo, now: time.Now}
}

func (s *playerService) CreatePlayer(ctx context.Context, username string) (*models.Player, error) {
	log := logger.FromContext(ctx)
	username = strings.TrimSpace(username)
	log.Debug("creating player: username=%s", username)

	if username == "" {
		return nil, errors.NewValidationError("username", "cannot be empty")
	}
	if len(username) > maxUsernameLength {
		return nil, errors.NewValidationError("username", "must be at most 32 characters")
	}

	player, err := s.playerRepo.Create(ctx, username)
	if err != nil {
		log.Error("failed to create player: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return player, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting player: id=%d", id)

	player, err := s.playerRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("player", id)
		}
		log.Error("failed to get player: %v", err)
		return nil, errors.NewInternalError(err)
	}
	player.ClearExpiredEffect(s.now())
	return player, nil
}

func (s *playerService) GetProgress(ctx context.Context, id int64) (*PlayerProgress, error) {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	topics := make([]TopicStat, 0, len(player.Progress))
	for _, tp := range player.Progress {
		topics = append(topics, TopicStat{TopicProgress: tp, Topic: tp.Key(), SuccessRate: gauntlet.SuccessRate(tp)})
	}
	return &PlayerProgress{
		Player:      player,
		Topics:      topics,
		WeakestLink: gauntlet.FindWeakestLink(player.Progress),
	}, nil
}

func (s *playerService) ListSessions(ctx context.Context, id int64, limit int) ([]SessionHistoryEntry, error) {
	log := logger.FromContext(ctx)

	if _, err := s.GetPlayer(ctx, id); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByPlayer(ctx, id, limit)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.now()
	entries := make([]SessionHistoryEntry, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		entries = append(entries, SessionHistoryEntry{
			SessionID: sess.ID,
			Kind:      sess.Kind,
			Subject:   sess.Subject,
			SubTopic:  sess.SubTopic,
			Active:    sess.Active,
			StartedAt: sess.StartedAt,
			Summary:   gauntlet.Summarize(sess, now),
		})
	}
	return entries, nil
}
