package repository

import (
	"context"
	"errors"

	"github.com/vytor/banishment/internal/models"
)

var (
	// ErrStaleSession is returned by CommitTurn when the session changed or ended
	// since it was read. Nothing is written.
	ErrStaleSession = errors.New("session modified concurrently")
	// ErrActiveSessionExists is returned when a player already has an active session.
	ErrActiveSessionExists = errors.New("player already has an active session")
)

// QuestionRepository handles question bank access
type QuestionRepository interface {
	// FindOne returns a random question matching the filter, or nil when none match.
	FindOne(ctx context.Context, filter models.QuestionFilter) (*models.Question, error)
	DistinctSubjects(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id int64) (*models.Question, error)
	Insert(ctx context.Context, q models.Question) (int64, error)
	InsertBatch(ctx context.Context, qs []models.Question) ([]int64, error)
	Count(ctx context.Context) (int, error)
}

// PlayerRepository handles player records including their topic progress
type PlayerRepository interface {
	Get(ctx context.Context, id int64) (*models.Player, error)
	GetByUsername(ctx context.Context, username string) (*models.Player, error)
	Create(ctx context.Context, username string) (*models.Player, error)
}

// SessionRepository handles gauntlet sessions
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	// GetActive returns the player's active session, or nil when there is none.
	GetActive(ctx context.Context, playerID int64) (*models.Session, error)
	Insert(ctx context.Context, session models.Session) error
	// CommitTurn persists a mutated session and, when non-nil, its player in one
	// transaction. The write only succeeds if the stored session is still active
	// and at session.Version; on success session.Version is incremented.
	CommitTurn(ctx context.Context, session *models.Session, player *models.Player) error
	ListByPlayer(ctx context.Context, playerID int64, limit int) ([]models.Session, error)
}
