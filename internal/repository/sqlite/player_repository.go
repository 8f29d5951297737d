package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/models"
	"github.com/vytor/banishment/internal/repository"
)

const playerSelect = `
SELECT id, username, level, xp, xp_to_next_level, rank, correct_answers, max_session_streak,
       effect_type, effect_name, effect_modifier, effect_expires_at, created_at
FROM players
`

type playerRepository struct {
	db *sql.DB
}

// NewPlayerRepository creates a new PlayerRepository implementation
func NewPlayerRepository(db *sql.DB) repository.PlayerRepository {
	return &playerRepository{db: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadPlayer(ctx context.Context, q queryer, where string, arg any) (*models.Player, error) {
	var (
		p          models.Player
		effectType string
		expiresAt  sql.NullTime
	)
	err := q.QueryRowContext(ctx, playerSelect+where, arg).Scan(
		&p.ID, &p.Username, &p.Level, &p.XP, &p.XPToNextLevel, &p.Rank, &p.CorrectAnswers, &p.MaxSessionStreak,
		&effectType, &p.Effect.Name, &p.Effect.Modifier, &expiresAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Effect.Kind = models.EffectKind(effectType)
	p.Effect.ExpiresAt = timePtr(expiresAt)

	rows, err := q.QueryContext(ctx, `
SELECT subject, sub_topic, correct, total_attempted
FROM player_progress
WHERE player_id = ?
ORDER BY rowid ASC
`, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tp models.TopicProgress
		if err := rows.Scan(&tp.Subject, &tp.SubTopic, &tp.Correct, &tp.TotalAttempted); err != nil {
			return nil, err
		}
		p.Progress = append(p.Progress, tp)
	}
	return &p, rows.Err()
}

func (r *playerRepository) Get(ctx context.Context, id int64) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("getting player: id=%d", id)

	p, err := loadPlayer(ctx, r.db, `WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("player not found: id=%d", id)
		} else {
			log.Error("failed to get player: %v", err)
		}
		return nil, err
	}
	log.Debug("player found: username=%s, level=%d, topics=%d", p.Username, p.Level, len(p.Progress))
	return p, nil
}

func (r *playerRepository) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")

	p, err := loadPlayer(ctx, r.db, `WHERE username = ?`, username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to get player by username: %v", err)
		}
		return nil, err
	}
	return p, nil
}

// Create inserts a new player, or returns the existing one with that username.
func (r *playerRepository) Create(ctx context.Context, username string) (*models.Player, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("creating player: username=%s", username)

	fresh := models.NewPlayer(username)
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO players (username, level, xp, xp_to_next_level, rank, effect_modifier)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(username) DO UPDATE SET username = excluded.username
RETURNING id
`, fresh.Username, fresh.Level, fresh.XP, fresh.XPToNextLevel, fresh.Rank, fresh.Effect.Modifier).Scan(&id)
	if err != nil {
		log.Error("failed to create player: %v", err)
		return nil, err
	}
	log.Debug("player upserted: id=%d", id)
	return r.Get(ctx, id)
}

func savePlayer(ctx context.Context, tx *sql.Tx, p *models.Player) error {
	res, err := tx.ExecContext(ctx, `
UPDATE players
SET level = ?, xp = ?, xp_to_next_level = ?, rank = ?, correct_answers = ?, max_session_streak = ?,
    effect_type = ?, effect_name = ?, effect_modifier = ?, effect_expires_at = ?
WHERE id = ?
`, p.Level, p.XP, p.XPToNextLevel, p.Rank, p.CorrectAnswers, p.MaxSessionStreak,
		string(p.Effect.Kind), p.Effect.Name, p.Effect.Modifier, nullTime(p.Effect.ExpiresAt), p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return sql.ErrNoRows
	}

	for _, tp := range p.Progress {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO player_progress (player_id, subject, sub_topic, correct, total_attempted)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(player_id, subject, sub_topic) DO UPDATE SET
    correct = excluded.correct,
    total_attempted = excluded.total_attempted
`, p.ID, tp.Subject, tp.SubTopic, tp.Correct, tp.TotalAttempted); err != nil {
			return err
		}
	}
	return nil
}
