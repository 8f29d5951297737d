package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/models"
	"github.com/vytor/banishment/internal/repository"
)

var sessionColumns = []string{
	"id", "player_id", "kind", "subject", "sub_topic", "question_limit",
	"strikes_left", "score", "question_index", "correct_answers", "incorrect_answers",
	"correct_streak", "max_correct_streak", "total_xp_gained",
	"start_difficulty", "current_difficulty", "consecutive_correct", "consecutive_incorrect",
	"difficulty_log", "question_history", "active", "completion_reason",
	"started_at", "ended_at", "created_at", "version",
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		s                         models.Session
		kind, startDiff, currDiff string
		reason, diffLog, history  string
		endedAt                   sql.NullTime
	)
	err := row.Scan(
		&s.ID, &s.PlayerID, &kind, &s.Subject, &s.SubTopic, &s.QuestionLimit,
		&s.StrikesLeft, &s.Score, &s.QuestionIndex, &s.CorrectAnswers, &s.IncorrectAnswers,
		&s.CorrectStreak, &s.MaxCorrectStreak, &s.TotalXPGained,
		&startDiff, &currDiff, &s.ConsecutiveCorrect, &s.ConsecutiveIncorrect,
		&diffLog, &history, &s.Active, &reason,
		&s.StartedAt, &endedAt, &s.CreatedAt, &s.Version,
	)
	if err != nil {
		return nil, err
	}
	s.Kind = models.SessionKind(kind)
	s.StartDifficulty = models.Difficulty(startDiff)
	s.CurrentDifficulty = models.Difficulty(currDiff)
	s.CompletionReason = models.CompletionReason(reason)
	s.EndedAt = timePtr(endedAt)

	if s.DifficultyLog, err = decodeJSON[models.DifficultyChange](diffLog); err != nil {
		return nil, fmt.Errorf("decode difficulty log for session %s: %w", s.ID, err)
	}
	if s.QuestionHistory, err = decodeJSON[int64](history); err != nil {
		return nil, fmt.Errorf("decode question history for session %s: %w", s.ID, err)
	}
	return &s, nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%s", id)

	sqlStr, args, err := sqlBuilder.Select(sessionColumns...).From("sessions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	s, err := scanSession(r.db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found: id=%s", id)
		} else {
			log.Error("failed to get session: %v", err)
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) GetActive(ctx context.Context, playerID int64) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	sqlStr, args, err := sqlBuilder.Select(sessionColumns...).From("sessions").
		Where(squirrel.Eq{"player_id": playerID, "active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	s, err := scanSession(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no active session: player_id=%d", playerID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get active session: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) Insert(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, player_id=%d, kind=%s", s.ID, s.PlayerID, s.Kind)

	diffLog, err := encodeJSON(s.DifficultyLog)
	if err != nil {
		return err
	}
	history, err := encodeJSON(s.QuestionHistory)
	if err != nil {
		return err
	}
	if s.Version == 0 {
		s.Version = 1
	}

	sqlStr, args, err := sqlBuilder.Insert("sessions").Columns(sessionColumns...).Values(
		s.ID, s.PlayerID, string(s.Kind), s.Subject, s.SubTopic, s.QuestionLimit,
		s.StrikesLeft, s.Score, s.QuestionIndex, s.CorrectAnswers, s.IncorrectAnswers,
		s.CorrectStreak, s.MaxCorrectStreak, s.TotalXPGained,
		string(s.StartDifficulty), string(s.CurrentDifficulty), s.ConsecutiveCorrect, s.ConsecutiveIncorrect,
		diffLog, history, s.Active, string(s.CompletionReason),
		s.StartedAt, nullTime(s.EndedAt), s.CreatedAt, s.Version,
	).ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if isUniqueViolation(err) {
			log.Warn("player %d already has an active session", s.PlayerID)
			return repository.ErrActiveSessionExists
		}
		log.Error("failed to insert session: %v", err)
		return err
	}
	return nil
}

func (r *sessionRepository) CommitTurn(ctx context.Context, s *models.Session, p *models.Player) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("committing turn: session=%s, version=%d, active=%t", s.ID, s.Version, s.Active)

	diffLog, err := encodeJSON(s.DifficultyLog)
	if err != nil {
		return err
	}
	history, err := encodeJSON(s.QuestionHistory)
	if err != nil {
		return err
	}

	sqlStr, args, err := sqlBuilder.Update("sessions").SetMap(map[string]any{
		"strikes_left":          s.StrikesLeft,
		"score":                 s.Score,
		"question_index":        s.QuestionIndex,
		"correct_answers":       s.CorrectAnswers,
		"incorrect_answers":     s.IncorrectAnswers,
		"correct_streak":        s.CorrectStreak,
		"max_correct_streak":    s.MaxCorrectStreak,
		"total_xp_gained":       s.TotalXPGained,
		"current_difficulty":    string(s.CurrentDifficulty),
		"consecutive_correct":   s.ConsecutiveCorrect,
		"consecutive_incorrect": s.ConsecutiveIncorrect,
		"difficulty_log":        diffLog,
		"question_history":      history,
		"active":                s.Active,
		"completion_reason":     string(s.CompletionReason),
		"ended_at":              nullTime(s.EndedAt),
		"version":               squirrel.Expr("version + 1"),
	}).Where(squirrel.Eq{"id": s.ID, "version": s.Version, "active": true}).ToSql()
	if err != nil {
		return err
	}

	err = tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrStaleSession
		}
		if p != nil {
			if err := savePlayer(ctx, tx, p); err != nil {
				return fmt.Errorf("save player %d: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleSession) {
			log.Warn("stale turn rejected: session=%s, version=%d", s.ID, s.Version)
		} else {
			log.Error("failed to commit turn: %v", err)
		}
		return err
	}

	s.Version++
	log.Debug("turn committed: session=%s, version=%d", s.ID, s.Version)
	return nil
}

func (r *sessionRepository) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	if limit <= 0 {
		limit = 20
	}
	sqlStr, args, err := sqlBuilder.Select(sessionColumns...).From("sessions").
		Where(squirrel.Eq{"player_id": playerID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	log.Debug("found %d sessions for player %d", len(sessions), playerID)
	return sessions, rows.Err()
}
