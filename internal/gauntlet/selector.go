package gauntlet

import (
	"context"
	"fmt"

	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/models"
)

// QuestionFinder is the slice of the question store the selector needs.
type QuestionFinder interface {
	FindOne(ctx context.Context, filter models.QuestionFilter) (*models.Question, error)
}

// Selector picks the next unseen question for a session.
type Selector struct {
	questions QuestionFinder
}

func NewSelector(questions QuestionFinder) *Selector {
	return &Selector{questions: questions}
}

// Next looks for an unseen question at the session's current difficulty, then
// at each level in ascending order, then at any difficulty. It returns nil
// when the session's scope is exhausted. The returned question carries its
// timer.
func (s *Selector) Next(ctx context.Context, session *models.Session) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("selector")

	base := models.QuestionFilter{
		Subject:    session.Subject,
		SubTopic:   session.SubTopic,
		ExcludeIDs: session.QuestionHistory,
	}

	attempts := make([]models.Difficulty, 0, len(models.Difficulties)+2)
	attempts = append(attempts, session.CurrentDifficulty)
	for _, d := range models.Difficulties {
		if d != session.CurrentDifficulty {
			attempts = append(attempts, d)
		}
	}
	attempts = append(attempts, "") // no difficulty filter

	for _, d := range attempts {
		filter := base
		filter.Difficulty = d
		q, err := s.questions.FindOne(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("find question (difficulty=%q): %w", d, err)
		}
		if q == nil {
			continue
		}
		if session.HasSeen(q.ID) {
			return nil, fmt.Errorf("question store returned seen question %d", q.ID)
		}
		if d != session.CurrentDifficulty {
			log.Debug("broadened lookup: wanted=%s, got=%s, question=%d", session.CurrentDifficulty, q.Difficulty, q.ID)
		}
		q.TimerSeconds = TimerSeconds(q.Difficulty, q.Type)
		return q, nil
	}

	log.Debug("no unseen questions left: subject=%s, sub_topic=%s, seen=%d", session.Subject, session.SubTopic, len(session.QuestionHistory))
	return nil, nil
}
