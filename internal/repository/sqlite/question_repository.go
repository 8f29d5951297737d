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

var questionColumns = []string{
	"id", "subject", "sub_topic", "difficulty", "type", "prompt", "options", "correct_answer", "test_cases",
}

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new QuestionRepository implementation
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var (
		q                  models.Question
		difficulty, qtype  string
		options, testCases string
	)
	if err := row.Scan(&q.ID, &q.Subject, &q.SubTopic, &difficulty, &qtype, &q.Prompt, &options, &q.CorrectAnswer, &testCases); err != nil {
		return nil, err
	}
	q.Difficulty = models.Difficulty(difficulty)
	q.Type = models.QuestionType(qtype)

	var err error
	if q.Options, err = decodeJSON[string](options); err != nil {
		return nil, fmt.Errorf("decode options for question %d: %w", q.ID, err)
	}
	if q.TestCases, err = decodeJSON[models.TestCase](testCases); err != nil {
		return nil, fmt.Errorf("decode test cases for question %d: %w", q.ID, err)
	}
	return &q, nil
}

func (r *questionRepository) FindOne(ctx context.Context, filter models.QuestionFilter) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("finding question: subject=%s, difficulty=%s, sub_topic=%s, excluded=%d",
		filter.Subject, filter.Difficulty, filter.SubTopic, len(filter.ExcludeIDs))

	query := sqlBuilder.Select(questionColumns...).From("questions")
	if filter.Subject != "" {
		query = query.Where(squirrel.Eq{"subject": filter.Subject})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": string(filter.Difficulty)})
	}
	if filter.SubTopic != "" {
		query = query.Where(squirrel.Eq{"sub_topic": filter.SubTopic})
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where(squirrel.NotEq{"id": filter.ExcludeIDs})
	}
	query = query.OrderBy("RANDOM()").Limit(1)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	q, err := scanQuestion(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no question matched")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to find question: %v", err)
		return nil, err
	}
	log.Debug("question found: id=%d", q.ID)
	return q, nil
}

func (r *questionRepository) DistinctSubjects(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT subject FROM questions ORDER BY subject ASC`)
	if err != nil {
		log.Error("failed to list subjects: %v", err)
		return nil, err
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	log.Debug("found %d subjects", len(subjects))
	return subjects, rows.Err()
}

func (r *questionRepository) Get(ctx context.Context, id int64) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	sqlStr, args, err := sqlBuilder.Select(questionColumns...).From("questions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	q, err := scanQuestion(r.db.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found: id=%d", id)
		} else {
			log.Error("failed to get question: %v", err)
		}
		return nil, err
	}
	return q, nil
}

func insertQuestion(ctx context.Context, exec interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, q models.Question) (int64, error) {
	options, err := encodeJSON(q.Options)
	if err != nil {
		return 0, err
	}
	testCases, err := encodeJSON(q.TestCases)
	if err != nil {
		return 0, err
	}
	sqlStr, args, err := sqlBuilder.Insert("questions").
		Columns("subject", "sub_topic", "difficulty", "type", "prompt", "options", "correct_answer", "test_cases").
		Values(q.Subject, q.SubTopic, string(q.Difficulty), string(q.Type), q.Prompt, options, q.CorrectAnswer, testCases).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := exec.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *questionRepository) Insert(ctx context.Context, q models.Question) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	id, err := insertQuestion(ctx, r.db, q)
	if err != nil {
		log.Error("failed to insert question: %v", err)
		return 0, err
	}
	log.Debug("question inserted: id=%d", id)
	return id, nil
}

func (r *questionRepository) InsertBatch(ctx context.Context, qs []models.Question) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("inserting batch of %d questions", len(qs))

	ids := make([]int64, 0, len(qs))
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for i, q := range qs {
			id, err := insertQuestion(ctx, tx, q)
			if err != nil {
				return fmt.Errorf("question %d: %w", i, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert question batch: %v", err)
		return nil, err
	}
	log.Info("inserted %d questions", len(ids))
	return ids, nil
}

func (r *questionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n)
	return n, err
}
