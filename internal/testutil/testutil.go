package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/banishment/internal/db"
	"github.com/vytor/banishment/internal/models"
)

// NewTestDB creates an in-memory SQLite database with the production migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// FixedClock returns a clock function pinned to the given instant.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// InsertPlayer creates a player row directly and returns its id.
func InsertPlayer(t *testing.T, sqlDB *sql.DB, username string) int64 {
	res, err := sqlDB.Exec(`INSERT INTO players (username) VALUES (?)`, username)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertQuestion creates a question row directly and returns its id.
func InsertQuestion(t *testing.T, sqlDB *sql.DB, q models.Question) int64 {
	if q.Type == "" {
		q.Type = models.QuestionMCQ
	}
	if q.Prompt == "" {
		q.Prompt = "prompt"
	}
	res, err := sqlDB.Exec(`INSERT INTO questions (subject, sub_topic, difficulty, type, prompt, correct_answer) VALUES (?, ?, ?, ?, ?, ?)`,
		q.Subject, q.SubTopic, string(q.Difficulty), string(q.Type), q.Prompt, q.CorrectAnswer)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
